package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/parlay/config"
	"github.com/rustyeddy/parlay/pkg/logging"
)

var rootCmd = &cobra.Command{
	Use:   "parlay",
	Short: "Deterministic fragility scoring for parlay bet slips",
	Long: `Parlay scores how fragile a multi-leg bet is before it is placed.

It provides tools for:
  - Evaluating bet slips: fragility, correlations, risk state and stake cap
  - Ranking candidate legs by how little risk they add
  - Journaling evaluations to SQLite or CSV
  - Serving the evaluator over HTTP

Complete documentation is available at https://github.com/rustyeddy/parlay`,
	SilenceUsage: true,
}

var (
	cfgFile  string
	logLevel string
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (defaults are used when empty)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log.level from the config")
}

// loadConfig returns the --config file or the defaults.
func loadConfig() (*config.Config, error) {
	if cfgFile == "" {
		return config.Default(), nil
	}
	cfg, err := config.LoadFromFile(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	return logging.New(level, cfg.Log.Development)
}
