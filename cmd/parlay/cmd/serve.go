package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/parlay/internal/server"
	"github.com/rustyeddy/parlay/journal"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the evaluator over HTTP",
	Long: `Run the HTTP API until interrupted.

Routes:
  GET  /health
  POST /api/v1/evaluate
  GET  /api/v1/evaluations/{evalID}

Example:
  parlay serve -c parlay.yaml --port 8085`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var servePort int

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "override server.port from the config")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Server.Port = servePort
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	j, err := journal.Open(cfg.Journal.Type, cfg.Journal.CSVFile, cfg.Journal.DBPath)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer j.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("starting",
		zap.Int("port", cfg.Server.Port),
		zap.String("journal", cfg.Journal.Type),
		zap.Float64("fragility_tolerance", cfg.Profile.FragilityTolerance),
		zap.Int("max_legs", cfg.Profile.MaxLegs),
	)
	return server.New(cfg, j, log).ListenAndServe(ctx)
}
