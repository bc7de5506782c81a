package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rustyeddy/parlay/config"
	"github.com/rustyeddy/parlay/evaluation"
	"github.com/rustyeddy/parlay/journal"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate <slip>...",
	Short: "Evaluate one or more bet slips",
	Long: `Score bet slip files (YAML or JSON) and print the result.

Slips are evaluated concurrently and printed in argument order.

Examples:
  parlay evaluate sunday.yaml
  parlay evaluate --format org sunday.yaml monday.yaml
  parlay evaluate --journal -c parlay.yaml sunday.yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEvaluate,
}

var (
	evaluateFormat  string
	evaluateJournal bool
)

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().StringVarP(&evaluateFormat, "format", "f", "json", "output format: json or org")
	evaluateCmd.Flags().BoolVarP(&evaluateJournal, "journal", "j", false, "record each evaluation in the configured journal")
}

type slipResult struct {
	name string
	resp evaluation.Response
}

type namedResponse struct {
	Name     string              `json:"name"`
	Response evaluation.Response `json:"response"`
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	if evaluateFormat != "json" && evaluateFormat != "org" {
		return fmt.Errorf("unknown format %q", evaluateFormat)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	results, err := evaluateSlips(cmd, cfg, args, log)
	if err != nil {
		return err
	}

	now := time.Now()
	if evaluateJournal {
		if err := recordResults(cfg, results, now); err != nil {
			return err
		}
	}

	return writeResults(cmd.OutOrStdout(), evaluateFormat, results, now)
}

func evaluateSlips(cmd *cobra.Command, cfg *config.Config, paths []string, log *zap.Logger) ([]slipResult, error) {
	ev := cfg.Evaluator()
	results := make([]slipResult, len(paths))

	g, ctx := errgroup.WithContext(cmd.Context())
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			slip, err := config.LoadSlip(path)
			if err != nil {
				return err
			}
			resp, err := ev.EvaluateRequest(slip.Request(cfg))
			if err != nil {
				return fmt.Errorf("evaluate %s: %w", path, err)
			}

			name := slip.Name
			if name == "" {
				name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			}
			log.Debug("evaluated",
				zap.String("slip", name),
				zap.String("parlay_id", resp.ParlayID),
				zap.Float64("final_fragility", resp.Metrics.FinalFragility),
				zap.Stringer("state", resp.Classification.State),
			)
			results[i] = slipResult{name: name, resp: resp}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func recordResults(cfg *config.Config, results []slipResult, now time.Time) error {
	j, err := journal.Open(cfg.Journal.Type, cfg.Journal.CSVFile, cfg.Journal.DBPath)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer j.Close()

	for _, r := range results {
		rec, err := journal.NewRecord(r.name, r.resp, now)
		if err != nil {
			return err
		}
		if err := j.RecordEvaluation(rec); err != nil {
			return fmt.Errorf("record %s: %w", r.name, err)
		}
	}
	return nil
}

func writeResults(w io.Writer, format string, results []slipResult, now time.Time) error {
	if format == "org" {
		for i, r := range results {
			if i > 0 {
				fmt.Fprintln(w)
			}
			if err := journal.WriteReportOrg(w, r.name, r.resp, now); err != nil {
				return err
			}
		}
		return nil
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if len(results) == 1 {
		return enc.Encode(results[0].resp)
	}
	out := make([]namedResponse, 0, len(results))
	for _, r := range results {
		out = append(out, namedResponse{Name: r.name, Response: r.resp})
	}
	return enc.Encode(out)
}
