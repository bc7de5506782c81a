package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/parlay/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query the evaluation journal",
	Long: `Query and display evaluations recorded in the SQLite journal.

Subcommands:
  show   - Show a specific evaluation by ID
  today  - List evaluations recorded today
  day    - List evaluations recorded on a specific day

Examples:
  parlay journal show <eval-id>
  parlay journal today
  parlay journal day 2026-01-04`,
}

var journalShowCmd = &cobra.Command{
	Use:   "show <eval-id>",
	Short: "Show a specific evaluation",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalShow,
}

var journalTodayCmd = &cobra.Command{
	Use:   "today",
	Short: "List evaluations recorded today",
	Args:  cobra.NoArgs,
	RunE:  runJournalToday,
}

var journalDayCmd = &cobra.Command{
	Use:   "day <YYYY-MM-DD>",
	Short: "List evaluations recorded on a specific day",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalDay,
}

var (
	journalDBPath string
	journalFull   bool
)

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalShowCmd)
	journalCmd.AddCommand(journalTodayCmd)
	journalCmd.AddCommand(journalDayCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "./parlay.sqlite", "path to SQLite journal DB")
	journalShowCmd.Flags().BoolVar(&journalFull, "full", false, "render the full stored report")
}

func runJournalShow(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	rec, err := j.GetEvaluation(args[0])
	if err != nil {
		return fmt.Errorf("get evaluation: %w", err)
	}

	out := cmd.OutOrStdout()
	if !journalFull {
		fmt.Fprintln(out, journal.FormatEvaluationOrg(rec))
		return nil
	}

	resp, err := rec.DecodeResponse()
	if err != nil {
		return err
	}
	return journal.WriteReportOrg(out, rec.Name, resp, rec.Created)
}

func runJournalToday(cmd *cobra.Command, args []string) error {
	return listJournalDay(cmd, time.Now().In(time.Local).Format("2006-01-02"))
}

func runJournalDay(cmd *cobra.Command, args []string) error {
	return listJournalDay(cmd, args[0])
}

func listJournalDay(cmd *cobra.Command, day string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	start, end, err := dayBounds(time.Local, day)
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}

	recs, err := j.ListEvaluationsBetween(start, end)
	if err != nil {
		return fmt.Errorf("query evaluations: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatEvaluationsOrg(recs))
	return nil
}

func dayBounds(loc *time.Location, day string) (time.Time, time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", day, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1)
	return start, end, nil
}
