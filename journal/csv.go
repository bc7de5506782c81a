package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"sync"
	"time"
)

var csvHeader = []string{
	"eval_id", "parlay_id", "name", "created", "legs", "final_fragility",
	"correlation_penalty", "multiplier", "state", "action", "stake_cap", "violations",
}

// CSVJournal appends evaluation summaries to a CSV file, writing the
// header only when the file is new or empty. The full response is not
// written; use the SQLite journal to keep it.
type CSVJournal struct {
	mu sync.Mutex
	w  *csv.Writer
	fh *os.File
}

func NewCSV(path string) (*CSVJournal, error) {
	fh, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	info, err := fh.Stat()
	if err != nil {
		_ = fh.Close()
		return nil, err
	}

	w := csv.NewWriter(fh)
	if info.Size() == 0 {
		if err := w.Write(csvHeader); err != nil {
			_ = fh.Close()
			return nil, err
		}
		w.Flush()
		if err := w.Error(); err != nil {
			_ = fh.Close()
			return nil, err
		}
	}

	return &CSVJournal{w: w, fh: fh}, nil
}

func (j *CSVJournal) RecordEvaluation(r EvaluationRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	err := j.w.Write([]string{
		r.EvalID,
		r.ParlayID,
		r.Name,
		r.Created.UTC().Format(time.RFC3339),
		strconv.Itoa(r.Legs),
		f(r.FinalFragility),
		strconv.Itoa(r.CorrelationPenalty),
		f(r.Multiplier),
		r.State,
		r.Action,
		strconv.FormatFloat(r.StakeCap, 'f', 2, 64),
		joinCodes(r.Violations),
	})
	if err != nil {
		return err
	}

	j.w.Flush()
	return j.w.Error()
}

func (j *CSVJournal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.w.Flush()
	if err := j.w.Error(); err != nil {
		return err
	}
	return j.fh.Close()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
