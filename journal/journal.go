package journal

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rustyeddy/parlay/evaluation"
	"github.com/rustyeddy/parlay/pkg/id"
)

// EvaluationRecord is one evaluated slip as written to a journal. The
// full response is kept as JSON next to the searchable summary columns.
type EvaluationRecord struct {
	EvalID             string
	ParlayID           string
	Name               string
	Created            time.Time
	Legs               int
	FinalFragility     float64
	CorrelationPenalty int
	Multiplier         float64
	State              string
	Action             string
	StakeCap           float64
	Violations         []string
	Response           []byte
}

type Journal interface {
	RecordEvaluation(EvaluationRecord) error
	Close() error
}

// NewRecord summarises a response. The eval id is a fresh ULID; the
// parlay id comes from the response and repeats for identical slips.
func NewRecord(name string, resp evaluation.Response, created time.Time) (EvaluationRecord, error) {
	data, err := json.Marshal(resp)
	if err != nil {
		return EvaluationRecord{}, fmt.Errorf("marshal response: %w", err)
	}

	violations := make([]string, 0, len(resp.Enforcement.Violations))
	for _, v := range resp.Enforcement.Violations {
		violations = append(violations, string(v.Code))
	}

	return EvaluationRecord{
		EvalID:             id.New(),
		ParlayID:           resp.ParlayID,
		Name:               name,
		Created:            created.UTC(),
		Legs:               len(resp.Selections),
		FinalFragility:     resp.Metrics.FinalFragility,
		CorrelationPenalty: resp.Metrics.CorrelationPenalty,
		Multiplier:         resp.Metrics.CorrelationMultiplier,
		State:              resp.Classification.State.String(),
		Action:             string(resp.Recommendation.Action),
		StakeCap:           resp.Enforcement.StakeCap,
		Violations:         violations,
		Response:           data,
	}, nil
}

// DecodeResponse returns the stored response.
func (r EvaluationRecord) DecodeResponse() (evaluation.Response, error) {
	var resp evaluation.Response
	if err := json.Unmarshal(r.Response, &resp); err != nil {
		return evaluation.Response{}, fmt.Errorf("decode response %s: %w", r.EvalID, err)
	}
	return resp, nil
}

func joinCodes(codes []string) string {
	return strings.Join(codes, ",")
}

func splitCodes(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}

// Open returns the journal named by typ: "sqlite", "csv" or "none".
func Open(typ, csvPath, dbPath string) (Journal, error) {
	switch typ {
	case "sqlite":
		return NewSQLite(dbPath)
	case "csv":
		return NewCSV(csvPath)
	case "", "none":
		return Nop{}, nil
	}
	return nil, fmt.Errorf("unknown journal type %q", typ)
}

// Nop discards every record.
type Nop struct{}

func (Nop) RecordEvaluation(EvaluationRecord) error { return nil }
func (Nop) Close() error                            { return nil }
