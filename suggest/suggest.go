// Package suggest simulates candidate additions to a parlay and ranks them
// by the risk they add. Candidates are never materialized into the parlay.
package suggest

import (
	"sort"

	"github.com/rustyeddy/parlay/fragility"
	"github.com/rustyeddy/parlay/parlay"
	"github.com/rustyeddy/parlay/reducer"
)

const (
	// score = delta fragility + CorrelationWeight * delta correlation penalty
	DefaultCorrelationWeight = 0.5

	// Label bands on score. Adding any leg raises the leg penalty, so the
	// bands sit above the 2->3 leg step (about 19).
	DefaultLowestRiskMax = 25.0
	DefaultBalancedMax   = 35.0
)

// Exclusion reasons.
const (
	ReasonInvalid      = "invalid"
	ReasonDuplicate    = "duplicate"
	ReasonIncompatible = "incompatible"
	ReasonRejected     = "rejected"
)

type Engine struct {
	// Policy filters candidates. With a nil policy every candidate is
	// ranked and none is flagged DNA compatible.
	Policy            Policy
	CorrelationWeight float64
	LowestRiskMax     float64
	BalancedMax       float64
	// Limit caps the ranked list when positive.
	Limit int
}

func New(p Policy) *Engine {
	return &Engine{
		Policy:            p,
		CorrelationWeight: DefaultCorrelationWeight,
		LowestRiskMax:     DefaultLowestRiskMax,
		BalancedMax:       DefaultBalancedMax,
	}
}

// Exclusion records why a candidate was left out of the ranking.
type Exclusion struct {
	SelectionID string `json:"selection_id,omitempty"`
	Index       int    `json:"index"`
	Reason      string `json:"reason"`
	Detail      string `json:"detail,omitempty"`
}

type Result struct {
	Candidates []parlay.Candidate `json:"candidates"`
	Excluded   []Exclusion        `json:"excluded,omitempty"`
}

// Rank simulates each candidate on top of state. A candidate that cannot
// be simulated is excluded; it never aborts the others.
func (e *Engine) Rank(state parlay.State, candidates []parlay.Selection) Result {
	before := state.Metrics()
	res := Result{Candidates: []parlay.Candidate{}}
	var ranked []rankedCandidate
	seen := make(map[string]bool, len(candidates))

	for i, c := range candidates {
		if !c.Valid() {
			res.Excluded = append(res.Excluded, Exclusion{Index: i, Reason: ReasonInvalid, Detail: "not built with parlay.NewSelection"})
			continue
		}
		if _, in := state.Selection(c.ID()); in || seen[c.ID()] {
			res.Excluded = append(res.Excluded, Exclusion{SelectionID: c.ID(), Index: i, Reason: ReasonDuplicate})
			continue
		}
		seen[c.ID()] = true

		compatible := false
		if e.Policy != nil {
			ok, why := e.Policy.Compatible(c)
			if !ok {
				res.Excluded = append(res.Excluded, Exclusion{SelectionID: c.ID(), Index: i, Reason: ReasonIncompatible, Detail: why})
				continue
			}
			compatible = true
		}

		next, err := reducer.Add(state, c)
		if err != nil {
			res.Excluded = append(res.Excluded, Exclusion{SelectionID: c.ID(), Index: i, Reason: ReasonRejected, Detail: err.Error()})
			continue
		}

		after := next.Metrics()
		dF := after.FinalFragility - before.FinalFragility
		dC := after.CorrelationPenalty - before.CorrelationPenalty
		cand := parlay.Candidate{
			Selection:        c,
			DeltaFragility:   dF,
			DeltaCorrelation: dC,
			Score:            dF + e.CorrelationWeight*float64(dC),
			DNACompatible:    compatible,
		}
		// A clamped parlay hides added risk from the final delta.
		if after.FinalFragility >= fragility.MaxFragility {
			cand.Label = parlay.Elevated
		} else {
			cand.Label = e.label(cand.Score)
		}
		ranked = append(ranked, rankedCandidate{
			Candidate: cand,
			rawDelta:  after.RawFragility - before.RawFragility,
		})
	}

	rank(ranked)
	for _, r := range ranked {
		res.Candidates = append(res.Candidates, r.Candidate)
	}
	if e.Limit > 0 && len(res.Candidates) > e.Limit {
		res.Candidates = res.Candidates[:e.Limit]
	}
	return res
}

func (e *Engine) label(score float64) parlay.Label {
	switch {
	case score < e.LowestRiskMax:
		return parlay.LowestRisk
	case score < e.BalancedMax:
		return parlay.Balanced
	default:
		return parlay.Elevated
	}
}

type rankedCandidate struct {
	parlay.Candidate
	rawDelta float64
}

// rank orders lowest added risk first; ties fall back to delta fragility,
// raw fragility delta (which still moves once the final score is clamped),
// delta correlation, then id so the order never depends on input order.
func rank(cs []rankedCandidate) {
	sort.SliceStable(cs, func(i, j int) bool {
		a, b := cs[i], cs[j]
		if a.Score != b.Score {
			return a.Score < b.Score
		}
		if a.DeltaFragility != b.DeltaFragility {
			return a.DeltaFragility < b.DeltaFragility
		}
		if a.rawDelta != b.rawDelta {
			return a.rawDelta < b.rawDelta
		}
		if a.DeltaCorrelation != b.DeltaCorrelation {
			return a.DeltaCorrelation < b.DeltaCorrelation
		}
		return a.Selection.ID() < b.Selection.ID()
	})
}
