package evaluation

import (
	"github.com/rustyeddy/parlay/parlay"
	"github.com/rustyeddy/parlay/risk"
	"github.com/rustyeddy/parlay/suggest"
)

// Response is JSON-stable: field names do not change between releases.
type Response struct {
	ParlayID       string                   `json:"parlay_id"`
	Selections     []SelectionBreakdown     `json:"selections"`
	Metrics        parlay.Metrics           `json:"metrics"`
	Correlations   []parlay.Correlation     `json:"correlations"`
	Enforcement    parlay.EnforcementResult `json:"enforcement"`
	Classification risk.Classification      `json:"classification"`
	Recommendation risk.Recommendation      `json:"recommendation"`
	Suggestions    []parlay.Candidate       `json:"suggestions"`
	Excluded       []suggest.Exclusion      `json:"excluded,omitempty"`
}

type SelectionBreakdown struct {
	ID                 string                  `json:"id"`
	Sport              string                  `json:"sport"`
	GameID             string                  `json:"game_id"`
	BetType            parlay.BetType          `json:"bet_type"`
	Selection          string                  `json:"selection"`
	PlayerID           string                  `json:"player_id,omitempty"`
	TeamID             string                  `json:"team_id,omitempty"`
	Live               bool                    `json:"live"`
	BaseFragility      float64                 `json:"base_fragility"`
	ContextDelta       float64                 `json:"context_delta"`
	EffectiveFragility float64                 `json:"effective_fragility"`
	Modifiers          parlay.ContextModifiers `json:"modifiers"`
	Tags               []parlay.Tag            `json:"tags,omitempty"`
	// CorrelationPenalty is the share of kept pair penalties touching this leg.
	CorrelationPenalty int `json:"correlation_penalty"`
}

func newResponse(state parlay.State, c risk.Classification, rec risk.Recommendation) Response {
	corrs := state.Correlations()
	if corrs == nil {
		corrs = []parlay.Correlation{}
	}
	touching := make(map[string]int, state.Len())
	for _, corr := range corrs {
		touching[corr.SelectionA] += corr.Penalty
		touching[corr.SelectionB] += corr.Penalty
	}

	sels := state.Selections()
	breakdown := make([]SelectionBreakdown, 0, len(sels))
	for _, s := range sels {
		breakdown = append(breakdown, SelectionBreakdown{
			ID:                 s.ID(),
			Sport:              s.Sport(),
			GameID:             s.GameID(),
			BetType:            s.BetType(),
			Selection:          s.Text(),
			PlayerID:           s.PlayerID(),
			TeamID:             s.TeamID(),
			Live:               s.Live(),
			BaseFragility:      s.BaseFragility(),
			ContextDelta:       s.ContextDelta(),
			EffectiveFragility: s.EffectiveFragility(),
			Modifiers:          s.Modifiers(),
			Tags:               s.Tags(),
			CorrelationPenalty: touching[s.ID()],
		})
	}

	enf := state.Enforcement()
	if enf.Violations == nil {
		enf.Violations = []parlay.Violation{}
	}

	return Response{
		ParlayID:       state.ID(),
		Selections:     breakdown,
		Metrics:        state.Metrics(),
		Correlations:   corrs,
		Enforcement:    enf,
		Classification: c,
		Recommendation: rec,
		Suggestions:    []parlay.Candidate{},
	}
}
