// Package reducer builds parlay states. Build is the only constructor a
// caller should use for a parlay.State; Add and Remove rebuild from
// scratch instead of patching derived fields.
package reducer

import (
	"fmt"

	"github.com/rustyeddy/parlay/correlation"
	"github.com/rustyeddy/parlay/fragility"
	"github.com/rustyeddy/parlay/parlay"
	"github.com/rustyeddy/parlay/pkg/id"
	"github.com/rustyeddy/parlay/pkg/invariant"
)

// Build runs the fixed pipeline: validate the selections, detect
// correlations, compute the leg penalty, then raw and final fragility.
// The returned state carries an empty enforcement result.
func Build(selections []parlay.Selection) (parlay.State, error) {
	if len(selections) == 0 {
		return parlay.State{}, invariant.Errorf("a parlay needs at least one selection")
	}

	ids := make([]string, 0, len(selections))
	seen := make(map[string]int, len(selections))
	var blockSum float64
	for i, s := range selections {
		if !s.Valid() {
			return parlay.State{}, invariant.Errorf("selection %d was not built with parlay.NewSelection", i)
		}
		if j, dup := seen[s.ID()]; dup {
			return parlay.State{}, invariant.Errorf("selection %d duplicates selection %d (id %s)", i, j, s.ID())
		}
		seen[s.ID()] = i
		ids = append(ids, s.ID())
		blockSum += s.EffectiveFragility()
	}

	corr := correlation.Analyze(selections)
	if err := correlation.CheckMultiplier(corr.Multiplier); err != nil {
		return parlay.State{}, err
	}

	legPenalty, err := fragility.LegPenalty(len(selections))
	if err != nil {
		return parlay.State{}, err
	}

	raw := fragility.Raw(blockSum, legPenalty, corr.Penalty)
	m := parlay.Metrics{
		BlockSum:              blockSum,
		LegPenalty:            legPenalty,
		CorrelationPenalty:    corr.Penalty,
		CorrelationMultiplier: corr.Multiplier,
		RawFragility:          raw,
		FinalFragility:        fragility.Final(raw, corr.Multiplier),
	}

	return parlay.NewState(id.Derive(ids...), selections, m, corr.Correlations), nil
}

// BuildLegs builds selections from declared legs, then the state.
func BuildLegs(legs []parlay.Leg) (parlay.State, error) {
	sels, err := parlay.NewSelections(legs)
	if err != nil {
		return parlay.State{}, err
	}
	return Build(sels)
}

// Add returns a new state with s appended.
func Add(state parlay.State, s parlay.Selection) (parlay.State, error) {
	sels := append(state.Selections(), s)
	next, err := Build(sels)
	if err != nil {
		return parlay.State{}, fmt.Errorf("add selection: %w", err)
	}
	return next, nil
}

// Remove returns a new state without the selection with the given id.
func Remove(state parlay.State, selectionID string) (parlay.State, error) {
	current := state.Selections()
	sels := make([]parlay.Selection, 0, len(current))
	for _, s := range current {
		if s.ID() != selectionID {
			sels = append(sels, s)
		}
	}
	if len(sels) == len(current) {
		return parlay.State{}, invariant.Errorf("selection %s is not in parlay %s", selectionID, state.ID())
	}
	next, err := Build(sels)
	if err != nil {
		return parlay.State{}, fmt.Errorf("remove selection: %w", err)
	}
	return next, nil
}
