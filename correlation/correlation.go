// Package correlation detects structural dependencies between the
// selections of a parlay and turns them into a penalty and a multiplier.
//
// Detection only looks at sport, game, bet type, selection text and tags.
// It never consults live data.
package correlation

import (
	"sort"

	"github.com/rustyeddy/parlay/parlay"
	"github.com/rustyeddy/parlay/pkg/invariant"
)

// Upper bounds (inclusive) of the multiplier bands.
const (
	NoneBandMax   = 20
	LowBandMax    = 35
	MediumBandMax = 50
)

const (
	MultiplierNone   = 1.0
	MultiplierLow    = 1.15
	MultiplierMedium = 1.30
	MultiplierHigh   = 1.50
)

// Multipliers is the closed set a correlation multiplier is drawn from.
var Multipliers = []float64{MultiplierNone, MultiplierLow, MultiplierMedium, MultiplierHigh}

// Result is one pass of the engine over a selection set.
type Result struct {
	Correlations []parlay.Correlation
	Penalty      int
	Multiplier   float64
}

// Analyze detects correlations and derives the penalty and multiplier.
func Analyze(selections []parlay.Selection) Result {
	corrs := Detect(selections)
	p := Penalty(corrs)
	return Result{
		Correlations: corrs,
		Penalty:      p,
		Multiplier:   MultiplierFor(p),
	}
}

// Detect tests every unordered pair and keeps at most one correlation per
// pair: the highest penalty, with ties going to the earlier type in
// parlay.CorrelationTypes. The result is sorted by (SelectionA,
// SelectionB), so the input order does not matter.
func Detect(selections []parlay.Selection) []parlay.Correlation {
	sorted := make([]parlay.Selection, len(selections))
	copy(sorted, selections)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID() < sorted[j].ID() })

	var out []parlay.Correlation
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			a, b := sorted[i], sorted[j]
			ct, ok := strongest(a, b)
			if !ok {
				continue
			}
			out = append(out, parlay.Correlation{
				SelectionA: a.ID(),
				SelectionB: b.ID(),
				Type:       ct,
				Penalty:    ct.Penalty(),
			})
		}
	}
	return out
}

func strongest(a, b parlay.Selection) (parlay.CorrelationType, bool) {
	var best parlay.CorrelationType
	found := false
	for _, d := range detectors {
		if !d.match(a, b) {
			continue
		}
		// detectors run in tie-break order, so only a strictly higher
		// penalty replaces the current best.
		if !found || d.typ.Penalty() > best.Penalty() {
			best = d.typ
			found = true
		}
	}
	return best, found
}

// Penalty sums the kept per-pair penalties.
func Penalty(corrs []parlay.Correlation) int {
	total := 0
	for _, c := range corrs {
		total += c.Penalty
	}
	return total
}

// MultiplierFor maps a correlation penalty onto its band.
func MultiplierFor(penalty int) float64 {
	switch {
	case penalty <= NoneBandMax:
		return MultiplierNone
	case penalty <= LowBandMax:
		return MultiplierLow
	case penalty <= MediumBandMax:
		return MultiplierMedium
	default:
		return MultiplierHigh
	}
}

// CheckMultiplier fails if m is not one of Multipliers.
func CheckMultiplier(m float64) error {
	for _, allowed := range Multipliers {
		if m == allowed {
			return nil
		}
	}
	return invariant.Errorf("correlation multiplier %v is outside %v", m, Multipliers)
}
