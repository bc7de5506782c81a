// Package fragility holds the pure formulas behind a parlay's fragility
// score. Nothing here keeps state between calls.
package fragility

import (
	"math"

	"github.com/rustyeddy/parlay/pkg/invariant"
)

const (
	MinFragility = 0.0
	MaxFragility = 100.0

	// LegPenaltyBase * n^LegPenaltyExponent
	LegPenaltyBase     = 8.0
	LegPenaltyExponent = 1.5
)

// Modifier is one context signal's contribution to a selection.
// Delta is never negative: context can only add risk.
type Modifier struct {
	Applied bool    `json:"applied" yaml:"applied"`
	Delta   float64 `json:"delta" yaml:"delta"`
}

// Effective returns base plus the delta of every applied modifier.
func Effective(base float64, mods ...Modifier) (float64, error) {
	if base < 0 || math.IsNaN(base) || math.IsInf(base, 0) {
		return 0, invariant.Errorf("base fragility %v must be a finite value >= 0", base)
	}

	eff := base
	for i, m := range mods {
		if m.Delta < 0 || math.IsNaN(m.Delta) || math.IsInf(m.Delta, 0) {
			return 0, invariant.Errorf("modifier %d delta %v must be a finite value >= 0", i, m.Delta)
		}
		if m.Applied {
			eff += m.Delta
		}
	}
	return eff, nil
}

// LegPenalty grows super-linearly with the number of legs.
func LegPenalty(n int) (float64, error) {
	if n < 1 {
		return 0, invariant.Errorf("leg penalty needs at least 1 leg, got %d", n)
	}
	return LegPenaltyBase * math.Pow(float64(n), LegPenaltyExponent), nil
}

func Raw(blockSum, legPenalty float64, correlationPenalty int) float64 {
	return blockSum + legPenalty + float64(correlationPenalty)
}

// Final applies the correlation multiplier and clamps to [0, 100].
func Final(raw, multiplier float64) float64 {
	return Clamp(raw * multiplier)
}

func Clamp(x float64) float64 {
	if math.IsNaN(x) {
		return MinFragility
	}
	return math.Max(MinFragility, math.Min(MaxFragility, x))
}
