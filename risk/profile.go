// Package risk applies a bettor's risk profile to a built parlay and
// classifies the result. Both steps read the computed fragility; neither
// ever changes it.
package risk

import (
	"math"

	"github.com/rustyeddy/parlay/pkg/invariant"
	"github.com/rustyeddy/parlay/pkg/validate"
)

// Profile is supplied by an external profile store.
type Profile struct {
	FragilityTolerance float64 `json:"fragility_tolerance" yaml:"fragility_tolerance" validate:"gte=0,lte=100"`
	MaxLegs            int     `json:"max_legs" yaml:"max_legs" validate:"gte=1"`
	AvoidProps         bool    `json:"avoid_props" yaml:"avoid_props"`
	AvoidLive          bool    `json:"avoid_live" yaml:"avoid_live"`
	Bankroll           float64 `json:"bankroll" yaml:"bankroll" validate:"gte=0"`
	MaxStakeFraction   float64 `json:"max_stake_fraction" yaml:"max_stake_fraction" validate:"gte=0,lte=1"`
}

func DefaultProfile() Profile {
	return Profile{
		FragilityTolerance: 60,
		MaxLegs:            4,
		Bankroll:           1000,
		MaxStakeFraction:   0.02,
	}
}

func (p Profile) Validate() error {
	if err := validate.Struct(p); err != nil {
		return invariant.Errorf("risk profile: %v", err)
	}
	// gte/lte tags let +Inf through for unbounded fields.
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"fragility_tolerance", p.FragilityTolerance},
		{"bankroll", p.Bankroll},
		{"max_stake_fraction", p.MaxStakeFraction},
	} {
		if math.IsInf(f.v, 0) || math.IsNaN(f.v) {
			return invariant.Errorf("risk profile: %s must be finite", f.name)
		}
	}
	return nil
}
