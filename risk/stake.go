package risk

import (
	"github.com/shopspring/decimal"
)

// StakeCap is bankroll * max stake fraction, rounded down to cents. When
// final fragility is over tolerance the cap shrinks by tolerance/final.
// It is never raised and never negative.
func StakeCap(p Profile, finalFragility float64) float64 {
	stake := decimal.NewFromFloat(p.Bankroll).Mul(decimal.NewFromFloat(p.MaxStakeFraction))

	if finalFragility > p.FragilityTolerance {
		scale := decimal.NewFromFloat(p.FragilityTolerance).Div(decimal.NewFromFloat(finalFragility))
		stake = stake.Mul(scale)
	}

	if stake.IsNegative() {
		return 0
	}
	return stake.RoundFloor(2).InexactFloat64()
}
