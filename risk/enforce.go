package risk

import (
	"fmt"

	"github.com/rustyeddy/parlay/parlay"
)

// Enforce attaches the profile's verdict to state. An invalid profile is a
// caller bug and returns an error; broken constraints are reported in the
// result and never block evaluation.
func Enforce(state parlay.State, p Profile) (parlay.State, error) {
	if err := p.Validate(); err != nil {
		return parlay.State{}, err
	}
	return state.WithEnforcement(Check(state, p)), nil
}

// Check compares state to p. Violations come out in a fixed order:
// legs, tolerance, props, live.
func Check(state parlay.State, p Profile) parlay.EnforcementResult {
	m := state.Metrics()
	res := parlay.EnforcementResult{
		MaxLegs:            p.MaxLegs,
		FragilityTolerance: p.FragilityTolerance,
		StakeCap:           StakeCap(p, m.FinalFragility),
	}

	if n := state.Len(); n > p.MaxLegs {
		add(&res, parlay.MaxLegsExceeded,
			fmt.Sprintf("%d legs exceeds max %d", n, p.MaxLegs))
	}
	if m.FinalFragility > p.FragilityTolerance {
		add(&res, parlay.FragilityOverTolerance,
			fmt.Sprintf("final fragility %.2f exceeds tolerance %.2f", m.FinalFragility, p.FragilityTolerance))
	}

	var props, live int
	for _, s := range state.Selections() {
		if s.BetType() == parlay.PlayerProp {
			props++
		}
		if s.Live() {
			live++
		}
	}
	if p.AvoidProps && props > 0 {
		add(&res, parlay.PropsNotAllowed,
			fmt.Sprintf("%d player prop leg(s) but profile avoids props", props))
	}
	if p.AvoidLive && live > 0 {
		add(&res, parlay.LiveBetsNotAllowed,
			fmt.Sprintf("%d live leg(s) but profile avoids live bets", live))
	}

	return res
}

func add(res *parlay.EnforcementResult, code parlay.ViolationCode, msg string) {
	res.Violations = append(res.Violations, parlay.Violation{Code: code, Message: msg})
}
