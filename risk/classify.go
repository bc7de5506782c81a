package risk

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/parlay/parlay"
	"github.com/rustyeddy/parlay/pkg/invariant"
	"github.com/rustyeddy/parlay/pkg/validate"
)

// Default classifier bands. A final fragility below LoadedAt is STABLE,
// below TenseAt LOADED, below CriticalAt TENSE, anything else CRITICAL.
const (
	DefaultLoadedAt   = 35.0
	DefaultTenseAt    = 60.0
	DefaultCriticalAt = 85.0

	// Either override alone forces CRITICAL.
	DefaultCriticalLegs        = 6
	DefaultCriticalCorrelation = 51
)

type Thresholds struct {
	LoadedAt            float64 `json:"loaded_at" yaml:"loaded_at" validate:"gt=0,ltfield=TenseAt"`
	TenseAt             float64 `json:"tense_at" yaml:"tense_at" validate:"ltfield=CriticalAt"`
	CriticalAt          float64 `json:"critical_at" yaml:"critical_at" validate:"lte=100"`
	CriticalLegs        int     `json:"critical_legs" yaml:"critical_legs" validate:"gte=2"`
	CriticalCorrelation int     `json:"critical_correlation" yaml:"critical_correlation" validate:"gte=1"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		LoadedAt:            DefaultLoadedAt,
		TenseAt:             DefaultTenseAt,
		CriticalAt:          DefaultCriticalAt,
		CriticalLegs:        DefaultCriticalLegs,
		CriticalCorrelation: DefaultCriticalCorrelation,
	}
}

func (t Thresholds) Validate() error {
	if err := validate.Struct(t); err != nil {
		return invariant.Errorf("classifier thresholds: %v", err)
	}
	return nil
}

// Override names a signal that forced CRITICAL on its own.
type Override string

const (
	OverrideLegCount    Override = "leg_count"
	OverrideCorrelation Override = "correlation_penalty"
)

type Classification struct {
	State          parlay.RiskState `json:"state"`
	FinalFragility float64          `json:"final_fragility"`
	Overrides      []Override       `json:"overrides,omitempty"`
	Explanation    string           `json:"explanation"`
}

// Classify bands the final fragility, then applies the leg count and
// correlation overrides.
func Classify(state parlay.State, t Thresholds) Classification {
	m := state.Metrics()
	c := Classification{
		State:          band(m.FinalFragility, t),
		FinalFragility: m.FinalFragility,
	}

	var reasons []string
	if n := state.Len(); n >= t.CriticalLegs {
		c.Overrides = append(c.Overrides, OverrideLegCount)
		reasons = append(reasons, fmt.Sprintf("%d legs reaches the %d leg limit", n, t.CriticalLegs))
	}
	if m.CorrelationPenalty >= t.CriticalCorrelation {
		c.Overrides = append(c.Overrides, OverrideCorrelation)
		reasons = append(reasons, fmt.Sprintf("correlation penalty %d reaches %d", m.CorrelationPenalty, t.CriticalCorrelation))
	}

	c.Explanation = fmt.Sprintf("final fragility %.1f across %d leg(s) with correlation penalty %d reads %s",
		m.FinalFragility, state.Len(), m.CorrelationPenalty, c.State)

	switch {
	case len(reasons) == 0:
	case c.State != parlay.Critical:
		c.State = parlay.Critical
		c.Explanation += "; forced CRITICAL: " + strings.Join(reasons, ", ")
	default:
		c.Explanation += "; also CRITICAL by override: " + strings.Join(reasons, ", ")
	}
	return c
}

func band(final float64, t Thresholds) parlay.RiskState {
	switch {
	case final >= t.CriticalAt:
		return parlay.Critical
	case final >= t.TenseAt:
		return parlay.Tense
	case final >= t.LoadedAt:
		return parlay.Loaded
	default:
		return parlay.Stable
	}
}
