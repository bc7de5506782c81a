package parlay

import (
	"encoding/json"
	"fmt"
)

// CorrelationType is the closed taxonomy of structural correlations. The
// declaration order is the tie-break order when penalties are equal.
type CorrelationType int

const (
	SamePlayerMultiProp CorrelationType = iota + 1
	ScriptDependency
	VolumeDependency
	ScoringDependency
	PaceDependency
)

// CorrelationTypes lists the taxonomy in tie-break order.
var CorrelationTypes = []CorrelationType{
	SamePlayerMultiProp,
	ScriptDependency,
	VolumeDependency,
	ScoringDependency,
	PaceDependency,
}

// Penalty is the fixed fragility surcharge for one pair of this type.
func (c CorrelationType) Penalty() int {
	switch c {
	case SamePlayerMultiProp:
		return 12
	case ScriptDependency:
		return 8
	case VolumeDependency:
		return 10
	case ScoringDependency:
		return 10
	case PaceDependency:
		return 8
	}
	return 0
}

func (c CorrelationType) String() string {
	switch c {
	case SamePlayerMultiProp:
		return "same_player_multi_prop"
	case ScriptDependency:
		return "script_dependency"
	case VolumeDependency:
		return "volume_dependency"
	case ScoringDependency:
		return "scoring_dependency"
	case PaceDependency:
		return "pace_dependency"
	}
	return "unknown"
}

func (c CorrelationType) MarshalText() ([]byte, error) {
	if c.Penalty() == 0 {
		return nil, fmt.Errorf("invalid correlation type %d", int(c))
	}
	return []byte(c.String()), nil
}

func (c *CorrelationType) UnmarshalText(text []byte) error {
	key := normalizeName(string(text))
	for _, t := range CorrelationTypes {
		if t.String() == key {
			*c = t
			return nil
		}
	}
	return fmt.Errorf("unknown correlation type %q", string(text))
}

// Correlation is one detected dependency between two selections.
// SelectionA always sorts before SelectionB.
type Correlation struct {
	SelectionA string          `json:"selection_a"`
	SelectionB string          `json:"selection_b"`
	Type       CorrelationType `json:"type"`
	Penalty    int             `json:"penalty"`
}

type Metrics struct {
	BlockSum              float64 `json:"block_sum"`
	LegPenalty            float64 `json:"leg_penalty"`
	CorrelationPenalty    int     `json:"correlation_penalty"`
	CorrelationMultiplier float64 `json:"correlation_multiplier"`
	RawFragility          float64 `json:"raw_fragility"`
	FinalFragility        float64 `json:"final_fragility"`
}

// ViolationCode names a profile constraint a parlay breaks.
type ViolationCode string

const (
	MaxLegsExceeded        ViolationCode = "max_legs_exceeded"
	FragilityOverTolerance ViolationCode = "fragility_over_tolerance"
	PropsNotAllowed        ViolationCode = "props_not_allowed"
	LiveBetsNotAllowed     ViolationCode = "live_bets_not_allowed"
)

type Violation struct {
	Code    ViolationCode `json:"code"`
	Message string        `json:"message"`
}

// EnforcementResult is advisory: violations are reported, never raised.
type EnforcementResult struct {
	MaxLegs            int         `json:"max_legs"`
	FragilityTolerance float64     `json:"fragility_tolerance"`
	StakeCap           float64     `json:"stake_cap"`
	Violations         []Violation `json:"violations"`
}

func (e EnforcementResult) Has(code ViolationCode) bool {
	for _, v := range e.Violations {
		if v.Code == code {
			return true
		}
	}
	return false
}

func (e EnforcementResult) Codes() []ViolationCode {
	out := make([]ViolationCode, 0, len(e.Violations))
	for _, v := range e.Violations {
		out = append(out, v.Code)
	}
	return out
}

func (e EnforcementResult) clone() EnforcementResult {
	if e.Violations != nil {
		v := make([]Violation, len(e.Violations))
		copy(v, e.Violations)
		e.Violations = v
	}
	return e
}

// State is the aggregate root of a parlay. It is always derived whole
// from its selections by reducer.Build; nothing patches it in place.
type State struct {
	id           string
	selections   []Selection
	metrics      Metrics
	correlations []Correlation
	enforcement  EnforcementResult
}

// NewState assembles a state from already computed parts. reducer.Build is
// the constructor callers should use; it owns the order of computation.
func NewState(id string, selections []Selection, m Metrics, corrs []Correlation) State {
	sels := make([]Selection, len(selections))
	copy(sels, selections)
	var cs []Correlation
	if len(corrs) > 0 {
		cs = make([]Correlation, len(corrs))
		copy(cs, corrs)
	}
	return State{id: id, selections: sels, metrics: m, correlations: cs}
}

func (s State) ID() string       { return s.id }
func (s State) Len() int         { return len(s.selections) }
func (s State) Metrics() Metrics { return s.metrics }

func (s State) Selections() []Selection {
	out := make([]Selection, len(s.selections))
	copy(out, s.selections)
	return out
}

func (s State) Correlations() []Correlation {
	if s.correlations == nil {
		return nil
	}
	out := make([]Correlation, len(s.correlations))
	copy(out, s.correlations)
	return out
}

func (s State) Enforcement() EnforcementResult {
	return s.enforcement.clone()
}

// Selection finds a selection by id.
func (s State) Selection(id string) (Selection, bool) {
	for _, sel := range s.selections {
		if sel.ID() == id {
			return sel, true
		}
	}
	return Selection{}, false
}

// WithEnforcement returns a copy of s carrying e. Metrics are untouched.
func (s State) WithEnforcement(e EnforcementResult) State {
	s.selections = s.Selections()
	s.correlations = s.Correlations()
	s.enforcement = e.clone()
	return s
}

type stateJSON struct {
	ID           string            `json:"id"`
	Selections   []Selection       `json:"selections"`
	Metrics      Metrics           `json:"metrics"`
	Correlations []Correlation     `json:"correlations"`
	Enforcement  EnforcementResult `json:"enforcement"`
}

func (s State) MarshalJSON() ([]byte, error) {
	corrs := s.Correlations()
	if corrs == nil {
		corrs = []Correlation{}
	}
	return json.Marshal(stateJSON{
		ID:           s.id,
		Selections:   s.Selections(),
		Metrics:      s.metrics,
		Correlations: corrs,
		Enforcement:  s.Enforcement(),
	})
}

// Candidate is a simulated addition ranked by the risk it adds.
type Candidate struct {
	Selection        Selection `json:"selection"`
	DeltaFragility   float64   `json:"delta_fragility"`
	DeltaCorrelation int       `json:"delta_correlation"`
	Score            float64   `json:"score"`
	Label            Label     `json:"label"`
	DNACompatible    bool      `json:"dna_compatible"`
}

func wrapIndex(i int, err error) error {
	return fmt.Errorf("leg %d: %w", i, err)
}
