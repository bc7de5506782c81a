package parlay

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/rustyeddy/parlay/fragility"
	"github.com/rustyeddy/parlay/pkg/id"
	"github.com/rustyeddy/parlay/pkg/invariant"
)

// Leg is the declared form of a selection, as it arrives from a slip file
// or a request body. NewSelection turns it into a Selection.
type Leg struct {
	ID            string           `json:"id,omitempty" yaml:"id,omitempty"`
	Sport         string           `json:"sport" yaml:"sport"`
	GameID        string           `json:"game_id" yaml:"game_id"`
	BetType       BetType          `json:"bet_type" yaml:"bet_type"`
	Selection     string           `json:"selection" yaml:"selection"`
	PlayerID      string           `json:"player_id,omitempty" yaml:"player_id,omitempty"`
	TeamID        string           `json:"team_id,omitempty" yaml:"team_id,omitempty"`
	Live          bool             `json:"live,omitempty" yaml:"live,omitempty"`
	BaseFragility float64          `json:"base_fragility" yaml:"base_fragility"`
	Modifiers     ContextModifiers `json:"modifiers" yaml:"modifiers"`
	Tags          []Tag            `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Selection is one leg of a parlay ("block"). It is immutable: the
// effective fragility is fixed when it is built, and every change goes
// through a With* method that returns a new Selection.
type Selection struct {
	leg       Leg
	effective float64
}

// NewSelection validates a leg and computes its effective fragility.
// Missing ids are derived from the structural fields, so the same bet
// always gets the same id.
func NewSelection(l Leg) (Selection, error) {
	l.Sport = strings.ToLower(strings.TrimSpace(l.Sport))
	l.GameID = strings.TrimSpace(l.GameID)
	l.Selection = strings.TrimSpace(l.Selection)
	l.PlayerID = strings.TrimSpace(l.PlayerID)
	l.TeamID = strings.TrimSpace(l.TeamID)
	l.ID = strings.TrimSpace(l.ID)
	l.Tags = normalizeTags(l.Tags)

	switch {
	case l.Sport == "":
		return Selection{}, invariant.Errorf("selection sport is required")
	case l.GameID == "":
		return Selection{}, invariant.Errorf("selection game_id is required")
	case !l.BetType.Valid():
		return Selection{}, invariant.Errorf("selection bet type %d is not a known bet type", int(l.BetType))
	case l.Selection == "":
		return Selection{}, invariant.Errorf("selection text is required")
	case l.BetType == PlayerProp && l.PlayerID == "":
		return Selection{}, invariant.Errorf("player prop %q needs a player_id", l.Selection)
	}

	eff, err := fragility.Effective(l.BaseFragility, l.Modifiers.List()...)
	if err != nil {
		return Selection{}, err
	}

	if l.ID == "" {
		l.ID = id.Derive(
			l.Sport,
			l.GameID,
			l.BetType.String(),
			strings.ToLower(l.Selection),
			l.PlayerID,
			l.TeamID,
			strconv.FormatBool(l.Live),
		)
	}

	return Selection{leg: l, effective: eff}, nil
}

// MustSelection is NewSelection for fixtures; it panics on error.
func MustSelection(l Leg) Selection {
	s, err := NewSelection(l)
	if err != nil {
		panic(err)
	}
	return s
}

func (s Selection) ID() string                  { return s.leg.ID }
func (s Selection) Sport() string               { return s.leg.Sport }
func (s Selection) GameID() string              { return s.leg.GameID }
func (s Selection) BetType() BetType            { return s.leg.BetType }
func (s Selection) Text() string                { return s.leg.Selection }
func (s Selection) PlayerID() string            { return s.leg.PlayerID }
func (s Selection) TeamID() string              { return s.leg.TeamID }
func (s Selection) Live() bool                  { return s.leg.Live }
func (s Selection) BaseFragility() float64      { return s.leg.BaseFragility }
func (s Selection) Modifiers() ContextModifiers { return s.leg.Modifiers }
func (s Selection) EffectiveFragility() float64 { return s.effective }

// ContextDelta is what context added on top of the base fragility.
func (s Selection) ContextDelta() float64 {
	return s.effective - s.leg.BaseFragility
}

func (s Selection) Tags() []Tag {
	if s.leg.Tags == nil {
		return nil
	}
	out := make([]Tag, len(s.leg.Tags))
	copy(out, s.leg.Tags)
	return out
}

func (s Selection) HasTag(t Tag) bool {
	for _, have := range s.leg.Tags {
		if have == t {
			return true
		}
	}
	return false
}

// Valid reports whether s went through NewSelection. The zero value does not.
func (s Selection) Valid() bool {
	return s.leg.ID != "" && s.leg.BetType.Valid() && s.effective >= s.leg.BaseFragility
}

// Leg returns a copy of the declared record the selection was built from.
func (s Selection) Leg() Leg {
	l := s.leg
	l.Tags = s.Tags()
	return l
}

func (s Selection) WithModifier(sig Signal, m Modifier) (Selection, error) {
	l := s.Leg()
	l.Modifiers = l.Modifiers.With(sig, m)
	return NewSelection(l)
}

func (s Selection) WithBaseFragility(base float64) (Selection, error) {
	l := s.Leg()
	l.BaseFragility = base
	return NewSelection(l)
}

func (s Selection) WithTags(tags ...Tag) (Selection, error) {
	l := s.Leg()
	l.Tags = append(l.Tags, tags...)
	return NewSelection(l)
}

type selectionJSON struct {
	Leg
	EffectiveFragility float64 `json:"effective_fragility"`
}

func (s Selection) MarshalJSON() ([]byte, error) {
	return json.Marshal(selectionJSON{Leg: s.Leg(), EffectiveFragility: s.effective})
}

// UnmarshalJSON rebuilds the selection through NewSelection; a supplied
// effective_fragility is ignored and recomputed.
func (s *Selection) UnmarshalJSON(data []byte) error {
	var l Leg
	if err := json.Unmarshal(data, &l); err != nil {
		return err
	}
	sel, err := NewSelection(l)
	if err != nil {
		return err
	}
	*s = sel
	return nil
}

// NewSelections builds every leg, failing on the first bad one.
func NewSelections(legs []Leg) ([]Selection, error) {
	out := make([]Selection, 0, len(legs))
	for i, l := range legs {
		s, err := NewSelection(l)
		if err != nil {
			return nil, wrapIndex(i, err)
		}
		out = append(out, s)
	}
	return out, nil
}
