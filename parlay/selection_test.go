package parlay

import (
	"encoding/json"
	"testing"

	"github.com/rustyeddy/parlay/pkg/invariant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receivingLeg() Leg {
	return Leg{
		Sport:         "NFL",
		GameID:        "KC@BUF",
		BetType:       PlayerProp,
		Selection:     "Kelce over 64.5 receiving yards",
		PlayerID:      "travis-kelce",
		TeamID:        "KC",
		BaseFragility: 6,
		Tags:          []Tag{"Volume", "volume", " pace "},
	}
}

func TestNewSelectionNormalizes(t *testing.T) {
	t.Parallel()

	s, err := NewSelection(receivingLeg())
	require.NoError(t, err)

	assert.Equal(t, "nfl", s.Sport())
	assert.Equal(t, []Tag{TagPace, TagVolume}, s.Tags())
	assert.NotEmpty(t, s.ID())
	assert.True(t, s.Valid())
	assert.InDelta(t, 6.0, s.EffectiveFragility(), 1e-12)
	assert.Zero(t, s.ContextDelta())
}

func TestNewSelectionDerivesStableID(t *testing.T) {
	t.Parallel()

	a := MustSelection(receivingLeg())
	b := MustSelection(receivingLeg())
	assert.Equal(t, a.ID(), b.ID())

	other := receivingLeg()
	other.Selection = "Kelce over 5.5 receptions"
	assert.NotEqual(t, a.ID(), MustSelection(other).ID())

	explicit := receivingLeg()
	explicit.ID = "leg-1"
	assert.Equal(t, "leg-1", MustSelection(explicit).ID())
}

func TestNewSelectionValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Leg)
	}{
		{"missing sport", func(l *Leg) { l.Sport = " " }},
		{"missing game", func(l *Leg) { l.GameID = "" }},
		{"unknown bet type", func(l *Leg) { l.BetType = BetTypeUnknown }},
		{"missing text", func(l *Leg) { l.Selection = "" }},
		{"prop without player", func(l *Leg) { l.PlayerID = "" }},
		{"negative base", func(l *Leg) { l.BaseFragility = -1 }},
		{"negative delta", func(l *Leg) { l.Modifiers.Injury = Modifier{Applied: true, Delta: -2} }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			l := receivingLeg()
			tt.mutate(&l)
			_, err := NewSelection(l)
			assert.True(t, invariant.Is(err), "got %v", err)
		})
	}
}

func TestContextOnlyAddsRisk(t *testing.T) {
	t.Parallel()

	s := MustSelection(receivingLeg())
	prev := s.EffectiveFragility()

	for _, sig := range Signals {
		next, err := s.WithModifier(sig, Modifier{Applied: true, Delta: 1.5})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, next.EffectiveFragility(), prev)
		assert.GreaterOrEqual(t, next.EffectiveFragility(), next.BaseFragility())
		assert.Equal(t, s.ID(), next.ID())
		prev = next.EffectiveFragility()
		s = next
	}
	assert.InDelta(t, 12.0, s.EffectiveFragility(), 1e-12)
	assert.InDelta(t, 6.0, s.ContextDelta(), 1e-12)
	assert.InDelta(t, 6.0, s.Modifiers().AppliedDelta(), 1e-12)
}

func TestWithHelpersDoNotMutate(t *testing.T) {
	t.Parallel()

	s := MustSelection(receivingLeg())
	tags := s.Tags()
	tags[0] = "mutated"
	assert.Equal(t, []Tag{TagPace, TagVolume}, s.Tags())

	withTag, err := s.WithTags(TagScoring)
	require.NoError(t, err)
	assert.True(t, withTag.HasTag(TagScoring))
	assert.False(t, s.HasTag(TagScoring))

	rebased, err := s.WithBaseFragility(9)
	require.NoError(t, err)
	assert.InDelta(t, 9.0, rebased.EffectiveFragility(), 1e-12)
	assert.InDelta(t, 6.0, s.EffectiveFragility(), 1e-12)

	_, err = s.WithModifier(Weather, Modifier{Applied: true, Delta: -1})
	assert.True(t, invariant.Is(err))
}

func TestSelectionJSONRecomputesEffective(t *testing.T) {
	t.Parallel()

	l := receivingLeg()
	l.Modifiers.Weather = Modifier{Applied: true, Delta: 2}
	s := MustSelection(l)

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"bet_type":"player_prop"`)
	assert.Contains(t, string(data), `"effective_fragility":8`)

	tampered := []byte(`{"sport":"nfl","game_id":"KC@BUF","bet_type":"player-prop","selection":"x","player_id":"p","base_fragility":4,"effective_fragility":1}`)
	var got Selection
	require.NoError(t, json.Unmarshal(tampered, &got))
	assert.InDelta(t, 4.0, got.EffectiveFragility(), 1e-12)

	var back Selection
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, s, back)
}

func TestZeroSelectionIsInvalid(t *testing.T) {
	t.Parallel()
	assert.False(t, Selection{}.Valid())
}

func TestNewSelectionsReportsIndex(t *testing.T) {
	t.Parallel()

	bad := receivingLeg()
	bad.GameID = ""
	_, err := NewSelections([]Leg{receivingLeg(), bad})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "leg 1")
	assert.True(t, invariant.Is(err))
}
