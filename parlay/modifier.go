package parlay

import (
	"sort"

	"github.com/rustyeddy/parlay/fragility"
)

type Modifier = fragility.Modifier

// ContextModifiers carries one modifier per signal type. Adapters upstream
// resolve them; the core only sums applied deltas.
type ContextModifiers struct {
	Weather Modifier `json:"weather" yaml:"weather"`
	Injury  Modifier `json:"injury" yaml:"injury"`
	Trade   Modifier `json:"trade" yaml:"trade"`
	Role    Modifier `json:"role" yaml:"role"`
}

func (c ContextModifiers) Get(s Signal) Modifier {
	switch s {
	case Weather:
		return c.Weather
	case Injury:
		return c.Injury
	case Trade:
		return c.Trade
	case Role:
		return c.Role
	}
	return Modifier{}
}

// With returns a copy with the modifier for s replaced.
func (c ContextModifiers) With(s Signal, m Modifier) ContextModifiers {
	switch s {
	case Weather:
		c.Weather = m
	case Injury:
		c.Injury = m
	case Trade:
		c.Trade = m
	case Role:
		c.Role = m
	}
	return c
}

// List returns the modifiers in Signals order.
func (c ContextModifiers) List() []Modifier {
	out := make([]Modifier, 0, len(Signals))
	for _, s := range Signals {
		out = append(out, c.Get(s))
	}
	return out
}

// AppliedDelta is the sum of applied deltas.
func (c ContextModifiers) AppliedDelta() float64 {
	var sum float64
	for _, m := range c.List() {
		if m.Applied {
			sum += m.Delta
		}
	}
	return sum
}

// Tag marks a selection for structural correlation detection.
type Tag string

const (
	TagScript     Tag = "script"
	TagVolume     Tag = "volume"
	TagScoring    Tag = "scoring"
	TagPace       Tag = "pace"
	TagSamePlayer Tag = "same_player"
)

// normalizeTags lower-cases, trims, de-duplicates and sorts. Empty input
// gives nil so rebuilt selections compare equal.
func normalizeTags(tags []Tag) []Tag {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[Tag]struct{}, len(tags))
	out := make([]Tag, 0, len(tags))
	for _, t := range tags {
		n := Tag(normalizeName(string(t)))
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
