package parlay

import (
	"fmt"
	"strings"
)

// BetType is the closed set of wager kinds a selection can be.
type BetType int

const (
	BetTypeUnknown BetType = iota
	Spread
	Moneyline
	Total
	TeamTotal
	PlayerProp
)

var betTypeNames = map[BetType]string{
	Spread:     "spread",
	Moneyline:  "moneyline",
	Total:      "total",
	TeamTotal:  "team_total",
	PlayerProp: "player_prop",
}

func (b BetType) String() string {
	if s, ok := betTypeNames[b]; ok {
		return s
	}
	return "unknown"
}

func (b BetType) Valid() bool {
	_, ok := betTypeNames[b]
	return ok
}

// IsSide reports whether the bet picks a winner (spread or moneyline).
func (b BetType) IsSide() bool {
	return b == Spread || b == Moneyline
}

// IsTotal reports whether the bet is on a game or team total.
func (b BetType) IsTotal() bool {
	return b == Total || b == TeamTotal
}

// ParseBetType accepts the canonical names and their dashed forms
// ("team-total", "player-prop").
func ParseBetType(s string) (BetType, error) {
	key := normalizeName(s)
	for b, name := range betTypeNames {
		if name == key {
			return b, nil
		}
	}
	return BetTypeUnknown, fmt.Errorf("unknown bet type %q", s)
}

func (b BetType) MarshalText() ([]byte, error) {
	if !b.Valid() {
		return nil, fmt.Errorf("invalid bet type %d", int(b))
	}
	return []byte(b.String()), nil
}

func (b *BetType) UnmarshalText(text []byte) error {
	v, err := ParseBetType(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}

// Signal is the closed set of context signal types.
type Signal int

const (
	Weather Signal = iota
	Injury
	Trade
	Role
)

// Signals lists every signal in the fixed order used for summing.
var Signals = []Signal{Weather, Injury, Trade, Role}

func (s Signal) String() string {
	switch s {
	case Weather:
		return "weather"
	case Injury:
		return "injury"
	case Trade:
		return "trade"
	case Role:
		return "role"
	}
	return "unknown"
}

// RiskState is the ordinal risk classification: STABLE < LOADED < TENSE < CRITICAL.
type RiskState int

const (
	Stable RiskState = iota + 1
	Loaded
	Tense
	Critical
)

func (r RiskState) String() string {
	switch r {
	case Stable:
		return "STABLE"
	case Loaded:
		return "LOADED"
	case Tense:
		return "TENSE"
	case Critical:
		return "CRITICAL"
	}
	return "UNKNOWN"
}

func (r RiskState) MarshalText() ([]byte, error) {
	if r < Stable || r > Critical {
		return nil, fmt.Errorf("invalid risk state %d", int(r))
	}
	return []byte(r.String()), nil
}

func (r *RiskState) UnmarshalText(text []byte) error {
	switch strings.ToUpper(strings.TrimSpace(string(text))) {
	case "STABLE":
		*r = Stable
	case "LOADED":
		*r = Loaded
	case "TENSE":
		*r = Tense
	case "CRITICAL":
		*r = Critical
	default:
		return fmt.Errorf("unknown risk state %q", string(text))
	}
	return nil
}

// Label buckets a suggested candidate by the risk it adds.
type Label int

const (
	LowestRisk Label = iota + 1
	Balanced
	Elevated
)

func (l Label) String() string {
	switch l {
	case LowestRisk:
		return "lowest_risk"
	case Balanced:
		return "balanced"
	case Elevated:
		return "elevated"
	}
	return "unknown"
}

func (l Label) MarshalText() ([]byte, error) {
	if l < LowestRisk || l > Elevated {
		return nil, fmt.Errorf("invalid label %d", int(l))
	}
	return []byte(l.String()), nil
}

func (l *Label) UnmarshalText(text []byte) error {
	switch normalizeName(string(text)) {
	case "lowest_risk":
		*l = LowestRisk
	case "balanced":
		*l = Balanced
	case "elevated":
		*l = Elevated
	default:
		return fmt.Errorf("unknown label %q", string(text))
	}
	return nil
}

func normalizeName(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
}
