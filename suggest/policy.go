package suggest

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/parlay/parlay"
	"github.com/rustyeddy/parlay/pkg/invariant"
	"github.com/rustyeddy/parlay/pkg/validate"
)

// Policy decides whether a candidate fits the bettor. It must be a pure
// predicate; the reason is reported when a candidate is excluded.
type Policy interface {
	Compatible(s parlay.Selection) (ok bool, reason string)
}

// PolicyFunc adapts a function to Policy.
type PolicyFunc func(s parlay.Selection) (bool, string)

func (f PolicyFunc) Compatible(s parlay.Selection) (bool, string) { return f(s) }

// AllowAll accepts every candidate.
type AllowAll struct{}

func (AllowAll) Compatible(parlay.Selection) (bool, string) { return true, "" }

// DNAProfile captures a bettor's habits. Empty lists allow everything;
// MaxBaseFragility of 0 means no limit.
type DNAProfile struct {
	Sports           []string         `json:"sports,omitempty" yaml:"sports,omitempty"`
	BetTypes         []parlay.BetType `json:"bet_types,omitempty" yaml:"bet_types,omitempty"`
	AvoidProps       bool             `json:"avoid_props,omitempty" yaml:"avoid_props,omitempty"`
	AvoidLive        bool             `json:"avoid_live,omitempty" yaml:"avoid_live,omitempty"`
	MaxBaseFragility float64          `json:"max_base_fragility,omitempty" yaml:"max_base_fragility,omitempty" validate:"gte=0"`
}

func (d DNAProfile) Validate() error {
	if err := validate.Struct(d); err != nil {
		return invariant.Errorf("dna profile: %v", err)
	}
	for _, bt := range d.BetTypes {
		if !bt.Valid() {
			return invariant.Errorf("dna profile: unknown bet type %d", int(bt))
		}
	}
	return nil
}

func (d DNAProfile) Compatible(s parlay.Selection) (bool, string) {
	if len(d.Sports) > 0 && !containsFold(d.Sports, s.Sport()) {
		return false, fmt.Sprintf("sport %s not in profile", s.Sport())
	}
	if len(d.BetTypes) > 0 && !containsBetType(d.BetTypes, s.BetType()) {
		return false, fmt.Sprintf("bet type %s not in profile", s.BetType())
	}
	if d.AvoidProps && s.BetType() == parlay.PlayerProp {
		return false, "profile avoids player props"
	}
	if d.AvoidLive && s.Live() {
		return false, "profile avoids live bets"
	}
	if d.MaxBaseFragility > 0 && s.BaseFragility() > d.MaxBaseFragility {
		return false, fmt.Sprintf("base fragility %.2f above profile max %.2f", s.BaseFragility(), d.MaxBaseFragility)
	}
	return true, ""
}

func containsFold(list []string, want string) bool {
	for _, s := range list {
		if strings.EqualFold(strings.TrimSpace(s), want) {
			return true
		}
	}
	return false
}

func containsBetType(list []parlay.BetType, want parlay.BetType) bool {
	for _, bt := range list {
		if bt == want {
			return true
		}
	}
	return false
}
