package config

import (
	"fmt"
	"os"

	"github.com/rustyeddy/parlay/evaluation"
	"github.com/rustyeddy/parlay/parlay"
	"github.com/rustyeddy/parlay/risk"
	"github.com/rustyeddy/parlay/suggest"
)

// Slip is a bet slip file: the legs to evaluate, optional candidate
// additions, and optional overrides of the configured profile and DNA.
type Slip struct {
	Name       string              `json:"name,omitempty" yaml:"name,omitempty"`
	Legs       []parlay.Leg        `json:"legs" yaml:"legs"`
	Candidates []parlay.Leg        `json:"candidates,omitempty" yaml:"candidates,omitempty"`
	Profile    *risk.Profile       `json:"profile,omitempty" yaml:"profile,omitempty"`
	DNA        *suggest.DNAProfile `json:"dna,omitempty" yaml:"dna,omitempty"`
}

func LoadSlip(path string) (*Slip, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read slip: %w", err)
	}

	s := &Slip{}
	if err := decode(data, s); err != nil {
		return nil, fmt.Errorf("parse slip %s: %w", path, err)
	}
	if len(s.Legs) == 0 {
		return nil, fmt.Errorf("slip %s has no legs", path)
	}
	return s, nil
}

// Request merges the slip with the configured defaults.
func (s *Slip) Request(c *Config) evaluation.Request {
	req := evaluation.Request{
		Legs:       s.Legs,
		Profile:    c.Profile,
		Candidates: s.Candidates,
		DNA:        c.Suggestions.DNA,
	}
	if s.Profile != nil {
		req.Profile = *s.Profile
	}
	if s.DNA != nil {
		req.DNA = s.DNA
	}
	return req
}
