// Package evaluation is the single entry point into the scoring core. It
// runs the fixed pipeline (reducer, enforcement, classifier, suggestions)
// and assembles one response that carries every intermediate result.
//
// Every call is pure: the same selections and profile always yield the
// same response, and an Evaluator is safe for concurrent use.
package evaluation

import (
	"fmt"

	"github.com/rustyeddy/parlay/parlay"
	"github.com/rustyeddy/parlay/reducer"
	"github.com/rustyeddy/parlay/risk"
	"github.com/rustyeddy/parlay/suggest"
)

type Evaluator struct {
	thresholds risk.Thresholds
	suggester  suggest.Engine
}

type Option func(*Evaluator)

func WithThresholds(t risk.Thresholds) Option {
	return func(e *Evaluator) { e.thresholds = t }
}

// WithSuggester replaces the default suggestion engine. The engine is
// copied, so later changes to s do not leak into the evaluator.
func WithSuggester(s *suggest.Engine) Option {
	return func(e *Evaluator) {
		if s != nil {
			e.suggester = *s
		}
	}
}

func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		thresholds: risk.DefaultThresholds(),
		suggester:  *suggest.New(suggest.AllowAll{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate runs the pipeline with default thresholds and suggestions.
func Evaluate(selections []parlay.Selection, profile risk.Profile, candidates ...parlay.Selection) (Response, error) {
	return New().Evaluate(selections, profile, candidates...)
}

// Evaluate builds the parlay, enforces the profile, classifies it and,
// when candidates are given, ranks them. Only invariant violations (bad
// selections, invalid profile or thresholds) return an error.
func (e *Evaluator) Evaluate(selections []parlay.Selection, profile risk.Profile, candidates ...parlay.Selection) (Response, error) {
	return e.evaluate(selections, profile, e.suggester, candidates, nil)
}

func (e *Evaluator) evaluate(
	selections []parlay.Selection,
	profile risk.Profile,
	engine suggest.Engine,
	candidates []parlay.Selection,
	candidateErrs map[int]error,
) (Response, error) {
	if err := e.thresholds.Validate(); err != nil {
		return Response{}, err
	}

	state, err := reducer.Build(selections)
	if err != nil {
		return Response{}, fmt.Errorf("build parlay: %w", err)
	}

	state, err = risk.Enforce(state, profile)
	if err != nil {
		return Response{}, fmt.Errorf("enforce profile: %w", err)
	}

	class := risk.Classify(state, e.thresholds)
	resp := newResponse(state, class, risk.Recommend(state, class))

	if len(candidates) > 0 {
		ranked := engine.Rank(state, candidates)
		for i := range ranked.Excluded {
			if err, ok := candidateErrs[ranked.Excluded[i].Index]; ok {
				ranked.Excluded[i].Detail = err.Error()
			}
		}
		resp.Suggestions = ranked.Candidates
		resp.Excluded = ranked.Excluded
	}

	return resp, nil
}

// Request is the serializable form of one evaluation.
type Request struct {
	Legs       []parlay.Leg        `json:"legs" yaml:"legs"`
	Profile    risk.Profile        `json:"profile" yaml:"profile"`
	Candidates []parlay.Leg        `json:"candidates,omitempty" yaml:"candidates,omitempty"`
	DNA        *suggest.DNAProfile `json:"dna,omitempty" yaml:"dna,omitempty"`
}

// EvaluateRequest builds selections from declared legs. A bad parlay leg
// fails the request; a bad candidate leg is only excluded from the
// ranking. A DNA profile in the request replaces the engine's policy.
func (e *Evaluator) EvaluateRequest(req Request) (Response, error) {
	sels, err := parlay.NewSelections(req.Legs)
	if err != nil {
		return Response{}, fmt.Errorf("build selections: %w", err)
	}

	engine := e.suggester
	if req.DNA != nil {
		if err := req.DNA.Validate(); err != nil {
			return Response{}, err
		}
		engine.Policy = *req.DNA
	}

	var (
		cands []parlay.Selection
		errs  map[int]error
	)
	for i, l := range req.Candidates {
		c, err := parlay.NewSelection(l)
		if err != nil {
			if errs == nil {
				errs = make(map[int]error)
			}
			errs[i] = err
		}
		// A zero Selection is excluded by the engine as invalid, which
		// keeps candidate indexes aligned with the request.
		cands = append(cands, c)
	}

	return e.evaluate(sels, req.Profile, engine, cands, errs)
}
