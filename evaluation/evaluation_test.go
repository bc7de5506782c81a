package evaluation

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/rustyeddy/parlay/parlay"
	"github.com/rustyeddy/parlay/pkg/invariant"
	"github.com/rustyeddy/parlay/risk"
	"github.com/rustyeddy/parlay/suggest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func legs() []parlay.Leg {
	return []parlay.Leg{
		{
			Sport:         "nfl",
			GameID:        "KC@BUF",
			BetType:       parlay.PlayerProp,
			Selection:     "Kelce over 64.5 receiving yards",
			PlayerID:      "kelce",
			TeamID:        "KC",
			BaseFragility: 6,
			Modifiers: parlay.ContextModifiers{
				Weather: parlay.Modifier{Applied: true, Delta: 2},
			},
		},
		{
			Sport:         "nfl",
			GameID:        "KC@BUF",
			BetType:       parlay.PlayerProp,
			Selection:     "Kelce anytime touchdown",
			PlayerID:      "kelce",
			TeamID:        "KC",
			BaseFragility: 8,
		},
	}
}

func candidateLegs() []parlay.Leg {
	return []parlay.Leg{
		{Sport: "nfl", GameID: "DAL@PHI", BetType: parlay.Moneyline, Selection: "Eagles ML", BaseFragility: 4},
		{Sport: "nfl", GameID: "KC@BUF", BetType: parlay.Total, Selection: "Over 47.5", BaseFragility: 4},
		{Sport: "nfl", GameID: ""},
	}
}

func TestEvaluatePipeline(t *testing.T) {
	t.Parallel()

	sels, err := parlay.NewSelections(legs())
	require.NoError(t, err)

	resp, err := Evaluate(sels, risk.DefaultProfile())
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ParlayID)
	require.Len(t, resp.Selections, 2)
	assert.InDelta(t, 2.0, resp.Selections[0].ContextDelta, 1e-12)
	assert.InDelta(t, 8.0, resp.Selections[0].EffectiveFragility, 1e-12)
	assert.Equal(t, 12, resp.Selections[0].CorrelationPenalty)

	// 8 + 8 + 22.627 + 12
	assert.InDelta(t, 50.627417, resp.Metrics.FinalFragility, 1e-6)
	require.Len(t, resp.Correlations, 1)
	assert.Equal(t, parlay.SamePlayerMultiProp, resp.Correlations[0].Type)
	assert.Equal(t, parlay.Loaded, resp.Classification.State)
	assert.Equal(t, risk.ActionReview, resp.Recommendation.Action)
	assert.Empty(t, resp.Enforcement.Violations)
	assert.InDelta(t, 20.0, resp.Enforcement.StakeCap, 1e-9)
	assert.Nil(t, resp.Suggestions)
}

func TestEvaluateIsDeterministic(t *testing.T) {
	t.Parallel()

	req := Request{Legs: legs(), Profile: risk.DefaultProfile(), Candidates: candidateLegs()}
	e := New()

	first, err := e.EvaluateRequest(req)
	require.NoError(t, err)
	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			again, err := e.EvaluateRequest(req)
			assert.NoError(t, err)
			againJSON, err := json.Marshal(again)
			assert.NoError(t, err)
			assert.JSONEq(t, string(firstJSON), string(againJSON))
		}()
	}
	wg.Wait()
}

func TestEvaluateRequestCandidates(t *testing.T) {
	t.Parallel()

	resp, err := New().EvaluateRequest(Request{
		Legs:       legs(),
		Profile:    risk.DefaultProfile(),
		Candidates: candidateLegs(),
		DNA:        &suggest.DNAProfile{Sports: []string{"nfl"}},
	})
	require.NoError(t, err)

	require.Len(t, resp.Suggestions, 2)
	assert.Equal(t, "Eagles ML", resp.Suggestions[0].Selection.Text())
	assert.True(t, resp.Suggestions[0].DNACompatible)
	assert.LessOrEqual(t, resp.Suggestions[0].Score, resp.Suggestions[1].Score)

	require.Len(t, resp.Excluded, 1)
	assert.Equal(t, 2, resp.Excluded[0].Index)
	assert.Equal(t, suggest.ReasonInvalid, resp.Excluded[0].Reason)
	assert.Contains(t, resp.Excluded[0].Detail, "game_id")
}

func TestEvaluateViolationsAreData(t *testing.T) {
	t.Parallel()

	sels, err := parlay.NewSelections(legs())
	require.NoError(t, err)

	strict := risk.Profile{FragilityTolerance: 10, MaxLegs: 1, AvoidProps: true, Bankroll: 100, MaxStakeFraction: 0.1}
	resp, err := Evaluate(sels, strict)
	require.NoError(t, err)
	assert.Equal(t, []parlay.ViolationCode{
		parlay.MaxLegsExceeded,
		parlay.FragilityOverTolerance,
		parlay.PropsNotAllowed,
	}, resp.Enforcement.Codes())
	assert.Equal(t, risk.ActionReduce, resp.Recommendation.Action)
}

func TestEvaluateInvariantErrors(t *testing.T) {
	t.Parallel()

	_, err := Evaluate(nil, risk.DefaultProfile())
	assert.True(t, invariant.Is(err))

	sels, err := parlay.NewSelections(legs())
	require.NoError(t, err)
	_, err = Evaluate(sels, risk.Profile{})
	assert.True(t, invariant.Is(err))

	bad := risk.DefaultThresholds()
	bad.CriticalAt = 0
	_, err = New(WithThresholds(bad)).Evaluate(sels, risk.DefaultProfile())
	assert.True(t, invariant.Is(err))

	_, err = New().EvaluateRequest(Request{Legs: []parlay.Leg{{Sport: "nfl"}}, Profile: risk.DefaultProfile()})
	assert.True(t, invariant.Is(err))
}

func TestResponseJSONFieldNames(t *testing.T) {
	t.Parallel()

	sels, err := parlay.NewSelections(legs()[:1])
	require.NoError(t, err)
	resp, err := Evaluate(sels, risk.DefaultProfile())
	require.NoError(t, err)

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &fields))
	for _, k := range []string{"parlay_id", "selections", "metrics", "correlations", "enforcement", "classification", "recommendation", "suggestions"} {
		assert.Contains(t, fields, k)
	}
	assert.JSONEq(t, `[]`, string(fields["correlations"]))
	assert.JSONEq(t, `[]`, string(fields["suggestions"]))
	assert.Contains(t, string(fields["classification"]), `"state":"STABLE"`)
}

func TestWithSuggesterCopiesEngine(t *testing.T) {
	t.Parallel()

	eng := suggest.New(nil)
	eng.Limit = 1
	e := New(WithSuggester(eng))
	eng.Limit = 0

	sels, err := parlay.NewSelections(legs())
	require.NoError(t, err)
	cands, err := parlay.NewSelections(candidateLegs()[:2])
	require.NoError(t, err)

	resp, err := e.Evaluate(sels, risk.DefaultProfile(), cands...)
	require.NoError(t, err)
	assert.Len(t, resp.Suggestions, 1)
}

func TestSuggestionsKeyKeptWhenAllExcluded(t *testing.T) {
	t.Parallel()

	resp, err := New().EvaluateRequest(Request{
		Legs:       legs(),
		Profile:    risk.DefaultProfile(),
		Candidates: candidateLegs()[2:],
	})
	require.NoError(t, err)
	require.Len(t, resp.Excluded, 1)

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.JSONEq(t, `[]`, string(fields["suggestions"]))
}

func TestDefaultEvaluatorVouchesForRankedCandidates(t *testing.T) {
	t.Parallel()

	sels, err := parlay.NewSelections(legs())
	require.NoError(t, err)
	cands, err := parlay.NewSelections(candidateLegs()[:2])
	require.NoError(t, err)

	resp, err := Evaluate(sels, risk.DefaultProfile(), cands...)
	require.NoError(t, err)
	require.Len(t, resp.Suggestions, 2)
	for _, c := range resp.Suggestions {
		assert.True(t, c.DNACompatible, c.Selection.Text())
	}
}
