package risk

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/parlay/parlay"
)

type Action string

const (
	ActionProceed     Action = "proceed"
	ActionReview      Action = "review"
	ActionReduce      Action = "reduce"
	ActionRestructure Action = "restructure"
)

var actionRank = map[Action]int{
	ActionProceed:     0,
	ActionReview:      1,
	ActionReduce:      2,
	ActionRestructure: 3,
}

type Recommendation struct {
	Action Action `json:"action"`
	Reason string `json:"reason"`
}

// Recommend turns a classification and an enforcement result into one
// action. Profile violations raise the action to at least reduce.
func Recommend(state parlay.State, c Classification) Recommendation {
	var action Action
	switch c.State {
	case parlay.Stable:
		action = ActionProceed
	case parlay.Loaded:
		action = ActionReview
	case parlay.Tense:
		action = ActionReduce
	default:
		action = ActionRestructure
	}

	enf := state.Enforcement()
	if len(enf.Violations) > 0 && actionRank[action] < actionRank[ActionReduce] {
		action = ActionReduce
	}

	reason := fmt.Sprintf("largest contributor is %s", dominantDriver(state.Metrics()))
	if len(enf.Violations) > 0 {
		codes := make([]string, 0, len(enf.Violations))
		for _, v := range enf.Violations {
			codes = append(codes, string(v.Code))
		}
		reason += "; profile violations: " + strings.Join(codes, ", ")
	}

	return Recommendation{Action: action, Reason: reason}
}

// dominantDriver names the largest raw fragility component. Ties go to the
// earlier component.
func dominantDriver(m parlay.Metrics) string {
	name, top := "leg fragility", m.BlockSum
	if m.LegPenalty > top {
		name, top = "leg count", m.LegPenalty
	}
	if float64(m.CorrelationPenalty) > top {
		name = "correlated legs"
	}
	return name
}
