package journal

import (
	"fmt"
	"strings"
	"time"
)

// FormatEvaluationOrg renders a record as an Org-mode block. Structured
// facts live in a PROPERTIES drawer so they stay searchable; the notes
// headings are left for the bettor.
func FormatEvaluationOrg(r EvaluationRecord) string {
	name := r.Name
	if name == "" {
		name = "slip"
	}
	heading := fmt.Sprintf("** Parlay: %s (%s)", name, shortID(r.ParlayID))

	violations := joinCodes(r.Violations)
	if violations == "" {
		violations = "none"
	}

	var b strings.Builder
	b.WriteString(heading)
	b.WriteString("\n")
	b.WriteString(":PROPERTIES:\n")
	b.WriteString(fmt.Sprintf(":EVAL_ID: %s\n", r.EvalID))
	b.WriteString(fmt.Sprintf(":ID: %s\n", r.EvalID))
	b.WriteString(fmt.Sprintf(":PARLAY_ID: %s\n", r.ParlayID))
	b.WriteString(fmt.Sprintf(":CREATED: %s\n", r.Created.UTC().Format(time.RFC3339)))
	b.WriteString(fmt.Sprintf(":LEGS: %d\n", r.Legs))
	b.WriteString(fmt.Sprintf(":FINAL_FRAGILITY: %.2f\n", r.FinalFragility))
	b.WriteString(fmt.Sprintf(":CORRELATION_PENALTY: %d\n", r.CorrelationPenalty))
	b.WriteString(fmt.Sprintf(":MULTIPLIER: %.2f\n", r.Multiplier))
	b.WriteString(fmt.Sprintf(":STATE: %s\n", r.State))
	b.WriteString(fmt.Sprintf(":ACTION: %s\n", r.Action))
	b.WriteString(fmt.Sprintf(":STAKE_CAP: %.2f\n", r.StakeCap))
	b.WriteString(fmt.Sprintf(":VIOLATIONS: %s\n", violations))
	b.WriteString(":END:\n")
	b.WriteString("\n")
	b.WriteString("*** Thesis\n- \n\n")
	b.WriteString("*** Result\n- \n")

	return b.String()
}

// FormatEvaluationsOrg renders multiple records separated by blank lines.
func FormatEvaluationsOrg(recs []EvaluationRecord) string {
	var b strings.Builder
	for i, r := range recs {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(FormatEvaluationOrg(r))
	}
	return b.String()
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[:8]
}
