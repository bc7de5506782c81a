package journal

import (
	"fmt"
	"io"
	"text/template"
	"time"

	"github.com/rustyeddy/parlay/evaluation"
)

// Report is the view rendered by ReportOrgTemplate.
type Report struct {
	Name    string
	Created time.Time
	evaluation.Response
}

var reportOrgFuncs = template.FuncMap{
	"short": shortID,
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
	"yesno": func(b bool) string {
		if b {
			return "yes"
		}
		return "no"
	},
}

var reportOrg = template.Must(template.New("report").Funcs(reportOrgFuncs).Parse(ReportOrgTemplate))

// WriteReportOrg renders a full evaluation as an Org document.
func WriteReportOrg(w io.Writer, name string, resp evaluation.Response, created time.Time) error {
	if name == "" {
		name = "slip"
	}
	if err := reportOrg.Execute(w, Report{Name: name, Created: created, Response: resp}); err != nil {
		return fmt.Errorf("render report %s: %w", name, err)
	}
	return nil
}

const ReportOrgTemplate = `* PARLAY: {{.Name}} ({{short .ParlayID}})
:PROPERTIES:
:PARLAY_ID:   {{.ParlayID}}
:LEGS:        {{len .Selections}}
:FRAGILITY:   {{printf "%.2f" .Metrics.FinalFragility}}
:STATE:       {{.Classification.State}}
:ACTION:      {{.Recommendation.Action}}
:STAKE_CAP:   {{printf "%.2f" .Enforcement.StakeCap}}
:CREATED:     [{{(orTime .Created).Format "2006-01-02 Mon 15:04"}}]
:END:

** Legs
| Selection | Game | Type | Base | Context | Effective | Corr |
|-----------+------+------+------+---------+-----------+------|
{{- range .Selections }}
| {{.Selection}} | {{.GameID}} | {{.BetType}} | {{printf "%.1f" .BaseFragility}} | {{printf "%.1f" .ContextDelta}} | {{printf "%.1f" .EffectiveFragility}} | {{.CorrelationPenalty}} |
{{- end }}

** Metrics
- Block sum:          {{printf "%.2f" .Metrics.BlockSum}}
- Leg penalty:        {{printf "%.2f" .Metrics.LegPenalty}}
- Correlation:        {{.Metrics.CorrelationPenalty}} (x{{printf "%.2f" .Metrics.CorrelationMultiplier}})
- Raw fragility:      {{printf "%.2f" .Metrics.RawFragility}}
- Final fragility:    *{{printf "%.2f" .Metrics.FinalFragility}}*

** Classification
- State: *{{.Classification.State}}*
- {{.Classification.Explanation}}
- Recommendation: {{.Recommendation.Action}} ({{.Recommendation.Reason}})
{{- if .Correlations }}

** Correlations
| A | B | Type | Penalty |
|---+---+------+---------|
{{- range .Correlations }}
| {{short .SelectionA}} | {{short .SelectionB}} | {{.Type}} | {{.Penalty}} |
{{- end }}
{{- end }}
{{- if .Enforcement.Violations }}

** Violations
{{- range .Enforcement.Violations }}
- [{{.Code}}] {{.Message}}
{{- end }}
{{- end }}
{{- if .Suggestions }}

** Suggestions
| Selection | dF | dC | Score | Label | DNA |
|-----------+----+----+-------+-------+-----|
{{- range .Suggestions }}
| {{.Selection.Text}} | {{printf "%.2f" .DeltaFragility}} | {{.DeltaCorrelation}} | {{printf "%.2f" .Score}} | {{.Label}} | {{yesno .DNACompatible}} |
{{- end }}
{{- end }}
{{- if .Excluded }}

** Excluded
{{- range .Excluded }}
- #{{.Index}} {{.Reason}}{{if .Detail}}: {{.Detail}}{{end}}
{{- end }}
{{- end }}
`
