package assessment

import (
	"embed"
	"fmt"
	"strings"
	"text/template"
	"time"
)

//go:embed templates/report.md.tmpl
var templateFS embed.FS

// NotEvaluated is the sentinel printed for sections whose module has not
// been submitted.
const NotEvaluated = "not evaluated"

// DefaultSystemName is printed when the operator gave no system name.
const DefaultSystemName = "System under evaluation"

// reportAdvice is the fixed recommendation block of the report per tier.
var reportAdvice = map[Tier][]string{
	TierCritical: {
		"**IMMEDIATE REVIEW** - critical risk level detected",
		"Strengthen meaningful human controls",
		"Establish emergency protocols",
	},
	TierModerate: {
		"**PRIORITY IMPROVEMENTS** needed in supervision",
		"Document intervention procedures",
		"Train operators on the limits of the system",
	},
	TierAcceptable: {
		"Keep current controls in place",
		"Periodic monitoring recommended",
		"Review annually",
	},
}

var reportTemplate = template.Must(
	template.New("report.md.tmpl").
		Funcs(template.FuncMap{"inc": func(i int) int { return i + 1 }}).
		ParseFS(templateFS, "templates/report.md.tmpl"),
)

// reportView is the flattened data handed to the report template.
type reportView struct {
	Date            string
	SystemName      string
	TierLabel       string
	AutonomyLevel   string
	ControlScore    string
	RiskScore       string
	BiasCount       int
	Values          []string
	Bias            []string
	Recommendations []string
	NotEvaluated    string
}

// ReportRecommendations returns the report's recommendation block for a
// tier. The returned slice is a copy.
func ReportRecommendations(t Tier) []string {
	return append([]string(nil), reportAdvice[t]...)
}

// Render produces the report document. It is a pure function of st and
// now: identical inputs produce byte-identical output. It fails with
// *IncompleteAssessmentError until the autonomy module is evaluated.
func Render(st *State, now time.Time) (string, error) {
	agg, err := Aggregate(st)
	if err != nil {
		return "", err
	}

	view := reportView{
		Date:            now.Format("2006-01-02"),
		SystemName:      DefaultSystemName,
		TierLabel:       agg.Tier.Label(),
		AutonomyLevel:   NotEvaluated,
		ControlScore:    NotEvaluated,
		RiskScore:       NotEvaluated,
		BiasCount:       agg.BiasCount,
		Recommendations: ReportRecommendations(agg.Tier),
		NotEvaluated:    NotEvaluated,
	}

	if a := st.Autonomy; a != nil {
		if a.SystemName != "" {
			view.SystemName = a.SystemName
		}
		view.AutonomyLevel = fmt.Sprintf("%d", a.Level)
		view.ControlScore = fmt.Sprintf("%.2f/5", a.ControlScore)
		view.RiskScore = fmt.Sprintf("%.2f", a.RiskScore)
	}

	if v := st.Values; v != nil {
		for _, name := range ValueOrder {
			view.Values = append(view.Values, fmt.Sprintf("%s: %d points", name.Label(), v.Weights[name]))
		}
		if len(v.Stakeholders) > 0 {
			labels := make([]string, len(v.Stakeholders))
			for i, s := range v.Stakeholders {
				labels[i] = s.Label()
			}
			view.Values = append(view.Values, "Stakeholders: "+strings.Join(labels, ", "))
		}
		if v.Specification != nil {
			view.Values = append(view.Values,
				fmt.Sprintf("Specification (%s): %s", v.Specification.Value.Label(), v.Specification.Text))
		}
	}

	view.Bias = biasLines(st)

	var sb strings.Builder
	if err := reportTemplate.Execute(&sb, view); err != nil {
		return "", fmt.Errorf("rendering report: %w", err)
	}
	return sb.String(), nil
}

func biasLines(st *State) []string {
	var lines []string
	if st.Bias.Submitted {
		if len(st.Bias.Detected) == 0 {
			lines = append(lines, "Detected: none")
		} else {
			labels := make([]string, len(st.Bias.Detected))
			for i, c := range st.Bias.Detected {
				labels[i] = c.Label()
			}
			lines = append(lines, "Detected: "+strings.Join(labels, ", "))
		}
	} else {
		lines = append(lines, "Detection: "+NotEvaluated)
	}
	done, total := ChecklistProgress(st)
	lines = append(lines, fmt.Sprintf("Checklist: %d/%d completed", done, total))
	return lines
}
