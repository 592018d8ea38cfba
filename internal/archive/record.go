package archive

import (
	"fmt"
	"strings"
	"time"

	"github.com/HendryAvila/nexus-audit/internal/assessment"
	"github.com/HendryAvila/nexus-audit/internal/format"
)

// NewRecord builds the archive entry for a rendered report. It fails
// with an incomplete-assessment error when the state has no autonomy
// record.
func NewRecord(sessionID string, st *assessment.State, report string) (Record, error) {
	agg, err := assessment.Aggregate(st)
	if err != nil {
		return Record{}, err
	}
	name := assessment.DefaultSystemName
	if st.Autonomy.SystemName != "" {
		name = st.Autonomy.SystemName
	}
	return Record{
		SessionID:       sessionID,
		SystemName:      name,
		Tier:            agg.Tier,
		AutonomyLevel:   agg.AutonomyLevel,
		ControlScore:    agg.ControlScore,
		RiskScore:       agg.RiskScore,
		BiasCount:       agg.BiasCount,
		Recommendations: len(assessment.ReportRecommendations(agg.Tier)),
		Report:          report,
	}, nil
}

// RenderRecent lists archived audits as a table, newest first.
func RenderRecent(records []Record, now time.Time, m format.Mode) string {
	if len(records) == 0 {
		return "No archived audits yet. Use audit_archive after generating a report.\n"
	}
	tb := format.NewTable(m)
	tb.Header("id", "system", "tier", "risk", "biases", "saved")
	for _, r := range records {
		tb.Row(r.ID[:min(8, len(r.ID))], format.Truncate(r.SystemName, 32), r.Tier.Label(),
			fmt.Sprintf("%.2f", r.RiskScore), r.BiasCount, format.Since(r.CreatedAt, now))
	}
	tb.Columns(format.ColumnConfig{Number: 4, Align: format.AlignRight}, format.ColumnConfig{Number: 5, Align: format.AlignRight})
	return tb.String() + "\n"
}

// RenderStats renders the dashboard figures.
func RenderStats(st *Stats, m format.Mode) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Systems audited: %s (%s in the last 7 days)\n", format.Count(st.Total), format.Count(st.LastWeek))
	if st.Total > 0 {
		fmt.Fprintf(&b, "Average risk: %.2f (%s)\n", st.AverageRisk, assessment.ClassifyRisk(st.AverageRisk).Label())
	}
	fmt.Fprintf(&b, "Recommendations: %s (%s critical)\n\n", format.Count(st.Recommendations), format.Count(st.CriticalRecommendations))

	tb := format.NewTable(m)
	tb.Header("tier", "audits")
	for _, t := range []assessment.Tier{assessment.TierCritical, assessment.TierModerate, assessment.TierAcceptable} {
		tb.Row(t.Label(), st.ByTier[t])
	}
	tb.Footer("total", st.Total)
	b.WriteString(tb.String())
	b.WriteString("\n")
	return b.String()
}
