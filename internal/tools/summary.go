package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/nexus-audit/internal/assessment"
)

// SummaryTool handles the audit_summary MCP tool.
type SummaryTool struct {
	sessions *SessionResolver
}

// NewSummaryTool creates a SummaryTool.
func NewSummaryTool(sessions *SessionResolver) *SummaryTool {
	return &SummaryTool{sessions: sessions}
}

// Definition returns the MCP tool definition for registration.
func (t *SummaryTool) Definition() mcp.Tool {
	return mcp.NewTool("audit_summary",
		mcp.WithDescription(
			"Show the overall risk tier and key figures of the current audit. "+
				"Requires the autonomy module. The tier is derived from the autonomy risk score only; "+
				"values and bias add context but never change it.",
		),
	)
}

// Handle processes the audit_summary tool call.
func (t *SummaryTool) Handle(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	agg, err := assessment.Aggregate(t.sessions.Session(ctx).Snapshot())
	if err != nil {
		return toolError(err), nil
	}

	var sb strings.Builder
	sb.WriteString("# Audit summary\n\n")
	fmt.Fprintf(&sb, "**Overall risk tier:** %s\n\n", agg.Tier.Label())
	fmt.Fprintf(&sb, "- Autonomy level: %d\n", agg.AutonomyLevel)
	fmt.Fprintf(&sb, "- Human control score: %.2f/5\n", agg.ControlScore)
	fmt.Fprintf(&sb, "- Autonomy risk score: %.2f\n", agg.RiskScore)
	fmt.Fprintf(&sb, "- Biases detected: %d\n", agg.BiasCount)
	values := assessment.NotEvaluated
	if agg.HasValues {
		values = "evaluated"
	}
	fmt.Fprintf(&sb, "- Value priorities: %s\n\n", values)
	sb.WriteString("## Critical recommendations\n\n")
	for i, line := range assessment.ReportRecommendations(agg.Tier) {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, line)
	}
	return mcp.NewToolResultText(sb.String()), nil
}
