package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/nexus-audit/internal/assessment"
)

// ReportTool handles the audit_report MCP tool.
type ReportTool struct {
	sessions *SessionResolver
}

// NewReportTool creates a ReportTool.
func NewReportTool(sessions *SessionResolver) *ReportTool {
	return &ReportTool{sessions: sessions}
}

// Definition returns the MCP tool definition for registration.
func (t *ReportTool) Definition() mcp.Tool {
	return mcp.NewTool("audit_report",
		mcp.WithDescription(
			"Render the full audit report as Markdown. Requires the autonomy module. "+
				"The report is deterministic for a given audit and date; it does not change the audit.",
		),
	)
}

// Handle processes the audit_report tool call.
func (t *ReportTool) Handle(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc, err := assessment.Render(t.sessions.Session(ctx).Snapshot(), timeNow())
	if err != nil {
		if assessment.IsUserError(err) {
			return toolError(err), nil
		}
		return nil, err
	}
	return mcp.NewToolResultText(doc), nil
}
