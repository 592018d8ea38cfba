package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/nexus-audit/internal/assessment"
)

// ProgressTool handles the audit_progress MCP tool.
type ProgressTool struct {
	sessions *SessionResolver
}

// NewProgressTool creates a ProgressTool.
func NewProgressTool(sessions *SessionResolver) *ProgressTool {
	return &ProgressTool{sessions: sessions}
}

// Definition returns the MCP tool definition for registration.
func (t *ProgressTool) Definition() mcp.Tool {
	return mcp.NewTool("audit_progress",
		mcp.WithDescription("Show which audit modules are complete and what to do next."),
	)
}

// Handle processes the audit_progress tool call.
func (t *ProgressTool) Handle(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st := t.sessions.Session(ctx).Snapshot()
	return mcp.NewToolResultText(progressText(st)), nil
}

var moduleTools = map[assessment.Module]string{
	assessment.ModuleAutonomy: "audit_autonomy",
	assessment.ModuleValues:   "audit_values",
	assessment.ModuleBias:     "audit_bias_detect",
}

// progressText renders the progress dashboard for st.
func progressText(st *assessment.State) string {
	p := assessment.AuditProgress(st)

	var sb strings.Builder
	sb.WriteString("# Audit progress\n\n")
	if st.Autonomy != nil && st.Autonomy.SystemName != "" {
		fmt.Fprintf(&sb, "**System:** %s\n\n", st.Autonomy.SystemName)
	}
	sb.WriteString("| Module | Status | Tool |\n|---|---|---|\n")
	for _, m := range p.Modules {
		status := "pending"
		if m.Complete {
			status = "complete"
		}
		fmt.Fprintf(&sb, "| %s | %s (%d%%) | `%s` |\n", m.Module, status, m.Percent, moduleTools[m.Module])
	}
	fmt.Fprintf(&sb, "\nBias checklist: %d/%d completed\n", p.ChecklistCompleted, p.ChecklistTotal)

	if agg, err := assessment.Aggregate(st); err == nil {
		fmt.Fprintf(&sb, "\n**Current risk tier:** %s. Run `audit_report` for the full report.\n", agg.Tier.Label())
	} else {
		sb.WriteString("\nNext: complete the autonomy module with `audit_autonomy`; summary and report need it.\n")
	}
	return sb.String()
}
