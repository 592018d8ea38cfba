package archivetools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/nexus-audit/internal/archive"
	"github.com/HendryAvila/nexus-audit/internal/assessment"
	"github.com/HendryAvila/nexus-audit/internal/logging"
	"github.com/HendryAvila/nexus-audit/internal/tools"
)

// ArchiveTool handles the audit_archive MCP tool.
type ArchiveTool struct {
	store    *archive.Store
	sessions *tools.SessionResolver
}

// NewArchiveTool creates an ArchiveTool that saves the caller's audit to store.
func NewArchiveTool(store *archive.Store, sessions *tools.SessionResolver) *ArchiveTool {
	return &ArchiveTool{store: store, sessions: sessions}
}

// Definition returns the MCP tool definition for audit_archive.
func (t *ArchiveTool) Definition() mcp.Tool {
	return mcp.NewTool("audit_archive",
		mcp.WithDescription(
			"Save the current audit and its rendered report to the local archive, so it can be "+
				"reviewed later with audit_history. Requires the autonomy module. Each call stores a new entry; "+
				"the live audit is not changed.",
		),
	)
}

// Handle processes the audit_archive tool call.
func (t *ArchiveTool) Handle(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := t.sessions.Session(ctx)
	st := sess.Snapshot()

	report, err := assessment.Render(st, timeNow())
	if err != nil {
		if assessment.IsUserError(err) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return nil, err
	}
	rec, err := archive.NewRecord(sess.ID, st, report)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rec, err = t.store.Save(rec)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to archive audit: %v", err)), nil
	}
	logging.New("archivetools").Info("audit archived", "id", rec.ID, "session", sess.ID, "tier", rec.Tier)

	var sb strings.Builder
	sb.WriteString("## Audit archived\n\n")
	fmt.Fprintf(&sb, "- **ID**: `%s`\n", rec.ID)
	fmt.Fprintf(&sb, "- **System**: %s\n", rec.SystemName)
	fmt.Fprintf(&sb, "- **Risk tier**: %s\n", rec.Tier.Label())
	fmt.Fprintf(&sb, "- **Saved**: %s\n", rec.CreatedAt.Format("2006-01-02 15:04 MST"))
	sb.WriteString("\nUse `audit_history` to list archived audits or fetch this report by id.\n")
	return mcp.NewToolResultText(sb.String()), nil
}
