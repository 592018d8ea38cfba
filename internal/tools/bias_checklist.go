package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/nexus-audit/internal/assessment"
)

// BiasChecklistTool handles the audit_bias_checklist MCP tool.
type BiasChecklistTool struct {
	sessions *SessionResolver
}

// NewBiasChecklistTool creates a BiasChecklistTool.
func NewBiasChecklistTool(sessions *SessionResolver) *BiasChecklistTool {
	return &BiasChecklistTool{sessions: sessions}
}

// Definition returns the MCP tool definition for registration.
func (t *BiasChecklistTool) Definition() mcp.Tool {
	ids := make([]string, len(assessment.ChecklistOrder))
	for i, q := range assessment.ChecklistOrder {
		ids[i] = string(q)
	}
	return mcp.NewTool("audit_bias_checklist",
		mcp.WithDescription(
			"Answer one question of the manual bias checklist, or list the checklist when "+
				"'question' is omitted. The checklist is independent of bias detection.",
		),
		mcp.WithString("question",
			mcp.Description("Question id: "+strings.Join(ids, ", ")),
			mcp.Enum(ids...),
		),
		mcp.WithBoolean("checked",
			mcp.Description("Whether the item is satisfied (default: true)"),
		),
	)
}

// Handle processes the audit_bias_checklist tool call.
func (t *BiasChecklistTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := t.sessions.Session(ctx)
	question := strings.ToLower(strings.TrimSpace(req.GetString("question", "")))

	if question != "" {
		checked, err := boolArg(req, "checked", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		err = sess.Update(func(st *assessment.State) error {
			return assessment.SetChecklistItem(st, assessment.ChecklistQuestion(question), checked)
		})
		if err != nil {
			return toolError(err), nil
		}
	}

	st := sess.Snapshot()
	done, total := assessment.ChecklistProgress(st)

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Bias checklist (%d/%d completed)\n\n", done, total)
	for _, q := range assessment.ChecklistOrder {
		mark := " "
		if st.Bias.Checklist[q] {
			mark = "x"
		}
		fmt.Fprintf(&sb, "- [%s] `%s` %s\n", mark, q, q.Text())
	}
	return mcp.NewToolResultText(sb.String()), nil
}
