package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// ResetTool handles the audit_reset MCP tool.
type ResetTool struct {
	sessions *SessionResolver
}

// NewResetTool creates a ResetTool.
func NewResetTool(sessions *SessionResolver) *ResetTool {
	return &ResetTool{sessions: sessions}
}

// Definition returns the MCP tool definition for registration.
func (t *ResetTool) Definition() mcp.Tool {
	return mcp.NewTool("audit_reset",
		mcp.WithDescription(
			"Start a new audit: discard every answer of the current audit at once. "+
				"Cannot be undone. Requires confirm=true.",
		),
		mcp.WithBoolean("confirm", mcp.Required(),
			mcp.Description("Must be true to discard the current audit"),
		),
	)
}

// Handle processes the audit_reset tool call.
func (t *ResetTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	confirm, err := boolArg(req, "confirm", false)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !confirm {
		return mcp.NewToolResultError("reset not confirmed: call again with confirm=true to discard the current audit"), nil
	}
	sess := t.sessions.Session(ctx)
	sess.Reset()
	logger().Info("audit reset", "session", sess.ID)
	return mcp.NewToolResultText("New audit started. All previous answers were discarded. Begin with `audit_autonomy`."), nil
}
