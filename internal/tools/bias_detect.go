package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/nexus-audit/internal/assessment"
)

// BiasDetectTool handles the audit_bias_detect MCP tool.
type BiasDetectTool struct {
	sessions *SessionResolver
}

// NewBiasDetectTool creates a BiasDetectTool.
func NewBiasDetectTool(sessions *SessionResolver) *BiasDetectTool {
	return &BiasDetectTool{sessions: sessions}
}

// Definition returns the MCP tool definition for registration.
func (t *BiasDetectTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(
			"Record which of the six bias categories were detected (module 3, optional). " +
				"Each call replaces the previous detection; omitted categories count as not detected. " +
				"Returns review hints and mitigation actions for every detected category.",
		),
	}
	for _, c := range assessment.BiasOrder {
		opts = append(opts, mcp.WithBoolean(string(c),
			mcp.Description(fmt.Sprintf("%s bias detected. %s", c.Label(), assessment.Hint(c))),
		))
	}
	return mcp.NewTool("audit_bias_detect", opts...)
}

// Handle processes the audit_bias_detect tool call.
func (t *BiasDetectTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	flags := make(map[assessment.BiasCategory]bool, len(assessment.BiasOrder))
	for _, c := range assessment.BiasOrder {
		v, err := boolArg(req, string(c), false)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		flags[c] = v
	}

	var res assessment.BiasResult
	sess := t.sessions.Session(ctx)
	err := sess.Update(func(st *assessment.State) error {
		var err error
		res, err = assessment.DetectBias(st, flags)
		return err
	})
	if err != nil {
		return toolError(err), nil
	}
	logger().Debug("bias detection submitted", "session", sess.ID, "detected", len(res.Detected))

	var sb strings.Builder
	sb.WriteString("# Bias detection\n\n")
	if len(res.Findings) == 0 {
		sb.WriteString("No bias categories detected.\n")
	} else {
		fmt.Fprintf(&sb, "%d bias categories detected.\n", len(res.Findings))
	}
	for _, f := range res.Findings {
		fmt.Fprintf(&sb, "\n## %s bias\n\n%s\n\nMitigation actions:\n", f.Category.Label(), f.Hint)
		bullets(&sb, f.Mitigations)
	}
	done, total := assessment.ChecklistProgress(sess.Snapshot())
	fmt.Fprintf(&sb, "\nChecklist: %d/%d completed. Use `audit_bias_checklist` to answer the review questions.\n", done, total)

	return mcp.NewToolResultText(sb.String()), nil
}
