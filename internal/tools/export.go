package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// ExportTool handles the audit_export MCP tool. Export formats are
// acknowledged but not produced yet.
type ExportTool struct{}

// NewExportTool creates an ExportTool.
func NewExportTool() *ExportTool {
	return &ExportTool{}
}

var exportFormats = map[string]string{
	"pdf":       "PDF export",
	"dashboard": "Dashboard generation",
}

// Definition returns the MCP tool definition for registration.
func (t *ExportTool) Definition() mcp.Tool {
	return mcp.NewTool("audit_export",
		mcp.WithDescription("Export the audit as a PDF or a dashboard. Both formats are planned for a future version."),
		mcp.WithString("format", mcp.Required(),
			mcp.Description("Export format: pdf or dashboard"),
			mcp.Enum("pdf", "dashboard"),
		),
	)
}

// Handle processes the audit_export tool call.
func (t *ExportTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	format := strings.ToLower(strings.TrimSpace(req.GetString("format", "")))
	name, ok := exportFormats[format]
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown export format %q: use pdf or dashboard", format)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"%s is planned for a future version. Use `audit_report` to get the Markdown report now.", name,
	)), nil
}
