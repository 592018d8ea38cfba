package tools

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/nexus-audit/internal/dataset"
	"github.com/HendryAvila/nexus-audit/internal/format"
)

// DatasetTool handles the dataset_describe MCP tool. It profiles a CSV
// file for bias review and never touches the audit.
type DatasetTool struct {
	limits dataset.Limits
}

// NewDatasetTool creates a DatasetTool bounded by limits.
func NewDatasetTool(limits dataset.Limits) *DatasetTool {
	return &DatasetTool{limits: limits}
}

// Definition returns the MCP tool definition for registration.
func (t *DatasetTool) Definition() mcp.Tool {
	return mcp.NewTool("dataset_describe",
		mcp.WithDescription(
			"Profile a CSV dataset for automatic bias review: descriptive statistics per column "+
				"(count, mean, std, quartiles for numbers; unique, top, freq for text) and, when "+
				"'column' is given, its distribution. Provide either 'path' or inline 'content'. "+
				fmt.Sprintf("Limits: %s, %s rows.", format.Bytes(t.limits.MaxBytes), format.Count(t.limits.MaxRows)),
		),
		mcp.WithString("path", mcp.Description("Path to a CSV file with a header row")),
		mcp.WithString("content", mcp.Description("CSV text with a header row, as an alternative to 'path'")),
		mcp.WithString("column", mcp.Description("Column to show the distribution of (optional)")),
	)
}

// Handle processes the dataset_describe tool call.
func (t *DatasetTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := strings.TrimSpace(req.GetString("path", ""))
	content := req.GetString("content", "")

	var r io.Reader
	switch {
	case path != "" && content != "":
		return mcp.NewToolResultError("provide either 'path' or 'content', not both"), nil
	case path != "":
		f, err := os.Open(path)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("cannot open dataset: %v", err)), nil
		}
		defer func() { _ = f.Close() }()
		r = f
	case content != "":
		r = strings.NewReader(content)
	default:
		return mcp.NewToolResultError("'path' or 'content' is required"), nil
	}

	text, err := Profile(ctx, r, t.limits, req.GetString("column", ""), format.Markdown)
	if err != nil {
		var pe *dataset.ParseError
		if errors.As(err, &pe) || errors.Is(err, dataset.ErrUnknownColumn) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return nil, err
	}
	return mcp.NewToolResultText(text), nil
}

// Profile loads r and renders its summary, plus the distribution of
// column when it is non-empty. It is shared with the dataset command.
func Profile(ctx context.Context, r io.Reader, limits dataset.Limits, column string, m format.Mode) (string, error) {
	d, err := dataset.Load(ctx, r, limits)
	if err != nil {
		return "", err
	}
	defer func() { _ = d.Close() }()

	cols, err := d.Describe(ctx)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(d.Summary())
	sb.WriteString("\n\n")
	sb.WriteString(dataset.RenderProfile(cols, m))

	if column = strings.TrimSpace(column); column != "" {
		dist, err := d.Distribution(ctx, column)
		if err != nil {
			return "", err
		}
		sb.WriteString("\n")
		sb.WriteString(dataset.RenderDistribution(dist, m))
	}
	return sb.String(), nil
}
