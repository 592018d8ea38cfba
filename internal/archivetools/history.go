package archivetools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/nexus-audit/internal/archive"
	"github.com/HendryAvila/nexus-audit/internal/format"
)

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 50
)

// HistoryTool handles the audit_history MCP tool.
type HistoryTool struct {
	store *archive.Store
}

// NewHistoryTool creates a HistoryTool with the given archive store.
func NewHistoryTool(store *archive.Store) *HistoryTool {
	return &HistoryTool{store: store}
}

// Definition returns the MCP tool definition for audit_history.
func (t *HistoryTool) Definition() mcp.Tool {
	return mcp.NewTool("audit_history",
		mcp.WithDescription(
			"Review the audit archive. Without 'id', shows archive statistics (systems audited, "+
				"average risk, recommendations issued, breakdown by tier) and the most recent audits. "+
				"With 'id', returns the full archived report.",
		),
		mcp.WithString("id",
			mcp.Description("Archived audit id, as returned by audit_archive"),
		),
		mcp.WithNumber("limit",
			mcp.Description(fmt.Sprintf("Number of recent audits to list (default: %d, max: %d)", defaultHistoryLimit, maxHistoryLimit)),
		),
	)
}

// Handle processes the audit_history tool call.
func (t *HistoryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if id := strings.TrimSpace(req.GetString("id", "")); id != "" {
		rec, err := t.store.Get(id)
		if errors.Is(err, archive.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("no archived audit with id %q", id)), nil
		}
		if errors.Is(err, archive.ErrAmbiguousID) {
			return mcp.NewToolResultError(fmt.Sprintf("id %q matches more than one audit: give more characters", id)), nil
		}
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to load audit: %v", err)), nil
		}
		header := fmt.Sprintf("<!-- archived audit %s, saved %s -->\n\n", rec.ID, rec.CreatedAt.Format("2006-01-02 15:04 MST"))
		return mcp.NewToolResultText(header + rec.Report), nil
	}

	limit := intArg(req, "limit", defaultHistoryLimit)
	if limit < 1 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	stats, err := t.store.Stats()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get stats: %v", err)), nil
	}
	records, err := t.store.Recent(limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list audits: %v", err)), nil
	}

	var sb strings.Builder
	sb.WriteString("## Audit archive\n\n")
	sb.WriteString(archive.RenderStats(stats, format.Markdown))
	sb.WriteString("\n### Recent audits\n\n")
	sb.WriteString(archive.RenderRecent(records, timeNow(), format.Markdown))
	return mcp.NewToolResultText(sb.String()), nil
}
