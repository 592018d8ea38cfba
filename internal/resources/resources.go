// Package resources implements MCP resource handlers for the audit engine.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (nexus://...) following MCP conventions.
// Every resource reads the caller's own session.
package resources

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/nexus-audit/internal/assessment"
	"github.com/HendryAvila/nexus-audit/internal/tools"
)

const (
	StateURI  = "nexus://audit/state"
	ReportURI = "nexus://audit/report"
)

// Handler manages audit resource endpoints.
type Handler struct {
	sessions *tools.SessionResolver
	now      func() time.Time
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(sessions *tools.SessionResolver) *Handler {
	return &Handler{sessions: sessions, now: time.Now}
}

// stateView is the JSON document served by the state resource.
type stateView struct {
	Session   string                      `json:"session"`
	State     *assessment.State           `json:"state"`
	Progress  assessment.Progress         `json:"progress"`
	Aggregate *assessment.AggregateResult `json:"aggregate,omitempty"`
}

// StateResource returns the MCP resource definition for the audit state.
func (h *Handler) StateResource() mcp.Resource {
	return mcp.NewResource(
		StateURI,
		"NEXUS Audit State",
		mcp.WithResourceDescription("Answers, module progress and current risk tier of this session's audit"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleState returns the caller's audit state as JSON.
func (h *Handler) HandleState(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	sess := h.sessions.Session(ctx)
	st := sess.Snapshot()

	view := stateView{
		Session:  sess.ID,
		State:    st,
		Progress: assessment.AuditProgress(st),
	}
	if agg, err := assessment.Aggregate(st); err == nil {
		view.Aggregate = &agg
	}

	contents, err := jsonResource(req.Params.URI, view)
	if err != nil {
		return nil, fmt.Errorf("marshaling audit state: %w", err)
	}
	return contents, nil
}

// ReportResource returns the MCP resource definition for the rendered report.
func (h *Handler) ReportResource() mcp.Resource {
	return mcp.NewResource(
		ReportURI,
		"NEXUS Audit Report",
		mcp.WithResourceDescription("Markdown report of this session's audit; available once the autonomy module is complete"),
		mcp.WithMIMEType("text/markdown"),
	)
}

// HandleReport returns the caller's rendered report, or a plain-text
// explanation when the audit is not ready.
func (h *Handler) HandleReport(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	doc, err := assessment.Render(h.sessions.Session(ctx).Snapshot(), h.now())
	if err != nil {
		if assessment.IsUserError(err) {
			return errorResource(req.Params.URI, err.Error()), nil
		}
		return nil, fmt.Errorf("rendering report: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "text/markdown",
			Text:     doc,
		},
	}, nil
}
