package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/nexus-audit/internal/assessment"
)

// ValuesTool handles the audit_values MCP tool.
type ValuesTool struct {
	sessions *SessionResolver
}

// NewValuesTool creates a ValuesTool.
func NewValuesTool(sessions *SessionResolver) *ValuesTool {
	return &ValuesTool{sessions: sessions}
}

// Definition returns the MCP tool definition for registration.
func (t *ValuesTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(
			"Distribute 100 points across six human values (module 2, optional). " +
				"The six weights must sum to exactly 100; otherwise nothing is stored and any " +
				"previous allocation is kept. Optionally name the stakeholders affected and one " +
				"technical specification for fairness, transparency or privacy.",
		),
	}
	for _, v := range assessment.ValueOrder {
		opts = append(opts, mcp.WithNumber(string(v), mcp.Required(),
			mcp.Description(fmt.Sprintf("Points for %s (0-100)", v.Label())),
		))
	}
	opts = append(opts,
		mcp.WithString("stakeholders",
			mcp.Description("Comma-separated stakeholder ids: "+stakeholderIDs()),
		),
		mcp.WithString("spec_value",
			mcp.Description("Value the technical specification applies to: fairness, transparency or privacy"),
		),
		mcp.WithString("spec_text",
			mcp.Description("Technical specification, e.g. 'equal opportunity: max 5% TPR gap between groups'"),
		),
	)
	return mcp.NewTool("audit_values", opts...)
}

func stakeholderIDs() string {
	ids := make([]string, len(assessment.StakeholderOrder))
	for i, s := range assessment.StakeholderOrder {
		ids[i] = string(s)
	}
	return strings.Join(ids, ", ")
}

// Handle processes the audit_values tool call.
func (t *ValuesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in := assessment.ValuesInput{Weights: make(map[assessment.ValueName]int, len(assessment.ValueOrder))}
	for _, v := range assessment.ValueOrder {
		n, err := intArg(req, string(v))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		in.Weights[v] = n
	}
	for _, s := range listArg(req, "stakeholders") {
		in.Stakeholders = append(in.Stakeholders, assessment.Stakeholder(s))
	}

	specValue := strings.ToLower(strings.TrimSpace(req.GetString("spec_value", "")))
	specText := req.GetString("spec_text", "")
	switch {
	case specValue != "":
		in.Specification = &assessment.ValueSpecification{Value: assessment.ValueName(specValue), Text: specText}
	case strings.TrimSpace(specText) != "":
		return mcp.NewToolResultError("'spec_value' is required when 'spec_text' is given"), nil
	}

	var res assessment.ValuesResult
	sess := t.sessions.Session(ctx)
	err := sess.Update(func(st *assessment.State) error {
		var err error
		res, err = assessment.EvaluateValues(st, in)
		return err
	})
	if err != nil {
		total := assessment.WeightTotal(in.Weights)
		msg := err.Error()
		if total != assessment.TotalPoints {
			msg = fmt.Sprintf("%s (current total: %d/%d). Previous allocation kept.", msg, total, assessment.TotalPoints)
		}
		return mcp.NewToolResultError(msg), nil
	}
	logger().Debug("values submitted", "session", sess.ID, "primary", res.Primary)

	var sb strings.Builder
	sb.WriteString("# Value priorities\n\n")
	fmt.Fprintf(&sb, "Total: %d/%d points\n\n", assessment.TotalPoints, assessment.TotalPoints)
	sb.WriteString("| Value | Points | Share |\n|---|---:|---:|\n")
	for _, a := range res.Allocations {
		fmt.Fprintf(&sb, "| %s | %d | %.0f%% |\n", a.Value.Label(), a.Points, a.Share*100)
	}
	fmt.Fprintf(&sb, "\n**Primary value:** %s\n", res.Primary.Label())
	if len(res.Stakeholders) > 0 {
		labels := make([]string, len(res.Stakeholders))
		for i, s := range res.Stakeholders {
			labels[i] = s.Label()
		}
		fmt.Fprintf(&sb, "**Stakeholders:** %s\n", strings.Join(labels, ", "))
	}
	if spec := sess.Snapshot().Values.Specification; spec != nil {
		fmt.Fprintf(&sb, "**Specification (%s):** %s\n", spec.Value.Label(), spec.Text)
	}
	return mcp.NewToolResultText(sb.String()), nil
}
