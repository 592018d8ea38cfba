package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/nexus-audit/internal/assessment"
)

// AutonomyTool handles the audit_autonomy MCP tool.
type AutonomyTool struct {
	sessions *SessionResolver
}

// NewAutonomyTool creates an AutonomyTool.
func NewAutonomyTool(sessions *SessionResolver) *AutonomyTool {
	return &AutonomyTool{sessions: sessions}
}

// Definition returns the MCP tool definition for registration.
func (t *AutonomyTool) Definition() mcp.Tool {
	return mcp.NewTool("audit_autonomy",
		mcp.WithDescription(
			"Evaluate the autonomy of the audited system (module 1, mandatory). "+
				"Scores the C4 human-control rubric and computes the autonomy risk score "+
				"(2 x level - mean rubric). Submitting again replaces the previous answers. "+
				"Summary and report are unavailable until this module is complete.",
		),
		mcp.WithString("system_name",
			mcp.Description("Name of the system under evaluation (optional, shown in the report)"),
		),
		mcp.WithNumber("level", mcp.Required(),
			mcp.Description("Autonomy level: 1 = assistant (suggests), 2 = collaborator (acts under supervision), 3 = actor (decides autonomously)"),
		),
		mcp.WithBoolean("can_learn", mcp.Description("The system learns or adapts from new data")),
		mcp.WithBoolean("acts_unsupervised", mcp.Description("The system acts without real-time human supervision")),
		mcp.WithBoolean("makes_strategic_decisions", mcp.Description("The system makes strategic or high-impact decisions")),
		mcp.WithNumber("comprehension", mcp.Required(),
			mcp.Description("1-5: how well operators understand how the system reaches its outputs"),
		),
		mcp.WithNumber("capability", mcp.Required(),
			mcp.Description("1-5: how easily a human can intervene or override a decision"),
		),
		mcp.WithNumber("context", mcp.Required(),
			mcp.Description("1-5: how well the operating context and its limits are documented"),
		),
		mcp.WithNumber("accountability", mcp.Required(),
			mcp.Description("1-5: how clearly responsibility for consequences is assigned"),
		),
	)
}

// Handle processes the audit_autonomy tool call.
func (t *AutonomyTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in := assessment.AutonomyInput{SystemName: req.GetString("system_name", "")}

	ints := []struct {
		key string
		dst *int
	}{
		{"level", &in.Level},
		{"comprehension", &in.Comprehension},
		{"capability", &in.Capability},
		{"context", &in.Context},
		{"accountability", &in.Accountability},
	}
	for _, f := range ints {
		v, err := intArg(req, f.key)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		*f.dst = v
	}
	flags := []struct {
		key string
		dst *bool
	}{
		{"can_learn", &in.CanLearn},
		{"acts_unsupervised", &in.ActsUnsupervised},
		{"makes_strategic_decisions", &in.MakesStrategicDecisions},
	}
	for _, f := range flags {
		v, err := boolArg(req, f.key, false)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		*f.dst = v
	}

	var res assessment.AutonomyResult
	sess := t.sessions.Session(ctx)
	err := sess.Update(func(st *assessment.State) error {
		var err error
		res, err = assessment.EvaluateAutonomy(st, in)
		return err
	})
	if err != nil {
		return toolError(err), nil
	}
	logger().Debug("autonomy submitted", "session", sess.ID, "level", in.Level, "risk", res.Record.RiskScore)

	var sb strings.Builder
	sb.WriteString("# Autonomy evaluation\n\n")
	if res.Record.SystemName != "" {
		fmt.Fprintf(&sb, "**System:** %s\n", res.Record.SystemName)
	}
	fmt.Fprintf(&sb, "**Autonomy level:** %d\n", res.Record.Level)
	fmt.Fprintf(&sb, "**Human control score:** %.2f/5\n", res.Record.ControlScore)
	fmt.Fprintf(&sb, "**Autonomy risk score:** %.2f\n", res.Record.RiskScore)
	fmt.Fprintf(&sb, "**Risk tier:** %s\n\n", res.Tier.Label())
	fmt.Fprintf(&sb, "## %s\n\n", res.Headline)
	bullets(&sb, res.Recommendations)
	sb.WriteString("\nNext: allocate value priorities with `audit_values`, or review biases with `audit_bias_detect`.\n")

	return mcp.NewToolResultText(sb.String()), nil
}
