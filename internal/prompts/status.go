package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// StatusPrompt handles the nexus-status MCP prompt.
// It instructs the AI to read and present the current audit state.
type StatusPrompt struct{}

// NewStatusPrompt creates a StatusPrompt.
func NewStatusPrompt() *StatusPrompt {
	return &StatusPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StatusPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("nexus-status",
		mcp.WithPromptDescription(
			"Check the progress of the current audit. "+
				"Shows completed modules, the current risk tier "+
				"and what to do next.",
		),
	)
}

// Handle processes the nexus-status prompt request.
func (p *StatusPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: "NEXUS Audit Status",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"Please run `audit_progress` to check my audit.\n\n" +
						"Then:\n" +
						"1. Show me which modules are complete\n" +
						"2. If the autonomy module is complete, run `audit_summary` and show the risk tier\n" +
						"3. Tell me exactly what I should do next\n" +
						"4. If the tier is HIGH RISK, list the critical recommendations first",
				),
			},
		},
	}, nil
}
