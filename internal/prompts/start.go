// Package prompts implements MCP prompt handlers for the audit engine.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// StartPrompt handles the nexus-start MCP prompt.
// It guides the AI through a fresh audit, module by module.
type StartPrompt struct{}

// NewStartPrompt creates a StartPrompt.
func NewStartPrompt() *StartPrompt {
	return &StartPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StartPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("nexus-start",
		mcp.WithPromptDescription(
			"Start an ethical risk self-assessment of an AI system. "+
				"Walks through autonomy and human control, value priorities "+
				"and bias review, then produces the audit report.",
		),
		mcp.WithArgument("system_name",
			mcp.ArgumentDescription("Name of the AI system to audit"),
		),
	)
}

// Handle processes the nexus-start prompt request.
func (p *StartPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	systemName := "my AI system"
	if args := req.Params.Arguments; args != nil {
		if name := strings.TrimSpace(args["system_name"]); name != "" {
			systemName = name
		}
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Start NEXUS audit: %s", systemName),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"I want to run a NEXUS ethical audit of '%s'.\n\n"+
						"Please:\n"+
						"1. Ask me about the system's autonomy level (1 assistant, 2 collaborator, 3 actor), "+
						"whether it learns, acts unsupervised or makes strategic decisions, and score the four "+
						"human-control criteria (comprehension, capability, context, accountability) from 1 to 5. "+
						"Then run `audit_autonomy` with system_name='%s'\n"+
						"2. Help me distribute 100 points across the six values and run `audit_values`\n"+
						"3. Walk me through the six bias categories, run `audit_bias_detect`, and answer "+
						"the review questions with `audit_bias_checklist`\n"+
						"4. Run `audit_report` and explain the critical recommendations\n\n"+
						"Only the autonomy module is mandatory. Ask one question at a time.",
					systemName, systemName,
				)),
			},
		},
	}, nil
}
