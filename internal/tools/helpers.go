// Package tools implements the MCP tool handlers of the audit engine.
//
// Each tool is a struct that receives its dependencies via constructor,
// exposes Definition() for registration and Handle() for calls. One file
// per tool. Handlers report operator mistakes as tool errors and reserve
// Go errors for infrastructure failures.
package tools

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cast"

	"github.com/HendryAvila/nexus-audit/internal/assessment"
	"github.com/HendryAvila/nexus-audit/internal/logging"
)

// DefaultSessionID keys the audit of a client that has no MCP session,
// such as a plain stdio host.
const DefaultSessionID = "default"

// timeNow is swappable for tests.
var timeNow = time.Now

func logger() *slog.Logger {
	return logging.New("tools")
}

// SessionResolver maps a tool call to the audit session of its client.
type SessionResolver struct {
	registry *assessment.Registry
	keyFunc  func(ctx context.Context) string
}

// NewSessionResolver resolves sessions by MCP client session id.
func NewSessionResolver(reg *assessment.Registry) *SessionResolver {
	return &SessionResolver{registry: reg, keyFunc: SessionKey}
}

// SessionKey returns the MCP session id carried by ctx, or
// DefaultSessionID when there is none.
func SessionKey(ctx context.Context) string {
	if cs := server.ClientSessionFromContext(ctx); cs != nil {
		if id := cs.SessionID(); id != "" {
			return id
		}
	}
	return DefaultSessionID
}

// Session returns the caller's audit session, creating it on first use.
func (r *SessionResolver) Session(ctx context.Context) *assessment.Session {
	return r.registry.Get(r.keyFunc(ctx))
}

// intArg reads a required whole-number argument. JSON numbers arrive as
// float64; numeric strings are accepted too.
func intArg(req mcp.CallToolRequest, key string) (int, error) {
	v, ok := req.GetArguments()[key]
	if !ok || v == nil {
		return 0, fmt.Errorf("'%s' is required", key)
	}
	if f, isFloat := v.(float64); isFloat && f != math.Trunc(f) {
		return 0, fmt.Errorf("'%s' must be a whole number, got %v", key, f)
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return 0, fmt.Errorf("'%s' must be a whole number, got %v", key, v)
	}
	return n, nil
}

// boolArg reads an optional boolean argument.
func boolArg(req mcp.CallToolRequest, key string, defaultVal bool) (bool, error) {
	v, ok := req.GetArguments()[key]
	if !ok || v == nil {
		return defaultVal, nil
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return defaultVal, fmt.Errorf("'%s' must be true or false, got %v", key, v)
	}
	return b, nil
}

// listArg splits a comma-separated argument into trimmed, lower-cased ids.
func listArg(req mcp.CallToolRequest, key string) []string {
	raw := req.GetString(key, "")
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.ToLower(strings.TrimSpace(part)); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// toolError renders an engine error as a tool error result.
func toolError(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(err.Error())
}

func bullets(sb *strings.Builder, lines []string) {
	for _, l := range lines {
		fmt.Fprintf(sb, "- %s\n", l)
	}
}
