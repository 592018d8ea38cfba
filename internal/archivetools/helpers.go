// Package archivetools provides MCP tool handlers for the audit archive.
//
// Each tool handler follows the same pattern as internal/tools:
// - A struct with dependencies (archive.Store) injected via constructor
// - Definition() returns the mcp.Tool schema
// - Handle() processes the request and returns a result
//
// The archive is optional: the server registers these tools only when
// the store opened.
package archivetools

import (
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cast"
)

// timeNow is swappable for tests.
var timeNow = time.Now

// intArg extracts an integer argument from a tool request, returning
// defaultVal if the key is missing or not a number.
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key]
	if !ok || v == nil {
		return defaultVal
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return defaultVal
	}
	return n
}
