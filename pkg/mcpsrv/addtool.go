package mcpsrv

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/and-viceversa/mullvad-api-wrapper/internal/mcp/tools"
)

// AddTool registers a tool on srv the way the builtin mullvad_* tools are
// registered, for callers that attach tools to MCPServer() after NewServer.
//
// It panics when the zero value of Out would not match the output schema the
// SDK infers, typically a slice field without omitzero that encodes as null.
// Errors returned by the handler that come from the mullvad client reach the
// MCP client with a code such as INVALID_INPUT, UPSTREAM_SCHEMA or TIMEOUT.
func AddTool[In, Out any](srv *sdkmcp.Server, t *sdkmcp.Tool, h sdkmcp.ToolHandlerFor[In, Out]) {
	tools.AddTool(srv, t, h)
}
