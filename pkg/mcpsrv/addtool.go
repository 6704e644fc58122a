package mcpsrv

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/agentschema/internal/mcp/tools"
)

// AddTool registers a tool on srv like [sdkmcp.AddTool], first checking that
// the zero value of Out validates against the output schema the SDK infers
// for it. A nil slice field without omitzero is the usual failure.
//
// Panics with the offending field when the check fails, so broken output
// types surface at startup instead of on the first call.
func AddTool[In, Out any](srv *sdkmcp.Server, t *sdkmcp.Tool, h sdkmcp.ToolHandlerFor[In, Out]) {
	tools.AddTool(srv, t, h)
}
