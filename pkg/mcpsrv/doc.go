// Package mcpsrv provides an extensible MCP server for JSON schema inference
// over agent CLI stream logs.
//
// The server exposes the builtin tools (infer_schema, extract_schemas,
// validate_samples, query_samples, get_coverage), their resources and
// prompts. Extend it with custom tools, prompts, and resources using
// functional options.
//
// # Basic Usage
//
//	server, err := mcpsrv.NewServer()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer server.Close()
//	server.Run(ctx)
//
// # Extension
//
// Add custom tools using MCP SDK types directly:
//
//	import mcp "github.com/modelcontextprotocol/go-sdk/mcp"
//
//	type MyInput struct {
//	    ExtractionID string `json:"extraction_id"`
//	}
//
//	type MyOutput struct {
//	    Count int `json:"count"`
//	}
//
//	server, err := mcpsrv.NewServer(
//	    mcpsrv.WithDepsTool(&mcp.Tool{Name: "count_groups"}, buildCountGroups),
//	)
//
// # Configuration
//
//	server, err := mcpsrv.NewServer(
//	    mcpsrv.WithLogLevel("debug"),
//	    mcpsrv.WithLogFile("/var/log/agentschema.log"),
//	    mcpsrv.WithProfilesFile("profiles.yaml"),
//	)
package mcpsrv
