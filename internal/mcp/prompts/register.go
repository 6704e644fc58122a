package prompts

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all prompts with the MCP server.
func Register(srv *sdkmcp.Server, cfg *Config) {
	// Prompt 1: Tool usage guide
	srv.AddPrompt(&sdkmcp.Prompt{
		Name:        "schema_guide",
		Description: "RECOMMENDED: Short guide to the schema tools, their outputs and how they chain. Start here before calling extract_schemas.",
	}, HandleBasePrompt(cfg))

	// Prompt 2: Coverage audit workflow
	srv.AddPrompt(&sdkmcp.Prompt{
		Name:        "audit_agent_output",
		Description: "Audit the stdout events captured from agent CLIs: extract schemas, check coverage against expected event kinds, and find fields worth documenting.",
		Arguments: []*sdkmcp.PromptArgument{
			{
				Name:        "input_dir",
				Description: "Directory containing *-stream-*.log captures",
				Required:    false,
			},
			{
				Name:        "agent",
				Description: "Restrict the audit to one agent (e.g. claude, codex, gemini)",
				Required:    false,
			},
		},
	}, HandleAuditAgentOutput(cfg))
}
