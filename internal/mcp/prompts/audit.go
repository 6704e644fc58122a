package prompts

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// HandleAuditAgentOutput implements the agent output audit workflow.
func HandleAuditAgentOutput(cfg *Config) func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
	return func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
		inputDir := cfg.DefaultInputDir
		agent := ""
		if args := req.Params.Arguments; args != nil {
			if v := args["input_dir"]; v != "" {
				inputDir = v
			}
			agent = args["agent"]
		}

		var sb strings.Builder

		sb.WriteString("# Audit Agent CLI Output\n\n")
		sb.WriteString("You are documenting the machine-readable stdout protocol of coding agent CLIs. ")
		sb.WriteString("Your goal is an accurate, evidence-backed description of every event kind the captured logs contain.\n\n")

		sb.WriteString("## Workflow Steps\n\n")
		sb.WriteString("1. **Extract** - Scan the captures and build one schema per group\n")
		if agent != "" {
			fmt.Fprintf(&sb, "   - `extract_schemas(input_dir: %q, agents: [%q])`\n", inputDir, agent)
		} else {
			fmt.Fprintf(&sb, "   - `extract_schemas(input_dir: %q)`\n", inputDir)
		}
		sb.WriteString("   - Check `stats.json_failed`: a high count means the agent printed non-JSON lines on stdout\n\n")
		sb.WriteString("2. **Coverage** - `get_coverage(extraction_id)`\n")
		sb.WriteString("   - `missing` kinds were expected but never captured; plan another capture run that triggers them\n")
		sb.WriteString("   - `unknown` kinds are new; they need documenting first\n\n")
		sb.WriteString("3. **Inspect groups** - For each group with few `stored` samples or a surprising shape\n")
		sb.WriteString("   - `infer_schema(extraction_id, key)` for `field_stats`\n")
		sb.WriteString("   - `query_samples(extraction_id, key, expression)` to read the actual values behind an `anyOf` or optional field\n\n")
		sb.WriteString("4. **Check a documented schema** - When you already have a hand-written schema\n")
		sb.WriteString("   - `validate_samples(schema, extraction_id, key)` reports which stored samples it rejects and the most common errors\n\n")

		sb.WriteString("## Output Format\n\n")
		sb.WriteString("Produce one section per agent:\n")
		sb.WriteString("- Table of event kinds with observed count and a one-line meaning\n")
		sb.WriteString("- Required versus optional fields for each kind, citing frequencies from `field_stats`\n")
		sb.WriteString("- Content block types and tool inputs seen\n")
		sb.WriteString("- Missing and unknown kinds from the coverage report\n")

		return &sdkmcp.GetPromptResult{
			Description: "Agent output audit workflow",
			Messages: []*sdkmcp.PromptMessage{
				{
					Role:    "user",
					Content: &sdkmcp.TextContent{Text: sb.String()},
				},
			},
		}, nil
	}
}
