package prompts

import (
	"context"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// HandleBasePrompt serves the tool usage guide.
// The agent list reflects the loaded profiles.
func HandleBasePrompt(cfg *Config) func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
	return func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
		var sb strings.Builder

		sb.WriteString("# Schema Tools Guide\n\n")

		// --- Tool table ---
		sb.WriteString("## Which Tool\n\n")
		sb.WriteString("| Goal | Tool | Example |\n")
		sb.WriteString("|------|------|--------|\n")
		sb.WriteString("| Schema for a handful of JSON values | `infer_schema` | `infer_schema(samples: [{...}, {...}])` |\n")
		sb.WriteString("| Schemas for every event kind in a log directory | `extract_schemas` | `extract_schemas(input_dir: \"logs\")` |\n")
		sb.WriteString("| Check values against a schema | `validate_samples` | `validate_samples(schema: {...}, samples: [...])` |\n")
		sb.WriteString("| Pull specific fields out of stored samples | `query_samples` | `query_samples(extraction_id, key, expression: \".model\")` |\n")
		sb.WriteString("| Which expected event kinds never showed up | `get_coverage` | `get_coverage(extraction_id)` |\n")

		// --- Keys ---
		sb.WriteString("\n## Group Keys\n")
		sb.WriteString("`extract_schemas` returns an `extraction_id` and one group per key:\n")
		sb.WriteString("- `<agent>/<kind>` - top-level events, grouped by the agent's discriminator field\n")
		sb.WriteString("- `<agent>/content_block.<type>` - message content blocks\n")
		sb.WriteString("- `<agent>/tool_input.<name>` - tool call arguments, one group per tool\n")
		sb.WriteString("\nPass `extraction_id` plus `key` to `infer_schema`, `validate_samples` and `query_samples` instead of copying samples around.\n")
		if len(cfg.Agents) > 0 {
			sb.WriteString("\nAgents with profiles: ")
			sb.WriteString(strings.Join(cfg.Agents, ", "))
			sb.WriteString(". Other agents are scanned with the default profile.\n")
		}

		// --- Reading schemas ---
		sb.WriteString("\n## Reading Inferred Schemas\n")
		sb.WriteString("- `required` lists keys present in every object sample seen at that position\n")
		sb.WriteString("- `integer` means every observed number was integral; one fractional value widens to `number`\n")
		sb.WriteString("- `enum` appears only for string fields with few distinct values and enough samples; tune with `enum_threshold` and `min_enum_samples`\n")
		sb.WriteString("- `anyOf` means the position held more than one JSON type; object properties then live inside the object branch\n")
		sb.WriteString("- `field_stats` gives per-path frequency, nullability and detected string formats\n")

		// --- Limits ---
		sb.WriteString("\n## Limits\n")
		sb.WriteString("- Only `max_samples` samples are stored per group, but counts cover every observed line (`observed` vs `stored`)\n")
		sb.WriteString("- Extractions live in memory; the oldest is evicted once the store is full\n")
		if cfg.DefaultInputDir != "" {
			sb.WriteString("- Default input directory for the CLI: `")
			sb.WriteString(cfg.DefaultInputDir)
			sb.WriteString("`\n")
		}

		// --- JQ Quick Reference ---
		sb.WriteString("\n## JQ Quick Reference\n")
		sb.WriteString("- `.message.content[].type` - content block types of one event\n")
		sb.WriteString("- `select(.is_error == true)` - keep failing samples only\n")
		sb.WriteString("- `keys` - list top-level keys\n")
		sb.WriteString("- Set `deduplicate: true` to collapse repeated values\n")

		return &sdkmcp.GetPromptResult{
			Description: "Guide to the schema extraction tools",
			Messages: []*sdkmcp.PromptMessage{
				{
					Role:    "user",
					Content: &sdkmcp.TextContent{Text: sb.String()},
				},
			},
		}, nil
	}
}
