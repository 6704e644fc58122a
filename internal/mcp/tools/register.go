package tools

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all tools with the MCP server.
func Register(srv *sdkmcp.Server, d *Deps) {
	// Tool 1: infer_schema
	AddTool(srv, &sdkmcp.Tool{
		Name:        "infer_schema",
		Description: "Infer a draft-07 JSON Schema from JSON samples. Returns {schema, field_stats, sample_count}. Pass samples inline, or extraction_id and key (from extract_schemas) to infer from stored samples. Strings with few distinct values become enums once enough samples were seen; integral numbers narrow to integer.",
	}, ToolInferSchema(d))

	// Tool 2: extract_schemas
	AddTool(srv, &sdkmcp.Tool{
		Name:        "extract_schemas",
		Description: "Scan a directory of agent stream logs (*-stream-*.log) and infer one schema per event kind, content block type and tool name. Returns {extraction_id, stats, agents, groups: [{key, agent, category, name, observed, stored}]}. Nothing is written to disk. Pass extraction_id to query_samples, validate_samples, infer_schema or get_coverage.",
	}, ToolExtractSchemas(d))

	// Tool 3: validate_samples
	AddTool(srv, &sdkmcp.Tool{
		Name:        "validate_samples",
		Description: "Validate JSON samples against a draft-07 JSON Schema. Returns {summary, results: [{index, valid, errors}], common_errors}. Schema and samples default to a stored group's schema and samples when extraction_id and key are set.",
	}, ToolValidateSamples(d))

	// Tool 4: query_samples
	AddTool(srv, &sdkmcp.Tool{
		Name:        "query_samples",
		Description: "Run a jq expression over the stored samples of an extraction. Returns {summary, values, label_counts, errors}. Restrict to one group with key; otherwise every group is queried.",
	}, ToolQuerySamples(d))

	// Tool 5: get_coverage
	AddTool(srv, &sdkmcp.Tool{
		Name:        "get_coverage",
		Description: "Compare an extraction's observed event kinds and content block types with each agent profile's expectations. Returns expected, observed, missing and unknown kinds per agent.",
	}, ToolGetCoverage(d))
}
