package tools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/agentschema/internal/extract"
	"github.com/usestring/agentschema/pkg/jsonschema"
	"github.com/usestring/agentschema/pkg/types"
)

// InferSchemaInput is the input for infer_schema.
type InferSchemaInput struct {
	Samples        []any  `json:"samples,omitempty" jsonschema:"JSON samples to infer from. Either samples or extraction_id with key is required."`
	ExtractionID   string `json:"extraction_id,omitempty" jsonschema:"Extraction ID from extract_schemas. Infers from the stored samples of key."`
	Key            string `json:"key,omitempty" jsonschema:"Group key from extract_schemas, e.g. claude/system or claude/tool_input.Bash"`
	Title          string `json:"title,omitempty" jsonschema:"Document title (default: derived from key, or 'Inferred schema')"`
	Description    string `json:"description,omitempty" jsonschema:"Document description (default: sample count summary)"`
	EnumThreshold  int    `json:"enum_threshold,omitempty" jsonschema:"Largest distinct string count reported as an enum (default: 10)"`
	MinEnumSamples int    `json:"min_enum_samples,omitempty" jsonschema:"Fewest observations a field needs before it can be an enum (default: 3)"`
}

// ToolInferSchema infers a draft-07 schema plus field statistics from samples.
func ToolInferSchema(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input InferSchemaInput) (*sdkmcp.CallToolResult, types.InferSchemaOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input InferSchemaInput) (*sdkmcp.CallToolResult, types.InferSchemaOutput, error) {
		raw, group, err := d.ResolveSamples(input.Samples, input.ExtractionID, input.Key)
		if err != nil {
			return nil, types.InferSchemaOutput{}, err
		}
		if limit := d.Config.MaxInferSamples; limit > 0 && len(raw) > limit {
			return nil, types.InferSchemaOutput{}, ErrInvalidInput(fmt.Sprintf("too many samples: %d (max %d)", len(raw), limit))
		}

		opts := d.EmitOptions(input.EnumThreshold, input.MinEnumSamples)
		node, err := opts.Merger().InferAllBytes(raw)
		if err != nil {
			return nil, types.InferSchemaOutput{}, ErrInvalidInput(err.Error())
		}

		title, description := input.Title, input.Description
		if title == "" {
			title = "Inferred schema"
			if group != nil {
				title = extract.Title(group.Agent, group.Category, group.Name)
			}
		}
		if description == "" {
			description = fmt.Sprintf("Inferred schema (from %d samples)", len(raw))
			if group != nil {
				description = extract.Description(group.Agent, group.Category, group.Name, len(raw))
			}
		}

		schema, err := types.ToAny(jsonschema.Document(node, title, description, opts))
		if err != nil {
			return nil, types.InferSchemaOutput{}, fmt.Errorf("serializing schema: %w", err)
		}

		return nil, types.InferSchemaOutput{
			Schema:      schema,
			FieldStats:  jsonschema.ComputeFieldStats(node, opts),
			SampleCount: len(raw),
			Hint:        "Use validate_samples(schema=..., samples=...) to check further samples against this schema.",
		}, nil
	}
}
