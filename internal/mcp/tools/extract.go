package tools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/agentschema/internal/extract"
	"github.com/usestring/agentschema/pkg/types"
)

// maxToolSamples caps max_samples for in-memory extractions.
const maxToolSamples = 1000

// ExtractSchemasInput is the input for extract_schemas.
type ExtractSchemasInput struct {
	InputDir       string   `json:"input_dir" jsonschema:"required,Directory to scan recursively for *-stream-*.log files"`
	Agents         []string `json:"agents,omitempty" jsonschema:"Only extract these agents (default: all)"`
	MaxSamples     int      `json:"max_samples,omitempty" jsonschema:"Samples stored per group (default: 100, max: 1000)"`
	SkipNested     bool     `json:"skip_nested,omitempty" jsonschema:"Skip content block and tool input extraction (default: false)"`
	IncludeSchemas bool     `json:"include_schemas,omitempty" jsonschema:"Return every inferred schema inline (default: false, schemas are available as resources)"`
}

// ToolExtractSchemas scans agent stream logs and builds schemas in memory.
// Nothing is written to disk; the extraction is kept for follow-up tools.
func ToolExtractSchemas(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input ExtractSchemasInput) (*sdkmcp.CallToolResult, types.ExtractSchemasOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ExtractSchemasInput) (*sdkmcp.CallToolResult, types.ExtractSchemasOutput, error) {
		if input.InputDir == "" {
			return nil, types.ExtractSchemasOutput{}, ErrInvalidInput("input_dir is required")
		}

		cfg := *d.Config
		cfg.InputDir = input.InputDir
		cfg.Agents = input.Agents
		cfg.WriteNested = !input.SkipNested
		cfg.EmitUnparsed = false
		if input.MaxSamples > 0 {
			cfg.MaxSamples = min(input.MaxSamples, maxToolSamples)
		}

		files, coll, stats, err := extract.Scan(ctx, &cfg, d.Profiles)
		if err != nil {
			return nil, types.ExtractSchemasOutput{}, WrapScanError(err)
		}

		results, err := extract.Build(ctx, coll, extract.Options{
			Emit:    d.EmitOptions(0, 0),
			Nested:  cfg.WriteNested,
			Workers: cfg.Workers,
		})
		if err != nil {
			return nil, types.ExtractSchemasOutput{}, WrapScanError(err)
		}

		e := d.Extractions.Store(cfg.InputDir, files, stats, coll, results)

		output := types.ExtractSchemasOutput{
			ExtractionID: e.ID,
			InputDir:     cfg.InputDir,
			Stats: types.ScanStats{
				FilesScanned: len(files),
				TotalLines:   stats.TotalLines,
				StdoutLines:  stats.StdoutLines,
				JSONParsed:   stats.JSONParsed,
				JSONFailed:   stats.JSONFailed,
			},
			Agents: coll.Agents(),
			Groups: make([]types.GroupSummary, 0, len(results)),
		}

		for _, r := range results {
			g := coll.Agent(r.Agent).Group(r.Category, r.Name)
			output.Groups = append(output.Groups, types.GroupSummary{
				Key:         r.Key(),
				Agent:       r.Agent,
				Category:    r.Category.String(),
				Name:        r.Name,
				Observed:    g.Count,
				Stored:      r.SampleCount,
				SourceFiles: coll.GroupSourceFiles(g),
			})

			if input.IncludeSchemas {
				schema, err := types.ToAny(r.Schema)
				if err != nil {
					return nil, types.ExtractSchemasOutput{}, fmt.Errorf("serializing schema %s: %w", r.Key(), err)
				}
				output.Schemas = append(output.Schemas, types.SchemaEntry{Key: r.Key(), Schema: schema})
			}
		}

		output.Resources = []types.ResourceRef{{
			URI:  CoverageURI(e.ID),
			MIME: MimeJSON,
			Hint: "Expected versus observed event kinds per agent",
		}}
		output.Hint = fmt.Sprintf("Read %s for a group's schema, or call query_samples(extraction_id=%q, key=..., expression=...) to inspect values.",
			SchemaURI(e.ID, "{key}"), e.ID)

		return nil, output, nil
	}
}
