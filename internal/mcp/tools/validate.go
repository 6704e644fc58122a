package tools

import (
	"context"
	"sort"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/agentschema/pkg/types"
)

// ValidateSamplesInput is the input for validate_samples.
type ValidateSamplesInput struct {
	Schema       any    `json:"schema,omitempty" jsonschema:"JSON Schema document. Defaults to the inferred schema of key when extraction_id is set."`
	Samples      []any  `json:"samples,omitempty" jsonschema:"JSON samples to validate. Defaults to the stored samples of key when extraction_id is set."`
	ExtractionID string `json:"extraction_id,omitempty" jsonschema:"Extraction ID from extract_schemas"`
	Key          string `json:"key,omitempty" jsonschema:"Group key from extract_schemas, e.g. claude/system"`
	MaxSamples   int    `json:"max_samples,omitempty" jsonschema:"Max samples to validate (default: all)"`
}

// ToolValidateSamples validates samples against a draft-07 schema.
func ToolValidateSamples(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input ValidateSamplesInput) (*sdkmcp.CallToolResult, types.ValidateSamplesOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ValidateSamplesInput) (*sdkmcp.CallToolResult, types.ValidateSamplesOutput, error) {
		raw, group, err := d.ResolveSamples(input.Samples, input.ExtractionID, input.Key)
		if err != nil {
			return nil, types.ValidateSamplesOutput{}, err
		}

		schema := input.Schema
		key := "inline"
		if group != nil {
			key = group.Key()
			if schema == nil {
				schema = group.Schema
			}
		}
		if schema == nil {
			return nil, types.ValidateSamplesOutput{}, ErrInvalidInput("schema is required")
		}

		if input.MaxSamples > 0 && len(raw) > input.MaxSamples {
			raw = raw[:input.MaxSamples]
		}

		if _, err := d.Verifier.Compile(key, schema); err != nil {
			return nil, types.ValidateSamplesOutput{}, ErrInvalidInput("invalid schema: " + err.Error())
		}
		res := d.Verifier.ValidateSamples(key, schema, raw)

		failures := make(map[int][]string, len(res.Failures))
		for _, f := range res.Failures {
			failures[f.Index] = f.Errors
		}

		output := types.ValidateSamplesOutput{
			Summary: types.ValidationSummary{
				TotalSamples:  res.Total,
				MatchingCount: res.Valid,
				FailedCount:   res.Total - res.Valid,
				AllMatch:      res.OK(),
			},
			Results: make([]types.ValidationResult, 0, len(raw)),
		}

		errorFreq := make(map[string]int)
		for i := range raw {
			errs := failures[i]
			output.Results = append(output.Results, types.ValidationResult{
				Index:  i,
				Valid:  len(errs) == 0,
				Errors: errs,
			})
			for _, e := range errs {
				errorFreq[e]++
			}
		}

		output.CommonErrors = commonErrors(errorFreq, 10)
		return nil, output, nil
	}
}

// commonErrors returns the most frequent errors, most frequent first.
func commonErrors(freq map[string]int, limit int) []types.CommonError {
	out := make([]types.CommonError, 0, len(freq))
	for msg, n := range freq {
		out = append(out, types.CommonError{Error: msg, Frequency: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Frequency != out[j].Frequency {
			return out[i].Frequency > out[j].Frequency
		}
		return out[i].Error < out[j].Error
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
