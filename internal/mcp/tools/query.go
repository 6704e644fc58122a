package tools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/agentschema/internal/query"
	"github.com/usestring/agentschema/pkg/types"
)

// QuerySamplesInput is the input for query_samples.
type QuerySamplesInput struct {
	ExtractionID string `json:"extraction_id" jsonschema:"required,Extraction ID from extract_schemas"`
	Key          string `json:"key,omitempty" jsonschema:"Group key to query (default: every group of the extraction)"`
	Expression   string `json:"expression" jsonschema:"required,jq expression evaluated against each stored sample"`
	Deduplicate  bool   `json:"deduplicate,omitempty" jsonschema:"Remove duplicate values (default: false)"`
	MaxResults   int    `json:"max_results,omitempty" jsonschema:"Max values to return (default: 1000)"`
}

// ToolQuerySamples runs a jq expression over the stored samples of an extraction.
func ToolQuerySamples(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input QuerySamplesInput) (*sdkmcp.CallToolResult, types.QueryResponse, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input QuerySamplesInput) (*sdkmcp.CallToolResult, types.QueryResponse, error) {
		if input.Expression == "" {
			return nil, types.QueryResponse{}, ErrInvalidInput("expression is required")
		}
		if input.ExtractionID == "" {
			return nil, types.QueryResponse{}, ErrInvalidInput("extraction_id is required")
		}

		prog, err := query.Compile(input.Expression)
		if err != nil {
			return nil, types.QueryResponse{}, ErrInvalidInput(err.Error())
		}

		e, err := d.Extraction(input.ExtractionID)
		if err != nil {
			return nil, types.QueryResponse{}, err
		}

		var (
			samples [][]byte
			labels  []string
		)
		if input.Key != "" {
			r, ok := e.Result(input.Key)
			if !ok {
				return nil, types.QueryResponse{}, ErrNotFound("group", input.Key)
			}
			samples = r.Samples
			for i := range r.Samples {
				labels = append(labels, fmt.Sprintf("%s[%d]", r.Key(), i))
			}
		} else {
			for _, r := range e.Results {
				samples = append(samples, r.Samples...)
				for i := range r.Samples {
					labels = append(labels, fmt.Sprintf("%s[%d]", r.Key(), i))
				}
			}
		}

		maxResults := input.MaxResults
		if maxResults <= 0 {
			maxResults = 1000
		}

		res := prog.RunSamples(samples, labels, input.Deduplicate, maxResults)

		output := types.QueryResponse{
			Summary: types.QuerySummary{
				SamplesProcessed: len(samples),
				SamplesMatched:   len(res.MatchedIndices),
				TotalValues:      res.RawCount,
				Deduplicated:     input.Deduplicate,
				Truncated:        len(res.Values) >= maxResults,
			},
			Values:      res.Values,
			LabelCounts: res.LabelCounts,
			Errors:      res.Errors,
		}
		if input.Deduplicate {
			output.Summary.UniqueValues = len(res.Values)
		}
		if len(res.Values) == 0 && len(res.Errors) == 0 {
			output.Hints = append(output.Hints, "No values matched. Call infer_schema(extraction_id=..., key=...) to see which fields exist.")
		}

		return nil, output, nil
	}
}
