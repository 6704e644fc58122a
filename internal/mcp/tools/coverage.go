package tools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/agentschema/internal/extract"
	"github.com/usestring/agentschema/pkg/types"
)

// GetCoverageInput is the input for get_coverage.
type GetCoverageInput struct {
	ExtractionID string `json:"extraction_id" jsonschema:"required,Extraction ID from extract_schemas"`
}

// ToolGetCoverage compares a stored extraction with each agent profile's
// expected event and content block kinds.
func ToolGetCoverage(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input GetCoverageInput) (*sdkmcp.CallToolResult, types.CoverageOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input GetCoverageInput) (*sdkmcp.CallToolResult, types.CoverageOutput, error) {
		if input.ExtractionID == "" {
			return nil, types.CoverageOutput{}, ErrInvalidInput("extraction_id is required")
		}
		e, err := d.Extraction(input.ExtractionID)
		if err != nil {
			return nil, types.CoverageOutput{}, err
		}

		cov, err := types.ToAny(extract.BuildCoverage(e.Collection, d.Profiles))
		if err != nil {
			return nil, types.CoverageOutput{}, fmt.Errorf("serializing coverage: %w", err)
		}
		return nil, types.CoverageOutput{ExtractionID: e.ID, Coverage: cov}, nil
	}
}
