package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/agentschema/internal/extract"
	"github.com/usestring/agentschema/internal/mcp/tools"
)

// Resource URI scheme: agentschema://
// Supported URIs:
//   agentschema://schema/{extraction}/{agent}/{group}
//   agentschema://samples/{extraction}/{agent}/{group}
//   agentschema://coverage/{extraction}

const uriScheme = "agentschema://"

// registerResources registers resource templates and handlers.
func (s *Server) registerResources() {
	s.mcpServer.AddResourceTemplate(&sdkmcp.ResourceTemplate{
		URITemplate: uriScheme + "schema/{extraction}/{agent}/{group}",
		Name:        "Inferred Schema",
		Description: "Draft-07 schema document of one group of a stored extraction. extract_schemas with include_schemas already returns these; fetch one when you only need a single group.",
		MIMEType:    tools.MimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.8,
		},
	}, s.handleResourceSchema)

	s.mcpServer.AddResourceTemplate(&sdkmcp.ResourceTemplate{
		URITemplate: uriScheme + "samples/{extraction}/{agent}/{group}",
		Name:        "Stored Samples",
		Description: "Raw stored samples of one group. High context cost - prefer query_samples with a jq expression to pull out only the fields you need.",
		MIMEType:    tools.MimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.3,
		},
	}, s.handleResourceSamples)

	s.mcpServer.AddResourceTemplate(&sdkmcp.ResourceTemplate{
		URITemplate: uriScheme + "coverage/{extraction}",
		Name:        "Coverage Report",
		Description: "Expected versus observed event kinds and content block types per agent. Same payload as get_coverage.",
		MIMEType:    tools.MimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.5,
		},
	}, s.handleResourceCoverage)
}

func (s *Server) handleResourceSchema(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	r, err := s.resourceGroup(req.Params.URI)
	if err != nil {
		return nil, err
	}
	return toResourceResult(req.Params.URI, r.Schema)
}

func (s *Server) handleResourceSamples(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	r, err := s.resourceGroup(req.Params.URI)
	if err != nil {
		return nil, err
	}

	raw := make([]json.RawMessage, len(r.Samples))
	for i, b := range r.Samples {
		raw[i] = b
	}
	content := map[string]any{
		"key":          r.Key(),
		"sample_count": r.SampleCount,
		"samples":      raw,
	}
	return toResourceResult(req.Params.URI, content)
}

func (s *Server) handleResourceCoverage(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	params, err := parseResourceURI(req.Params.URI)
	if err != nil {
		return nil, err
	}

	e, ok := s.deps.Extractions.Get(params["extraction"])
	if !ok {
		return nil, sdkmcp.ResourceNotFoundError(req.Params.URI)
	}
	return toResourceResult(req.Params.URI, extract.BuildCoverage(e.Collection, s.deps.Profiles))
}

// resourceGroup resolves a schema or samples URI to its stored group.
func (s *Server) resourceGroup(uri string) (*extract.Result, error) {
	params, err := parseResourceURI(uri)
	if err != nil {
		return nil, err
	}

	e, ok := s.deps.Extractions.Get(params["extraction"])
	if !ok {
		return nil, sdkmcp.ResourceNotFoundError(uri)
	}
	r, ok := e.Result(params["agent"] + "/" + params["group"])
	if !ok {
		return nil, sdkmcp.ResourceNotFoundError(uri)
	}
	return r, nil
}

// parseResourceURI extracts parameters from an agentschema:// URI.
func parseResourceURI(uri string) (map[string]string, error) {
	if !strings.HasPrefix(uri, uriScheme) {
		return nil, tools.ErrInvalidInput("invalid URI scheme: expected " + uriScheme)
	}

	path := strings.TrimPrefix(uri, uriScheme)
	parts := strings.Split(path, "/")

	params := make(map[string]string)
	resourceType := parts[0]

	switch resourceType {
	case "schema", "samples":
		if len(parts) != 4 || parts[1] == "" || parts[2] == "" || parts[3] == "" {
			return nil, tools.ErrInvalidInput(resourceType + " URI requires extraction, agent and group")
		}
		params["extraction"] = parts[1]
		params["agent"] = parts[2]
		params["group"] = parts[3]

	case "coverage":
		if len(parts) != 2 || parts[1] == "" {
			return nil, tools.ErrInvalidInput("coverage URI requires extraction ID")
		}
		params["extraction"] = parts[1]

	default:
		return nil, tools.ErrInvalidInput(fmt.Sprintf("unknown resource type: %s", resourceType))
	}

	return params, nil
}

// toResourceResult serializes content to a ReadResourceResult.
func toResourceResult(uri string, content any) (*sdkmcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serializing resource: %w", err)
	}

	return &sdkmcp.ReadResourceResult{
		Contents: []*sdkmcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: tools.MimeJSON,
				Text:     string(data),
			},
		},
	}, nil
}
