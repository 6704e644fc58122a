package mcpsrv

import (
	"context"

	mcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/agentschema/internal/config"
)

// serverConfig holds configuration built from options.
type serverConfig struct {
	config *config.Config

	// Overrides applied on top of config
	logLevel     string
	logFile      string
	profilesFile string

	disableBuiltinTools   bool
	disableBuiltinPrompts bool

	// Registration callbacks keep the generic handler types intact.
	toolRegistrations         []func(*mcp.Server)
	promptRegistrations       []func(*mcp.Server)
	resourceRegistrations     []func(*mcp.Server)
	deferredToolRegistrations []func(*mcp.Server, *Deps)
}

// Option configures the server.
type Option func(*serverConfig)

// WithConfig replaces the configuration loaded from the environment.
func WithConfig(c *config.Config) Option {
	return func(cfg *serverConfig) {
		cfg.config = c
	}
}

// WithLogLevel overrides LOG_LEVEL (debug, info, warn, error).
func WithLogLevel(level string) Option {
	return func(cfg *serverConfig) {
		cfg.logLevel = level
	}
}

// WithLogFile overrides LOG_FILE. Logs go to stderr when no file is set.
func WithLogFile(path string) Option {
	return func(cfg *serverConfig) {
		cfg.logFile = path
	}
}

// WithProfilesFile loads agent profiles from a YAML file instead of the
// embedded defaults.
func WithProfilesFile(path string) Option {
	return func(cfg *serverConfig) {
		cfg.profilesFile = path
	}
}

// WithoutBuiltinTools skips infer_schema, extract_schemas and the other
// builtin tools together with their resources.
func WithoutBuiltinTools() Option {
	return func(cfg *serverConfig) {
		cfg.disableBuiltinTools = true
	}
}

// WithoutBuiltinPrompts skips the builtin prompts.
func WithoutBuiltinPrompts() Option {
	return func(cfg *serverConfig) {
		cfg.disableBuiltinPrompts = true
	}
}

// WithTool registers a custom tool. The output type goes through the same
// zero-value check as the builtin tools (see AddTool).
//
//	type CountInput struct {
//	    Values []any `json:"values"`
//	}
//
//	type CountOutput struct {
//	    Count int `json:"count"`
//	}
//
//	mcpsrv.WithTool(&mcp.Tool{Name: "count_values"},
//	    func(ctx context.Context, req *mcp.CallToolRequest, in CountInput) (*mcp.CallToolResult, CountOutput, error) {
//	        return nil, CountOutput{Count: len(in.Values)}, nil
//	    })
func WithTool[In, Out any](tool *mcp.Tool, handler func(context.Context, *mcp.CallToolRequest, In) (*mcp.CallToolResult, Out, error)) Option {
	return func(cfg *serverConfig) {
		cfg.toolRegistrations = append(cfg.toolRegistrations, func(srv *mcp.Server) {
			AddTool(srv, tool, handler)
		})
	}
}

// WithDepsTool registers a custom tool whose handler is built once the
// server's Deps exist, for tools that read stored extractions, profiles or
// the verifier.
//
//	mcpsrv.WithDepsTool(&mcp.Tool{Name: "count_groups"},
//	    func(d *mcpsrv.Deps) func(context.Context, *mcp.CallToolRequest, GroupsInput) (*mcp.CallToolResult, CountOutput, error) {
//	        return func(ctx context.Context, req *mcp.CallToolRequest, in GroupsInput) (*mcp.CallToolResult, CountOutput, error) {
//	            e, ok := d.Extractions.Get(in.ExtractionID)
//	            if !ok {
//	                return nil, CountOutput{}, fmt.Errorf("extraction not found: %s", in.ExtractionID)
//	            }
//	            return nil, CountOutput{Count: len(e.Results)}, nil
//	        }
//	    })
func WithDepsTool[In, Out any](tool *mcp.Tool, builder func(*Deps) func(context.Context, *mcp.CallToolRequest, In) (*mcp.CallToolResult, Out, error)) Option {
	return func(cfg *serverConfig) {
		cfg.deferredToolRegistrations = append(cfg.deferredToolRegistrations, func(srv *mcp.Server, deps *Deps) {
			AddTool(srv, tool, builder(deps))
		})
	}
}

// WithPrompt registers a custom prompt.
func WithPrompt(prompt *mcp.Prompt, handler func(context.Context, *mcp.GetPromptRequest) (*mcp.GetPromptResult, error)) Option {
	return func(cfg *serverConfig) {
		cfg.promptRegistrations = append(cfg.promptRegistrations, func(srv *mcp.Server) {
			srv.AddPrompt(prompt, handler)
		})
	}
}

// WithResourceTemplate registers a custom resource template. Builtin
// templates use the agentschema:// scheme; pick another scheme to avoid
// clashes.
func WithResourceTemplate(template *mcp.ResourceTemplate, handler func(context.Context, *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error)) Option {
	return func(cfg *serverConfig) {
		cfg.resourceRegistrations = append(cfg.resourceRegistrations, func(srv *mcp.Server) {
			srv.AddResourceTemplate(template, handler)
		})
	}
}
