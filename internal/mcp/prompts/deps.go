// Package prompts contains MCP prompt implementations for agentschema.
package prompts

// Config holds configuration needed by prompts.
type Config struct {
	DefaultInputDir string
	Agents          []string
}
