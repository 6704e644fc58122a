// Package profile describes how each agent's stream events are classified
// and where their nested content blocks and tool inputs live.
package profile

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/usestring/agentschema/internal/query"
)

// UnknownKind is the event kind used when the discriminator yields no string.
const UnknownKind = "unknown"

//go:embed profiles.yaml
var defaultProfiles []byte

// Spec is the YAML form of one agent profile.
type Spec struct {
	Discriminator  string   `yaml:"discriminator"`
	ContentBlocks  string   `yaml:"content_blocks"`
	ToolInputs     string   `yaml:"tool_inputs"`
	ExpectedEvents []string `yaml:"expected_events"`
	ExpectedBlocks []string `yaml:"expected_blocks"`
}

// File is the YAML form of a profile set.
type File struct {
	Default Spec            `yaml:"default"`
	Agents  map[string]Spec `yaml:"agents"`
}

// Profile is a compiled agent profile.
type Profile struct {
	Agent          string
	ExpectedEvents []string
	ExpectedBlocks []string

	discriminator *query.Program
	contentBlocks *query.Program
	toolInputs    *query.Program
}

// Block is one nested content block.
type Block struct {
	Type  string
	Value any
}

// ToolInput is the input payload of one named tool invocation.
type ToolInput struct {
	Name  string
	Input any
}

// Set holds the compiled profiles for every configured agent plus the
// fallback used for agents without one.
type Set struct {
	fallback *Profile
	agents   map[string]*Profile
}

// Default returns the embedded profile set.
func Default() *Set {
	s, err := Parse(defaultProfiles)
	if err != nil {
		panic(fmt.Sprintf("embedded profiles: %v", err))
	}
	return s
}

// Load reads a profile set from path, or returns the embedded set when path is empty.
func Load(path string) (*Set, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profiles: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse compiles a YAML profile set.
func Parse(data []byte) (*Set, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse profiles: %w", err)
	}
	if f.Default.Discriminator == "" {
		f.Default.Discriminator = ".type"
	}

	fallback, err := compile("", f.Default, f.Default)
	if err != nil {
		return nil, err
	}
	fallback.ExpectedEvents = nil
	fallback.ExpectedBlocks = nil

	s := &Set{fallback: fallback, agents: make(map[string]*Profile, len(f.Agents))}
	for agent, spec := range f.Agents {
		p, err := compile(agent, spec, f.Default)
		if err != nil {
			return nil, err
		}
		s.agents[agent] = p
	}
	return s, nil
}

// Get returns the profile for agent, falling back to the default profile
// with no expectations.
func (s *Set) Get(agent string) *Profile {
	if p, ok := s.agents[agent]; ok {
		return p
	}
	p := *s.fallback
	p.Agent = agent
	return &p
}

// Agents returns the agents with explicit profiles, sorted.
func (s *Set) Agents() []string {
	agents := make([]string, 0, len(s.agents))
	for a := range s.agents {
		agents = append(agents, a)
	}
	sort.Strings(agents)
	return agents
}

func compile(agent string, spec, fallback Spec) (*Profile, error) {
	exprs := []struct {
		field string
		expr  string
		def   string
	}{
		{"discriminator", spec.Discriminator, fallback.Discriminator},
		{"content_blocks", spec.ContentBlocks, fallback.ContentBlocks},
		{"tool_inputs", spec.ToolInputs, fallback.ToolInputs},
	}

	programs := make([]*query.Program, len(exprs))
	for i, e := range exprs {
		expr := e.expr
		if expr == "" {
			expr = e.def
		}
		if expr == "" {
			expr = "empty"
		}
		p, err := query.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("agent %q %s: %w", agent, e.field, err)
		}
		programs[i] = p
	}

	return &Profile{
		Agent:          agent,
		ExpectedEvents: spec.ExpectedEvents,
		ExpectedBlocks: spec.ExpectedBlocks,
		discriminator:  programs[0],
		contentBlocks:  programs[1],
		toolInputs:     programs[2],
	}, nil
}

// Discriminate returns the event kind of a decoded payload.
func (p *Profile) Discriminate(v any) string {
	if kind, ok := p.discriminator.FirstString(v); ok {
		return kind
	}
	return UnknownKind
}

// ContentBlocks returns the nested content blocks of a decoded payload.
// Blocks without a string "type" field are typed "unknown".
func (p *Profile) ContentBlocks(v any) []Block {
	values, _ := p.contentBlocks.Run(v)
	blocks := make([]Block, 0, len(values))
	for _, val := range values {
		blockType := UnknownKind
		if obj, ok := val.(map[string]any); ok {
			if t, ok := obj["type"].(string); ok {
				blockType = t
			}
		}
		blocks = append(blocks, Block{Type: blockType, Value: val})
	}
	return blocks
}

// ToolInputs returns the named tool inputs of a decoded payload.
func (p *Profile) ToolInputs(v any) []ToolInput {
	values, _ := p.toolInputs.Run(v)
	inputs := make([]ToolInput, 0, len(values))
	for _, val := range values {
		obj, ok := val.(map[string]any)
		if !ok {
			continue
		}
		name, ok := obj["name"].(string)
		if !ok {
			continue
		}
		inputs = append(inputs, ToolInput{Name: name, Input: obj["input"]})
	}
	return inputs
}
