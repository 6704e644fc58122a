// Package extract turns scanned samples into schema documents and writes
// them to disk.
package extract

import (
	"context"
	"fmt"
	"strings"

	invjs "github.com/invopop/jsonschema"
	"golang.org/x/sync/errgroup"

	"github.com/usestring/agentschema/internal/samples"
	"github.com/usestring/agentschema/pkg/jsonschema"
)

const defaultBuildWorkers = 4

// Options controls schema building.
type Options struct {
	Emit jsonschema.EmitOptions
	// Nested builds content block and tool input schemas as well as event schemas.
	Nested  bool
	Workers int
}

// Result is the schema inferred for one grouping key.
type Result struct {
	Agent    string
	Category samples.Category
	Name     string
	// SampleCount is the number of stored samples the schema was inferred from.
	SampleCount int
	Samples     [][]byte
	Node        *jsonschema.Node
	Schema      *invjs.Schema
	// FieldStats is set for events only.
	FieldStats []jsonschema.FieldStat
}

// FileName returns the schema file name inside the agent directory.
func (r Result) FileName() string {
	return SchemaFileName(r.Category, r.Name)
}

// Key identifies the result across agents, e.g. "claude/tool_input.Bash".
func (r Result) Key() string {
	return r.Agent + "/" + groupStem(r.Category, r.Name)
}

// SchemaFileName returns the schema file name for a grouping key. Names
// come from log data and are escaped with FileSafe.
func SchemaFileName(cat samples.Category, name string) string {
	return FileSafe(groupStem(cat, name)) + ".schema.json"
}

// FileSafe turns a name into a single local path element. Path separators
// and NUL become "_", and empty, "." or ".." names get a "_" prefix.
func FileSafe(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', 0:
			return '_'
		}
		return r
	}, name)
	switch name {
	case "", ".", "..":
		return "_" + name
	}
	return name
}

func groupStem(cat samples.Category, name string) string {
	if cat == samples.Events {
		return name
	}
	return cat.String() + "." + name
}

// Title returns the document title for a grouping key.
func Title(agent string, cat samples.Category, name string) string {
	switch cat {
	case samples.Blocks:
		return fmt.Sprintf("%s %s content block", agent, name)
	case samples.Tools:
		return fmt.Sprintf("%s %s tool input", agent, name)
	}
	return fmt.Sprintf("%s %s event", agent, name)
}

// Description returns the document description for a grouping key.
func Description(agent string, cat samples.Category, name string, n int) string {
	noun := "events"
	switch cat {
	case samples.Blocks:
		noun = "content blocks"
	case samples.Tools:
		noun = "tool inputs"
	}
	return fmt.Sprintf("Inferred schema for %s agent %s %s (from %d samples)", agent, name, noun, n)
}

type job struct {
	agent string
	cat   samples.Category
	name  string
	group *samples.Group
}

// Build infers one schema per grouping key. Results are ordered by agent,
// then category, then name.
func Build(ctx context.Context, coll *samples.Collection, opts Options) ([]Result, error) {
	jobs := plan(coll, opts.Nested)
	results := make([]Result, len(jobs))

	workers := opts.Workers
	if workers <= 0 {
		workers = defaultBuildWorkers
	}
	merger := opts.Emit.Merger()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, j := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := buildOne(merger, opts.Emit, j)
			if err != nil {
				return fmt.Errorf("%s %s %s: %w", j.agent, j.cat, j.name, err)
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func plan(coll *samples.Collection, nested bool) []job {
	cats := []samples.Category{samples.Events}
	if nested {
		cats = append(cats, samples.Blocks, samples.Tools)
	}

	var jobs []job
	for _, agent := range coll.Agents() {
		a := coll.Agent(agent)
		for _, cat := range cats {
			for _, name := range a.Names(cat) {
				g := a.Group(cat, name)
				if len(g.Samples) == 0 {
					continue
				}
				jobs = append(jobs, job{agent: agent, cat: cat, name: name, group: g})
			}
		}
	}
	return jobs
}

func buildOne(merger jsonschema.Merger, opts jsonschema.EmitOptions, j job) (Result, error) {
	raw := make([][]byte, len(j.group.Samples))
	for i, s := range j.group.Samples {
		raw[i] = s
	}

	node, err := merger.InferAllBytes(raw)
	if err != nil {
		return Result{}, err
	}

	r := Result{
		Agent:       j.agent,
		Category:    j.cat,
		Name:        j.name,
		SampleCount: len(raw),
		Samples:     raw,
		Node:        node,
		Schema: jsonschema.Document(node,
			Title(j.agent, j.cat, j.name),
			Description(j.agent, j.cat, j.name, len(raw)),
			opts,
		),
	}
	if j.cat == samples.Events {
		r.FieldStats = jsonschema.ComputeFieldStats(node, opts)
	}
	return r, nil
}
