package extract

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/agentschema/internal/profile"
	"github.com/usestring/agentschema/internal/samples"
	"github.com/usestring/agentschema/pkg/jsonschema"
)

func readJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, v))
}

func newWriter(dir string) *Writer {
	return &Writer{
		Dir:      dir,
		Schemas:  true,
		Raw:      true,
		Nested:   true,
		Unparsed: true,
		Coverage: true,
		Profiles: profile.Default(),
	}
}

func TestWriter_Write(t *testing.T) {
	coll := testCollection(t)
	coll.AddUnparsed("claude", "not json", 0)
	results, err := Build(context.Background(), coll, Options{Emit: jsonschema.DefaultEmitOptions(), Nested: true})
	require.NoError(t, err)

	dir := t.TempDir()
	stats, err := newWriter(dir).Write(coll, results)
	require.NoError(t, err)
	assert.Zero(t, stats.Skipped)

	for _, name := range []string{
		"claude/system.jsonl",
		"claude/system.schema.json",
		"claude/result.jsonl",
		"claude/result.schema.json",
		"claude/content_block.text.schema.json",
		"claude/tool_input.Bash.schema.json",
		"claude/unparsed.jsonl",
		"claude/summary.json",
		"codex/session_start.jsonl",
		"codex/session_start.schema.json",
		"codex/summary.json",
		"coverage.json",
	} {
		assert.FileExists(t, filepath.Join(dir, name))
	}
	assert.Equal(t, 12, stats.Written)

	raw, err := os.ReadFile(filepath.Join(dir, "claude", "system.jsonl"))
	require.NoError(t, err)
	assert.Equal(t, "{\"type\":\"system\",\"session_id\":\"s1\"}\n{\"type\":\"system\",\"session_id\":\"s2\",\"cwd\":\"/tmp\"}\n", string(raw))

	var schema map[string]any
	readJSON(t, filepath.Join(dir, "claude", "system.schema.json"), &schema)
	assert.Equal(t, jsonschema.Draft07, schema["$schema"])
	assert.Equal(t, "claude system event", schema["title"])
	assert.Equal(t, "object", schema["type"])
	props := schema["properties"].(map[string]any)
	assert.Contains(t, props, "session_id")
	assert.Contains(t, props, "cwd")

	pretty, err := os.ReadFile(filepath.Join(dir, "claude", "system.schema.json"))
	require.NoError(t, err)
	assert.Contains(t, string(pretty), "\n  \"")

	var summary Summary
	readJSON(t, filepath.Join(dir, "claude", "summary.json"), &summary)
	assert.Equal(t, "claude", summary.Agent)
	assert.Equal(t, map[string]int{"system": 2, "result": 1}, summary.EventCounts)
	assert.Equal(t, 3, summary.TotalSamplesStored)
	assert.Equal(t, map[string]int{"text": 1}, summary.ContentBlockCounts)
	assert.Equal(t, map[string]int{"Bash": 1}, summary.ToolInputCounts)
	assert.Equal(t, 1, summary.UnparsedLines)
	assert.Equal(t, []string{"a.log"}, summary.SourceFiles)
	assert.Contains(t, summary.FieldStats, "system")

	var cov Coverage
	readJSON(t, filepath.Join(dir, "coverage.json"), &cov)
	assert.Equal(t, CoverageSummary{TotalAgentsWithData: 2, SourceFilesCount: 1}, cov.Summary)
	require.Contains(t, cov.Agents, "gemini")
	assert.Empty(t, cov.Agents["gemini"].Events.Observed)
	assert.Len(t, cov.Agents["gemini"].Events.Missing, 5)

	claude := cov.Agents["claude"]
	assert.Equal(t, []string{"result", "system"}, claude.Events.Observed)
	assert.Equal(t, []string{"assistant", "user"}, claude.Events.Missing)
	assert.Empty(t, claude.Events.Unknown)
	assert.Equal(t, []string{"tool_result", "tool_use"}, claude.ContentBlocks.Missing)
	assert.Equal(t, []string{"Bash"}, claude.ToolInputs.Observed)
}

func TestWriter_SkipsExisting(t *testing.T) {
	coll := testCollection(t)
	results, err := Build(context.Background(), coll, Options{Emit: jsonschema.DefaultEmitOptions()})
	require.NoError(t, err)

	dir := t.TempDir()
	existing := filepath.Join(dir, "claude", "system.schema.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(existing), 0o755))
	require.NoError(t, os.WriteFile(existing, []byte("keep"), 0o644))

	w := newWriter(dir)
	stats, err := w.Write(coll, results)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Skipped)

	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "keep", string(data))

	w.Overwrite = true
	stats, err = w.Write(coll, results)
	require.NoError(t, err)
	assert.Zero(t, stats.Skipped)

	data, err = os.ReadFile(existing)
	require.NoError(t, err)
	assert.NotEqual(t, "keep", string(data))
}

func TestWriter_Toggles(t *testing.T) {
	coll := testCollection(t)
	results, err := Build(context.Background(), coll, Options{Emit: jsonschema.DefaultEmitOptions(), Nested: true})
	require.NoError(t, err)

	dir := t.TempDir()
	w := &Writer{Dir: dir, Raw: false, Schemas: true, Nested: false}
	_, err = w.Write(coll, results)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "claude", "system.schema.json"))
	assert.FileExists(t, filepath.Join(dir, "claude", "summary.json"))
	assert.NoFileExists(t, filepath.Join(dir, "claude", "system.jsonl"))
	assert.NoFileExists(t, filepath.Join(dir, "claude", "content_block.text.schema.json"))
	assert.NoFileExists(t, filepath.Join(dir, "coverage.json"))
}

func TestBuildCoverage_UnknownAgent(t *testing.T) {
	coll := samples.New(10)
	f := coll.AddSourceFile("x.log")
	coll.AddSample("aider", "edit", json.RawMessage(`{"type":"edit"}`), f)

	cov := BuildCoverage(coll, profile.Default())
	aider := cov.Agents["aider"]
	assert.Empty(t, aider.Events.Expected)
	assert.Equal(t, []string{"edit"}, aider.Events.Unknown)
	assert.Equal(t, map[string]int{"edit": 1}, aider.Events.SampleCounts)
	assert.Len(t, cov.Agents, 4)
}

func TestWriter_HostileNamesStayInside(t *testing.T) {
	coll := samples.New(10)
	coll.AddSourceFile("a.log")
	coll.AddSample("claude", "../../escaped", json.RawMessage(`{"type":"../../escaped"}`), 0)
	coll.AddToolInput("claude", "mcp/search", json.RawMessage(`{"q":"x"}`), 0)
	coll.AddContentBlock("claude", "..", json.RawMessage(`{"type":".."}`), 0)
	results, err := Build(context.Background(), coll, Options{Emit: jsonschema.DefaultEmitOptions(), Nested: true})
	require.NoError(t, err)

	root := t.TempDir()
	out := filepath.Join(root, "nested", "out")
	_, err = newWriter(out).Write(coll, results)
	require.NoError(t, err)

	for _, name := range []string{
		".._.._escaped.jsonl",
		".._.._escaped.schema.json",
		"tool_input.mcp_search.schema.json",
		"content_block....schema.json",
	} {
		assert.FileExists(t, filepath.Join(out, "claude", name))
	}

	var outside []string
	require.NoError(t, filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			if rel, _ := filepath.Rel(out, path); !filepath.IsLocal(rel) {
				outside = append(outside, path)
			}
		}
		return nil
	}))
	assert.Empty(t, outside)
}

func TestFileSafe(t *testing.T) {
	tests := map[string]string{
		"system":        "system",
		"mcp/search":    "mcp_search",
		`a\b`:           "a_b",
		"..":            "_..",
		".":             "_.",
		"":              "_",
		"../../x":       ".._.._x",
		"tool_input.ok": "tool_input.ok",
	}
	for in, want := range tests {
		got := FileSafe(in)
		assert.Equal(t, want, got, "FileSafe(%q)", in)
		assert.True(t, filepath.IsLocal(got), "FileSafe(%q) = %q", in, got)
	}
}
