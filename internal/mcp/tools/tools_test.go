package tools

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/agentschema/internal/catalog"
	"github.com/usestring/agentschema/internal/config"
	"github.com/usestring/agentschema/internal/profile"
	"github.com/usestring/agentschema/internal/verify"
)

const streamLog = `[t][claude][stdout] {"type":"system","session_id":"a","model":"opus"}
[t][claude][stdout] {"type":"system","session_id":"b","model":"opus"}
[t][claude][stdout] {"type":"system","session_id":"c","model":"opus"}
[t][claude][stdout] {"type":"assistant","message":{"content":[{"type":"tool_use","name":"Bash","input":{"command":"ls"}}]}}
`

func testDeps(t *testing.T) *Deps {
	t.Helper()
	v, err := verify.New(8)
	require.NoError(t, err)
	return &Deps{
		Config: &config.Config{
			MaxSamples:      100,
			EnumThreshold:   10,
			MinEnumSamples:  3,
			Workers:         2,
			WriteNested:     true,
			MaxInferSamples: 5,
		},
		Profiles:    profile.Default(),
		Verifier:    v,
		Extractions: catalog.NewExtractionStore(4),
	}
}

func logDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "agent-stream-1.log"), []byte(streamLog), 0o644))
	return dir
}

func codeOf(err error) string {
	var coded *CodedError
	if errors.As(err, &coded) {
		return coded.Code
	}
	return ""
}

func TestToolInferSchema_Inline(t *testing.T) {
	d := testDeps(t)
	_, out, err := ToolInferSchema(d)(context.Background(), nil, InferSchemaInput{
		Samples: []any{
			map[string]any{"id": float64(1), "kind": "a"},
			map[string]any{"id": float64(2), "kind": "a"},
			map[string]any{"id": float64(3), "kind": "b"},
		},
		Title: "things",
	})
	require.NoError(t, err)

	assert.Equal(t, 3, out.SampleCount)
	schema := out.Schema.(map[string]any)
	assert.Equal(t, "things", schema["title"])
	assert.Equal(t, "Inferred schema (from 3 samples)", schema["description"])
	props := schema["properties"].(map[string]any)
	assert.Equal(t, "integer", props["id"].(map[string]any)["type"])
	assert.Equal(t, []any{"a", "b"}, props["kind"].(map[string]any)["enum"])
	assert.NotEmpty(t, out.FieldStats)
}

func TestToolInferSchema_Errors(t *testing.T) {
	d := testDeps(t)
	handler := ToolInferSchema(d)

	_, _, err := handler(context.Background(), nil, InferSchemaInput{})
	assert.Equal(t, ErrCodeInvalidInput, codeOf(err))

	_, _, err = handler(context.Background(), nil, InferSchemaInput{Samples: []any{1, 2, 3, 4, 5, 6}})
	assert.Equal(t, ErrCodeInvalidInput, codeOf(err))

	_, _, err = handler(context.Background(), nil, InferSchemaInput{ExtractionID: "nope", Key: "a/b"})
	assert.Equal(t, ErrCodeNotFound, codeOf(err))
}

func TestToolExtractSchemas_Chain(t *testing.T) {
	d := testDeps(t)
	ctx := context.Background()

	_, ext, err := ToolExtractSchemas(d)(ctx, nil, ExtractSchemasInput{InputDir: logDir(t), IncludeSchemas: true})
	require.NoError(t, err)
	require.NotEmpty(t, ext.ExtractionID)
	assert.Equal(t, 4, ext.Stats.JSONParsed)
	assert.Equal(t, 1, ext.Stats.FilesScanned)
	assert.Equal(t, []string{"claude"}, ext.Agents)

	keys := make([]string, len(ext.Groups))
	for i, g := range ext.Groups {
		keys[i] = g.Key
	}
	assert.Equal(t, []string{
		"claude/assistant",
		"claude/system",
		"claude/content_block.tool_use",
		"claude/tool_input.Bash",
	}, keys)
	assert.Len(t, ext.Schemas, 4)
	assert.Equal(t, 3, ext.Groups[1].Observed)
	require.Len(t, ext.Resources, 1)
	assert.Equal(t, CoverageURI(ext.ExtractionID), ext.Resources[0].URI)

	// infer from the stored group
	_, inf, err := ToolInferSchema(d)(ctx, nil, InferSchemaInput{ExtractionID: ext.ExtractionID, Key: "claude/system"})
	require.NoError(t, err)
	schema := inf.Schema.(map[string]any)
	assert.Equal(t, "claude system event", schema["title"])
	props := schema["properties"].(map[string]any)
	assert.Equal(t, []any{"opus"}, props["model"].(map[string]any)["enum"])

	// stored samples validate against their own schema
	_, val, err := ToolValidateSamples(d)(ctx, nil, ValidateSamplesInput{ExtractionID: ext.ExtractionID, Key: "claude/system"})
	require.NoError(t, err)
	assert.True(t, val.Summary.AllMatch)
	assert.Equal(t, 3, val.Summary.TotalSamples)

	// inline samples against the stored schema
	_, val, err = ToolValidateSamples(d)(ctx, nil, ValidateSamplesInput{
		ExtractionID: ext.ExtractionID,
		Key:          "claude/system",
		Samples:      []any{map[string]any{"type": "system"}},
	})
	require.NoError(t, err)
	assert.False(t, val.Summary.AllMatch)
	require.Len(t, val.Results, 1)
	assert.NotEmpty(t, val.Results[0].Errors)
	assert.NotEmpty(t, val.CommonErrors)

	// jq over stored samples
	_, q, err := ToolQuerySamples(d)(ctx, nil, QuerySamplesInput{
		ExtractionID: ext.ExtractionID,
		Key:          "claude/system",
		Expression:   ".session_id",
	})
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b", "c"}, q.Values)
	assert.Equal(t, 3, q.Summary.SamplesMatched)

	_, q, err = ToolQuerySamples(d)(ctx, nil, QuerySamplesInput{
		ExtractionID: ext.ExtractionID,
		Expression:   ".model? // empty",
		Deduplicate:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, []any{"opus"}, q.Values)
	assert.Equal(t, 1, q.Summary.UniqueValues)

	// coverage
	_, cov, err := ToolGetCoverage(d)(ctx, nil, GetCoverageInput{ExtractionID: ext.ExtractionID})
	require.NoError(t, err)
	agents := cov.Coverage.(map[string]any)["agents"].(map[string]any)
	claude := agents["claude"].(map[string]any)["events"].(map[string]any)
	assert.Equal(t, []any{"result", "user"}, claude["missing"])
}

func TestToolExtractSchemas_Errors(t *testing.T) {
	d := testDeps(t)

	_, _, err := ToolExtractSchemas(d)(context.Background(), nil, ExtractSchemasInput{})
	assert.Equal(t, ErrCodeInvalidInput, codeOf(err))

	_, _, err = ToolExtractSchemas(d)(context.Background(), nil, ExtractSchemasInput{InputDir: t.TempDir()})
	assert.Equal(t, ErrCodeNotFound, codeOf(err))
}

func TestToolValidateSamples_Inline(t *testing.T) {
	d := testDeps(t)
	handler := ToolValidateSamples(d)

	_, out, err := handler(context.Background(), nil, ValidateSamplesInput{
		Schema:  map[string]any{"type": "object", "required": []any{"a"}},
		Samples: []any{map[string]any{"a": 1}, map[string]any{"b": 1}, map[string]any{"c": 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Summary.MatchingCount)
	assert.Equal(t, 2, out.Summary.FailedCount)
	require.Len(t, out.CommonErrors, 1)
	assert.Equal(t, 2, out.CommonErrors[0].Frequency)

	_, _, err = handler(context.Background(), nil, ValidateSamplesInput{Samples: []any{1}})
	assert.Equal(t, ErrCodeInvalidInput, codeOf(err))

	_, _, err = handler(context.Background(), nil, ValidateSamplesInput{
		Schema:  map[string]any{"$ref": "#/definitions/missing"},
		Samples: []any{1},
	})
	assert.Equal(t, ErrCodeInvalidInput, codeOf(err))
}

func TestToolQuerySamples_Errors(t *testing.T) {
	d := testDeps(t)
	handler := ToolQuerySamples(d)

	_, _, err := handler(context.Background(), nil, QuerySamplesInput{ExtractionID: "x"})
	assert.Equal(t, ErrCodeInvalidInput, codeOf(err))

	_, _, err = handler(context.Background(), nil, QuerySamplesInput{ExtractionID: "x", Expression: ".["})
	assert.Equal(t, ErrCodeInvalidInput, codeOf(err))

	_, _, err = handler(context.Background(), nil, QuerySamplesInput{ExtractionID: "x", Expression: "."})
	assert.Equal(t, ErrCodeNotFound, codeOf(err))
}

func TestWrapScanError(t *testing.T) {
	assert.Nil(t, WrapScanError(nil))
	assert.Equal(t, ErrCodeTimeout, codeOf(WrapScanError(context.DeadlineExceeded)))
	assert.Equal(t, ErrCodeScanError, codeOf(WrapScanError(errors.New("boom"))))

	coded := ErrInvalidInput("bad")
	assert.Same(t, coded, WrapScanError(coded))
}
