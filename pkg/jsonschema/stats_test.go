package jsonschema

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statsByPath(t *testing.T, opts EmitOptions, docs ...string) map[string]FieldStat {
	t.Helper()
	stats := ComputeFieldStats(foldDocs(t, opts.Merger(), docs...), opts)
	require.NotNil(t, stats)
	byPath := make(map[string]FieldStat)
	for _, s := range stats {
		byPath[s.Path] = s
	}
	return byPath
}

func TestComputeFieldStats_BasicFields(t *testing.T) {
	byPath := statsByPath(t, DefaultEmitOptions(),
		`{"id": 1, "name": "Alice", "active": true}`,
		`{"id": 2, "name": "Bob", "active": false}`,
		`{"id": 3, "name": "Charlie", "active": true}`,
	)

	assert.Equal(t, 1.0, byPath["id"].Frequency)
	assert.True(t, byPath["id"].Required)
	assert.False(t, byPath["id"].Nullable)
	assert.Equal(t, "integer", byPath["id"].Type)

	assert.Equal(t, 1.0, byPath["name"].Frequency)
	assert.True(t, byPath["name"].Required)
	assert.Equal(t, "string", byPath["name"].Type)
	assert.Equal(t, 3, byPath["name"].DistinctCount)
	assert.Equal(t, "enum", byPath["name"].Format)
	assert.Equal(t, []string{"Alice", "Bob", "Charlie"}, byPath["name"].EnumValues)

	assert.Equal(t, "boolean", byPath["active"].Type)
}

func TestComputeFieldStats_OptionalFields(t *testing.T) {
	byPath := statsByPath(t, DefaultEmitOptions(),
		`{"id": 1, "name": "Alice"}`,
		`{"id": 2}`,
		`{"id": 3, "name": "Charlie"}`,
		`{"id": 4, "name": null}`,
	)

	name := byPath["name"]
	assert.Equal(t, 0.75, name.Frequency)
	assert.False(t, name.Required)
	assert.True(t, name.Nullable)
	assert.Equal(t, "null|string", name.Type)
	assert.Empty(t, name.Format)
}

func TestComputeFieldStats_NestedPaths(t *testing.T) {
	byPath := statsByPath(t, DefaultEmitOptions(),
		`{"user": {"id": 1, "tags": [{"k": "a"}]}}`,
		`{"user": {"id": 2, "tags": []}}`,
	)

	require.Contains(t, byPath, "user")
	require.Contains(t, byPath, "user.id")
	require.Contains(t, byPath, "user.tags")
	require.Contains(t, byPath, "user.tags[].k")
	assert.Equal(t, "object", byPath["user"].Type)
	assert.Equal(t, "array", byPath["user.tags"].Type)
	assert.Equal(t, 1.0, byPath["user.tags[].k"].Frequency)
}

func TestComputeFieldStats_Formats(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   string
	}{
		{"uuid", []string{
			"550e8400-e29b-41d4-a716-446655440000",
			"6ba7b810-9dad-11d1-80b4-00c04fd430c8",
			"6ba7b811-9dad-11d1-80b4-00c04fd430c8",
			"6ba7b812-9dad-11d1-80b4-00c04fd430c8",
			"6ba7b814-9dad-11d1-80b4-00c04fd430c8",
		}, "uuid"},
		{"iso8601", []string{"2024-01-01T00:00:00Z", "2024-01-02", "2024-02-01T10:00:00Z", "2025-03-01", "2025-04-01"}, "iso8601"},
		{"url", []string{"https://a.example", "http://b.example", "https://c.example/x", "https://d.example", "http://e.example"}, "url"},
		{"email", []string{"a@x.io", "b@x.io", "c@x.io", "d@x.io", "e@x.io"}, "email"},
		{"free text", []string{"one", "two", "three", "four", "five"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs := make([]string, len(tt.values))
			for i, v := range tt.values {
				docs[i] = fmt.Sprintf(`{"f": %q}`, v)
			}
			// Threshold below the distinct count so enum does not take over.
			opts := EmitOptions{EnumThreshold: 2, MinEnumSamples: 3}
			stats := ComputeFieldStats(foldDocs(t, Merger{}, docs...), opts)
			require.Len(t, stats, 1)
			assert.Equal(t, tt.want, stats[0].Format)
			assert.Len(t, stats[0].Examples, maxExamples)
		})
	}
}

func TestComputeFieldStats_DepthLimit(t *testing.T) {
	doc := strings.Repeat(`{"n": `, 8) + `1` + strings.Repeat(`}`, 8)
	stats := ComputeFieldStats(foldDocs(t, Merger{}, doc), DefaultEmitOptions())

	var truncated bool
	for _, s := range stats {
		if strings.HasSuffix(s.Path, "(truncated at depth limit)") {
			truncated = true
			assert.Equal(t, "...", s.Type)
		}
	}
	assert.True(t, truncated)
}

func TestComputeFieldStats_Nil(t *testing.T) {
	assert.Nil(t, ComputeFieldStats(nil, DefaultEmitOptions()))
	assert.Nil(t, ComputeFieldStats(mustInfer(t, `"x"`), DefaultEmitOptions()))
}
