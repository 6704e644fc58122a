package logscan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name      string
		file      string
		format    Format
		agent     string
		wantMatch bool
	}{
		{"new", "agent-stream-20240101.log", FormatNew, "", true},
		{"legacy claude", "claude-stream-20240101.log", FormatLegacy, "claude", true},
		{"legacy hyphenated", "my-agent-stream-1.log", FormatLegacy, "my-agent", true},
		{"no stream marker", "claude.log", 0, "", false},
		{"wrong extension", "claude-stream-1.txt", 0, "", false},
		{"empty agent", "-stream-1.log", 0, "", false},
		{"dot agent", "..-stream-1.log", 0, "", false},
		{"dotted agent", "a.b-stream-1.log", 0, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			format, agent, ok := DetectFormat(tt.file)
			assert.Equal(t, tt.wantMatch, ok)
			assert.Equal(t, tt.format, format)
			assert.Equal(t, tt.agent, agent)
		})
	}
}

func TestParseLine_New(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		want   Line
		wantOK bool
	}{
		{
			"stdout",
			`[02:24:08.467][claude][stdout] {"type":"system"}`,
			Line{Agent: "claude", Kind: "stdout", Payload: `{"type":"system"}`},
			true,
		},
		{
			"hyphen agent",
			`[12:00:00.000][claude-3][stdout] {"type":"test"}`,
			Line{Agent: "claude-3", Kind: "stdout", Payload: `{"type":"test"}`},
			true,
		},
		{
			"underscore agent",
			`[12:00:00.000][my_agent][stdout] {}`,
			Line{Agent: "my_agent", Kind: "stdout", Payload: `{}`},
			true,
		},
		{
			"start line",
			`[02:24:08.467][claude][start] command: claude -p`,
			Line{Agent: "claude", Kind: "start", Payload: "command: claude -p"},
			true,
		},
		{
			"no space before payload",
			`[t][codex][stdout]{"a":1}`,
			Line{Agent: "codex", Kind: "stdout", Payload: `{"a":1}`},
			true,
		},
		{"invalid agent", `[t][bad agent!][stdout] {}`, Line{}, false},
		{"empty agent", `[t][][stdout] {}`, Line{}, false},
		{"missing kind", `[t][claude] {}`, Line{}, false},
		{"not bracketed", `plain text`, Line{}, false},
		{"header", `=== session start ===`, Line{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseLine(tt.line, FormatNew, "")
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLine_Legacy(t *testing.T) {
	got, ok := ParseLine(`[stdout] {"type":"result"}`, FormatLegacy, "claude")
	assert.True(t, ok)
	assert.Equal(t, Line{Agent: "claude", Kind: "stdout", Payload: `{"type":"result"}`}, got)

	got, ok = ParseLine(`[stderr]  warning`, FormatLegacy, "gemini")
	assert.True(t, ok)
	assert.Equal(t, " warning", got.Payload)

	_, ok = ParseLine(`=== header`, FormatLegacy, "claude")
	assert.False(t, ok)

	_, ok = ParseLine(`[unterminated`, FormatLegacy, "claude")
	assert.False(t, ok)

	_, ok = ParseLine(`[stdout] {}`, Format(0), "claude")
	assert.False(t, ok)
}

func TestFormat_String(t *testing.T) {
	assert.Equal(t, "new", FormatNew.String())
	assert.Equal(t, "legacy", FormatLegacy.String())
	assert.Equal(t, "unknown", Format(0).String())
}
