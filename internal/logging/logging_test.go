package logging

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.in))
		})
	}
}

func TestNewHandler_Formats(t *testing.T) {
	var buf bytes.Buffer

	h, err := NewHandler(&buf, Config{Level: "info", Format: "json"})
	require.NoError(t, err)
	slog.New(h).Info("scanned", "file", "a.log")
	assert.Contains(t, buf.String(), `"file":"a.log"`)

	buf.Reset()
	h, err = NewHandler(&buf, Config{Level: "warn"})
	require.NoError(t, err)
	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	slog.New(h).Warn("skipped", "file", "b.log")
	assert.Contains(t, buf.String(), "file=b.log")

	_, err = NewHandler(&buf, Config{Format: "xml"})
	assert.Error(t, err)
}

func TestSetup_File(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "logs", "agentschema.log")
	cfg := DefaultConfig()
	cfg.FilePath = path

	cleanup, err := Setup(cfg)
	require.NoError(t, err)
	slog.Info("hello", "k", "v")
	require.NoError(t, cleanup())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "msg=hello")
}
