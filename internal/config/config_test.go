package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, DefaultInputDir, cfg.InputDir)
	assert.Equal(t, DefaultOutputDir, cfg.OutputDir)
	assert.Empty(t, cfg.Agents)
	assert.Equal(t, 100, cfg.MaxSamples)
	assert.Equal(t, 10, cfg.EnumThreshold)
	assert.Equal(t, 3, cfg.MinEnumSamples)
	assert.True(t, cfg.WriteSchemas)
	assert.True(t, cfg.WriteRaw)
	assert.False(t, cfg.EmitUnparsed)
	assert.Equal(t, "info", cfg.LogLevel)
	require.NoError(t, cfg.Validate())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("AGENTSCHEMA_AGENTS", "claude, codex,,")
	t.Setenv("MAX_SAMPLES", "25")
	t.Setenv("ENUM_THRESHOLD", "nope")
	t.Setenv("EMIT_UNPARSED", "yes")
	t.Setenv("WRITE_RAW", "off")

	cfg := Load()

	assert.Equal(t, []string{"claude", "codex"}, cfg.Agents)
	assert.Equal(t, 25, cfg.MaxSamples)
	assert.Equal(t, DefaultEnumThreshold, cfg.EnumThreshold)
	assert.True(t, cfg.EmitUnparsed)
	assert.False(t, cfg.WriteRaw)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"max samples", func(c *Config) { c.MaxSamples = 0 }},
		{"enum threshold", func(c *Config) { c.EnumThreshold = -1 }},
		{"min enum samples", func(c *Config) { c.MinEnumSamples = 0 }},
		{"workers", func(c *Config) { c.Workers = 0 }},
		{"input", func(c *Config) { c.InputDir = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Load()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConfig_AgentAllowed(t *testing.T) {
	cfg := &Config{}
	assert.True(t, cfg.AgentAllowed("gemini"))

	cfg.Agents = []string{"claude"}
	assert.True(t, cfg.AgentAllowed("claude"))
	assert.False(t, cfg.AgentAllowed("codex"))
}

func TestConfig_Logging(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_MAX_BACKUPS", "2")

	lc := Load().Logging()
	assert.Equal(t, "debug", lc.Level)
	assert.Equal(t, "json", lc.Format)
	assert.Equal(t, 2, lc.MaxBackups)
	assert.Equal(t, 28, lc.MaxAgeDays)
	assert.True(t, lc.Compress)
}
