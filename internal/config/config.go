// Package config provides configuration loading from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/usestring/agentschema/internal/logging"
)

// Extraction defaults
const (
	DefaultInputDir        = "."
	DefaultOutputDir       = "docs/cli-verification/schemas"
	DefaultMaxSamples      = 100
	DefaultEnumThreshold   = 10
	DefaultMinEnumSamples  = 3
	DefaultWorkers         = 8
	DefaultValidatorCache  = 128
	DefaultMaxInferSamples = 10000
)

// Config holds all configuration for extraction, verification and the MCP server.
type Config struct {
	InputDir  string   // AGENTSCHEMA_INPUT, default "."
	OutputDir string   // AGENTSCHEMA_OUTPUT, default "docs/cli-verification/schemas"
	Agents    []string // AGENTSCHEMA_AGENTS, comma separated, default all
	Profiles  string   // PROFILES_FILE, default "" (embedded profiles)

	MaxSamples     int // MAX_SAMPLES, default 100
	EnumThreshold  int // ENUM_THRESHOLD, default 10
	MinEnumSamples int // MIN_ENUM_SAMPLES, default 3
	Workers        int // WORKERS, default 8

	// Output toggles
	Overwrite     bool // OVERWRITE, default false
	WriteSchemas  bool // WRITE_SCHEMAS, default true
	WriteRaw      bool // WRITE_RAW, default true
	WriteNested   bool // WRITE_NESTED, default true
	WriteCoverage bool // WRITE_COVERAGE, default true
	EmitUnparsed  bool // EMIT_UNPARSED, default false
	Verify        bool // VERIFY, default false

	// MCP tool limits
	ValidatorCacheMaxItems int // VALIDATOR_CACHE_MAX_ITEMS, default 128
	MaxInferSamples        int // MAX_INFER_SAMPLES, default 10000

	// Logging configuration
	LogLevel      string // LOG_LEVEL, default "info"
	LogFormat     string // LOG_FORMAT, default "text"
	LogFile       string // LOG_FILE, default "" (stderr only)
	LogMaxSizeMB  int    // LOG_MAX_SIZE_MB, default 10
	LogMaxBackups int    // LOG_MAX_BACKUPS, default 5
	LogMaxAgeDays int    // LOG_MAX_AGE_DAYS, default 28
	LogCompress   bool   // LOG_COMPRESS, default true
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		InputDir:  getEnvString("AGENTSCHEMA_INPUT", DefaultInputDir),
		OutputDir: getEnvString("AGENTSCHEMA_OUTPUT", DefaultOutputDir),
		Agents:    getEnvList("AGENTSCHEMA_AGENTS"),
		Profiles:  getEnvString("PROFILES_FILE", ""),

		MaxSamples:     getEnvInt("MAX_SAMPLES", DefaultMaxSamples),
		EnumThreshold:  getEnvInt("ENUM_THRESHOLD", DefaultEnumThreshold),
		MinEnumSamples: getEnvInt("MIN_ENUM_SAMPLES", DefaultMinEnumSamples),
		Workers:        getEnvInt("WORKERS", DefaultWorkers),

		Overwrite:     getEnvBool("OVERWRITE", false),
		WriteSchemas:  getEnvBool("WRITE_SCHEMAS", true),
		WriteRaw:      getEnvBool("WRITE_RAW", true),
		WriteNested:   getEnvBool("WRITE_NESTED", true),
		WriteCoverage: getEnvBool("WRITE_COVERAGE", true),
		EmitUnparsed:  getEnvBool("EMIT_UNPARSED", false),
		Verify:        getEnvBool("VERIFY", false),

		ValidatorCacheMaxItems: getEnvInt("VALIDATOR_CACHE_MAX_ITEMS", DefaultValidatorCache),
		MaxInferSamples:        getEnvInt("MAX_INFER_SAMPLES", DefaultMaxInferSamples),

		LogLevel:      getEnvString("LOG_LEVEL", "info"),
		LogFormat:     getEnvString("LOG_FORMAT", "text"),
		LogFile:       getEnvString("LOG_FILE", ""),
		LogMaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 10),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 5),
		LogMaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 28),
		LogCompress:   getEnvBool("LOG_COMPRESS", true),
	}
}

// Validate rejects settings the extractor cannot run with.
func (c *Config) Validate() error {
	if c.MaxSamples <= 0 {
		return fmt.Errorf("max samples must be positive, got %d", c.MaxSamples)
	}
	if c.EnumThreshold <= 0 {
		return fmt.Errorf("enum threshold must be positive, got %d", c.EnumThreshold)
	}
	if c.MinEnumSamples <= 0 {
		return fmt.Errorf("min enum samples must be positive, got %d", c.MinEnumSamples)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.InputDir == "" {
		return fmt.Errorf("input directory is required")
	}
	return nil
}

// Logging returns the logging configuration.
func (c *Config) Logging() logging.Config {
	return logging.Config{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		FilePath:   c.LogFile,
		MaxSizeMB:  c.LogMaxSizeMB,
		MaxBackups: c.LogMaxBackups,
		MaxAgeDays: c.LogMaxAgeDays,
		Compress:   c.LogCompress,
	}
}

// AgentAllowed reports whether agent passes the agent filter.
func (c *Config) AgentAllowed(agent string) bool {
	if len(c.Agents) == 0 {
		return true
	}
	for _, a := range c.Agents {
		if a == agent {
			return true
		}
	}
	return false
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		switch v {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return defaultVal
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvList(key string) []string {
	return SplitList(os.Getenv(key))
}

// SplitList splits a comma separated list, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
