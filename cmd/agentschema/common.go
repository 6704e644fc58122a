package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/usestring/agentschema/internal/config"
	"github.com/usestring/agentschema/internal/logging"
)

var errVerifyFailed = errors.New("verification failed")

// loadConfig reads the environment and applies the persistent flags that
// were set on the command line.
func loadConfig(cmd *cobra.Command) *config.Config {
	cfg := config.Load()
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-format") {
		cfg.LogFormat, _ = flags.GetString("log-format")
	}
	if flags.Changed("log-file") {
		cfg.LogFile, _ = flags.GetString("log-file")
	}
	if flags.Changed("profiles") {
		cfg.Profiles, _ = flags.GetString("profiles")
	}
	return cfg
}

func setupLogging(cfg *config.Config) (func() error, error) {
	cleanup, err := logging.Setup(cfg.Logging())
	if err != nil {
		return nil, fmt.Errorf("failed to setup logging: %w", err)
	}
	return cleanup, nil
}
