package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errVerifyFailed) {
			slog.Error("command failed", "error", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "agentschema",
		Short: "Infer JSON Schemas from agent CLI stream logs",
		Long: `agentschema scans *-stream-*.log captures of agent CLIs (claude, codex,
gemini, ...), groups their stdout JSON events by kind and infers one draft-07
JSON Schema per group.

Defaults come from the environment (AGENTSCHEMA_INPUT, AGENTSCHEMA_OUTPUT,
MAX_SAMPLES, ENUM_THRESHOLD, LOG_LEVEL, ...); flags override them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("log-level", "", "Logging level (debug, info, warn, error)")
	root.PersistentFlags().String("log-format", "", "Log format (text, json)")
	root.PersistentFlags().String("log-file", "", "Log file path (default stderr)")
	root.PersistentFlags().String("profiles", "", "Agent profiles YAML file (default embedded profiles)")

	root.AddCommand(newExtractCmd(), newVerifyCmd(), newMCPCmd())
	return root
}
