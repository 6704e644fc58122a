package main

import (
	"errors"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/usestring/agentschema/internal/config"
	"github.com/usestring/agentschema/internal/extract"
	"github.com/usestring/agentschema/internal/profile"
	"github.com/usestring/agentschema/internal/samples"
)

func newExtractCmd() *cobra.Command {
	var (
		input, output          string
		agents                 []string
		maxSamples, workers    int
		enumThreshold, minEnum int
		overwrite, verbose     bool
		noSchema, noRaw        bool
		noNested, noCoverage   bool
		emitUnparsed, verifyIt bool
	)

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Scan stream logs and write schemas, raw samples and coverage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(cmd)
			flags := cmd.Flags()
			if flags.Changed("input") {
				cfg.InputDir = input
			}
			if flags.Changed("output") {
				cfg.OutputDir = output
			}
			if flags.Changed("agents") {
				cfg.Agents = agents
			}
			if flags.Changed("max-samples") {
				cfg.MaxSamples = maxSamples
			}
			if flags.Changed("workers") {
				cfg.Workers = workers
			}
			if flags.Changed("enum-threshold") {
				cfg.EnumThreshold = enumThreshold
			}
			if flags.Changed("min-enum-samples") {
				cfg.MinEnumSamples = minEnum
			}
			if overwrite {
				cfg.Overwrite = true
			}
			if noSchema {
				cfg.WriteSchemas = false
			}
			if noRaw {
				cfg.WriteRaw = false
			}
			if noNested {
				cfg.WriteNested = false
			}
			if noCoverage {
				cfg.WriteCoverage = false
			}
			if emitUnparsed {
				cfg.EmitUnparsed = true
			}
			if verifyIt {
				cfg.Verify = true
			}
			if verbose && !flags.Changed("log-level") {
				cfg.LogLevel = "debug"
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			cleanup, err := setupLogging(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			profiles, err := profile.Load(cfg.Profiles)
			if err != nil {
				return err
			}

			slog.Debug("starting extraction",
				slog.String("input", cfg.InputDir),
				slog.String("output", cfg.OutputDir),
			)
			report, err := extract.Run(cmd.Context(), cfg, profiles)
			if errors.Is(err, extract.ErrNoLogFiles) {
				slog.Info("nothing to do", "error", err)
				return nil
			}
			if err != nil {
				return err
			}

			printReport(cmd.OutOrStdout(), cfg, report)
			if len(report.Failed()) > 0 {
				return errVerifyFailed
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&input, "input", "i", config.DefaultInputDir, "Directory to scan recursively for *-stream-*.log files")
	f.StringVarP(&output, "output", "o", config.DefaultOutputDir, "Output directory")
	f.StringSliceVarP(&agents, "agents", "a", nil, "Only extract these agents (comma separated)")
	f.IntVarP(&maxSamples, "max-samples", "m", config.DefaultMaxSamples, "Samples stored per group")
	f.IntVar(&workers, "workers", config.DefaultWorkers, "Parallel scan and build workers")
	f.IntVar(&enumThreshold, "enum-threshold", config.DefaultEnumThreshold, "Most distinct strings emitted as an enum")
	f.IntVar(&minEnum, "min-enum-samples", config.DefaultMinEnumSamples, "Fewest samples before an enum is emitted")
	f.BoolVar(&overwrite, "overwrite", false, "Replace existing output files")
	f.BoolVar(&noSchema, "no-schema", false, "Do not write event schemas")
	f.BoolVar(&noRaw, "no-raw", false, "Do not write raw .jsonl samples")
	f.BoolVar(&emitUnparsed, "emit-unparsed", false, "Write stdout lines that were not JSON to unparsed.jsonl")
	f.BoolVar(&noNested, "no-nested-schema", false, "Skip content block and tool input schemas")
	f.BoolVar(&noCoverage, "no-coverage", false, "Do not write coverage.json")
	f.BoolVar(&verifyIt, "verify", false, "Validate stored samples against their inferred schemas")
	f.BoolVarP(&verbose, "verbose", "v", false, "Debug logging")

	return cmd
}

func printReport(w io.Writer, cfg *config.Config, r *extract.Report) {
	p := message.NewPrinter(language.English)

	p.Fprintf(w, "Processed %d files\n", len(r.Files))
	p.Fprintf(w, "  Total lines: %d\n", r.Stats.TotalLines)
	p.Fprintf(w, "  Stdout lines: %d\n", r.Stats.StdoutLines)
	p.Fprintf(w, "  JSON parsed: %d\n", r.Stats.JSONParsed)
	p.Fprintf(w, "  JSON failed: %d\n", r.Stats.JSONFailed)

	for _, name := range r.Collection.Agents() {
		a := r.Collection.Agent(name)
		p.Fprintf(w, "\nAgent: %s\n", name)

		counts, stored := a.Counts(samples.Events), a.Stored(samples.Events)
		for _, kind := range a.Names(samples.Events) {
			p.Fprintf(w, "  %s: %d total, %d stored\n", kind, counts[kind], stored[kind])
		}
		if blocks := a.Names(samples.Blocks); len(blocks) > 0 {
			stored := a.Stored(samples.Blocks)
			p.Fprintf(w, "  Content blocks:\n")
			for _, b := range blocks {
				p.Fprintf(w, "    %s: %d samples\n", b, stored[b])
			}
		}
		if tools := a.Names(samples.Tools); len(tools) > 0 {
			stored := a.Stored(samples.Tools)
			p.Fprintf(w, "  Tool inputs:\n")
			for _, t := range tools {
				p.Fprintf(w, "    %s: %d samples\n", t, stored[t])
			}
		}
	}

	p.Fprintf(w, "\nWrote %d files (%d skipped) to %s\n", r.Written.Written, r.Written.Skipped, cfg.OutputDir)

	if cfg.Verify {
		failed := r.Failed()
		p.Fprintf(w, "Verified %d schemas, %d failed\n", len(r.Verification), len(failed))
		for _, f := range failed {
			p.Fprintf(w, "  %s: %d/%d samples valid %s\n", f.Key, f.Valid, f.Total, f.CompileError)
		}
	}
}
