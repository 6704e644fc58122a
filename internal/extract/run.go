package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/usestring/agentschema/internal/config"
	"github.com/usestring/agentschema/internal/logscan"
	"github.com/usestring/agentschema/internal/profile"
	"github.com/usestring/agentschema/internal/samples"
	"github.com/usestring/agentschema/internal/verify"
	"github.com/usestring/agentschema/pkg/jsonschema"
)

// ErrNoLogFiles is returned by Run when the input directory holds no stream logs.
var ErrNoLogFiles = errors.New("no log files found")

// Report describes one extraction run.
type Report struct {
	Files      []logscan.File
	Stats      logscan.FileStats
	Collection *samples.Collection
	Results    []Result
	Written    WriteStats
	// Verification is set when cfg.Verify is true.
	Verification []verify.Result
}

// Failed returns the verification results that did not pass.
func (r *Report) Failed() []verify.Result {
	var failed []verify.Result
	for _, v := range r.Verification {
		if !v.OK() {
			failed = append(failed, v)
		}
	}
	return failed
}

// Scan finds and scans the logs under cfg.InputDir.
func Scan(ctx context.Context, cfg *config.Config, profiles *profile.Set) ([]logscan.File, *samples.Collection, logscan.FileStats, error) {
	files, err := logscan.FindLogFiles(cfg.InputDir)
	if err != nil {
		return nil, nil, logscan.FileStats{}, fmt.Errorf("scan directory: %w", err)
	}
	if len(files) == 0 {
		return nil, nil, logscan.FileStats{}, fmt.Errorf("%w in %s", ErrNoLogFiles, cfg.InputDir)
	}
	slog.Debug("found log files", slog.Int("count", len(files)))

	scanner := &logscan.Scanner{
		Profiles:     profiles,
		MaxSamples:   cfg.MaxSamples,
		Nested:       cfg.WriteNested,
		KeepUnparsed: cfg.EmitUnparsed,
		Agents:       cfg.Agents,
		Workers:      cfg.Workers,
	}
	coll, stats, err := scanner.ScanAll(ctx, files)
	if err != nil {
		return nil, nil, logscan.FileStats{}, err
	}
	return files, coll, stats, nil
}

// Run scans, builds, writes and optionally verifies.
func Run(ctx context.Context, cfg *config.Config, profiles *profile.Set) (*Report, error) {
	if profiles == nil {
		profiles = profile.Default()
	}

	files, coll, stats, err := Scan(ctx, cfg, profiles)
	if err != nil {
		return nil, err
	}

	results, err := Build(ctx, coll, Options{
		Emit: jsonschema.EmitOptions{
			EnumThreshold:  cfg.EnumThreshold,
			MinEnumSamples: cfg.MinEnumSamples,
		},
		Nested:  cfg.WriteNested,
		Workers: cfg.Workers,
	})
	if err != nil {
		return nil, fmt.Errorf("build schemas: %w", err)
	}

	w := &Writer{
		Dir:       cfg.OutputDir,
		Overwrite: cfg.Overwrite,
		Schemas:   cfg.WriteSchemas,
		Raw:       cfg.WriteRaw,
		Nested:    cfg.WriteNested,
		Unparsed:  cfg.EmitUnparsed,
		Coverage:  cfg.WriteCoverage,
		Profiles:  profiles,
	}
	written, err := w.Write(coll, results)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Files:      files,
		Stats:      stats,
		Collection: coll,
		Results:    results,
		Written:    written,
	}

	if cfg.Verify {
		report.Verification, err = Verify(ctx, results, cfg.ValidatorCacheMaxItems)
		if err != nil {
			return nil, err
		}
	}
	return report, nil
}

// Verify checks every result's document against the samples it was built from.
func Verify(ctx context.Context, results []Result, cacheSize int) ([]verify.Result, error) {
	v, err := verify.New(cacheSize)
	if err != nil {
		return nil, err
	}
	out := make([]verify.Result, 0, len(results))
	for _, r := range results {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res := v.ValidateSamples(r.Key(), r.Schema, r.Samples)
		if !res.OK() {
			slog.Warn("schema rejected its own samples",
				slog.String("key", res.Key),
				slog.Int("valid", res.Valid),
				slog.Int("total", res.Total),
			)
		}
		out = append(out, res)
	}
	return out, nil
}
