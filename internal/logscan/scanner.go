package logscan

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/usestring/agentschema/internal/profile"
	"github.com/usestring/agentschema/internal/samples"
)

const (
	maxLineBytes       = 64 << 20
	cancelCheckEvery   = 1024
	maxLoggedPayload   = 100
	defaultScanWorkers = 4
)

// FileStats counts what happened to the lines of one or more files.
type FileStats struct {
	TotalLines  int `json:"total_lines"`
	StdoutLines int `json:"stdout_lines"`
	JSONParsed  int `json:"json_parsed"`
	JSONFailed  int `json:"json_failed"`
}

// Add accumulates other into s.
func (s *FileStats) Add(other FileStats) {
	s.TotalLines += other.TotalLines
	s.StdoutLines += other.StdoutLines
	s.JSONParsed += other.JSONParsed
	s.JSONFailed += other.JSONFailed
}

// Scanner extracts samples from stream logs.
type Scanner struct {
	Profiles   *profile.Set
	MaxSamples int
	// Nested enables content block and tool input extraction.
	Nested bool
	// KeepUnparsed retains stdout payloads that are not valid JSON.
	KeepUnparsed bool
	// Agents restricts scanning to these agents. Empty means all.
	Agents  []string
	Workers int
}

// ScanAll scans files in parallel. The result equals scanning them one
// after another in the given order. Files that fail to read are logged and
// skipped.
func (s *Scanner) ScanAll(ctx context.Context, files []File) (*samples.Collection, FileStats, error) {
	parts := make([]*samples.Collection, len(files))
	stats := make([]FileStats, len(files))
	s.profiles()

	workers := s.Workers
	if workers <= 0 {
		workers = defaultScanWorkers
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, f := range files {
		g.Go(func() error {
			coll, st, err := s.ScanFile(ctx, f)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				slog.Warn("failed to process log file",
					slog.String("file", f.Path),
					slog.String("error", err.Error()),
				)
				return nil
			}
			parts[i] = coll
			stats[i] = st
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, FileStats{}, err
	}

	total := samples.New(s.MaxSamples)
	var totalStats FileStats
	for i, part := range parts {
		if part == nil {
			continue
		}
		total.Absorb(part)
		totalStats.Add(stats[i])
	}
	return total, totalStats, nil
}

// ScanFile extracts samples from one file into a fresh collection.
func (s *Scanner) ScanFile(ctx context.Context, f File) (*samples.Collection, FileStats, error) {
	var stats FileStats

	fh, err := os.Open(f.Path)
	if err != nil {
		return nil, stats, fmt.Errorf("open log: %w", err)
	}
	defer fh.Close()

	coll := samples.New(s.MaxSamples)
	fileIdx := coll.AddSourceFile(f.Path)
	profiles := make(map[string]*profile.Profile)

	sc := bufio.NewScanner(fh)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for sc.Scan() {
		stats.TotalLines++
		if stats.TotalLines%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, stats, err
			}
		}

		line, ok := ParseLine(sc.Text(), f.Format, f.Agent)
		if !ok || !s.agentAllowed(line.Agent) || line.Kind != StdoutKind {
			continue
		}
		stats.StdoutLines++

		decoded, err := decodePayload(line.Payload)
		if err != nil {
			stats.JSONFailed++
			slog.Debug("json parse error",
				slog.String("file", f.Path),
				slog.String("error", err.Error()),
				slog.String("payload", truncate(line.Payload, maxLoggedPayload)),
			)
			if s.KeepUnparsed {
				coll.AddUnparsed(line.Agent, line.Payload, fileIdx)
			}
			continue
		}
		stats.JSONParsed++

		p, ok := profiles[line.Agent]
		if !ok {
			p = s.profiles().Get(line.Agent)
			profiles[line.Agent] = p
		}

		kind := p.Discriminate(decoded)
		coll.AddSample(line.Agent, kind, compact(line.Payload), fileIdx)

		if s.Nested {
			s.extractNested(coll, p, line.Agent, decoded, fileIdx)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, stats, fmt.Errorf("read %s: %w", f.Path, err)
	}

	return coll, stats, nil
}

func (s *Scanner) extractNested(coll *samples.Collection, p *profile.Profile, agent string, decoded any, fileIdx uint32) {
	for _, block := range p.ContentBlocks(decoded) {
		b, err := json.Marshal(block.Value)
		if err != nil {
			continue
		}
		coll.AddContentBlock(agent, block.Type, b, fileIdx)
	}
	for _, in := range p.ToolInputs(decoded) {
		b, err := json.Marshal(in.Input)
		if err != nil {
			continue
		}
		coll.AddToolInput(agent, in.Name, b, fileIdx)
	}
}

func (s *Scanner) profiles() *profile.Set {
	if s.Profiles == nil {
		s.Profiles = profile.Default()
	}
	return s.Profiles
}

func (s *Scanner) agentAllowed(agent string) bool {
	if len(s.Agents) == 0 {
		return true
	}
	for _, a := range s.Agents {
		if a == agent {
			return true
		}
	}
	return false
}

// decodePayload decodes a payload keeping numbers as json.Number, so nested
// samples re-encode with their original literals.
func decodePayload(payload string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(payload))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("invalid character after top-level value")
	}
	return v, nil
}

// compact strips insignificant whitespace from a payload known to be valid JSON.
func compact(payload string) json.RawMessage {
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(payload)); err != nil {
		return json.RawMessage(payload)
	}
	return buf.Bytes()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
