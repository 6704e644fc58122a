package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/usestring/agentschema/internal/profile"
	"github.com/usestring/agentschema/internal/samples"
	"github.com/usestring/agentschema/pkg/jsonschema"
)

// Writer persists extraction output under Dir, one directory per agent.
type Writer struct {
	Dir       string
	Overwrite bool

	Schemas  bool
	Raw      bool
	Nested   bool
	Unparsed bool
	Coverage bool

	Profiles *profile.Set
}

// WriteStats counts files written and files left alone because they existed.
type WriteStats struct {
	Written int `json:"written"`
	Skipped int `json:"skipped"`
}

// Summary is the content of <agent>/summary.json.
type Summary struct {
	Agent              string         `json:"agent"`
	EventCounts        map[string]int `json:"event_counts"`
	TotalSamplesStored int            `json:"total_samples_stored"`
	// Block and tool counts are stored samples; the *_totals fields count
	// every observation.
	ContentBlockCounts map[string]int `json:"content_block_counts"`
	ContentBlockTotals map[string]int `json:"content_block_totals"`
	ToolInputCounts    map[string]int `json:"tool_input_counts"`
	ToolInputTotals    map[string]int `json:"tool_input_totals"`
	UnparsedLines      int            `json:"unparsed_lines"`
	SourceFiles        []string       `json:"source_files"`

	FieldStats map[string][]jsonschema.FieldStat `json:"field_stats,omitempty"`
}

// Coverage is the content of coverage.json.
type Coverage struct {
	Agents  map[string]AgentCoverage `json:"agents"`
	Summary CoverageSummary          `json:"summary"`
}

// AgentCoverage compares what an agent emitted with what its profile expects.
type AgentCoverage struct {
	Events        KindCoverage `json:"events"`
	ContentBlocks KindCoverage `json:"content_blocks"`
	ToolInputs    ToolCoverage `json:"tool_inputs"`
}

// KindCoverage is the expected/observed breakdown of one category.
type KindCoverage struct {
	Expected     []string       `json:"expected"`
	Observed     []string       `json:"observed"`
	Missing      []string       `json:"missing"`
	Unknown      []string       `json:"unknown"`
	SampleCounts map[string]int `json:"sample_counts"`
}

// ToolCoverage lists observed tools. Tools have no expectations.
type ToolCoverage struct {
	Observed     []string       `json:"observed"`
	SampleCounts map[string]int `json:"sample_counts"`
}

// CoverageSummary holds global totals.
type CoverageSummary struct {
	TotalAgentsWithData int `json:"total_agents_with_data"`
	SourceFilesCount    int `json:"source_files_count"`
}

// Write writes every enabled output for coll and its built results.
func (w *Writer) Write(coll *samples.Collection, results []Result) (WriteStats, error) {
	var stats WriteStats

	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return stats, fmt.Errorf("create output directory: %w", err)
	}

	byAgent := make(map[string][]Result)
	for _, r := range results {
		byAgent[r.Agent] = append(byAgent[r.Agent], r)
	}

	for _, agent := range coll.Agents() {
		if err := w.writeAgent(&stats, coll, agent, byAgent[agent]); err != nil {
			return stats, fmt.Errorf("write %s: %w", agent, err)
		}
	}

	if w.Coverage {
		cov := BuildCoverage(coll, w.profiles())
		if err := w.writeJSON(&stats, filepath.Join(w.Dir, "coverage.json"), cov); err != nil {
			return stats, err
		}
	}
	return stats, nil
}

func (w *Writer) writeAgent(stats *WriteStats, coll *samples.Collection, agent string, results []Result) error {
	a := coll.Agent(agent)
	dir := filepath.Join(w.Dir, FileSafe(agent))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	if w.Raw {
		for _, kind := range a.Names(samples.Events) {
			g := a.Group(samples.Events, kind)
			if err := w.writeLines(stats, filepath.Join(dir, FileSafe(kind)+".jsonl"), rawLines(g.Samples)); err != nil {
				return err
			}
		}
	}

	if w.Schemas {
		for _, r := range results {
			if r.Category != samples.Events && !w.Nested {
				continue
			}
			if err := w.writeJSON(stats, filepath.Join(dir, r.FileName()), r.Schema); err != nil {
				return err
			}
		}
	}

	if w.Unparsed && len(a.Unparsed) > 0 {
		if err := w.writeLines(stats, filepath.Join(dir, "unparsed.jsonl"), a.Unparsed); err != nil {
			return err
		}
	}

	return w.writeJSON(stats, filepath.Join(dir, "summary.json"), BuildSummary(coll, agent, results))
}

// BuildSummary assembles the summary for one agent.
func BuildSummary(coll *samples.Collection, agent string, results []Result) Summary {
	a := coll.Agent(agent)
	s := Summary{
		Agent:              agent,
		EventCounts:        a.Counts(samples.Events),
		ContentBlockCounts: a.Stored(samples.Blocks),
		ContentBlockTotals: a.Counts(samples.Blocks),
		ToolInputCounts:    a.Stored(samples.Tools),
		ToolInputTotals:    a.Counts(samples.Tools),
		UnparsedLines:      len(a.Unparsed),
		SourceFiles:        orEmpty(coll.SourceFilesFor(agent)),
	}
	for _, n := range a.Stored(samples.Events) {
		s.TotalSamplesStored += n
	}
	for _, r := range results {
		if r.Agent != agent || r.Category != samples.Events || len(r.FieldStats) == 0 {
			continue
		}
		if s.FieldStats == nil {
			s.FieldStats = make(map[string][]jsonschema.FieldStat)
		}
		s.FieldStats[r.Name] = r.FieldStats
	}
	return s
}

// BuildCoverage compares observed kinds with each profile's expectations.
// It covers every profiled agent plus any other agent with data.
func BuildCoverage(coll *samples.Collection, profiles *profile.Set) Coverage {
	agents := make(map[string]bool)
	for _, a := range profiles.Agents() {
		agents[a] = true
	}
	for _, a := range coll.Agents() {
		agents[a] = true
	}

	cov := Coverage{
		Agents: make(map[string]AgentCoverage, len(agents)),
		Summary: CoverageSummary{
			TotalAgentsWithData: len(coll.Agents()),
			SourceFilesCount:    len(coll.SourceFiles()),
		},
	}

	for agent := range agents {
		p := profiles.Get(agent)
		a := coll.Agent(agent)
		if a == nil {
			a = &samples.Agent{Name: agent}
		}
		cov.Agents[agent] = AgentCoverage{
			Events:        kindCoverage(p.ExpectedEvents, a.Names(samples.Events), a.Counts(samples.Events)),
			ContentBlocks: kindCoverage(p.ExpectedBlocks, a.Names(samples.Blocks), a.Stored(samples.Blocks)),
			ToolInputs: ToolCoverage{
				Observed:     orEmpty(a.Names(samples.Tools)),
				SampleCounts: a.Stored(samples.Tools),
			},
		}
	}
	return cov
}

func kindCoverage(expected, observed []string, counts map[string]int) KindCoverage {
	exp := make(map[string]bool, len(expected))
	for _, e := range expected {
		exp[e] = true
	}
	obs := make(map[string]bool, len(observed))
	for _, o := range observed {
		obs[o] = true
	}

	kc := KindCoverage{
		Expected:     orEmpty(append([]string(nil), expected...)),
		Observed:     orEmpty(observed),
		Missing:      []string{},
		Unknown:      []string{},
		SampleCounts: counts,
	}
	for _, e := range expected {
		if !obs[e] {
			kc.Missing = append(kc.Missing, e)
		}
	}
	sort.Strings(kc.Missing)
	for _, o := range observed {
		if !exp[o] {
			kc.Unknown = append(kc.Unknown, o)
		}
	}
	return kc
}

func (w *Writer) writeJSON(stats *WriteStats, path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	return w.writeFile(stats, path, append(data, '\n'))
}

func (w *Writer) writeLines(stats *WriteStats, path string, lines []string) error {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return w.writeFile(stats, path, []byte(b.String()))
}

func (w *Writer) writeFile(stats *WriteStats, path string, data []byte) error {
	if rel, err := filepath.Rel(w.Dir, path); err != nil || !filepath.IsLocal(rel) {
		return fmt.Errorf("refusing to write outside %s: %s", w.Dir, path)
	}
	if !w.Overwrite {
		if _, err := os.Stat(path); err == nil {
			slog.Info("skipping existing file", slog.String("path", path))
			stats.Skipped++
			return nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	stats.Written++
	return nil
}

func (w *Writer) profiles() *profile.Set {
	if w.Profiles == nil {
		w.Profiles = profile.Default()
	}
	return w.Profiles
}

func rawLines(raw []json.RawMessage) []string {
	lines := make([]string, len(raw))
	for i, r := range raw {
		lines[i] = string(r)
	}
	return lines
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
