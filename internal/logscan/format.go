// Package logscan finds agent stream logs and extracts JSON samples from
// their stdout lines.
package logscan

import (
	"strings"
	"unicode"
)

// Format is the line layout of a stream log.
type Format int

const (
	// FormatNew lines carry the agent: "[time][agent][kind] payload".
	FormatNew Format = iota + 1
	// FormatLegacy lines omit it: "[kind] payload". The agent comes from
	// the file name.
	FormatLegacy
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatNew:
		return "new"
	case FormatLegacy:
		return "legacy"
	}
	return "unknown"
}

// StdoutKind is the only line kind that carries JSON events.
const StdoutKind = "stdout"

// Line is one parsed log line.
type Line struct {
	Agent   string
	Kind    string
	Payload string
}

// DetectFormat classifies a log file by name. "agent-stream-*.log" files use
// the new format; "<agent>-stream-*.log" files use the legacy format and
// name their agent, which must pass the same check as agents in new-format
// lines.
func DetectFormat(filename string) (format Format, agent string, ok bool) {
	if !strings.HasSuffix(filename, ".log") {
		return 0, "", false
	}
	if strings.HasPrefix(filename, "agent-stream-") {
		return FormatNew, "", true
	}
	stem := strings.TrimSuffix(filename, ".log")
	if idx := strings.Index(stem, "-stream-"); idx > 0 && validAgent(stem[:idx]) {
		return FormatLegacy, stem[:idx], true
	}
	return 0, "", false
}

// ParseLine parses one line. Header lines ("=== ...") and lines that do not
// match the format yield ok == false.
func ParseLine(line string, format Format, fileAgent string) (Line, bool) {
	if strings.HasPrefix(line, "===") {
		return Line{}, false
	}
	switch format {
	case FormatNew:
		return parseNew(line)
	case FormatLegacy:
		return parseLegacy(line, fileAgent)
	}
	return Line{}, false
}

func parseNew(line string) (Line, bool) {
	_, rest, ok := bracket(line)
	if !ok {
		return Line{}, false
	}
	agent, rest, ok := bracket(rest)
	if !ok || !validAgent(agent) {
		return Line{}, false
	}
	kind, rest, ok := bracket(rest)
	if !ok {
		return Line{}, false
	}
	return Line{Agent: agent, Kind: kind, Payload: strings.TrimPrefix(rest, " ")}, true
}

func parseLegacy(line, agent string) (Line, bool) {
	kind, rest, ok := bracket(line)
	if !ok {
		return Line{}, false
	}
	return Line{Agent: agent, Kind: kind, Payload: strings.TrimPrefix(rest, " ")}, true
}

// bracket splits "[inner]rest".
func bracket(s string) (inner, rest string, ok bool) {
	if !strings.HasPrefix(s, "[") {
		return "", "", false
	}
	end := strings.IndexByte(s, ']')
	if end < 0 {
		return "", "", false
	}
	return s[1:end], s[end+1:], true
}

func validAgent(agent string) bool {
	if agent == "" {
		return false
	}
	for _, r := range agent {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '_' {
			return false
		}
	}
	return true
}
