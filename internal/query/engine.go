// Package query runs jq expressions over JSON samples.
package query

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/itchyny/gojq"
)

// Program is a compiled jq expression. It is safe for concurrent use.
type Program struct {
	expr string
	code *gojq.Code
}

// Compile parses and compiles a jq expression.
func Compile(expression string) (*Program, error) {
	q, err := gojq.Parse(expression)
	if err != nil {
		var parseErr *gojq.ParseError
		if errors.As(err, &parseErr) {
			return nil, fmt.Errorf("invalid jq expression at position %d: %w", parseErr.Offset, err)
		}
		return nil, fmt.Errorf("invalid jq expression: %w", err)
	}

	code, err := gojq.Compile(q)
	if err != nil {
		return nil, fmt.Errorf("failed to compile jq expression: %w", err)
	}
	return &Program{expr: expression, code: code}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(expression string) *Program {
	p, err := Compile(expression)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the source expression.
func (p *Program) String() string {
	return p.expr
}

// Run evaluates the program against a decoded JSON value and returns every
// non-null output. Runtime errors are collected rather than aborting.
func (p *Program) Run(input any) ([]any, []error) {
	var (
		values []any
		errs   []error
	)
	iter := p.code.Run(input)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := v.(error); isErr {
			var haltErr *gojq.HaltError
			if errors.As(err, &haltErr) && haltErr.Value() == nil {
				break
			}
			errs = append(errs, err)
			continue
		}
		if v == nil {
			continue
		}
		values = append(values, v)
	}
	return values, errs
}

// FirstString returns the first output of the program when it is a string.
func (p *Program) FirstString(input any) (string, bool) {
	iter := p.code.Run(input)
	v, ok := iter.Next()
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Result contains the outputs of a program run across many samples.
type Result struct {
	Values         []any          `json:"values"`                    // Extracted values
	Errors         []string       `json:"errors,omitempty"`          // Per-sample errors
	RawCount       int            `json:"raw_count"`                 // Count before deduplication
	MatchedIndices []int          `json:"matched_indices,omitempty"` // Indices of samples that produced values
	LabelCounts    map[string]int `json:"label_counts,omitempty"`    // Value count per label
}

// RunSamples evaluates the program against raw JSON samples. Labels name the
// samples in error messages and default to "sample[i]".
func (p *Program) RunSamples(samples [][]byte, labels []string, deduplicate bool, maxResults int) *Result {
	result := &Result{
		Values:      make([]any, 0),
		LabelCounts: make(map[string]int),
	}

	seen := make(map[string]bool)
	seenErrors := make(map[string]bool)

	for i, data := range samples {
		if maxResults > 0 && len(result.Values) >= maxResults {
			break
		}

		label := fmt.Sprintf("sample[%d]", i)
		if i < len(labels) && labels[i] != "" {
			label = labels[i]
		}

		var input any
		if err := json.Unmarshal(data, &input); err != nil {
			addError(result, seenErrors, fmt.Sprintf("%s: invalid JSON: %v", label, err))
			continue
		}

		values, errs := p.Run(input)
		for _, err := range errs {
			addError(result, seenErrors, formatJQError(label, err))
		}
		if len(values) > 0 {
			result.MatchedIndices = append(result.MatchedIndices, i)
		}

		for _, v := range values {
			if maxResults > 0 && len(result.Values) >= maxResults {
				break
			}
			result.RawCount++
			result.LabelCounts[label]++

			if deduplicate {
				key := valueKey(v)
				if seen[key] {
					continue
				}
				seen[key] = true
			}
			result.Values = append(result.Values, v)
		}
	}

	return result
}

func addError(result *Result, seen map[string]bool, msg string) {
	if seen[msg] {
		return
	}
	seen[msg] = true
	result.Errors = append(result.Errors, msg)
}

// formatJQError decorates common runtime errors with a hint. gojq reports
// them as plain errors, so the hints are keyed on the message text.
func formatJQError(label string, err error) string {
	var haltErr *gojq.HaltError
	if errors.As(err, &haltErr) {
		if haltErr.Value() == nil {
			return fmt.Sprintf("%s: query halted", label)
		}
		return fmt.Sprintf("%s: query halted with: %v", label, haltErr.Value())
	}

	errStr := err.Error()

	var hint string
	switch {
	case strings.Contains(errStr, "cannot iterate over: null"):
		hint = " (the path may not exist in this sample)"
	case strings.Contains(errStr, "cannot index") && strings.Contains(errStr, "with"):
		hint = " (field not found or wrong type)"
	case strings.Contains(errStr, "object") && strings.Contains(errStr, "cannot be iterated"):
		hint = " (expected array but got object, try removing '[]')"
	case strings.Contains(errStr, "array") && strings.Contains(errStr, "cannot be indexed"):
		hint = " (expected object but got array, try adding '[]')"
	}

	return fmt.Sprintf("%s: %s%s", label, errStr, hint)
}

// valueKey creates a string key for deduplication.
func valueKey(v any) string {
	switch val := v.(type) {
	case string:
		return "s:" + val
	case float64:
		return fmt.Sprintf("n:%v", val)
	case bool:
		return fmt.Sprintf("b:%v", val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("?:%v", val)
		}
		return "j:" + string(b)
	}
}
