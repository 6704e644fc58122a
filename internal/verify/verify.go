// Package verify checks emitted schema documents against draft-07 and
// against the samples they were inferred from.
package verify

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/usestring/agentschema/internal/cache"
)

const resourceURL = "schema.json"

// DefaultCacheSize is used when New is given a non-positive size.
const DefaultCacheSize = 128

// SampleError lists why one sample failed validation.
type SampleError struct {
	Index  int      `json:"index"`
	Errors []string `json:"errors"`
}

// Result is the outcome of validating a set of samples against one schema.
type Result struct {
	Key          string        `json:"key"`
	Total        int           `json:"total"`
	Valid        int           `json:"valid"`
	CompileError string        `json:"compile_error,omitempty"`
	Failures     []SampleError `json:"failures,omitempty"`
}

// OK reports whether the schema compiled and accepted every sample.
func (r Result) OK() bool {
	return r.CompileError == "" && r.Valid == r.Total
}

// Verifier compiles and caches schema documents.
type Verifier struct {
	cache *cache.SchemaCache
}

// New creates a verifier caching up to cacheSize compiled schemas.
func New(cacheSize int) (*Verifier, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	c, err := cache.NewSchemaCache(cacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating schema cache: %w", err)
	}
	return &Verifier{cache: c}, nil
}

// Compile compiles doc, which may be raw JSON bytes or any value that
// marshals to a schema document. Documents without "$schema" are treated as
// draft-07.
func (v *Verifier) Compile(key string, doc any) (*jsonschema.Schema, error) {
	data, err := documentBytes(doc)
	if err != nil {
		return nil, err
	}

	sum := sha256.Sum256(data)
	cacheKey := key + "@" + hex.EncodeToString(sum[:])
	if s, ok := v.cache.Get(cacheKey); ok {
		return s, nil
	}

	value, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.DefaultDraft(jsonschema.Draft7)
	if err := compiler.AddResource(resourceURL, value); err != nil {
		return nil, fmt.Errorf("adding schema resource: %w", err)
	}
	compiled, err := compiler.Compile(resourceURL)
	if err != nil {
		return nil, fmt.Errorf("compiling schema: %w", err)
	}

	v.cache.Put(cacheKey, compiled)
	return compiled, nil
}

// ValidateSamples compiles doc and validates every sample against it.
func (v *Verifier) ValidateSamples(key string, doc any, samples [][]byte) Result {
	res := Result{Key: key, Total: len(samples)}

	compiled, err := v.Compile(key, doc)
	if err != nil {
		res.CompileError = err.Error()
		return res
	}

	for i, sample := range samples {
		if errs := validate(compiled, sample); len(errs) > 0 {
			res.Failures = append(res.Failures, SampleError{Index: i, Errors: errs})
			continue
		}
		res.Valid++
	}
	return res
}

func validate(s *jsonschema.Schema, sample []byte) []string {
	value, err := jsonschema.UnmarshalJSON(bytes.NewReader(sample))
	if err != nil {
		return []string{fmt.Sprintf("invalid JSON: %s", err.Error())}
	}
	if err := s.Validate(value); err != nil {
		return extractValidationErrors(err)
	}
	return nil
}

func documentBytes(doc any) ([]byte, error) {
	switch d := doc.(type) {
	case []byte:
		return d, nil
	case json.RawMessage:
		return d, nil
	case string:
		return []byte(d), nil
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshaling schema: %w", err)
	}
	return data, nil
}

// extractValidationErrors extracts human-readable error messages from a validation error.
func extractValidationErrors(err error) []string {
	var validationErr *jsonschema.ValidationError
	if errors.As(err, &validationErr) {
		return extractDetailedErrors(validationErr)
	}
	return []string{err.Error()}
}

// printer is a default English printer for localized error messages.
var printer = message.NewPrinter(language.English)

func extractDetailedErrors(err *jsonschema.ValidationError) []string {
	errorsByPath := make(map[string][]string)
	collectErrors(err, errorsByPath)

	paths := make([]string, 0, len(errorsByPath))
	for p := range errorsByPath {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var result []string
	for _, path := range paths {
		seen := make(map[string]bool)
		for _, msg := range errorsByPath[path] {
			if seen[msg] {
				continue
			}
			seen[msg] = true
			if path != "" {
				result = append(result, fmt.Sprintf("%s: %s", path, msg))
			} else {
				result = append(result, msg)
			}
		}
	}
	return result
}

// collectErrors recursively collects leaf errors (those without causes).
func collectErrors(err *jsonschema.ValidationError, errorsByPath map[string][]string) {
	instancePath := ""
	if len(err.InstanceLocation) > 0 {
		instancePath = "/" + strings.Join(err.InstanceLocation, "/")
	}

	if err.ErrorKind != nil && len(err.Causes) == 0 {
		msg := err.ErrorKind.LocalizedString(printer)
		// $ref wrappers carry no information of their own.
		if !strings.HasPrefix(msg, "$ref ") && !strings.HasPrefix(msg, "doesn't validate with") {
			errorsByPath[instancePath] = append(errorsByPath[instancePath], msg)
		}
	}

	for _, cause := range err.Causes {
		collectErrors(cause, errorsByPath)
	}
}
