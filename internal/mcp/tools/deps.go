package tools

import (
	"encoding/json"
	"fmt"

	"github.com/usestring/agentschema/internal/catalog"
	"github.com/usestring/agentschema/internal/config"
	"github.com/usestring/agentschema/internal/extract"
	"github.com/usestring/agentschema/internal/profile"
	"github.com/usestring/agentschema/internal/verify"
	"github.com/usestring/agentschema/pkg/jsonschema"
)

// Deps contains all dependencies needed by tool handlers.
type Deps struct {
	Config      *config.Config
	Profiles    *profile.Set
	Verifier    *verify.Verifier
	Extractions *catalog.ExtractionStore
}

// EmitOptions returns the configured emit options with non-zero overrides applied.
func (d *Deps) EmitOptions(enumThreshold, minEnumSamples int) jsonschema.EmitOptions {
	opts := jsonschema.EmitOptions{
		EnumThreshold:  d.Config.EnumThreshold,
		MinEnumSamples: d.Config.MinEnumSamples,
	}
	if enumThreshold > 0 {
		opts.EnumThreshold = enumThreshold
	}
	if minEnumSamples > 0 {
		opts.MinEnumSamples = minEnumSamples
	}
	return opts
}

// Extraction retrieves a stored extraction.
func (d *Deps) Extraction(id string) (*catalog.Extraction, error) {
	e, ok := d.Extractions.Get(id)
	if !ok {
		return nil, ErrNotFound("extraction", id)
	}
	return e, nil
}

// Group retrieves one built group of a stored extraction.
func (d *Deps) Group(extractionID, key string) (*extract.Result, error) {
	e, err := d.Extraction(extractionID)
	if err != nil {
		return nil, err
	}
	r, ok := e.Result(key)
	if !ok {
		return nil, ErrNotFound("group", key)
	}
	return r, nil
}

// ResolveSamples returns inline samples as raw JSON, or the stored samples of
// a group when an extraction is referenced. Inline samples win.
func (d *Deps) ResolveSamples(inline []any, extractionID, key string) ([][]byte, *extract.Result, error) {
	var group *extract.Result
	if extractionID != "" {
		if key == "" {
			return nil, nil, ErrInvalidInput("key is required with extraction_id")
		}
		r, err := d.Group(extractionID, key)
		if err != nil {
			return nil, nil, err
		}
		group = r
	}

	if len(inline) == 0 {
		if group == nil {
			return nil, nil, ErrInvalidInput("either samples or extraction_id with key is required")
		}
		return group.Samples, group, nil
	}

	raw := make([][]byte, len(inline))
	for i, s := range inline {
		b, err := json.Marshal(s)
		if err != nil {
			return nil, nil, ErrInvalidInput(fmt.Sprintf("sample %d: %v", i, err))
		}
		raw[i] = b
	}
	return raw, group, nil
}
