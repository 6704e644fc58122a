package types

import "github.com/usestring/agentschema/pkg/jsonschema"

// InferSchemaOutput is the output type for the infer_schema tool.
type InferSchemaOutput struct {
	// Schema is the draft-07 document.
	Schema      any                    `json:"schema"`
	FieldStats  []jsonschema.FieldStat `json:"field_stats,omitzero"`
	SampleCount int                    `json:"sample_count"`
	Hint        string                 `json:"hint,omitempty"`
}
