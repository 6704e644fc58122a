package tools

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/usestring/agentschema/pkg/types"
)

func TestCheckOutputSchema_panicsOnNilSlice(t *testing.T) {
	type BadOutput struct {
		Items []string `json:"items"` // nil marshals as null against "type": "array"
	}
	assert.Panics(t, func() {
		CheckOutputSchema[BadOutput]("test_bad_tool")
	})
}

func TestCheckOutputSchema_ok(t *testing.T) {
	type omitzero struct {
		Items []string `json:"items,omitzero"`
	}
	type omitempty struct {
		Items []string `json:"items,omitempty"`
	}
	type scalars struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	type ptrSlice struct {
		Items *[]string `json:"items"`
	}
	type anySlice struct {
		Items []any `json:"items,omitzero"`
	}

	assert.NotPanics(t, func() { CheckOutputSchema[omitzero]("omitzero") })
	assert.NotPanics(t, func() { CheckOutputSchema[omitempty]("omitempty") })
	assert.NotPanics(t, func() { CheckOutputSchema[scalars]("scalars") })
	assert.NotPanics(t, func() { CheckOutputSchema[ptrSlice]("ptr_slice") })
	assert.NotPanics(t, func() { CheckOutputSchema[anySlice]("any_slice") })
	assert.NotPanics(t, func() { CheckOutputSchema[any]("any") })
}

func TestCheckOutputSchema_panicsOnRawMessage(t *testing.T) {
	type direct struct {
		Data json.RawMessage `json:"data,omitempty"`
	}
	type slice struct {
		Items []json.RawMessage `json:"items,omitzero"`
	}
	type inner struct {
		Schema json.RawMessage `json:"schema,omitempty"`
	}
	type nested struct {
		Nested inner `json:"nested"`
	}

	assert.Panics(t, func() { CheckOutputSchema[direct]("direct") })
	assert.Panics(t, func() { CheckOutputSchema[slice]("slice") })
	assert.Panics(t, func() { CheckOutputSchema[nested]("nested") })
}

func TestCheckOutputSchema_registeredOutputs(t *testing.T) {
	assert.NotPanics(t, func() {
		CheckOutputSchema[types.InferSchemaOutput]("infer_schema")
		CheckOutputSchema[types.ExtractSchemasOutput]("extract_schemas")
		CheckOutputSchema[types.ValidateSamplesOutput]("validate_samples")
		CheckOutputSchema[types.QueryResponse]("query_samples")
		CheckOutputSchema[types.CoverageOutput]("get_coverage")
	})
}
