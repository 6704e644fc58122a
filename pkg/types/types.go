// Package types holds the input and output shapes of the MCP tools, kept
// free of internal imports so clients can decode tool results.
package types

import "encoding/json"

// ToAny converts v to the generic map/slice form encoding/json decodes into.
// Output fields holding documents of unknown shape are declared any and
// filled through ToAny, never json.RawMessage.
func ToAny(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ResourceRef points a client at a resource worth reading next.
type ResourceRef struct {
	URI  string `json:"uri"`
	MIME string `json:"mime"`
	Hint string `json:"hint,omitempty"`
}
