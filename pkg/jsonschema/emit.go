package jsonschema

import (
	"github.com/invopop/jsonschema"
)

// Draft07 is the meta-schema URI stamped on emitted documents.
const Draft07 = "http://json-schema.org/draft-07/schema#"

// EmitOptions controls enum detection.
type EmitOptions struct {
	// EnumThreshold is the largest number of distinct strings reported as an enum.
	EnumThreshold int `json:"enum_threshold"`
	// MinEnumSamples is the fewest samples a field needs before it can be an enum.
	MinEnumSamples int `json:"min_enum_samples"`
}

// DefaultEmitOptions returns the default emit options.
func DefaultEmitOptions() EmitOptions {
	return EmitOptions{
		EnumThreshold:  10,
		MinEnumSamples: 3,
	}
}

// Merger returns a merger that tracks just enough strings to decide enum
// candidacy under these options.
func (o EmitOptions) Merger() Merger {
	if o.EnumThreshold <= 0 {
		return Merger{}
	}
	return Merger{MaxStringValues: o.EnumThreshold + 1}
}

// Emit renders n as a schema fragment. A nil or empty node yields an empty
// schema, which accepts anything. It marshals as the boolean schema true,
// the draft-07 equivalent of {}.
func Emit(n *Node, opts EmitOptions) *jsonschema.Schema {
	s := &jsonschema.Schema{}
	if n == nil {
		return s
	}

	switch n.Types.Len() {
	case 0:
	case 1:
		s.Type = typeName(n, n.Types.Tags()[0])
	default:
		s.AnyOf = make([]*jsonschema.Schema, 0, n.Types.Len())
		for _, t := range n.Types.Tags() {
			branch := &jsonschema.Schema{Type: typeName(n, t)}
			if t == TypeObject {
				setObject(branch, n, opts)
			}
			s.AnyOf = append(s.AnyOf, branch)
		}
	}

	mixed := n.Types.Has(TypeObject) && n.Types.Len() > 1
	if !mixed {
		setObject(s, n, opts)
	}

	if n.Items != nil {
		s.Items = Emit(n.Items, opts)
	}

	if enumValues := enumCandidates(n, opts); enumValues != nil {
		s.Enum = make([]any, len(enumValues))
		for i, v := range enumValues {
			s.Enum[i] = v
		}
	}

	return s
}

// Document wraps the fragment for n with the draft-07 header.
func Document(n *Node, title, description string, opts EmitOptions) *jsonschema.Schema {
	s := Emit(n, opts)
	s.Version = Draft07
	s.Title = title
	s.Description = description
	return s
}

func typeName(n *Node, t Type) string {
	if t == TypeNumber && n.Numeric.AllInteger && n.Numeric.Count > 0 {
		return "integer"
	}
	return t.String()
}

func setObject(s *jsonschema.Schema, n *Node, opts EmitOptions) {
	if len(n.Properties) == 0 {
		return
	}
	s.Properties = jsonschema.NewProperties()
	for _, k := range n.PropertyNames() {
		s.Properties.Set(k, Emit(n.Properties[k], opts))
	}
	s.Required = n.RequiredKeys()
}

// enumCandidates returns the sorted values to emit as an enum, or nil when
// the field does not qualify.
func enumCandidates(n *Node, opts EmitOptions) []string {
	if !n.Types.Only(TypeString) || n.StringOverflow {
		return nil
	}
	if len(n.StringValues) == 0 || len(n.StringValues) > opts.EnumThreshold {
		return nil
	}
	if n.SeenCount < opts.MinEnumSamples {
		return nil
	}
	return n.StringValueList()
}
