// Package jsonschema infers JSON Schema documents from JSON sample values.
//
// Inference happens in three steps. Infer turns one value into a Node that
// describes exactly that value. Merge folds nodes together into an aggregate
// that accepts every value seen so far. Emit renders an aggregate as a
// draft-07 schema fragment using the keywords type, anyOf, properties,
// required, items and enum.
package jsonschema

import (
	"math/bits"
	"sort"
)

// Type is a JSON value type tag.
type Type uint8

const (
	TypeNull Type = 1 << iota
	TypeBoolean
	TypeNumber
	TypeString
	TypeArray
	TypeObject
)

// allTypes is ordered by tag name.
var allTypes = []Type{TypeArray, TypeBoolean, TypeNull, TypeNumber, TypeObject, TypeString}

// String returns the JSON Schema name of the tag.
func (t Type) String() string {
	switch t {
	case TypeNull:
		return "null"
	case TypeBoolean:
		return "boolean"
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeArray:
		return "array"
	case TypeObject:
		return "object"
	}
	return "unknown"
}

// TypeSet is a set of type tags.
type TypeSet uint8

// Has reports whether t is in the set.
func (s TypeSet) Has(t Type) bool { return s&TypeSet(t) != 0 }

// Len returns the number of tags in the set.
func (s TypeSet) Len() int { return bits.OnesCount8(uint8(s)) }

// Only reports whether t is the sole member of the set.
func (s TypeSet) Only(t Type) bool { return s == TypeSet(t) }

// Tags returns the members ordered by tag name.
func (s TypeSet) Tags() []Type {
	tags := make([]Type, 0, s.Len())
	for _, t := range allTypes {
		if s.Has(t) {
			tags = append(tags, t)
		}
	}
	return tags
}

// Names returns the member names in lexicographic order.
func (s TypeSet) Names() []string {
	tags := s.Tags()
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.String()
	}
	return names
}

// NumericInfo tracks whether every number seen at a position was integral.
type NumericInfo struct {
	AllInteger bool `json:"all_integer"`
	Count      int  `json:"count"`
}

// Node is the accumulated shape of every value observed at one position of
// the sample tree.
type Node struct {
	Types      TypeSet
	Properties map[string]*Node
	// Required holds keys present in every object sample merged here.
	// It is meaningful only once ObjectCount > 0.
	Required map[string]struct{}
	Items    *Node
	// SeenCount is the number of samples folded into this node.
	SeenCount int
	// ObjectCount is the number of object samples folded into this node.
	ObjectCount  int
	StringValues map[string]struct{}
	// StringOverflow is set once a bounded Merger dropped StringValues.
	StringOverflow bool
	Numeric        NumericInfo
}

// NewNode returns an empty accumulator.
func NewNode() *Node {
	return &Node{}
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := *n
	if n.Properties != nil {
		c.Properties = make(map[string]*Node, len(n.Properties))
		for k, child := range n.Properties {
			c.Properties[k] = child.Clone()
		}
	}
	c.Required = cloneSet(n.Required)
	c.StringValues = cloneSet(n.StringValues)
	c.Items = n.Items.Clone()
	return &c
}

// IsRequired reports whether key appeared in every object sample.
func (n *Node) IsRequired(key string) bool {
	if n.ObjectCount == 0 {
		return false
	}
	_, ok := n.Required[key]
	return ok
}

// RequiredKeys returns the required keys sorted.
func (n *Node) RequiredKeys() []string {
	if n.ObjectCount == 0 {
		return nil
	}
	return sortedKeys(n.Required)
}

// PropertyNames returns the property keys sorted.
func (n *Node) PropertyNames() []string {
	return sortedKeys(n.Properties)
}

// StringValueList returns the tracked string values sorted.
func (n *Node) StringValueList() []string {
	return sortedKeys(n.StringValues)
}

func sortedKeys[V any](m map[string]V) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func cloneSet(s map[string]struct{}) map[string]struct{} {
	if s == nil {
		return nil
	}
	c := make(map[string]struct{}, len(s))
	for k := range s {
		c[k] = struct{}{}
	}
	return c
}
