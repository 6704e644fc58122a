package jsonschema

import (
	"fmt"
	"strconv"

	"github.com/valyala/fastjson"
)

// Infer returns a node describing exactly v, with SeenCount 1.
func Infer(v *fastjson.Value) *Node {
	return Merger{}.Infer(v)
}

// InferBytes parses one JSON document and infers its node.
func InferBytes(b []byte) (*Node, error) {
	return Merger{}.InferBytes(b)
}

// InferAll folds the leaves of every value into one aggregate.
func InferAll(values []*fastjson.Value) *Node {
	return Merger{}.InferAll(values)
}

// InferAllBytes parses and folds every document. It fails on the first
// document that is not valid JSON.
func InferAllBytes(samples [][]byte) (*Node, error) {
	return Merger{}.InferAllBytes(samples)
}

// Infer returns a node describing exactly v. Array elements are folded with m.
func (m Merger) Infer(v *fastjson.Value) *Node {
	n := &Node{SeenCount: 1}
	if v == nil {
		n.Types = TypeSet(TypeNull)
		return n
	}

	switch v.Type() {
	case fastjson.TypeNull:
		n.Types = TypeSet(TypeNull)

	case fastjson.TypeTrue, fastjson.TypeFalse:
		n.Types = TypeSet(TypeBoolean)

	case fastjson.TypeNumber:
		n.Types = TypeSet(TypeNumber)
		n.Numeric = NumericInfo{Count: 1, AllInteger: isIntegral(v)}

	case fastjson.TypeString:
		n.Types = TypeSet(TypeString)
		n.StringValues = map[string]struct{}{string(v.GetStringBytes()): {}}
		m.limit(n)

	case fastjson.TypeArray:
		n.Types = TypeSet(TypeArray)
		elems, _ := v.Array()
		if len(elems) > 0 {
			items := NewNode()
			for _, elem := range elems {
				m.Merge(items, m.Infer(elem))
			}
			n.Items = items
		}

	case fastjson.TypeObject:
		n.Types = TypeSet(TypeObject)
		n.ObjectCount = 1
		n.Properties = make(map[string]*Node)
		n.Required = make(map[string]struct{})
		obj, _ := v.Object()
		obj.Visit(func(key []byte, val *fastjson.Value) {
			k := string(key)
			child := m.Infer(val)
			if existing, ok := n.Properties[k]; ok {
				// Duplicate key in one object: both values describe the same field.
				m.Merge(existing, child)
				return
			}
			n.Properties[k] = child
			n.Required[k] = struct{}{}
		})
	}

	return n
}

// InferBytes parses one JSON document and infers its node.
func (m Merger) InferBytes(b []byte) (*Node, error) {
	v, err := fastjson.ParseBytes(b)
	if err != nil {
		return nil, fmt.Errorf("parse sample: %w", err)
	}
	return m.Infer(v), nil
}

// InferAll folds the leaves of every value into one aggregate.
func (m Merger) InferAll(values []*fastjson.Value) *Node {
	acc := NewNode()
	for _, v := range values {
		m.Merge(acc, m.Infer(v))
	}
	return acc
}

// InferAllBytes parses and folds every document.
func (m Merger) InferAllBytes(samples [][]byte) (*Node, error) {
	var p fastjson.Parser
	acc := NewNode()
	for i, b := range samples {
		v, err := p.ParseBytes(b)
		if err != nil {
			return nil, fmt.Errorf("parse sample %d: %w", i, err)
		}
		m.Merge(acc, m.Infer(v))
	}
	return acc, nil
}

// isIntegral reports whether the raw number literal is a 64-bit signed or
// unsigned integer. Literals with a fraction or exponent, such as 1.0 and
// 1e3, are floats.
func isIntegral(v *fastjson.Value) bool {
	raw := string(v.MarshalTo(nil))
	if _, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return true
	}
	_, err := strconv.ParseUint(raw, 10, 64)
	return err == nil
}
