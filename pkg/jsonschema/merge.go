package jsonschema

// Merger folds nodes together. The zero value tracks every distinct string.
type Merger struct {
	// MaxStringValues bounds the distinct strings tracked per node. Once a
	// node would exceed it, its values are dropped and StringOverflow is set.
	// Zero means unbounded.
	MaxStringValues int
}

// Merge folds in into acc using the unbounded merger.
func Merge(acc, in *Node) {
	Merger{}.Merge(acc, in)
}

// Fold merges every node into a fresh accumulator.
func Fold(nodes ...*Node) *Node {
	return Merger{}.Fold(nodes...)
}

// Fold merges every node into a fresh accumulator.
func (m Merger) Fold(nodes ...*Node) *Node {
	acc := NewNode()
	for _, n := range nodes {
		m.Merge(acc, n)
	}
	return acc
}

// Merge mutates acc so it also describes everything in describes. The
// result does not depend on the order in which nodes are merged. in must
// not be used afterwards: its children may be adopted by acc.
func (m Merger) Merge(acc, in *Node) {
	if acc == nil || in == nil {
		return
	}

	acc.Types |= in.Types

	for k, child := range in.Properties {
		if acc.Properties == nil {
			acc.Properties = make(map[string]*Node, len(in.Properties))
		}
		if existing, ok := acc.Properties[k]; ok {
			m.Merge(existing, child)
			continue
		}
		m.limitTree(child)
		acc.Properties[k] = child
	}

	// Required starts unconstrained and narrows with each object sample.
	if in.ObjectCount > 0 {
		if acc.ObjectCount == 0 {
			acc.Required = cloneSet(in.Required)
			if acc.Required == nil {
				acc.Required = make(map[string]struct{})
			}
		} else {
			for k := range acc.Required {
				if _, ok := in.Required[k]; !ok {
					delete(acc.Required, k)
				}
			}
		}
		acc.ObjectCount += in.ObjectCount
	}

	if in.Items != nil {
		if acc.Items == nil {
			m.limitTree(in.Items)
			acc.Items = in.Items
		} else {
			m.Merge(acc.Items, in.Items)
		}
	}

	switch {
	case acc.StringOverflow:
	case in.StringOverflow:
		acc.StringOverflow = true
		acc.StringValues = nil
	default:
		for s := range in.StringValues {
			if acc.StringValues == nil {
				acc.StringValues = make(map[string]struct{}, len(in.StringValues))
			}
			acc.StringValues[s] = struct{}{}
		}
		m.limit(acc)
	}

	if in.Numeric.Count > 0 {
		if acc.Numeric.Count == 0 {
			acc.Numeric = in.Numeric
		} else {
			acc.Numeric.AllInteger = acc.Numeric.AllInteger && in.Numeric.AllInteger
			acc.Numeric.Count += in.Numeric.Count
		}
	}

	acc.SeenCount += in.SeenCount
}

func (m Merger) limit(n *Node) {
	if m.MaxStringValues > 0 && len(n.StringValues) > m.MaxStringValues {
		n.StringValues = nil
		n.StringOverflow = true
	}
}

func (m Merger) limitTree(n *Node) {
	if m.MaxStringValues == 0 || n == nil {
		return
	}
	m.limit(n)
	for _, child := range n.Properties {
		m.limitTree(child)
	}
	m.limitTree(n.Items)
}
