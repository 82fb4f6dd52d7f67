// Package loctree implements the nested key/value tree that localization
// files are parsed into, together with the missing-key diff and the merge
// used to fold freshly translated keys back into an existing locale file.
//
// Values are a closed set of shapes:
//
//   - String — a translatable string leaf
//   - List   — an ordered sequence (string elements are translatable)
//   - Tree   — a nested key/value map
//   - Scalar — an opaque literal (number, boolean, null), passed through
//
// Trees preserve key insertion order on round-trip.
package loctree

import "fmt"

// ---------------------------------------------------------------------------
// Value union
// ---------------------------------------------------------------------------

// Value is one node of a localization tree. Exactly one implementation
// exists per shape so dispatch is an exhaustive type switch.
type Value interface {
	// isValue restricts implementations to this package.
	isValue()
}

// String is a translatable string leaf.
type String string

// List is an ordered sequence of values. String elements are translated
// element-wise; everything else is carried through unchanged.
type List []Value

// Scalar is a non-translatable literal carried verbatim: the raw source
// text of a number, boolean or null.
type Scalar string

func (String) isValue() {}
func (List) isValue()   {}
func (*Tree) isValue()  {}
func (Scalar) isValue() {}

// Null is the scalar literal for JSON/JS null.
const Null = Scalar("null")

// IsNull reports whether v is the null scalar.
func IsNull(v Value) bool {
	s, ok := v.(Scalar)
	return ok && s == Null
}

// ---------------------------------------------------------------------------
// Tree
// ---------------------------------------------------------------------------

// Tree is an insertion-ordered string→Value map.
type Tree struct {
	keys   []string
	values map[string]Value
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{values: make(map[string]Value)}
}

// Set stores v under key, appending the key if it is new.
func (t *Tree) Set(key string, v Value) {
	if t.values == nil {
		t.values = make(map[string]Value)
	}
	if _, ok := t.values[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.values[key] = v
}

// Get returns the value for key and whether it exists.
func (t *Tree) Get(key string) (Value, bool) {
	if t == nil || t.values == nil {
		return nil, false
	}
	v, ok := t.values[key]
	return v, ok
}

// Keys returns the keys in insertion order. The slice is shared; callers
// must not modify it.
func (t *Tree) Keys() []string {
	if t == nil {
		return nil
	}
	return t.keys
}

// Len returns the number of top-level keys.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// IsEmpty reports whether the tree has no keys.
func (t *Tree) IsEmpty() bool {
	return t.Len() == 0
}

// Subtree returns the child tree at key, or nil if the key is absent or
// its value is not a tree.
func (t *Tree) Subtree(key string) *Tree {
	v, ok := t.Get(key)
	if !ok {
		return nil
	}
	sub, _ := v.(*Tree)
	return sub
}

// LeafCount returns the number of leaves (strings, scalars, and whole
// lists each count as one) reachable in the tree.
func (t *Tree) LeafCount() int {
	n := 0
	for _, k := range t.Keys() {
		v, _ := t.Get(k)
		if sub, ok := v.(*Tree); ok {
			n += sub.LeafCount()
			continue
		}
		n++
	}
	return n
}

// StringLeafCount returns the number of translatable string leaves
// (string values plus string elements of lists) in the tree.
func (t *Tree) StringLeafCount() int {
	n := 0
	for _, k := range t.Keys() {
		v, _ := t.Get(k)
		switch val := v.(type) {
		case String:
			n++
		case List:
			for _, el := range val {
				if _, ok := el.(String); ok {
					n++
				}
			}
		case *Tree:
			n += val.StringLeafCount()
		}
	}
	return n
}

// Clone returns a deep copy of the tree.
func (t *Tree) Clone() *Tree {
	out := NewTree()
	for _, k := range t.Keys() {
		v, _ := t.Get(k)
		out.Set(k, cloneValue(v))
	}
	return out
}

func cloneValue(v Value) Value {
	switch val := v.(type) {
	case *Tree:
		return val.Clone()
	case List:
		out := make(List, len(val))
		for i, el := range val {
			out[i] = cloneValue(el)
		}
		return out
	default:
		return val
	}
}

// String renders a compact single-line debug form, useful in test failures.
func (t *Tree) String() string {
	if t == nil {
		return "{}"
	}
	s := "{"
	for i, k := range t.keys {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%s: %s", k, debugValue(t.values[k]))
	}
	return s + "}"
}

func debugValue(v Value) string {
	switch val := v.(type) {
	case String:
		return fmt.Sprintf("%q", string(val))
	case Scalar:
		return string(val)
	case List:
		s := "["
		for i, el := range val {
			if i > 0 {
				s += ", "
			}
			s += debugValue(el)
		}
		return s + "]"
	case *Tree:
		return val.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
