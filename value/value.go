// Package value defines the generic tree exchanged between the TAML
// parser, serializer and any external format adapters. A tree is built
// once by a parse (or programmatically by a caller) and is treated as
// immutable after it has been handed over.
package value

import (
	"strconv"
	"strings"
)

// Kind identifies the variant a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindEmpty
	KindString
	KindBool
	KindNumber
	KindList
	KindObject
)

// String returns the kind's name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindEmpty:
		return "empty string"
	case KindString:
		return "string"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindList:
		return "list"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is the base interface for all tree nodes. A node is never both
// a List and an Object; the parser resolves that ambiguity once and the
// kind is fixed thereafter.
type Value interface {
	// Kind returns the variant the node holds.
	Kind() Kind
	// String returns the node's scalar text form, or a compact
	// rendering for containers. It is meant for messages and tests,
	// not for serialization.
	String() string

	valueNode()
}

// Null represents the explicit null literal `~`.
type Null struct{}

func (*Null) valueNode()     {}
func (*Null) Kind() Kind     { return KindNull }
func (*Null) String() string { return "~" }

// Empty represents the empty-string literal `""`. It is distinct from
// Null and from a String with empty text.
type Empty struct{}

func (*Empty) valueNode()     {}
func (*Empty) Kind() Kind     { return KindEmpty }
func (*Empty) String() string { return `""` }

// String is a text scalar, kept verbatim with no escaping.
type String struct {
	Text string
}

func (*String) valueNode()       {}
func (*String) Kind() Kind       { return KindString }
func (s *String) String() string { return s.Text }

// Bool is a boolean scalar.
type Bool struct {
	Value bool
}

func (*Bool) valueNode() {}
func (*Bool) Kind() Kind { return KindBool }
func (b *Bool) String() string {
	if b.Value {
		return "true"
	}
	return "false"
}

// Number is a numeric scalar. Text holds the canonical decimal form
// the scalar was read from (or formatted to), so serializing never
// adds precision.
type Number struct {
	Text  string
	Value float64
}

func (*Number) valueNode()       {}
func (*Number) Kind() Kind       { return KindNumber }
func (n *Number) String() string { return n.Text }

// IsInt reports whether the number was written without a fraction.
func (n *Number) IsInt() bool { return !strings.Contains(n.Text, ".") }

// List is an ordered sequence of values.
type List struct {
	Items []Value
}

func (*List) valueNode() {}
func (*List) Kind() Kind { return KindList }

// Append adds v to the end of the list.
func (l *List) Append(v Value) { l.Items = append(l.Items, v) }

// Len returns the number of elements.
func (l *List) Len() int { return len(l.Items) }

func (l *List) String() string {
	parts := make([]string, len(l.Items))
	for i, v := range l.Items {
		parts[i] = v.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Object is an insertion-ordered mapping of keys to values. Keys are
// unique within one Object; setting an existing key replaces its value
// but keeps its original position.
type Object struct {
	keys  []string
	items map[string]Value
}

// NewObject returns an empty Object.
func NewObject() *Object {
	return &Object{items: make(map[string]Value)}
}

func (*Object) valueNode() {}
func (*Object) Kind() Kind { return KindObject }

// Set inserts or replaces the value for key.
func (o *Object) Set(key string, v Value) {
	if _, ok := o.items[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.items[key] = v
}

// Get returns the value for key and whether it was present.
func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.items[key]
	return v, ok
}

// Keys returns the keys in insertion order. The returned slice is
// owned by the Object and must not be modified.
func (o *Object) Keys() []string { return o.keys }

// Len returns the number of entries.
func (o *Object) Len() int { return len(o.keys) }

func (o *Object) String() string {
	parts := make([]string, len(o.keys))
	for i, k := range o.keys {
		parts[i] = k + ": " + o.items[k].String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// ParseNumber reports whether text matches the numeric grammar
// (optional leading minus, digits, optional fraction) and returns the
// corresponding Number. The original text is preserved.
func ParseNumber(text string) (*Number, bool) {
	s := text
	if strings.HasPrefix(s, "-") {
		s = s[1:]
	}
	if s == "" {
		return nil, false
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")
	if !isDigits(intPart) {
		return nil, false
	}
	if hasFrac && !isDigits(frac) {
		return nil, false
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, false
	}
	return &Number{Text: text, Value: f}, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Equal reports structural equality of two trees. Object key order is
// significant; numbers compare by numeric value.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case *Null, *Empty:
		return true
	case *String:
		return av.Text == b.(*String).Text
	case *Bool:
		return av.Value == b.(*Bool).Value
	case *Number:
		return av.Value == b.(*Number).Value
	case *List:
		bv := b.(*List)
		if len(av.Items) != len(bv.Items) {
			return false
		}
		for i := range av.Items {
			if !Equal(av.Items[i], bv.Items[i]) {
				return false
			}
		}
		return true
	case *Object:
		bv := b.(*Object)
		if len(av.keys) != len(bv.keys) {
			return false
		}
		for i, k := range av.keys {
			if bv.keys[i] != k {
				return false
			}
			if !Equal(av.items[k], bv.items[k]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
