package taml

import (
	"bytes"

	"github.com/taml-lang/go-taml/internal/lexer"
	"github.com/taml-lang/go-taml/internal/parser"
	"github.com/taml-lang/go-taml/value"
)

// Marshaler is the interface implemented by types that can marshal
// themselves into a valid TAML document.
type Marshaler interface {
	MarshalTAML() ([]byte, error)
}

// Unmarshaler is the interface implemented by types that can
// unmarshal a TAML fragment of themselves. The input is the fragment
// re-serialized in canonical form: a document for objects, a bare
// token for scalars.
type Unmarshaler interface {
	UnmarshalTAML([]byte) error
}

// Marshal returns the TAML encoding of v.
//
// v may be a *value.Object (or any value.Value), which is serialized
// directly, or an arbitrary Go value, which is first reflected into a
// generic tree. The document root must encode to an object.
func Marshal(v any, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	e := NewEncoder(&buf, opts...)
	if err := e.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal parses the TAML-encoded data and stores the result in the
// value pointed to by v.
func Unmarshal(data []byte, v any, opts ...Option) error {
	return NewDecoder(bytes.NewReader(data), opts...).Decode(v)
}

// Parse turns a TAML document into its generic value tree. Parsing is
// strict by default: the first structural violation is returned as a
// diag.Diagnostic carrying the offending line and column. With the
// Lenient option offending lines are skipped instead.
func Parse(data []byte, opts ...Option) (*value.Object, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}
	p := parser.New(lexer.Scan(data), parser.Config{
		Lenient:    o.lenient,
		RawStrings: o.rawStrings,
		MaxDepth:   o.maxDepth,
	})
	return p.Parse()
}
