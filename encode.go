package taml

import (
	"fmt"
	"io"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/taml-lang/go-taml/internal/formatter"
	"github.com/taml-lang/go-taml/internal/lexer"
	"github.com/taml-lang/go-taml/internal/parser"
	"github.com/taml-lang/go-taml/value"
)

// Encoder writes TAML documents to an output stream.
type Encoder struct {
	w    io.Writer
	opts []Option
}

// NewEncoder returns a new encoder that writes to w.
func NewEncoder(w io.Writer, opts ...Option) *Encoder {
	return &Encoder{w: w, opts: opts}
}

// Encode writes the TAML encoding of v to the stream.
//
// A value.Value is serialized directly and must be an object, since a
// TAML document is an object at the top level. Any other Go value is
// reflected into a generic tree first: structs and string-keyed maps
// become objects, slices and arrays become lists, nil becomes null and
// the empty string becomes the "" token. Map keys are emitted in
// sorted order; struct fields in declaration order.
func (e *Encoder) Encode(v any) error {
	o, err := newOptions(e.opts)
	if err != nil {
		return err
	}

	root, err := encodeRoot(v, o)
	if err != nil {
		return err
	}
	return formatter.New(e.w).Format(root)
}

func encodeRoot(v any, o options) (*value.Object, error) {
	if tree, ok := v.(value.Value); ok {
		root, ok := tree.(*value.Object)
		if !ok {
			return nil, fmt.Errorf("taml: document root must be an object, got %s", tree.Kind())
		}
		return root, nil
	}

	es := &encodeState{seen: make(map[uintptr]bool), opts: o}
	node, err := es.marshalValue(reflect.ValueOf(v))
	if err != nil {
		return nil, err
	}
	root, ok := node.(*value.Object)
	if !ok {
		return nil, fmt.Errorf("taml: document root must encode to an object, got %s", node.Kind())
	}
	return root, nil
}

// encodeState tracks the containers on the current path so cycles are
// reported instead of recursing forever.
type encodeState struct {
	seen map[uintptr]bool
	opts options
}

func (e *encodeState) marshalCustom(v reflect.Value, m Marshaler) (value.Value, error) {
	b, err := m.MarshalTAML()
	if err != nil {
		return nil, &MarshalerError{Type: v.Type(), Err: err}
	}

	// The custom output must itself be a valid TAML document; it is
	// parsed back into a tree, under the caller's options, to be
	// grafted in as a nested object.
	node, perr := parser.New(lexer.Scan(b), parser.Config{
		Lenient:    e.opts.lenient,
		RawStrings: e.opts.rawStrings,
		MaxDepth:   e.opts.maxDepth,
	}).Parse()
	if perr != nil {
		return nil, &MarshalerError{Type: v.Type(), Err: fmt.Errorf("invalid TAML output: %w", perr)}
	}
	return node, nil
}

func (e *encodeState) marshalValue(v reflect.Value) (value.Value, error) { //nolint:gocyclo
	if !v.IsValid() || (v.Kind() == reflect.Interface && v.IsNil()) {
		return &value.Null{}, nil
	}

	// Check for a custom Marshaler on the value and on a pointer to
	// it, so both receiver forms are honored.
	if v.Type().NumMethod() > 0 && v.CanInterface() {
		if m, ok := v.Interface().(Marshaler); ok {
			return e.marshalCustom(v, m)
		}
	}
	if v.Kind() != reflect.Pointer {
		var pv reflect.Value
		if v.CanAddr() {
			pv = v.Addr()
		} else {
			pv = reflect.New(v.Type())
			pv.Elem().Set(v)
		}
		if pv.Type().NumMethod() > 0 && pv.CanInterface() {
			if m, ok := pv.Interface().(Marshaler); ok {
				return e.marshalCustom(pv, m)
			}
		}
	}

	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return &value.Null{}, nil
		}
		if v.Kind() == reflect.Pointer {
			ptr := v.Pointer()
			if e.seen[ptr] {
				return nil, fmt.Errorf("taml: encountered a cycle via %s", v.Type())
			}
			e.seen[ptr] = true
			defer delete(e.seen, ptr)
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.String:
		return marshalString(v.String()), nil
	case reflect.Bool:
		return &value.Bool{Value: v.Bool()}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		text := strconv.FormatInt(v.Int(), 10)
		return &value.Number{Text: text, Value: float64(v.Int())}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if v.Uint() > math.MaxInt64 {
			return nil, fmt.Errorf("taml: cannot marshal uint64 %d (overflows int64)", v.Uint())
		}
		text := strconv.FormatUint(v.Uint(), 10)
		return &value.Number{Text: text, Value: float64(v.Uint())}, nil
	case reflect.Float32, reflect.Float64:
		return marshalFloat(v.Float())
	case reflect.Slice, reflect.Array:
		return e.marshalList(v)
	case reflect.Map:
		return e.marshalMap(v)
	case reflect.Struct:
		return e.marshalStruct(v)
	default:
		return nil, fmt.Errorf("taml: unsupported type for marshaling: %s", v.Type())
	}
}

// marshalString applies the reader's scalar coercion on the way out.
// The format has no quoting, so text that reads back as a boolean or
// number is written as that kind; the text itself is preserved.
func marshalString(s string) value.Value {
	if s == "" {
		return &value.Empty{}
	}
	switch strings.ToLower(s) {
	case "true":
		return &value.Bool{Value: true}
	case "false":
		return &value.Bool{Value: false}
	}
	if n, ok := value.ParseNumber(s); ok {
		return n
	}
	return &value.String{Text: s}
}

// marshalFloat renders a float in plain decimal notation, since the
// value grammar has no exponent form.
func marshalFloat(f float64) (value.Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("taml: cannot marshal %v (no textual form)", f)
	}
	return &value.Number{Text: strconv.FormatFloat(f, 'f', -1, 64), Value: f}, nil
}

func (e *encodeState) marshalList(v reflect.Value) (value.Value, error) {
	if v.Kind() == reflect.Slice {
		if v.IsNil() {
			return &value.Null{}, nil
		}
		ptr := v.Pointer()
		if e.seen[ptr] {
			return nil, fmt.Errorf("taml: encountered a cycle via %s", v.Type())
		}
		e.seen[ptr] = true
		defer delete(e.seen, ptr)
	}

	list := &value.List{}
	for i := 0; i < v.Len(); i++ {
		elem, err := e.marshalValue(v.Index(i))
		if err != nil {
			return nil, err
		}
		list.Append(elem)
	}
	return list, nil
}

func (e *encodeState) marshalMap(v reflect.Value) (value.Value, error) {
	if v.IsNil() {
		return &value.Null{}, nil
	}
	if v.Type().Key().Kind() != reflect.String {
		return nil, fmt.Errorf("taml: map key type must be a string, got %s", v.Type().Key())
	}
	ptr := v.Pointer()
	if e.seen[ptr] {
		return nil, fmt.Errorf("taml: encountered a cycle via %s", v.Type())
	}
	e.seen[ptr] = true
	defer delete(e.seen, ptr)

	keys := make([]string, 0, v.Len())
	for _, k := range v.MapKeys() {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)

	obj := value.NewObject()
	for _, k := range keys {
		elem, err := e.marshalValue(v.MapIndex(reflect.ValueOf(k)))
		if err != nil {
			return nil, err
		}
		obj.Set(k, elem)
	}
	return obj, nil
}

func (e *encodeState) marshalStruct(v reflect.Value) (value.Value, error) {
	obj := value.NewObject()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}

		tagName, opts := parseTag(sf.Tag.Get("taml"))
		if tagName == "-" {
			continue
		}

		fv := v.Field(i)
		if opts["omitempty"] && isEmptyValue(fv) {
			continue
		}

		key := sf.Name
		if tagName != "" {
			key = tagName
		}

		elem, err := e.marshalValue(fv)
		if err != nil {
			return nil, err
		}
		obj.Set(key, elem)
	}
	return obj, nil
}

// parseTag splits a taml struct tag into its name and options.
func parseTag(tag string) (string, map[string]bool) {
	parts := strings.Split(tag, ",")
	name := parts[0]
	options := make(map[string]bool)
	for _, part := range parts[1:] {
		options[strings.TrimSpace(part)] = true
	}
	return name, options
}

// isEmptyValue reports whether the value v is empty.
func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Pointer:
		return v.IsNil()
	}
	return false
}
