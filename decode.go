package taml

import (
	"encoding"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/taml-lang/go-taml/internal/formatter"
	"github.com/taml-lang/go-taml/internal/lexer"
	"github.com/taml-lang/go-taml/internal/parser"
	"github.com/taml-lang/go-taml/value"
)

// Decoder reads and decodes TAML documents from an input stream.
type Decoder struct {
	r    io.Reader
	opts []Option
}

// NewDecoder returns a new decoder that reads from r.
//
// Functional options configure the decoding process, such as lenient
// parsing with Lenient or a nesting bound with MaxDepth.
func NewDecoder(r io.Reader, opts ...Option) *Decoder {
	return &Decoder{r: r, opts: opts}
}

// Decode reads one TAML document from its input and stores it in the
// value pointed to by v. If v is nil or not a pointer, Decode returns
// an error.
//
// Note: this is a non-streaming implementation. It reads the entire
// reader into memory before parsing.
func (d *Decoder) Decode(v any) error {
	if d.r == nil {
		return fmt.Errorf("taml: Decode(nil reader)")
	}
	data, err := io.ReadAll(d.r)
	if err != nil {
		return err
	}

	o, err := newOptions(d.opts)
	if err != nil {
		return err
	}

	root, err := parser.New(lexer.Scan(data), parser.Config{
		Lenient:    o.lenient,
		RawStrings: o.rawStrings,
		MaxDepth:   o.maxDepth,
	}).Parse()
	if err != nil {
		return err
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("taml: Unmarshal(non-pointer %T or nil)", v)
	}

	// The generic tree itself can be requested directly.
	if out, ok := v.(**value.Object); ok {
		*out = root
		return nil
	}

	ds := &decodeState{depth: o.maxDepth}
	return ds.mapValue(root, rv.Elem())
}

type decodeState struct {
	depth int
}

func (ds *decodeState) mapValue(val value.Value, rv reflect.Value) error {
	ds.depth--
	if ds.depth <= 0 {
		return fmt.Errorf("taml: reached max recursion depth")
	}
	defer func() { ds.depth++ }()

	if val.Kind() == value.KindNull {
		switch rv.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice:
			rv.Set(reflect.Zero(rv.Type()))
			return nil
		}
	}

	handled, err := ds.tryCustomUnmarshal(val, rv)
	if err != nil {
		return err
	}
	if handled {
		return nil
	}

	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		rv = rv.Elem()
	}

	if rv.Kind() == reflect.Interface {
		return ds.mapInterface(val, rv)
	}
	if !rv.CanSet() {
		return fmt.Errorf("taml: cannot set value of type %s", rv.Type())
	}

	switch node := val.(type) {
	case *value.Null:
		rv.Set(reflect.Zero(rv.Type()))
		return nil
	case *value.Empty:
		return ds.mapString("", rv)
	case *value.String:
		return ds.mapString(node.Text, rv)
	case *value.Bool:
		if rv.Kind() == reflect.String {
			rv.SetString(node.String())
			return nil
		}
		if rv.Kind() != reflect.Bool {
			return fmt.Errorf("taml: cannot unmarshal boolean into Go value of type %s", rv.Type())
		}
		rv.SetBool(node.Value)
		return nil
	case *value.Number:
		return ds.mapNumber(node, rv)
	case *value.List:
		switch rv.Kind() {
		case reflect.Slice:
			return ds.mapSlice(node, rv)
		case reflect.Array:
			return ds.mapArray(node, rv)
		default:
			return fmt.Errorf("taml: cannot unmarshal list into Go value of type %s", rv.Type())
		}
	case *value.Object:
		switch rv.Kind() {
		case reflect.Struct:
			return ds.mapStruct(node, rv)
		case reflect.Map:
			return ds.mapMap(node, rv)
		default:
			return fmt.Errorf("taml: cannot unmarshal object into Go value of type %s", rv.Type())
		}
	default:
		return fmt.Errorf("taml: mapping for value kind %s not implemented", val.Kind())
	}
}

// tryCustomUnmarshal attempts a custom unmarshaler (taml.Unmarshaler or
// encoding.TextUnmarshaler) on the value. It returns true if one was
// found and used, in which case default mapping must not proceed.
func (ds *decodeState) tryCustomUnmarshal(val value.Value, rv reflect.Value) (bool, error) {
	if !rv.CanAddr() {
		return false, nil
	}
	pv := rv.Addr()
	if !pv.CanInterface() {
		return false, nil
	}

	if u, ok := pv.Interface().(Unmarshaler); ok {
		frag, err := formatter.Fragment(val)
		if err != nil {
			return true, fmt.Errorf("taml: failed to re-serialize node for custom unmarshaler: %w", err)
		}
		if err := u.UnmarshalTAML(frag); err != nil {
			return true, &UnmarshalerError{Type: pv.Type(), Err: err}
		}
		return true, nil
	}

	if u, ok := pv.Interface().(encoding.TextUnmarshaler); ok {
		var text string
		switch s := val.(type) {
		case *value.String:
			text = s.Text
		case *value.Empty:
			text = ""
		default:
			// TextUnmarshaler applies to string values only.
			return false, nil
		}
		if err := u.UnmarshalText([]byte(text)); err != nil {
			return true, &UnmarshalerError{Type: pv.Type(), Err: err}
		}
		return true, nil
	}

	return false, nil
}

func (ds *decodeState) mapString(text string, rv reflect.Value) error {
	if rv.Kind() != reflect.String {
		return fmt.Errorf("taml: cannot unmarshal string into Go value of type %s", rv.Type())
	}
	rv.SetString(text)
	return nil
}

func (ds *decodeState) mapNumber(n *value.Number, rv reflect.Value) error {
	switch rv.Kind() {
	case reflect.String:
		// The format has no quoting, so numeric-looking text parses as
		// a number; a string field gets the canonical text back.
		rv.SetString(n.Text)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(n.Text, 10, 64)
		if err != nil {
			return fmt.Errorf("taml: cannot unmarshal number %s into Go value of type %s", n.Text, rv.Type())
		}
		if rv.OverflowInt(i) {
			return fmt.Errorf("taml: number %s overflows Go value of type %s", n.Text, rv.Type())
		}
		rv.SetInt(i)
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u, err := strconv.ParseUint(n.Text, 10, 64)
		if err != nil {
			return fmt.Errorf("taml: cannot unmarshal number %s into Go value of type %s", n.Text, rv.Type())
		}
		if rv.OverflowUint(u) {
			return fmt.Errorf("taml: number %s overflows Go value of type %s", n.Text, rv.Type())
		}
		rv.SetUint(u)
		return nil
	case reflect.Float32, reflect.Float64:
		if rv.OverflowFloat(n.Value) {
			return fmt.Errorf("taml: number %s overflows Go value of type %s", n.Text, rv.Type())
		}
		rv.SetFloat(n.Value)
		return nil
	default:
		return fmt.Errorf("taml: cannot unmarshal number into Go value of type %s", rv.Type())
	}
}

func (ds *decodeState) mapSlice(l *value.List, rv reflect.Value) error {
	newSlice := reflect.MakeSlice(rv.Type(), len(l.Items), len(l.Items))
	for i, elem := range l.Items {
		if err := ds.mapValue(elem, newSlice.Index(i)); err != nil {
			return err
		}
	}
	rv.Set(newSlice)
	return nil
}

func (ds *decodeState) mapArray(l *value.List, rv reflect.Value) error {
	if rv.Len() != len(l.Items) {
		return fmt.Errorf("taml: cannot unmarshal list of length %d into Go array of length %d", len(l.Items), rv.Len())
	}
	for i, elem := range l.Items {
		if err := ds.mapValue(elem, rv.Index(i)); err != nil {
			return err
		}
	}
	return nil
}

func (ds *decodeState) mapMap(obj *value.Object, rv reflect.Value) error {
	mapType := rv.Type()
	if mapType.Key().Kind() != reflect.String {
		return fmt.Errorf("taml: cannot unmarshal object into map with non-string key type %s", mapType.Key())
	}
	if rv.IsNil() {
		rv.Set(reflect.MakeMap(mapType))
	} else {
		for _, k := range rv.MapKeys() {
			rv.SetMapIndex(k, reflect.Value{}) // The zero Value deletes the key
		}
	}
	elemType := mapType.Elem()
	for _, key := range obj.Keys() {
		elem, _ := obj.Get(key)
		newVal := reflect.New(elemType).Elem()
		if err := ds.mapValue(elem, newVal); err != nil {
			return err
		}
		rv.SetMapIndex(reflect.ValueOf(key), newVal)
	}
	return nil
}

func (ds *decodeState) mapStruct(obj *value.Object, rv reflect.Value) error {
	fields := cachedFields(rv.Type())
	for _, key := range obj.Keys() {
		elem, _ := obj.Get(key)
		targetField := findField(fields, key)
		if targetField == nil {
			continue // Unknown keys are ignored.
		}
		fieldVal := rv.FieldByIndex(targetField.idx)
		if fieldVal.IsValid() && fieldVal.CanSet() {
			if err := ds.mapValue(elem, fieldVal); err != nil {
				return err
			}
		}
	}
	return nil
}

func (ds *decodeState) mapInterface(val value.Value, rv reflect.Value) error {
	if rv.NumMethod() != 0 {
		return fmt.Errorf("taml: cannot unmarshal into non-empty interface %s", rv.Type())
	}
	var concrete reflect.Value
	switch n := val.(type) {
	case *value.Null:
		return nil
	case *value.Empty:
		s := ""
		concrete = reflect.ValueOf(&s).Elem()
	case *value.String:
		var s string
		concrete = reflect.ValueOf(&s).Elem()
	case *value.Bool:
		var b bool
		concrete = reflect.ValueOf(&b).Elem()
	case *value.Number:
		if n.IsInt() {
			var i int64
			concrete = reflect.ValueOf(&i).Elem()
		} else {
			var f float64
			concrete = reflect.ValueOf(&f).Elem()
		}
	case *value.List:
		var a []any
		concrete = reflect.ValueOf(&a).Elem()
	case *value.Object:
		var o map[string]any
		concrete = reflect.ValueOf(&o).Elem()
	default:
		return fmt.Errorf("taml: cannot determine concrete type for value kind %s", val.Kind())
	}
	if err := ds.mapValue(val, concrete); err != nil {
		return err
	}
	rv.Set(concrete)
	return nil
}

// A field describes the binding of one TAML key to a struct field.
type field struct {
	idx []int
}

// fieldCache caches the key-to-field binding table per struct type.
var fieldCache sync.Map // map[reflect.Type]map[string]field

// findField resolves a document key against a struct's binding table:
// first an exact match on the tag or field name, then the pre-computed
// case-insensitive fallback.
func findField(fields map[string]field, key string) *field {
	if f, ok := fields[key]; ok {
		return &f
	}
	if f, ok := fields[strings.ToLower(key)]; ok {
		return &f
	}
	return nil
}

// cachedFields builds (or loads) the binding table for a struct type:
// tag names, field names and their lower-cased forms, resolved once so
// decoding never does ad-hoc name lookup.
func cachedFields(t reflect.Type) map[string]field { //nolint:gocognit
	if f, ok := fieldCache.Load(t); ok {
		if fields, ok := f.(map[string]field); ok {
			return fields
		}
	}

	fields := make(map[string]field)
	var walk func(t reflect.Type, idx []int)
	walk = func(t reflect.Type, idx []int) {
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
				// Recurse into embedded structs. The index path is
				// copied so sibling frames never share a backing array.
				walk(sf.Type, append(append([]int{}, idx...), i))
				continue
			}
			if !sf.IsExported() {
				continue
			}

			tag := sf.Tag.Get("taml")
			if tag == "-" {
				continue
			}

			f := field{idx: append(append([]int{}, idx...), i)}
			tagName := strings.Split(tag, ",")[0]

			if tagName != "" {
				fields[tagName] = f
			}
			fields[sf.Name] = f

			// Lower-cased entries exist for the case-insensitive
			// fallback, without clobbering exact matches.
			if tagName != "" {
				if _, ok := fields[strings.ToLower(tagName)]; !ok {
					fields[strings.ToLower(tagName)] = f
				}
			}
			if _, ok := fields[strings.ToLower(sf.Name)]; !ok {
				fields[strings.ToLower(sf.Name)] = f
			}
		}
	}
	walk(t, nil)

	fieldCache.Store(t, fields)
	return fields
}
