// Package formatter emits canonical TAML text from a generic value
// tree: exactly one tab per indentation level and one tab between key
// and value, regardless of the alignment style the input used.
package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/taml-lang/go-taml/value"
)

// Formatter writes a value tree to an output stream.
type Formatter struct {
	w io.Writer
}

// New returns a formatter that writes to w.
func New(w io.Writer) *Formatter {
	return &Formatter{w: w}
}

// Format writes the canonical TAML encoding of the document root.
func (f *Formatter) Format(root *value.Object) error {
	if root == nil {
		return fmt.Errorf("taml: cannot serialize a nil document")
	}
	return f.writeObject(root, 0)
}

func (f *Formatter) write(s string) error {
	_, err := io.WriteString(f.w, s)
	return err
}

func (f *Formatter) writeObject(o *value.Object, depth int) error {
	indent := strings.Repeat("\t", depth)
	for _, key := range o.Keys() {
		if err := checkKey(key); err != nil {
			return err
		}
		v, _ := o.Get(key)
		switch n := v.(type) {
		case *value.Object:
			if err := f.write(indent + key + "\n"); err != nil {
				return err
			}
			if err := f.writeObject(n, depth+1); err != nil {
				return err
			}
		case *value.List:
			if err := f.write(indent + key + "\n"); err != nil {
				return err
			}
			if err := f.writeList(n, depth+1); err != nil {
				return err
			}
		default:
			text, err := scalarText(v)
			if err != nil {
				return err
			}
			if err := f.write(indent + key + "\t" + text + "\n"); err != nil {
				return err
			}
		}
	}
	return nil
}

func (f *Formatter) writeList(l *value.List, depth int) error {
	indent := strings.Repeat("\t", depth)
	for _, v := range l.Items {
		switch v.Kind() {
		case value.KindList, value.KindObject:
			// A container inside a list has no key to hang from; the
			// grammar cannot express it.
			return fmt.Errorf("taml: cannot serialize a nested %s inside a list", v.Kind())
		}
		text, err := scalarText(v)
		if err != nil {
			return err
		}
		if strings.HasPrefix(text, " ") || strings.HasPrefix(text, "#") {
			return fmt.Errorf("taml: list element %q would not survive re-reading", text)
		}
		if err := f.write(indent + text + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// Fragment renders a subtree on its own: a full document for objects,
// the bare token form for scalars. Lists have no standalone
// representation in the grammar.
func Fragment(v value.Value) ([]byte, error) {
	if o, ok := v.(*value.Object); ok {
		var buf strings.Builder
		if err := New(&buf).Format(o); err != nil {
			return nil, err
		}
		return []byte(buf.String()), nil
	}
	if v.Kind() == value.KindList {
		return nil, fmt.Errorf("taml: a list has no standalone text form")
	}
	text, err := scalarText(v)
	if err != nil {
		return nil, err
	}
	return []byte(text), nil
}

// scalarText renders a leaf value as it appears after the key/value
// separator. Booleans are lowercase; numbers keep their canonical
// text so no precision is invented.
func scalarText(v value.Value) (string, error) {
	switch n := v.(type) {
	case *value.Null:
		return "~", nil
	case *value.Empty:
		return `""`, nil
	case *value.Bool:
		return n.String(), nil
	case *value.Number:
		return n.Text, nil
	case *value.String:
		if n.Text == "" {
			return `""`, nil
		}
		if strings.ContainsAny(n.Text, "\t\n") {
			return "", fmt.Errorf("taml: string value %q contains a tab or newline; the format has no escaping", n.Text)
		}
		if strings.TrimRight(n.Text, " ") != n.Text {
			return "", fmt.Errorf("taml: string value %q has trailing spaces that would not survive re-reading", n.Text)
		}
		if k, ambiguous := coercedKind(n.Text); ambiguous {
			return "", fmt.Errorf("taml: string value %q would re-read as a %s; the format has no quoting", n.Text, k)
		}
		return n.Text, nil
	default:
		return "", fmt.Errorf("taml: unsupported value kind %s", v.Kind())
	}
}

// coercedKind reports the kind a scalar's text would coerce to when
// read back, for text that does not stay a string.
func coercedKind(text string) (value.Kind, bool) {
	switch {
	case text == "~":
		return value.KindNull, true
	case text == `""`:
		return value.KindEmpty, true
	}
	switch strings.ToLower(text) {
	case "true", "false":
		return value.KindBool, true
	}
	if _, ok := value.ParseNumber(text); ok {
		return value.KindNumber, true
	}
	return value.KindString, false
}

// checkKey rejects keys the line grammar cannot carry.
func checkKey(key string) error {
	switch {
	case key == "":
		return fmt.Errorf("taml: cannot serialize an empty key")
	case strings.ContainsAny(key, "\t\n"):
		return fmt.Errorf("taml: key %q contains a tab or newline", key)
	case strings.HasPrefix(key, " "), strings.HasPrefix(key, "#"):
		return fmt.Errorf("taml: key %q would not survive re-reading", key)
	}
	return nil
}
