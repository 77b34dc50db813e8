package value_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/taml-lang/go-taml/value"
)

func TestObjectOrdering(t *testing.T) {
	o := value.NewObject()
	o.Set("b", &value.String{Text: "1"})
	o.Set("a", &value.String{Text: "2"})
	o.Set("c", &value.String{Text: "3"})

	require.Equal(t, []string{"b", "a", "c"}, o.Keys())
	require.Equal(t, 3, o.Len())

	v, ok := o.Get("a")
	require.True(t, ok)
	require.Equal(t, "2", v.String())

	_, ok = o.Get("missing")
	require.False(t, ok)
}

func TestObjectSetReplacesKeepingPosition(t *testing.T) {
	o := value.NewObject()
	o.Set("a", &value.String{Text: "old"})
	o.Set("b", &value.Bool{Value: true})
	o.Set("a", &value.String{Text: "new"})

	require.Equal(t, []string{"a", "b"}, o.Keys())
	v, _ := o.Get("a")
	require.Equal(t, "new", v.(*value.String).Text)
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		input string
		ok    bool
		want  float64
	}{
		{"0", true, 0},
		{"42", true, 42},
		{"-7", true, -7},
		{"3.14", true, 3.14},
		{"-0.5", true, -0.5},
		{"", false, 0},
		{"-", false, 0},
		{".5", false, 0},
		{"5.", false, 0},
		{"1e6", false, 0},
		{"0x10", false, 0},
		{"1.2.3", false, 0},
		{"abc", false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			n, ok := value.ParseNumber(tt.input)
			require.Equal(t, tt.ok, ok)
			if ok {
				require.Equal(t, tt.want, n.Value)
				require.Equal(t, tt.input, n.Text, "original text must be preserved")
			}
		})
	}
}

func TestNumberIsInt(t *testing.T) {
	n, _ := value.ParseNumber("42")
	require.True(t, n.IsInt())
	n, _ = value.ParseNumber("42.0")
	require.False(t, n.IsInt())
}

func TestEqual(t *testing.T) {
	t.Run("null and empty string never compare equal", func(t *testing.T) {
		require.False(t, value.Equal(&value.Null{}, &value.Empty{}))
	})

	t.Run("key order is significant", func(t *testing.T) {
		a := value.NewObject()
		a.Set("x", &value.Null{})
		a.Set("y", &value.Null{})
		b := value.NewObject()
		b.Set("y", &value.Null{})
		b.Set("x", &value.Null{})
		require.False(t, value.Equal(a, b))
	})

	t.Run("deep equality", func(t *testing.T) {
		mk := func() value.Value {
			o := value.NewObject()
			l := &value.List{}
			l.Append(&value.String{Text: "a"})
			l.Append(&value.Number{Text: "1", Value: 1})
			o.Set("items", l)
			o.Set("on", &value.Bool{Value: true})
			return o
		}
		require.True(t, value.Equal(mk(), mk()))
	})

	t.Run("numbers compare by value", func(t *testing.T) {
		require.True(t, value.Equal(&value.Number{Text: "1.0", Value: 1}, &value.Number{Text: "1", Value: 1}))
	})

	t.Run("kind mismatch", func(t *testing.T) {
		require.False(t, value.Equal(&value.String{Text: "1"}, &value.Number{Text: "1", Value: 1}))
	})
}

func TestStringRendering(t *testing.T) {
	o := value.NewObject()
	o.Set("k", &value.Empty{})
	l := &value.List{}
	l.Append(&value.Null{})
	o.Set("items", l)
	require.Equal(t, `{k: "", items: [~]}`, o.String())
}
