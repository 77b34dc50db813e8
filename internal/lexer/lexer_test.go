package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/taml-lang/go-taml/diag"
	"github.com/taml-lang/go-taml/internal/lexer"
)

func TestScanKeyValue(t *testing.T) {
	lines := lexer.Scan([]byte("host\tlocalhost\nport\t8080\n"))
	require.Len(t, lines, 2)

	require.Equal(t, 1, lines[0].Number)
	require.Equal(t, 0, lines[0].Depth)
	require.Equal(t, "host", lines[0].Key)
	require.Equal(t, "localhost", lines[0].Value)
	require.True(t, lines[0].HasValue)
	require.Empty(t, lines[0].Diags)

	require.Equal(t, 2, lines[1].Number)
	require.Equal(t, "port", lines[1].Key)
	require.Equal(t, "8080", lines[1].Value)
}

func TestScanDepth(t *testing.T) {
	lines := lexer.Scan([]byte("server\n\thost\tlocalhost\n\t\ttoo\tdeep\n"))
	require.Len(t, lines, 3)
	require.Equal(t, 0, lines[0].Depth)
	require.False(t, lines[0].HasValue)
	require.Equal(t, "server", lines[0].Key)
	require.Equal(t, 1, lines[1].Depth)
	require.Equal(t, 2, lines[2].Depth)
}

func TestMultiTabSeparatorEquivalence(t *testing.T) {
	for _, input := range []string{"k\tv", "k\t\tv", "k\t\t\t\tv"} {
		t.Run(input, func(t *testing.T) {
			lines := lexer.Scan([]byte(input))
			require.Len(t, lines, 1)
			require.Equal(t, "k", lines[0].Key)
			require.Equal(t, "v", lines[0].Value)
			require.Empty(t, lines[0].Diags)
		})
	}
}

func TestSpaceInsideSeparatorRunBelongsToValue(t *testing.T) {
	lines := lexer.Scan([]byte("k\t\t v\n"))
	require.Len(t, lines, 1)
	require.Equal(t, " v", lines[0].Value, "a space after the tab run is part of the value")
	require.Empty(t, lines[0].Diags)
}

func TestBlankAndCommentLinesAreDropped(t *testing.T) {
	input := "# heading\n\na\t1\n   \n\t\n\t# indented comment\nb\t2\n"
	lines := lexer.Scan([]byte(input))
	require.Len(t, lines, 2)
	require.Equal(t, "a", lines[0].Key)
	require.Equal(t, 3, lines[0].Number, "physical line numbers are preserved")
	require.Equal(t, "b", lines[1].Key)
	require.Equal(t, 7, lines[1].Number)
}

func TestCarriageReturnsStripped(t *testing.T) {
	lines := lexer.Scan([]byte("a\t1\r\nb\t2\r\n"))
	require.Len(t, lines, 2)
	require.Equal(t, "1", lines[0].Value)
	require.Equal(t, "2", lines[1].Value)
}

func TestTrailingWhitespaceTrimmed(t *testing.T) {
	t.Run("trailing separator makes a bare line", func(t *testing.T) {
		lines := lexer.Scan([]byte("k\t\n"))
		require.Len(t, lines, 1)
		require.False(t, lines[0].HasValue)
		require.Equal(t, "k", lines[0].Key)
	})

	t.Run("trailing spaces after a value", func(t *testing.T) {
		lines := lexer.Scan([]byte("k\tv   \n"))
		require.Equal(t, "v", lines[0].Value)
		require.Empty(t, lines[0].Diags)
	})
}

func TestSpaceIndentation(t *testing.T) {
	lines := lexer.Scan([]byte("    host\tlocalhost\n"))
	require.Len(t, lines, 1)
	require.True(t, lines[0].Skip)
	require.Len(t, lines[0].Diags, 1)
	d := lines[0].Diags[0]
	require.Equal(t, diag.SpaceIndentation, d.Kind)
	require.Equal(t, diag.Error, d.Severity)
	require.Equal(t, 1, d.Line)
	require.Equal(t, 1, d.Column)
}

func TestMixedIndentation(t *testing.T) {
	lines := lexer.Scan([]byte("\t  key\tv\n"))
	require.Len(t, lines, 1)
	require.False(t, lines[0].Skip)
	require.Equal(t, 1, lines[0].Depth)
	require.Equal(t, "key", lines[0].Key)
	require.Equal(t, "v", lines[0].Value)

	require.Len(t, lines[0].Diags, 1)
	d := lines[0].Diags[0]
	require.Equal(t, diag.MixedIndentation, d.Kind)
	require.Equal(t, 2, d.Column, "column of the first space after the tab run")
}

func TestEmptyKey(t *testing.T) {
	// An empty key is only reachable behind mixed indentation, since
	// pure leading tabs all count as depth.
	lines := lexer.Scan([]byte("\t \tk\tv\n"))
	require.Len(t, lines, 1)
	require.True(t, lines[0].Skip)

	kinds := diagKinds(lines[0].Diags)
	require.Contains(t, kinds, diag.MixedIndentation)
	require.Contains(t, kinds, diag.EmptyKey)
}

func TestTabInValue(t *testing.T) {
	lines := lexer.Scan([]byte("key\tval\tue\n"))
	require.Len(t, lines, 1)
	require.Equal(t, "val\tue", lines[0].Value)
	require.Len(t, lines[0].Diags, 1)
	d := lines[0].Diags[0]
	require.Equal(t, diag.TabInValue, d.Kind)
	require.Equal(t, 8, d.Column) // key(3) + separator(1) + "val"(3) + 1
}

func TestQuoteUsage(t *testing.T) {
	t.Run("empty string token is valid", func(t *testing.T) {
		lines := lexer.Scan([]byte("k\t\"\"\n"))
		require.Empty(t, lines[0].Diags)
		require.Equal(t, `""`, lines[0].Value)
	})

	t.Run("quoted value is invalid", func(t *testing.T) {
		lines := lexer.Scan([]byte("k\t\"hello\"\n"))
		require.Len(t, lines[0].Diags, 1)
		d := lines[0].Diags[0]
		require.Equal(t, diag.InvalidQuoteUsage, d.Kind)
		require.Equal(t, 3, d.Column)
	})

	t.Run("bare empty string token is valid", func(t *testing.T) {
		lines := lexer.Scan([]byte("\t\"\"\n"))
		require.Empty(t, lines[0].Diags)
	})

	t.Run("quote inside bare token is invalid", func(t *testing.T) {
		lines := lexer.Scan([]byte("\tsay \"hi\"\n"))
		require.Len(t, lines[0].Diags, 1)
		require.Equal(t, diag.InvalidQuoteUsage, lines[0].Diags[0].Kind)
	})
}

func TestDoubleSpaceKeyWarning(t *testing.T) {
	lines := lexer.Scan([]byte("host  localhost\n"))
	require.Len(t, lines, 1)
	require.False(t, lines[0].HasValue)
	require.Len(t, lines[0].Diags, 1)
	d := lines[0].Diags[0]
	require.Equal(t, diag.InvalidKeyFormat, d.Kind)
	require.Equal(t, diag.Warning, d.Severity)
	require.Equal(t, 5, d.Column)
}

func TestNoFinalNewline(t *testing.T) {
	lines := lexer.Scan([]byte("a\t1"))
	require.Len(t, lines, 1)
	require.Equal(t, "1", lines[0].Value)
}

func TestEmptyInput(t *testing.T) {
	require.Empty(t, lexer.Scan(nil))
	require.Empty(t, lexer.Scan([]byte("")))
	require.Empty(t, lexer.Scan([]byte("\n\n# only comments\n")))
}

func diagKinds(diags []diag.Diagnostic) []diag.Kind {
	kinds := make([]diag.Kind, len(diags))
	for i, d := range diags {
		kinds[i] = d.Kind
	}
	return kinds
}
