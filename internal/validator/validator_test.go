package validator_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/taml-lang/go-taml/diag"
	"github.com/taml-lang/go-taml/internal/lexer"
	"github.com/taml-lang/go-taml/internal/validator"
)

func check(input string) []diag.Diagnostic {
	return validator.Check(lexer.Scan([]byte(input)))
}

func kinds(diags []diag.Diagnostic) []diag.Kind {
	out := make([]diag.Kind, len(diags))
	for i, d := range diags {
		out[i] = d.Kind
	}
	return out
}

func TestValidDocumentHasNoDiagnostics(t *testing.T) {
	input := "# config\nserver\n\thost\tlocalhost\n\tport\t8080\n\nitems\n\ta\n\tb\n"
	require.Empty(t, check(input))
}

func TestCollectsEveryViolation(t *testing.T) {
	// The space-indented line and the over-indented line are
	// independent findings; neither stops the walk.
	input := "server\n    host\tlocalhost\n\t\t\tport\t8080\n"
	diags := check(input)
	require.Len(t, diags, 2)

	require.Equal(t, diag.SpaceIndentation, diags[0].Kind)
	require.Equal(t, 2, diags[0].Line)
	require.Equal(t, 1, diags[0].Column)

	require.Equal(t, diag.InconsistentIndentation, diags[1].Kind)
	require.Equal(t, 3, diags[1].Line)
	require.Equal(t, 2, diags[1].Column)
}

func TestOrphanedIndentation(t *testing.T) {
	diags := check("a\tv\n\tb\tc\n")
	require.Len(t, diags, 1)
	require.Equal(t, diag.OrphanedIndentation, diags[0].Kind)
	require.Equal(t, 2, diags[0].Line)
	require.Equal(t, 1, diags[0].Column)
	require.Equal(t, diag.Error, diags[0].Severity)
}

func TestOffendingLineBecomesReference(t *testing.T) {
	// The over-indented line re-anchors the reference depth, so its
	// correctly indented children produce no follow-on diagnostics.
	input := "server\n\t\t\tport\t8080\n\t\t\ttimeout\t30\n"
	diags := check(input)
	require.Equal(t, []diag.Kind{diag.InconsistentIndentation}, kinds(diags))
}

func TestSkippedLineDoesNotMoveReference(t *testing.T) {
	// A space-indented line carries no usable depth; the line after it
	// is judged against the last structurally sound line.
	input := "server\n    junk\n\thost\tlocalhost\n"
	diags := check(input)
	require.Equal(t, []diag.Kind{diag.SpaceIndentation}, kinds(diags))
}

func TestWarningsAreCollectedAlongsideErrors(t *testing.T) {
	diags := check("host  name\tlocalhost\nk\tv\tw\n")
	require.Equal(t, []diag.Kind{diag.InvalidKeyFormat, diag.TabInValue}, kinds(diags))
	require.Equal(t, diag.Warning, diags[0].Severity)
	require.Equal(t, diag.Error, diags[1].Severity)
}

func TestLexicalAndStructuralOnSameLine(t *testing.T) {
	// Mixed indentation is reported and the line still participates in
	// the structural walk with its tab-derived depth.
	diags := check("a\n\t  b\tv\n")
	require.Equal(t, []diag.Kind{diag.MixedIndentation}, kinds(diags))
}

func TestDocumentOrder(t *testing.T) {
	input := "    a\nb\tv\n\tc\td\nok\t1\n"
	diags := check(input)
	require.Equal(t, []diag.Kind{diag.SpaceIndentation, diag.OrphanedIndentation}, kinds(diags))
	require.Equal(t, 1, diags[0].Line)
	require.Equal(t, 3, diags[1].Line)
}
