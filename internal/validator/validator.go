// Package validator replays the structural analyzer's indentation walk
// in collect-don't-build mode: every violation becomes a diagnostic and
// the walk always continues to the end of the document.
package validator

import (
	"github.com/taml-lang/go-taml/diag"
	"github.com/taml-lang/go-taml/internal/lexer"
)

// Check accumulates every diagnostic for the document's lines, in
// document order. Lexical diagnostics come straight from the
// classifier; the structural checks mirror the parser's, except that
// each offending line becomes the new reference point so a single bad
// line does not cascade into a stream of follow-on errors.
func Check(lines []lexer.Line) []diag.Diagnostic {
	var diags []diag.Diagnostic

	prevDepth := -1
	prevOpened := true

	for _, ln := range lines {
		diags = append(diags, ln.Diags...)
		if ln.Skip {
			// No usable structure on this line; the previously
			// recorded reference stands for the next one.
			continue
		}

		switch {
		case ln.Depth > prevDepth+1:
			diags = append(diags, diag.Errorf(ln.Number, prevDepth+2, diag.InconsistentIndentation,
				"line indented %d levels deep; at most %d allowed here", ln.Depth, prevDepth+1))
		case ln.Depth == prevDepth+1 && !prevOpened:
			diags = append(diags, diag.Errorf(ln.Number, 1, diag.OrphanedIndentation,
				"line indented under a line that cannot have children"))
		}

		prevDepth = ln.Depth
		prevOpened = !ln.HasValue
	}

	return diags
}
