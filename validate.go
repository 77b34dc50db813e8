package taml

import (
	"github.com/taml-lang/go-taml/diag"
	"github.com/taml-lang/go-taml/internal/lexer"
	"github.com/taml-lang/go-taml/internal/validator"
)

// Result is the outcome of validating one document.
type Result struct {
	// Valid is true when no Error-severity diagnostic was found.
	// Warnings alone do not invalidate a document.
	Valid bool
	// Diagnostics lists every rule violation in document order.
	Diagnostics []diag.Diagnostic
}

// Validate checks data for structural conformance. It never fails on
// malformed input: every violation in the document is reported as a
// diagnostic with its line, column, kind and severity.
func Validate(data []byte) Result {
	diags := validator.Check(lexer.Scan(data))
	valid := true
	for _, d := range diags {
		if d.Severity == diag.Error {
			valid = false
			break
		}
	}
	return Result{Valid: valid, Diagnostics: diags}
}
