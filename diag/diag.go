// Package diag defines the diagnostics produced by TAML validation and
// the positional errors surfaced by strict parsing.
package diag

import "fmt"

// Severity classifies how serious a diagnostic is. Only Error-severity
// diagnostics make a document invalid.
type Severity int

const (
	Warning Severity = iota
	Error
)

// String returns the severity's name.
func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Kind identifies the rule a diagnostic reports a violation of.
type Kind int

const (
	// SpaceIndentation: a line begins with a space instead of tabs.
	SpaceIndentation Kind = iota
	// MixedIndentation: spaces appear inside a line's leading tab run.
	MixedIndentation
	// InconsistentIndentation: a line is indented two or more levels
	// deeper than its reference line.
	InconsistentIndentation
	// OrphanedIndentation: a line is indented under a line that cannot
	// have children.
	OrphanedIndentation
	// TabInValue: a value contains a tab character.
	TabInValue
	// EmptyKey: a key/value separator with nothing before it.
	EmptyKey
	// InvalidQuoteUsage: a quote character used other than as the
	// empty-string token "".
	InvalidQuoteUsage
	// InvalidKeyFormat: a key contains a double space, likely intended
	// as a key/value separator. Warning only.
	InvalidKeyFormat
)

// String returns the kind's name.
func (k Kind) String() string {
	switch k {
	case SpaceIndentation:
		return "space-indentation"
	case MixedIndentation:
		return "mixed-indentation"
	case InconsistentIndentation:
		return "inconsistent-indentation"
	case OrphanedIndentation:
		return "orphaned-indentation"
	case TabInValue:
		return "tab-in-value"
	case EmptyKey:
		return "empty-key"
	case InvalidQuoteUsage:
		return "invalid-quote-usage"
	case InvalidKeyFormat:
		return "invalid-key-format"
	default:
		return "unknown"
	}
}

// Diagnostic is one rule violation with its position. Line and Column
// are 1-based; Column counts bytes within the physical line.
type Diagnostic struct {
	Line     int
	Column   int
	Kind     Kind
	Severity Severity
	Message  string
}

// Error implements the error interface so a strict parse can return
// the offending diagnostic directly.
func (d Diagnostic) Error() string {
	return fmt.Sprintf("taml: line %d, column %d: %s", d.Line, d.Column, d.Message)
}

// Errorf builds an Error-severity diagnostic.
func Errorf(line, column int, kind Kind, format string, args ...any) Diagnostic {
	return Diagnostic{
		Line:     line,
		Column:   column,
		Kind:     kind,
		Severity: Error,
		Message:  fmt.Sprintf(format, args...),
	}
}

// Warnf builds a Warning-severity diagnostic.
func Warnf(line, column int, kind Kind, format string, args ...any) Diagnostic {
	return Diagnostic{
		Line:     line,
		Column:   column,
		Kind:     kind,
		Severity: Warning,
		Message:  fmt.Sprintf(format, args...),
	}
}
