// Package lexer splits raw TAML text into classified lines: the line
// classifier and key/value splitter stages. Blank lines and comments
// never leave this package; everything else is annotated with its
// indentation depth, key, value and any lexical diagnostics so the
// structural stages can walk the document without rescanning text.
package lexer

import (
	"strings"

	"github.com/taml-lang/go-taml/diag"
)

// Line is one classified physical line. Lines are ephemeral: produced
// here, consumed by the parser or validator, never persisted.
type Line struct {
	// Number is the 1-based physical line number.
	Number int
	// Depth is the count of leading tabs.
	Depth int
	// Key holds the key of a key/value line, or the whole bare token.
	Key string
	// Value is the raw value text after the separator run, verbatim
	// except for the line's trailing-whitespace trim.
	Value string
	// HasValue distinguishes key/value lines from bare lines.
	HasValue bool
	// Skip marks lines the structural stages must not descend into
	// (space-indented lines have no usable depth).
	Skip bool
	// Diags are the lexical rule violations found on this line.
	Diags []diag.Diagnostic
}

// Scan classifies every physical line of data. Input is newline
// delimited; trailing carriage returns are stripped. The returned
// slice contains only structural lines, in document order.
func Scan(data []byte) []Line {
	var lines []Line
	rest := string(data)
	num := 0
	for rest != "" {
		var raw string
		if i := strings.IndexByte(rest, '\n'); i >= 0 {
			raw, rest = rest[:i], rest[i+1:]
		} else {
			raw, rest = rest, ""
		}
		num++
		if ln, ok := classify(num, raw); ok {
			lines = append(lines, ln)
		}
	}
	return lines
}

// classify runs the line classifier and key/value splitter over one
// physical line. It reports ok=false for lines that are skipped
// entirely (blank lines and comments).
func classify(num int, raw string) (Line, bool) {
	raw = strings.TrimSuffix(raw, "\r")
	trimmed := strings.TrimLeft(raw, " \t")
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return Line{}, false
	}

	ln := Line{Number: num}
	if raw[0] == ' ' {
		ln.Skip = true
		ln.Diags = append(ln.Diags, diag.Errorf(num, 1, diag.SpaceIndentation,
			"line is indented with spaces; TAML indentation uses tabs only"))
		return ln, true
	}

	depth := 0
	for depth < len(raw) && raw[depth] == '\t' {
		depth++
	}
	ln.Depth = depth

	// pos tracks the byte offset of the content within the raw line,
	// keeping diagnostic columns exact.
	pos := depth
	if pos < len(raw) && raw[pos] == ' ' {
		ln.Diags = append(ln.Diags, diag.Errorf(num, pos+1, diag.MixedIndentation,
			"spaces mixed into tab indentation"))
		for pos < len(raw) && raw[pos] == ' ' {
			pos++
		}
	}

	content := strings.TrimRight(raw[pos:], " \t")
	ln.split(pos, content)
	return ln, true
}

// split locates the first key/value separator in content, which starts
// at byte offset pos of the physical line.
func (ln *Line) split(pos int, content string) {
	tab := strings.IndexByte(content, '\t')
	switch {
	case tab < 0:
		ln.Key = content
		ln.checkKey(pos, content)
		ln.checkQuotes(pos, content)
	case tab == 0:
		ln.Diags = append(ln.Diags, diag.Errorf(ln.Number, pos+1, diag.EmptyKey,
			"key/value separator with no key before it"))
		ln.Skip = true
	default:
		ln.Key = content[:tab]
		ln.checkKey(pos, ln.Key)

		// A run of separator tabs is visual alignment, equivalent to
		// a single tab.
		sep := tab
		for sep < len(content) && content[sep] == '\t' {
			sep++
		}
		ln.HasValue = true
		ln.Value = content[sep:]

		valStart := pos + sep
		if i := strings.IndexByte(ln.Value, '\t'); i >= 0 {
			ln.Diags = append(ln.Diags, diag.Errorf(ln.Number, valStart+i+1, diag.TabInValue,
				"value contains a tab character"))
		}
		ln.checkQuotes(valStart, ln.Value)
	}
}

// checkQuotes enforces that a quote appears only as the exact
// empty-string token "".
func (ln *Line) checkQuotes(start int, text string) {
	if text == `""` {
		return
	}
	if i := strings.IndexByte(text, '"'); i >= 0 {
		ln.Diags = append(ln.Diags, diag.Errorf(ln.Number, start+i+1, diag.InvalidQuoteUsage,
			`quotes are only valid as the empty-string token ""`))
	}
}

// checkKey warns about double spaces inside a key, which are usually a
// key/value separator typed with spaces instead of a tab.
func (ln *Line) checkKey(start int, key string) {
	if i := strings.Index(key, "  "); i >= 0 {
		ln.Diags = append(ln.Diags, diag.Warnf(ln.Number, start+i+1, diag.InvalidKeyFormat,
			"key contains a double space; did you mean a tab separator?"))
	}
}
