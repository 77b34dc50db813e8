// Package parser builds the generic value tree from classified lines:
// the structural analyzer and value coercion stages.
package parser

import (
	"fmt"
	"strings"

	"github.com/taml-lang/go-taml/diag"
	"github.com/taml-lang/go-taml/internal/lexer"
	"github.com/taml-lang/go-taml/value"
)

// Config controls a single parse.
type Config struct {
	// Lenient makes the parser skip offending lines instead of
	// aborting at the first structural violation.
	Lenient bool
	// RawStrings disables boolean and number coercion; every value
	// other than ~ and "" stays a string.
	RawStrings bool
	// MaxDepth bounds the nesting depth. Zero means no bound.
	MaxDepth int
}

// Parser holds the state of one parse. A Parser is used for a single
// document and discarded.
type Parser struct {
	lines []lexer.Line
	cfg   Config
}

// New creates a parser over the classified lines of one document.
func New(lines []lexer.Line, cfg Config) *Parser {
	return &Parser{lines: lines, cfg: cfg}
}

// frame is one entry of the nesting stack: the container under
// construction and the indentation depth of the line that opened it.
type frame struct {
	depth int
	node  value.Value
}

// Parse walks the lines once and returns the document's root object.
// In strict mode the first Error-severity violation is returned as a
// diag.Diagnostic; in lenient mode offending lines are skipped and the
// walk re-anchors at their depth.
func (p *Parser) Parse() (*value.Object, error) {
	root := value.NewObject()
	stack := []frame{{depth: -1, node: root}}

	// The sentinel root frame is an open parent for depth 0.
	prevDepth := -1
	prevOpened := true

	for i := range p.lines {
		ln := p.lines[i]
		if d, bad := firstError(ln); bad {
			if !p.cfg.Lenient {
				return nil, d
			}
			if !ln.Skip {
				prevDepth, prevOpened = ln.Depth, !ln.HasValue
			}
			continue
		}
		if ln.Skip {
			continue
		}

		switch {
		case ln.Depth > prevDepth+1:
			d := diag.Errorf(ln.Number, prevDepth+2, diag.InconsistentIndentation,
				"line indented %d levels deep; at most %d allowed here", ln.Depth, prevDepth+1)
			if !p.cfg.Lenient {
				return nil, d
			}
			prevDepth, prevOpened = ln.Depth, !ln.HasValue
			continue
		case ln.Depth == prevDepth+1 && !prevOpened:
			d := diag.Errorf(ln.Number, 1, diag.OrphanedIndentation,
				"line indented under a line that cannot have children")
			if !p.cfg.Lenient {
				return nil, d
			}
			prevDepth, prevOpened = ln.Depth, !ln.HasValue
			continue
		}

		// Close finished scopes.
		for stack[len(stack)-1].depth >= ln.Depth {
			stack = stack[:len(stack)-1]
		}
		top := stack[len(stack)-1]

		if ln.HasValue {
			v := p.coerce(ln.Value)
			switch c := top.node.(type) {
			case *value.Object:
				c.Set(ln.Key, v)
			case *value.List:
				c.Append(v)
			}
			prevDepth, prevOpened = ln.Depth, false
			continue
		}

		// Bare line: a list element under a list scope, otherwise a
		// parent key opening a new scope.
		if list, ok := top.node.(*value.List); ok {
			list.Append(p.coerce(ln.Key))
			prevDepth, prevOpened = ln.Depth, false
			continue
		}

		if p.cfg.MaxDepth > 0 && len(stack) > p.cfg.MaxDepth {
			return nil, fmt.Errorf("taml: line %d: exceeded maximum nesting depth %d", ln.Number, p.cfg.MaxDepth)
		}
		child := p.classifyScope(i)
		top.node.(*value.Object).Set(ln.Key, child)
		stack = append(stack, frame{depth: ln.Depth, node: child})
		prevDepth, prevOpened = ln.Depth, true
	}

	return root, nil
}

// classifyScope decides whether the scope opened by the bare line at
// index i holds a list or an object. It scans forward without
// consuming or mutating anything: only lines exactly one level deeper
// are examined; a shallower line terminates the scan; a deeper line
// means some child is itself a parent, which forces an object. A
// scope whose qualifying children are uniformly bare leaves is a
// list; a scope with no qualifying children is an empty object.
func (p *Parser) classifyScope(i int) value.Value {
	d := p.lines[i].Depth
	sawBare := false
	for j := i + 1; j < len(p.lines); j++ {
		ln := p.lines[j]
		if ln.Skip {
			continue
		}
		if ln.Depth <= d {
			break
		}
		if ln.Depth > d+1 {
			return value.NewObject()
		}
		if ln.HasValue {
			return value.NewObject()
		}
		sawBare = true
	}
	if sawBare {
		return &value.List{}
	}
	return value.NewObject()
}

// coerce maps a raw textual value onto the semantic categories. The
// null and empty-string tokens always apply; boolean and number
// recognition is skipped in raw-string mode.
func (p *Parser) coerce(raw string) value.Value {
	switch raw {
	case "~":
		return &value.Null{}
	case `""`:
		return &value.Empty{}
	}
	if p.cfg.RawStrings {
		return &value.String{Text: raw}
	}
	switch strings.ToLower(raw) {
	case "true":
		return &value.Bool{Value: true}
	case "false":
		return &value.Bool{Value: false}
	}
	if n, ok := value.ParseNumber(raw); ok {
		return n
	}
	return &value.String{Text: raw}
}

// firstError returns the line's first Error-severity lexical
// diagnostic, if any. Warnings never stop a parse.
func firstError(ln lexer.Line) (diag.Diagnostic, bool) {
	for _, d := range ln.Diags {
		if d.Severity == diag.Error {
			return d, true
		}
	}
	return diag.Diagnostic{}, false
}
