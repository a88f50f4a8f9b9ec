// Package roboql parses the RoboQL query language into an AST, resolves
// field paths against the entity schema, and compiles the result into
// the wire filter submitted to the search backend.
//
// The package is purely functional over immutable inputs: parsing,
// resolution, and compilation perform no I/O and share no mutable state
// beyond the read-only schema registry, so independent queries may be
// compiled concurrently.
package roboql

import (
	"strconv"
	"strings"

	"roboql/internal/schema"
	"roboql/internal/wire"
)

// Expr is the interface for all AST nodes.
// The marker method prevents external types from implementing Expr.
type Expr interface {
	expr()
	// String returns the canonical query-text form of the expression.
	String() string
}

// MatchAll is the AST of the reserved query "*": match every record of
// the requested entity kind with no filter. It bypasses resolution and
// compiles to an empty wire filter.
type MatchAll struct{}

func (MatchAll) expr() {}

func (*MatchAll) String() string { return "*" }

// Comparison is a leaf comparison: a field path, a comparator, and a
// literal value. Resolved is nil until the expression passes through
// Resolve.
type Comparison struct {
	Path  FieldPath
	Op    wire.Comparator
	Value Literal

	Resolved *schema.ResolvedPath
}

func (Comparison) expr() {}

func (c *Comparison) String() string {
	return c.Path.String() + " " + c.Op.Compact() + " " + c.Value.String()
}

// BinaryExpr combines two expressions with AND or OR. Chains of the same
// operator fold into left-leaning binary nodes so evaluation order stays
// deterministic.
type BinaryExpr struct {
	Op    wire.Operator
	Left  Expr
	Right Expr
}

func (BinaryExpr) expr() {}

func (b *BinaryExpr) String() string {
	return "(" + b.Left.String() + " " + string(b.Op) + " " + b.Right.String() + ")"
}

// NotExpr negates an expression.
type NotExpr struct {
	Term Expr
}

func (NotExpr) expr() {}

func (n *NotExpr) String() string {
	if _, ok := n.Term.(*Comparison); ok {
		return "NOT (" + n.Term.String() + ")"
	}
	return "NOT " + n.Term.String()
}

// FieldPath is the ordered sequence of segments navigating from the root
// entity to a leaf attribute.
type FieldPath []schema.Segment

func (p FieldPath) String() string {
	parts := make([]string, len(p))
	for i, seg := range p {
		parts[i] = seg.String()
	}
	return strings.Join(parts, ".")
}

// LiteralKind classifies a literal value.
type LiteralKind int

const (
	LitString LiteralKind = iota
	LitNumber
	LitBool
)

func (k LiteralKind) String() string {
	switch k {
	case LitString:
		return "string"
	case LitNumber:
		return "number"
	case LitBool:
		return "boolean"
	default:
		return "unknown"
	}
}

// Literal is a literal comparison value.
type Literal struct {
	Kind LiteralKind
	Str  string
	Num  float64
	Bool bool
	Raw  string // original text of a number literal
}

func (l Literal) String() string {
	switch l.Kind {
	case LitString:
		return strconv.Quote(l.Str)
	case LitNumber:
		if l.Raw != "" {
			return l.Raw
		}
		return strconv.FormatFloat(l.Num, 'g', -1, 64)
	case LitBool:
		return strconv.FormatBool(l.Bool)
	default:
		return ""
	}
}

// IsInteger reports whether a number literal has no fractional part.
func (l Literal) IsInteger() bool {
	return l.Kind == LitNumber && l.Num == float64(int64(l.Num))
}
