package roboql

import (
	"errors"
	"strconv"
	"strings"

	"roboql/internal/schema"
	"roboql/internal/wire"
)

// Compile parses, resolves, and lowers a query in one step. The reserved
// query "*" bypasses the whole pipeline and yields a nil (match-all)
// filter. All errors are returned here, synchronously: a filter is never
// produced from partially valid input.
func Compile(input string, root schema.EntityKind, reg *schema.Registry) (wire.Filter, error) {
	if strings.TrimSpace(input) == "*" {
		return nil, nil
	}

	expr, err := Parse(input)
	if err != nil {
		return nil, err
	}
	resolved, err := Resolve(expr, root, reg)
	if err != nil {
		return nil, err
	}
	return Lower(resolved), nil
}

// Lower converts a resolved AST into the wire filter. Lowering is total
// over any tree produced by Resolve: field paths become canonical dotted
// identifiers with explicit indices, and literals are normalized
// (timestamps to nanoseconds since epoch, whole numbers to integers).
func Lower(expr Expr) wire.Filter {
	switch node := expr.(type) {
	case *MatchAll:
		return nil
	case *NotExpr:
		return wire.Not(Lower(node.Term))
	case *BinaryExpr:
		return &wire.ConditionGroup{
			Operator:   node.Op,
			Conditions: []wire.Filter{Lower(node.Left), Lower(node.Right)},
		}
	case *Comparison:
		return &wire.Condition{
			Field:      node.Resolved.Canonical(),
			Comparator: node.Op,
			Value:      lowerValue(node.Resolved.Kind, node.Value),
		}
	}
	return nil
}

func lowerValue(kind schema.ValueKind, lit Literal) any {
	if kind == schema.KindTimestamp {
		// Resolve already validated the literal; the error path is dead here.
		ns, _ := timestampNanos(lit)
		return ns
	}
	switch lit.Kind {
	case LitString:
		return lit.Str
	case LitBool:
		return lit.Bool
	case LitNumber:
		if n, err := strconv.ParseInt(lit.Raw, 10, 64); err == nil {
			return n
		}
		return lit.Num
	}
	return nil
}

// Validate checks whether a query compiles for the given root entity.
// It returns (valid, errorMessage, errorOffset); errorOffset is the byte
// position in the input for syntax errors and -1 otherwise.
func Validate(input string, root schema.EntityKind, reg *schema.Registry) (bool, string, int) {
	_, err := Compile(input, root, reg)
	if err == nil {
		return true, "", -1
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		return false, pe.Message, pe.Pos
	}
	return false, err.Error(), -1
}
