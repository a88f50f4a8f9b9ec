package roboql

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"roboql/internal/schema"
	"roboql/internal/wire"
)

// Resolve walks the AST depth-first, resolves every comparison's field
// path against the registry, and checks operator and literal
// compatibility with the resolved value kind. It returns a new annotated
// tree of the same shape; the input is not mutated. Resolution is a pure
// function of (AST, registry, root entity kind).
func Resolve(expr Expr, root schema.EntityKind, reg *schema.Registry) (Expr, error) {
	switch node := expr.(type) {
	case *MatchAll:
		return &MatchAll{}, nil
	case *NotExpr:
		term, err := Resolve(node.Term, root, reg)
		if err != nil {
			return nil, err
		}
		return &NotExpr{Term: term}, nil
	case *BinaryExpr:
		left, err := Resolve(node.Left, root, reg)
		if err != nil {
			return nil, err
		}
		right, err := Resolve(node.Right, root, reg)
		if err != nil {
			return nil, err
		}
		return &BinaryExpr{Op: node.Op, Left: left, Right: right}, nil
	case *Comparison:
		return resolveComparison(node, root, reg)
	}
	return nil, fmt.Errorf("unknown AST node %T", expr)
}

// comparatorsByKind lists the operators each value kind allows.
var comparatorsByKind = map[schema.ValueKind][]wire.Comparator{
	schema.KindString: {
		wire.ComparatorEquals, wire.ComparatorNotEquals,
		wire.ComparatorContains, wire.ComparatorNotContains,
	},
	schema.KindNumber: {
		wire.ComparatorEquals, wire.ComparatorNotEquals,
		wire.ComparatorGreaterThan, wire.ComparatorGreaterThanOrEqual,
		wire.ComparatorLessThan, wire.ComparatorLessThanOrEqual,
	},
	schema.KindBoolean: {
		wire.ComparatorEquals, wire.ComparatorNotEquals,
	},
	schema.KindTimestamp: {
		wire.ComparatorEquals, wire.ComparatorNotEquals,
		wire.ComparatorGreaterThan, wire.ComparatorGreaterThanOrEqual,
		wire.ComparatorLessThan, wire.ComparatorLessThanOrEqual,
	},
	schema.KindEnum: {
		wire.ComparatorEquals, wire.ComparatorNotEquals,
	},
	schema.KindStringList: {
		wire.ComparatorEquals, wire.ComparatorNotEquals,
		wire.ComparatorContains, wire.ComparatorNotContains,
	},
	schema.KindDynamic: {
		wire.ComparatorEquals, wire.ComparatorNotEquals,
		wire.ComparatorGreaterThan, wire.ComparatorGreaterThanOrEqual,
		wire.ComparatorLessThan, wire.ComparatorLessThanOrEqual,
		wire.ComparatorContains, wire.ComparatorNotContains,
	},
}

func resolveComparison(c *Comparison, root schema.EntityKind, reg *schema.Registry) (Expr, error) {
	resolved, err := reg.Resolve(root, c.Path)
	if err != nil {
		return nil, err
	}

	path := resolved.Canonical()
	allowed := comparatorsByKind[resolved.Kind]
	if !comparatorAllowed(allowed, c.Op) {
		return nil, &ValidationError{
			Path:    path,
			Kind:    resolved.Kind,
			Op:      c.Op,
			Reason:  fmt.Sprintf("operator %s is not valid for a %s field", c.Op.Compact(), resolved.Kind),
			Allowed: allowed,
		}
	}
	if err := checkLiteral(resolved.Kind, c.Value, path, c.Op); err != nil {
		return nil, err
	}

	return &Comparison{Path: c.Path, Op: c.Op, Value: c.Value, Resolved: &resolved}, nil
}

func comparatorAllowed(allowed []wire.Comparator, op wire.Comparator) bool {
	for _, cmp := range allowed {
		if cmp == op {
			return true
		}
	}
	return false
}

// checkLiteral verifies the literal is coercible to the field's value
// kind. Dynamic (metadata) fields accept any literal; timestamp fields
// accept numeric literals (nanoseconds since epoch) and quoted strings
// (epoch seconds or ISO-8601).
func checkLiteral(kind schema.ValueKind, lit Literal, path string, op wire.Comparator) error {
	mismatch := func(want string) error {
		return &ValidationError{
			Path:   path,
			Kind:   kind,
			Op:     op,
			Reason: fmt.Sprintf("cannot compare %s field to %s literal %s (want %s)", kind, lit.Kind, lit, want),
		}
	}

	switch kind {
	case schema.KindDynamic:
		return nil
	case schema.KindString, schema.KindEnum, schema.KindStringList:
		if lit.Kind != LitString {
			return mismatch("a quoted string")
		}
	case schema.KindNumber:
		if lit.Kind != LitNumber {
			return mismatch("a number")
		}
	case schema.KindBoolean:
		if lit.Kind != LitBool {
			return mismatch("true or false")
		}
	case schema.KindTimestamp:
		if _, err := timestampNanos(lit); err != nil {
			return &ValidationError{Path: path, Kind: kind, Op: op, Reason: err.Error()}
		}
	}
	return nil
}

// timestampNanos normalizes a timestamp literal to nanoseconds since
// epoch. Numeric literals are already nanoseconds; quoted all-digit
// strings are epoch seconds; anything else must parse as ISO-8601.
func timestampNanos(lit Literal) (int64, error) {
	switch lit.Kind {
	case LitNumber:
		if ns, err := strconv.ParseInt(lit.Raw, 10, 64); err == nil {
			return ns, nil
		}
		if !lit.IsInteger() {
			return 0, fmt.Errorf("timestamp literal %s must be a whole number of nanoseconds", lit)
		}
		return int64(lit.Num), nil
	case LitString:
		if isAllDigits(lit.Str) {
			secs, err := strconv.ParseInt(lit.Str, 10, 64)
			if err != nil {
				return 0, fmt.Errorf("timestamp literal %q out of range", lit.Str)
			}
			return secs * int64(time.Second), nil
		}
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
			if ts, err := time.Parse(layout, lit.Str); err == nil {
				return ts.UnixNano(), nil
			}
		}
		return 0, fmt.Errorf("timestamp literal %q is neither epoch seconds nor ISO-8601", lit.Str)
	default:
		return 0, fmt.Errorf("cannot use %s literal %s as a timestamp", lit.Kind, lit)
	}
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	return strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' }) == -1
}
