package wire

import (
	"strconv"
	"strings"
)

// Matches evaluates the condition against a raw record, navigating the
// field path through nested maps and slices. Metadata values arrive from
// the backend as strings, so string values are coerced to the literal's
// type before comparing. Missing fields never match (except the
// existence comparators).
func (c *Condition) Matches(target map[string]any) bool {
	value := lookupPath(target, c.Field)

	switch c.Comparator {
	case ComparatorNotExists, ComparatorIsNull:
		return value == nil
	case ComparatorExists, ComparatorIsNotNull:
		return value != nil
	}

	if value == nil {
		return false
	}
	value = coerce(value, c.Value)

	switch c.Comparator {
	case ComparatorEquals:
		return looseEqual(value, c.Value)
	case ComparatorNotEquals:
		return !looseEqual(value, c.Value)
	case ComparatorGreaterThan, ComparatorGreaterThanOrEqual, ComparatorLessThan, ComparatorLessThanOrEqual:
		a, aok := asNumber(value)
		b, bok := asNumber(c.Value)
		if !aok || !bok {
			return false
		}
		switch c.Comparator {
		case ComparatorGreaterThan:
			return a > b
		case ComparatorGreaterThanOrEqual:
			return a >= b
		case ComparatorLessThan:
			return a < b
		default:
			return a <= b
		}
	case ComparatorContains:
		return contains(value, c.Value)
	case ComparatorNotContains:
		return !contains(value, c.Value)
	case ComparatorBeginsWith:
		s, sok := value.(string)
		prefix, pok := c.Value.(string)
		return sok && pok && strings.HasPrefix(s, prefix)
	}
	return false
}

// Matches evaluates the group against a raw record by combining the
// results of its nested filters.
func (g *ConditionGroup) Matches(target map[string]any) bool {
	switch g.Operator {
	case OperatorAnd:
		for _, cond := range g.Conditions {
			if !matchFilter(cond, target) {
				return false
			}
		}
		return true
	case OperatorOr:
		for _, cond := range g.Conditions {
			if matchFilter(cond, target) {
				return true
			}
		}
		return false
	case OperatorNot:
		for _, cond := range g.Conditions {
			if matchFilter(cond, target) {
				return false
			}
		}
		return true
	}
	return false
}

func matchFilter(f Filter, target map[string]any) bool {
	switch node := f.(type) {
	case *Condition:
		return node.Matches(target)
	case *ConditionGroup:
		return node.Matches(target)
	}
	return false
}

// lookupPath navigates a canonical field path ("a.b[0].c[key].d") through
// nested maps and slices. Bracket content indexes slices when numeric and
// maps otherwise.
func lookupPath(target map[string]any, field string) any {
	var current any = target
	for _, seg := range splitPath(field) {
		m, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current = m[seg.name]
		if seg.bracket == "" {
			continue
		}
		if idx, err := strconv.Atoi(seg.bracket); err == nil {
			list, ok := current.([]any)
			if !ok || idx < 0 || idx >= len(list) {
				return nil
			}
			current = list[idx]
		} else {
			m, ok := current.(map[string]any)
			if !ok {
				return nil
			}
			current = m[seg.bracket]
		}
	}
	return current
}

type pathSeg struct {
	name    string
	bracket string
}

// splitPath splits a canonical path on dots outside brackets.
func splitPath(field string) []pathSeg {
	var segs []pathSeg
	start, depth := 0, 0
	flush := func(part string) {
		if part == "" {
			return
		}
		name, rest, found := strings.Cut(part, "[")
		seg := pathSeg{name: name}
		if found {
			seg.bracket = strings.TrimSuffix(rest, "]")
		}
		segs = append(segs, seg)
	}
	for i := 0; i < len(field); i++ {
		switch field[i] {
		case '[':
			depth++
		case ']':
			depth--
		case '.':
			if depth == 0 {
				flush(field[start:i])
				start = i + 1
			}
		}
	}
	flush(field[start:])
	return segs
}

// coerce converts a string record value to the literal's type so that
// metadata values stored as strings compare naturally.
func coerce(value, literal any) any {
	s, ok := value.(string)
	if !ok {
		return value
	}
	switch literal.(type) {
	case float64, int64, int:
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return n
		}
	case bool:
		return strings.EqualFold(s, "true")
	}
	return value
}

func looseEqual(a, b any) bool {
	if an, aok := asNumber(a); aok {
		if bn, bok := asNumber(b); bok {
			return an == bn
		}
	}
	return a == b
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	}
	return 0, false
}

// contains matches substring containment for strings and membership for
// slices of scalars.
func contains(value, needle any) bool {
	switch v := value.(type) {
	case string:
		s, ok := needle.(string)
		return ok && strings.Contains(v, s)
	case []any:
		for _, item := range v {
			if looseEqual(coerce(item, needle), needle) {
				return true
			}
		}
	case []string:
		s, ok := needle.(string)
		if !ok {
			return false
		}
		for _, item := range v {
			if item == s {
				return true
			}
		}
	}
	return false
}
