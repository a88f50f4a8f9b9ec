// Package wire defines the canonical, backend-facing form of a compiled
// query: conditions, condition groups, and the query specification
// envelope submitted to the search service. This is the only artifact
// that crosses the boundary to the transport layer, which keeps the query
// language surface free to evolve without changes to what the backend
// receives.
package wire

import (
	"fmt"
	"strings"
)

// Comparator is the wire vocabulary for comparing a field to a value.
type Comparator string

const (
	ComparatorEquals             Comparator = "EQUALS"
	ComparatorNotEquals          Comparator = "NOT_EQUALS"
	ComparatorGreaterThan        Comparator = "GREATER_THAN"
	ComparatorGreaterThanOrEqual Comparator = "GREATER_THAN_OR_EQUAL"
	ComparatorLessThan           Comparator = "LESS_THAN"
	ComparatorLessThanOrEqual    Comparator = "LESS_THAN_OR_EQUAL"
	ComparatorContains           Comparator = "CONTAINS"
	ComparatorNotContains        Comparator = "NOT_CONTAINS"
	ComparatorIsNull             Comparator = "IS_NULL"
	ComparatorIsNotNull          Comparator = "IS_NOT_NULL"
	ComparatorExists             Comparator = "EXISTS"
	ComparatorNotExists          Comparator = "NOT_EXISTS"
	ComparatorBeginsWith         Comparator = "BEGINS_WITH"
	ComparatorLike               Comparator = "LIKE"
	ComparatorNotLike            Comparator = "NOT_LIKE"
)

var comparatorSpellings = map[string]Comparator{
	"EQUALS":                ComparatorEquals,
	"=":                     ComparatorEquals,
	"NOT_EQUALS":            ComparatorNotEquals,
	"!=":                    ComparatorNotEquals,
	"GREATER_THAN":          ComparatorGreaterThan,
	">":                     ComparatorGreaterThan,
	"GREATER_THAN_OR_EQUAL": ComparatorGreaterThanOrEqual,
	">=":                    ComparatorGreaterThanOrEqual,
	"LESS_THAN":             ComparatorLessThan,
	"<":                     ComparatorLessThan,
	"LESS_THAN_OR_EQUAL":    ComparatorLessThanOrEqual,
	"<=":                    ComparatorLessThanOrEqual,
	"CONTAINS":              ComparatorContains,
	"NOT_CONTAINS":          ComparatorNotContains,
	"IS_NULL":               ComparatorIsNull,
	"IS_NOT_NULL":           ComparatorIsNotNull,
	"EXISTS":                ComparatorExists,
	"NOT_EXISTS":            ComparatorNotExists,
	"BEGINS_WITH":           ComparatorBeginsWith,
	"LIKE":                  ComparatorLike,
	"NOT_LIKE":              ComparatorNotLike,
}

// ParseComparator converts either the wire name or the compact operator
// spelling to a Comparator. Word forms are case-insensitive.
func ParseComparator(value string) (Comparator, error) {
	if cmp, ok := comparatorSpellings[strings.ToUpper(value)]; ok {
		return cmp, nil
	}
	return "", fmt.Errorf("unrecognized comparator %q", value)
}

// Compact returns the operator spelling used in query text, falling back
// to the wire name for comparators without a symbolic form.
func (c Comparator) Compact() string {
	switch c {
	case ComparatorEquals:
		return "="
	case ComparatorNotEquals:
		return "!="
	case ComparatorGreaterThan:
		return ">"
	case ComparatorGreaterThanOrEqual:
		return ">="
	case ComparatorLessThan:
		return "<"
	case ComparatorLessThanOrEqual:
		return "<="
	default:
		return string(c)
	}
}
