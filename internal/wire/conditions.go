package wire

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Filter is the backend-facing filter tree: either a single Condition or
// a ConditionGroup combining nested filters. The node set is closed.
type Filter interface {
	filter()
	// String renders the filter in canonical query text. Parsing the
	// rendered text yields an equivalent filter.
	String() string
}

// Operator combines the conditions of a group.
type Operator string

const (
	OperatorAnd Operator = "AND"
	OperatorOr  Operator = "OR"
	OperatorNot Operator = "NOT"
)

// ParseOperator converts a string to an Operator, case-insensitively.
func ParseOperator(value string) (Operator, error) {
	switch strings.ToUpper(value) {
	case "AND":
		return OperatorAnd, nil
	case "OR":
		return OperatorOr, nil
	case "NOT":
		return OperatorNot, nil
	}
	return "", fmt.Errorf("unrecognized operator %q", value)
}

// Condition filters a single resolved field against a literal value.
// Field is the fully resolved dotted path with explicit indices, e.g.
// "topics[0].msgpaths[/cpu/load].max". Value is a string, float64, int64,
// or bool; timestamps are normalized to int64 nanoseconds since epoch.
type Condition struct {
	Field      string     `json:"field"`
	Comparator Comparator `json:"comparator"`
	Value      any        `json:"value,omitempty"`
}

func (*Condition) filter() {}

func (c *Condition) String() string {
	base := c.Field + " " + c.Comparator.Compact()
	if c.Value == nil {
		return base
	}
	return base + " " + formatValue(c.Value)
}

// ConditionGroup combines nested filters with a boolean operator.
// AND and OR hold exactly two children (compilation folds longer chains
// into left-leaning pairs); NOT holds one.
type ConditionGroup struct {
	Operator   Operator `json:"operator"`
	Conditions []Filter `json:"conditions"`
}

func (*ConditionGroup) filter() {}

func (g *ConditionGroup) String() string {
	if g.Operator == OperatorNot && len(g.Conditions) == 1 {
		return "NOT " + parenthesize(g.Conditions[0])
	}
	parts := make([]string, len(g.Conditions))
	for i, cond := range g.Conditions {
		parts[i] = cond.String()
	}
	return "(" + strings.Join(parts, " "+string(g.Operator)+" ") + ")"
}

func parenthesize(f Filter) string {
	if _, ok := f.(*ConditionGroup); ok {
		return f.String() // groups already render parenthesized
	}
	return "(" + f.String() + ")"
}

// And combines filters into a left-leaning chain of binary AND groups.
func And(filters ...Filter) Filter {
	return fold(OperatorAnd, filters)
}

// Or combines filters into a left-leaning chain of binary OR groups.
func Or(filters ...Filter) Filter {
	return fold(OperatorOr, filters)
}

// Not negates a filter.
func Not(f Filter) Filter {
	return &ConditionGroup{Operator: OperatorNot, Conditions: []Filter{f}}
}

// Eq builds an equality condition.
func Eq(field string, value any) *Condition {
	return &Condition{Field: field, Comparator: ComparatorEquals, Value: value}
}

func fold(op Operator, filters []Filter) Filter {
	switch len(filters) {
	case 0:
		return nil
	case 1:
		return filters[0]
	}
	left := filters[0]
	for _, right := range filters[1:] {
		left = &ConditionGroup{Operator: op, Conditions: []Filter{left, right}}
	}
	return left
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return strconv.Quote(val)
	case bool:
		return strconv.FormatBool(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case int:
		return strconv.Itoa(val)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// MarshalJSON emits the group with nested filters as a tagged union:
// groups carry "operator"/"conditions", conditions carry "field".
func (g *ConditionGroup) MarshalJSON() ([]byte, error) {
	type alias struct {
		Operator   Operator          `json:"operator"`
		Conditions []json.RawMessage `json:"conditions"`
	}
	out := alias{Operator: g.Operator, Conditions: make([]json.RawMessage, len(g.Conditions))}
	for i, cond := range g.Conditions {
		raw, err := json.Marshal(cond)
		if err != nil {
			return nil, err
		}
		out.Conditions[i] = raw
	}
	return json.Marshal(out)
}

// UnmarshalFilter decodes a filter tree from JSON, distinguishing
// conditions from groups by the presence of the "field" key.
func UnmarshalFilter(data []byte) (Filter, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, err
	}
	if _, ok := probe["field"]; ok {
		var cond Condition
		if err := json.Unmarshal(data, &cond); err != nil {
			return nil, err
		}
		if _, err := ParseComparator(string(cond.Comparator)); err != nil {
			return nil, err
		}
		return &cond, nil
	}

	var head struct {
		Operator   Operator          `json:"operator"`
		Conditions []json.RawMessage `json:"conditions"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, err
	}
	if _, err := ParseOperator(string(head.Operator)); err != nil {
		return nil, err
	}
	if len(head.Conditions) == 0 {
		return nil, fmt.Errorf("condition group requires at least one condition, got 0")
	}
	group := &ConditionGroup{Operator: head.Operator, Conditions: make([]Filter, len(head.Conditions))}
	for i, raw := range head.Conditions {
		nested, err := UnmarshalFilter(raw)
		if err != nil {
			return nil, err
		}
		group.Conditions[i] = nested
	}
	return group, nil
}
