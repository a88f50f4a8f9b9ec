package wire

import (
	"encoding/json"
	"testing"
)

func TestParseComparator(t *testing.T) {
	tests := []struct {
		input   string
		want    Comparator
		wantErr bool
	}{
		{"EQUALS", ComparatorEquals, false},
		{"equals", ComparatorEquals, false},
		{"=", ComparatorEquals, false},
		{"!=", ComparatorNotEquals, false},
		{">", ComparatorGreaterThan, false},
		{">=", ComparatorGreaterThanOrEqual, false},
		{"<", ComparatorLessThan, false},
		{"<=", ComparatorLessThanOrEqual, false},
		{"CONTAINS", ComparatorContains, false},
		{"not_contains", ComparatorNotContains, false},
		{"LIKE", ComparatorLike, false},
		{"BEGINS_WITH", ComparatorBeginsWith, false},
		{"===", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseComparator(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseComparator(%q) = %q, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseComparator(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseComparator(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestComparatorCompact(t *testing.T) {
	tests := []struct {
		cmp  Comparator
		want string
	}{
		{ComparatorEquals, "="},
		{ComparatorNotEquals, "!="},
		{ComparatorGreaterThan, ">"},
		{ComparatorGreaterThanOrEqual, ">="},
		{ComparatorLessThan, "<"},
		{ComparatorLessThanOrEqual, "<="},
		{ComparatorContains, "CONTAINS"},
		{ComparatorNotContains, "NOT_CONTAINS"},
		{ComparatorLike, "LIKE"},
	}

	for _, tt := range tests {
		t.Run(string(tt.cmp), func(t *testing.T) {
			if got := tt.cmp.Compact(); got != tt.want {
				t.Errorf("Compact() = %q, want %q", got, tt.want)
			}
		})
	}
}

// Every compact spelling must parse back to the comparator it renders.
func TestComparatorCompactRoundTrip(t *testing.T) {
	all := []Comparator{
		ComparatorEquals, ComparatorNotEquals,
		ComparatorGreaterThan, ComparatorGreaterThanOrEqual,
		ComparatorLessThan, ComparatorLessThanOrEqual,
		ComparatorContains, ComparatorNotContains,
		ComparatorIsNull, ComparatorIsNotNull,
		ComparatorExists, ComparatorNotExists,
		ComparatorBeginsWith, ComparatorLike, ComparatorNotLike,
	}
	for _, cmp := range all {
		got, err := ParseComparator(cmp.Compact())
		if err != nil {
			t.Errorf("ParseComparator(%q) error: %v", cmp.Compact(), err)
			continue
		}
		if got != cmp {
			t.Errorf("ParseComparator(%q) = %q, want %q", cmp.Compact(), got, cmp)
		}
	}
}

func TestFilterString(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   string
	}{
		{
			"condition",
			Eq("name", "drive"),
			`name = "drive"`,
		},
		{
			"numeric condition",
			&Condition{Field: "size", Comparator: ComparatorGreaterThan, Value: int64(1024)},
			`size > 1024`,
		},
		{
			"html-sensitive characters stay literal",
			Eq("name", "a<b>c&d"),
			`name = "a<b>c&d"`,
		},
		{
			"escaped characters",
			Eq("name", "tab\there \"quoted\""),
			`name = "tab\there \"quoted\""`,
		},
		{
			"and group",
			And(Eq("a", "x"), Eq("b", "y")),
			`(a = "x" AND b = "y")`,
		},
		{
			"left-leaning chain",
			And(Eq("a", "x"), Eq("b", "y"), Eq("c", "z")),
			`((a = "x" AND b = "y") AND c = "z")`,
		},
		{
			"not condition",
			Not(Eq("a", "x")),
			`NOT (a = "x")`,
		},
		{
			"not group",
			Not(Or(Eq("a", "x"), Eq("b", "y"))),
			`NOT (a = "x" OR b = "y")`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFoldBuilders(t *testing.T) {
	if got := And(); got != nil {
		t.Errorf("And() = %v, want nil", got)
	}
	single := Eq("a", "x")
	if got := Or(single); got != Filter(single) {
		t.Errorf("Or(single) = %v, want the condition itself", got)
	}

	chain := Or(Eq("a", 1), Eq("b", 2), Eq("c", 3), Eq("d", 4))
	depth := 0
	for group, ok := chain.(*ConditionGroup); ok; group, ok = group.Conditions[0].(*ConditionGroup) {
		if len(group.Conditions) != 2 {
			t.Fatalf("group holds %d conditions, want 2", len(group.Conditions))
		}
		depth++
	}
	if depth != 3 {
		t.Errorf("chain depth = %d, want 3", depth)
	}
}

func TestFilterJSONRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
	}{
		{"condition", &Condition{Field: "tags", Comparator: ComparatorContains, Value: "urban"}},
		{"group", And(Eq("name", "x"), &Condition{Field: "size", Comparator: ComparatorLessThan, Value: 10.5})},
		{"not", Not(Eq("flag", true))},
		{"nested", Or(And(Eq("a", "1"), Eq("b", "2")), Not(Eq("c", "3")))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := json.Marshal(tt.filter)
			if err != nil {
				t.Fatalf("Marshal error: %v", err)
			}
			back, err := UnmarshalFilter(raw)
			if err != nil {
				t.Fatalf("UnmarshalFilter error: %v", err)
			}
			if back.String() != tt.filter.String() {
				t.Errorf("round trip = %s, want %s", back, tt.filter)
			}
		})
	}
}

func TestUnmarshalFilterErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"bad comparator", `{"field":"a","comparator":"ALMOST_EQUALS","value":1}`},
		{"bad operator", `{"operator":"XOR","conditions":[{"field":"a","comparator":"EQUALS","value":1}]}`},
		{"empty group", `{"operator":"AND","conditions":[]}`},
		{"not json", `42`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := UnmarshalFilter([]byte(tt.raw)); err == nil {
				t.Errorf("UnmarshalFilter(%s) succeeded, want error", tt.raw)
			}
		})
	}
}
