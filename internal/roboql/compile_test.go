package roboql

import (
	"encoding/json"
	"testing"
	"time"

	"roboql/internal/schema"
	"roboql/internal/wire"
)

func mustCompile(t *testing.T, input string, root schema.EntityKind) wire.Filter {
	t.Helper()
	filter, err := Compile(input, root, schema.Default())
	if err != nil {
		t.Fatalf("Compile(%q) error: %v", input, err)
	}
	return filter
}

func TestCompileMatchAll(t *testing.T) {
	for _, input := range []string{"*", "  *  "} {
		t.Run(input, func(t *testing.T) {
			filter, err := Compile(input, schema.EntityDataset, schema.Default())
			if err != nil {
				t.Fatalf("Compile(%q) error: %v", input, err)
			}
			if filter != nil {
				t.Errorf("Compile(%q) = %v, want nil filter", input, filter)
			}
		})
	}
}

func TestCompileCondition(t *testing.T) {
	filter := mustCompile(t, `tags CONTAINS "boston"`, schema.EntityDataset)
	cond, ok := filter.(*wire.Condition)
	if !ok {
		t.Fatalf("filter = %T, want *wire.Condition", filter)
	}
	if cond.Field != "tags" {
		t.Errorf("Field = %q, want %q", cond.Field, "tags")
	}
	if cond.Comparator != wire.ComparatorContains {
		t.Errorf("Comparator = %s, want CONTAINS", cond.Comparator)
	}
	if cond.Value != "boston" {
		t.Errorf("Value = %v, want %q", cond.Value, "boston")
	}
}

func TestCompileConjunctionShape(t *testing.T) {
	filter := mustCompile(t,
		`dataset.tags CONTAINS "boston" AND topics.msgpaths[/vehicle/speed].max > 25`,
		schema.EntityDataset)

	group, ok := filter.(*wire.ConditionGroup)
	if !ok {
		t.Fatalf("filter = %T, want *wire.ConditionGroup", filter)
	}
	if group.Operator != wire.OperatorAnd {
		t.Errorf("Operator = %s, want AND", group.Operator)
	}
	if len(group.Conditions) != 2 {
		t.Fatalf("group holds %d conditions, want 2", len(group.Conditions))
	}

	left, ok := group.Conditions[0].(*wire.Condition)
	if !ok {
		t.Fatalf("left = %T, want *wire.Condition", group.Conditions[0])
	}
	if left.Field != "tags" || left.Comparator != wire.ComparatorContains || left.Value != "boston" {
		t.Errorf("left = %+v, want tags CONTAINS boston", left)
	}

	right, ok := group.Conditions[1].(*wire.Condition)
	if !ok {
		t.Fatalf("right = %T, want *wire.Condition", group.Conditions[1])
	}
	if right.Field != "topics[0].msgpaths[/vehicle/speed].max" {
		t.Errorf("right field = %q, want %q", right.Field, "topics[0].msgpaths[/vehicle/speed].max")
	}
	if right.Comparator != wire.ComparatorGreaterThan {
		t.Errorf("right comparator = %s, want GREATER_THAN", right.Comparator)
	}
	if right.Value != int64(25) {
		t.Errorf("right value = %v (%T), want int64 25", right.Value, right.Value)
	}
}

func TestCompileNot(t *testing.T) {
	filter := mustCompile(t, `NOT tags CONTAINS "night"`, schema.EntityDataset)
	group, ok := filter.(*wire.ConditionGroup)
	if !ok {
		t.Fatalf("filter = %T, want *wire.ConditionGroup", filter)
	}
	if group.Operator != wire.OperatorNot {
		t.Errorf("Operator = %s, want NOT", group.Operator)
	}
	if len(group.Conditions) != 1 {
		t.Errorf("group holds %d conditions, want 1", len(group.Conditions))
	}
}

func TestCompileValueTypes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		root  schema.EntityKind
		want  any
	}{
		{"whole number to int64", `size = 1024`, schema.EntityFile, int64(1024)},
		{"decimal to float64", `msgpaths[x].max > 0.9`, schema.EntityTopic, 0.9},
		{"string", `name = "drive"`, schema.EntityDataset, "drive"},
		{"bool via metadata", `metadata.flag = true`, schema.EntityDataset, true},
		{"timestamp nanos passthrough", `created > 1700000000000000000`, schema.EntityDataset, int64(1700000000000000000)},
		{"epoch seconds to nanos", `created > "1700000000"`, schema.EntityDataset, int64(1700000000) * int64(time.Second)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter := mustCompile(t, tt.input, tt.root)
			cond, ok := filter.(*wire.Condition)
			if !ok {
				t.Fatalf("filter = %T, want *wire.Condition", filter)
			}
			if cond.Value != tt.want {
				t.Errorf("Value = %v (%T), want %v (%T)", cond.Value, cond.Value, tt.want, tt.want)
			}
		})
	}
}

func TestCompileISOTimestamp(t *testing.T) {
	filter := mustCompile(t, `created >= "2024-01-15T10:30:00Z"`, schema.EntityDataset)
	cond := filter.(*wire.Condition)
	want := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC).UnixNano()
	if cond.Value != want {
		t.Errorf("Value = %v, want %d", cond.Value, want)
	}
}

// Compiling a filter's rendered text must reproduce the same filter.
func TestCompileRoundTripFixedPoint(t *testing.T) {
	tests := []struct {
		input string
		root  schema.EntityKind
	}{
		{`name = "drive"`, schema.EntityDataset},
		{`tags CONTAINS "urban" AND name != "test"`, schema.EntityDataset},
		{`name = "a" OR description = "b"`, schema.EntityDataset},
		{`NOT tags CONTAINS "night"`, schema.EntityDataset},
		{`topics.msgpaths[load].max > 0.9`, schema.EntityDataset},
		{`(name = "a" OR name = "b") AND tags CONTAINS "x"`, schema.EntityDataset},
		{`name = "a<b>c&d"`, schema.EntityDataset},
		{`description = "tab\there \"quoted\" back\\slash"`, schema.EntityDataset},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			first := mustCompile(t, tt.input, tt.root)
			second := mustCompile(t, first.String(), tt.root)
			if first.String() != second.String() {
				t.Errorf("round trip drifted:\n first: %s\nsecond: %s", first, second)
			}

			a, err := json.Marshal(first)
			if err != nil {
				t.Fatalf("marshal first: %v", err)
			}
			b, err := json.Marshal(second)
			if err != nil {
				t.Fatalf("marshal second: %v", err)
			}
			if string(a) != string(b) {
				t.Errorf("round trip JSON drifted:\n first: %s\nsecond: %s", a, b)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantOK  bool
		wantPos int
	}{
		{"valid", `name = "x"`, true, -1},
		{"match all", `*`, true, -1},
		{"syntax error carries position", `name = `, false, 7},
		{"schema error has no position", `bogus = 1`, false, -1},
		{"validation error has no position", `created CONTAINS "x"`, false, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, msg, pos := Validate(tt.input, schema.EntityDataset, schema.Default())
			if ok != tt.wantOK {
				t.Fatalf("Validate(%q) = %v (%s), want ok=%v", tt.input, ok, msg, tt.wantOK)
			}
			if !ok && msg == "" {
				t.Error("invalid query produced no message")
			}
			if pos != tt.wantPos {
				t.Errorf("Validate(%q) pos = %d, want %d", tt.input, pos, tt.wantPos)
			}
		})
	}
}
