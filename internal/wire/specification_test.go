package wire

import (
	"encoding/json"
	"testing"
)

func TestNewQuerySpecification(t *testing.T) {
	spec := NewQuerySpecification(Eq("name", "x"))
	if spec.Limit != DefaultPageSize {
		t.Errorf("Limit = %d, want %d", spec.Limit, DefaultPageSize)
	}

	nilSpec := NewQuerySpecification(nil)
	if nilSpec.Filter != nil {
		t.Errorf("Filter = %v, want nil", nilSpec.Filter)
	}
}

func TestSpecificationMarshalClampsLimit(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"zero becomes default", 0, DefaultPageSize},
		{"negative becomes default", -5, DefaultPageSize},
		{"in range kept", 250, 250},
		{"over max clamped", 5000, MaxPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := &QuerySpecification{Limit: tt.limit}
			raw, err := json.Marshal(spec)
			if err != nil {
				t.Fatalf("Marshal error: %v", err)
			}
			var out struct {
				Limit int `json:"limit"`
			}
			if err := json.Unmarshal(raw, &out); err != nil {
				t.Fatalf("Unmarshal error: %v", err)
			}
			if out.Limit != tt.want {
				t.Errorf("limit = %d, want %d", out.Limit, tt.want)
			}
		})
	}
}

func TestSpecificationJSONRoundTrip(t *testing.T) {
	spec := &QuerySpecification{
		Filter:        And(Eq("name", "x"), Eq("tags", "y")),
		Limit:         100,
		After:         "tok-1",
		SortBy:        "created",
		SortDirection: SortDescending,
	}

	raw, err := json.Marshal(spec)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	var back QuerySpecification
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if back.Limit != 100 || back.After != "tok-1" || back.SortBy != "created" || back.SortDirection != SortDescending {
		t.Errorf("round trip = %+v, want %+v", back, spec)
	}
	if back.Filter == nil || back.Filter.String() != spec.Filter.String() {
		t.Errorf("filter round trip = %v, want %v", back.Filter, spec.Filter)
	}
}

func TestSpecificationMatchAllOmitsCondition(t *testing.T) {
	raw, err := json.Marshal(NewQuerySpecification(nil))
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	var out map[string]json.RawMessage
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if _, ok := out["condition"]; ok {
		t.Errorf("match-all spec carries a condition key: %s", raw)
	}
}

func TestSpecificationFields(t *testing.T) {
	spec := NewQuerySpecification(And(
		Eq("name", "x"),
		Or(Eq("tags", "y"), Eq("name", "z")),
	))
	fields := spec.Fields()
	if len(fields) != 2 {
		t.Fatalf("Fields() has %d entries, want 2: %v", len(fields), fields)
	}
	for _, want := range []string{"name", "tags"} {
		if _, ok := fields[want]; !ok {
			t.Errorf("Fields() missing %q", want)
		}
	}

	if got := NewQuerySpecification(nil).Fields(); len(got) != 0 {
		t.Errorf("match-all Fields() = %v, want empty", got)
	}
}

func TestParseSortDirection(t *testing.T) {
	tests := []struct {
		input   string
		want    SortDirection
		wantErr bool
	}{
		{"asc", SortAscending, false},
		{"ASC", SortAscending, false},
		{"desc", SortDescending, false},
		{"DESC", SortDescending, false},
		{"sideways", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSortDirection(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseSortDirection(%q) = %q, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSortDirection(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseSortDirection(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
