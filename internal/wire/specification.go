package wire

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MaxPageSize is the largest page the search service will return.
const MaxPageSize = 1000

// DefaultPageSize is used when a caller does not request a page size.
const DefaultPageSize = 500

// SortDirection orders query results.
type SortDirection string

const (
	SortAscending  SortDirection = "ASC"
	SortDescending SortDirection = "DESC"
)

// ParseSortDirection converts a string to a SortDirection, case-insensitively.
func ParseSortDirection(value string) (SortDirection, error) {
	switch strings.ToLower(value) {
	case "asc":
		return SortAscending, nil
	case "desc":
		return SortDescending, nil
	}
	return "", fmt.Errorf("unrecognized sort direction %q", value)
}

// QuerySpecification is the envelope submitted to the search service:
// an optional filter plus paging and sorting controls. A nil Filter
// matches every record of the requested kind.
type QuerySpecification struct {
	Filter        Filter
	Limit         int
	After         string
	SortBy        string
	SortDirection SortDirection
}

// NewQuerySpecification returns a specification with the default page size.
func NewQuerySpecification(filter Filter) *QuerySpecification {
	return &QuerySpecification{Filter: filter, Limit: DefaultPageSize}
}

// Fields returns the set of all field paths referenced by the filter.
func (s *QuerySpecification) Fields() map[string]struct{} {
	fields := make(map[string]struct{})
	var walk func(Filter)
	walk = func(f Filter) {
		switch node := f.(type) {
		case *Condition:
			fields[node.Field] = struct{}{}
		case *ConditionGroup:
			for _, cond := range node.Conditions {
				walk(cond)
			}
		}
	}
	if s.Filter != nil {
		walk(s.Filter)
	}
	return fields
}

type specJSON struct {
	Condition     json.RawMessage `json:"condition,omitempty"`
	Limit         int             `json:"limit"`
	After         string          `json:"after,omitempty"`
	SortBy        string          `json:"sort_by,omitempty"`
	SortDirection SortDirection   `json:"sort_direction,omitempty"`
}

func (s *QuerySpecification) MarshalJSON() ([]byte, error) {
	limit := s.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	out := specJSON{Limit: limit, After: s.After, SortBy: s.SortBy, SortDirection: s.SortDirection}
	if s.Filter != nil {
		raw, err := json.Marshal(s.Filter)
		if err != nil {
			return nil, err
		}
		out.Condition = raw
	}
	return json.Marshal(out)
}

func (s *QuerySpecification) UnmarshalJSON(data []byte) error {
	var in specJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*s = QuerySpecification{
		Limit:         in.Limit,
		After:         in.After,
		SortBy:        in.SortBy,
		SortDirection: in.SortDirection,
	}
	if len(in.Condition) > 0 {
		filter, err := UnmarshalFilter(in.Condition)
		if err != nil {
			return err
		}
		s.Filter = filter
	}
	return nil
}
