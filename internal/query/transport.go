package query

import (
	"context"

	"roboql/internal/wire"
)

// PageRequest asks the transport for one page of results.
type PageRequest struct {
	// Spec is the compiled wire filter plus paging and sorting controls.
	Spec *wire.QuerySpecification

	// Target is the kind of record requested.
	Target Target

	// Token is the opaque continuation token from the previous page.
	// Empty for the first page.
	Token string

	// IncludeCount asks the backend to report the total match count on
	// the first page. Support is optional.
	IncludeCount bool
}

// Page is one page of raw results.
type Page struct {
	Items []map[string]any

	// NextToken continues the sequence. Empty means the sequence is
	// exhausted.
	NextToken string

	// TotalCount is the backend's total match count, if requested and
	// supported. It is a hint only: the backend's data can mutate
	// between page fetches.
	TotalCount *int64
}

// Transport fetches result pages from the search backend. It owns HTTP,
// auth headers, and any retry policy; the cursor layered on top never
// retries. Implementations must be safe for concurrent use by
// independent cursors.
type Transport interface {
	FetchPage(ctx context.Context, req PageRequest) (Page, error)
}
