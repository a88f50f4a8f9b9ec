package query

import (
	"context"
	"errors"
	"iter"
	"log/slog"

	"roboql/internal/logging"
)

// ErrCursorExhausted is returned when a cursor is advanced past its
// terminal state. This is a caller bug, not a transient condition; the
// cursor never retries or resumes.
var ErrCursorExhausted = errors.New("cursor exhausted")

// Cursor drives a single query's pagination: it holds the compiled
// specification, the continuation token, and the most recently fetched
// page, and yields records lazily in backend order, exactly once each.
//
// A cursor is consumed once, forward only, by a single call site.
// Restarting a query requires a fresh cursor. A transport failure leaves
// the cursor in a terminal failed state; retrying is caller policy.
type Cursor struct {
	transport Transport
	req       PageRequest
	logger    *slog.Logger

	started bool
	token   string
	buf     []map[string]any
	off     int
	total   *int64
	done    bool
	err     error
}

// NewCursor creates a cursor for the given page request. The request's
// Token field is ignored; the cursor always starts from the beginning.
func NewCursor(transport Transport, req PageRequest, logger *slog.Logger) *Cursor {
	req.Token = ""
	return &Cursor{
		transport: transport,
		req:       req,
		logger:    logging.Default(logger).With("component", "cursor"),
	}
}

// Next returns the next record. It fetches a new page when the buffered
// page is spent. Once the sequence has terminated (normally or with an
// error), every subsequent call fails: ErrCursorExhausted after normal
// exhaustion, the original error after a transport failure.
func (c *Cursor) Next(ctx context.Context) (map[string]any, error) {
	if c.err != nil {
		return nil, c.err
	}
	if c.done {
		return nil, ErrCursorExhausted
	}

	for c.off >= len(c.buf) {
		if c.started && c.token == "" {
			c.done = true
			return nil, ErrCursorExhausted
		}
		if err := c.fetchPage(ctx); err != nil {
			return nil, err
		}
	}

	item := c.buf[c.off]
	c.off++
	return item, nil
}

// Count returns the backend's total match count, if it was requested and
// the first page has been fetched. The value is fixed for the lifetime
// of the cursor and is a hint only: it is never reconciled against the
// number of records actually yielded.
func (c *Cursor) Count() (int64, bool) {
	if c.total == nil {
		return 0, false
	}
	return *c.total, true
}

// Records returns the cursor's remaining records as a lazy sequence.
// A transport failure is yielded as the final element; normal exhaustion
// simply ends the sequence. Stopping early is cooperative: no in-flight
// fetch is aborted beyond the passed context.
func (c *Cursor) Records(ctx context.Context) iter.Seq2[map[string]any, error] {
	return func(yield func(map[string]any, error) bool) {
		for {
			item, err := c.Next(ctx)
			if err != nil {
				if !errors.Is(err, ErrCursorExhausted) {
					yield(nil, err)
				}
				return
			}
			if !yield(item, nil) {
				return
			}
		}
	}
}

func (c *Cursor) fetchPage(ctx context.Context) error {
	req := c.req
	req.Token = c.token
	req.IncludeCount = c.req.IncludeCount && !c.started

	page, err := c.transport.FetchPage(ctx, req)
	if err != nil {
		c.err = err
		c.logger.Debug("page fetch failed", "target", c.req.Target, "error", err)
		return err
	}

	if !c.started {
		c.started = true
		// The total-count hint is fixed from the first page; later pages
		// never revise it.
		c.total = page.TotalCount
	}
	c.buf = page.Items
	c.off = 0
	c.token = page.NextToken
	c.logger.Debug("page fetched", "target", c.req.Target, "items", len(page.Items), "more", page.NextToken != "")
	return nil
}
