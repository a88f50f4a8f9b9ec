// Package transport implements the page-fetching collaborator over the
// search service's JSON REST API. A query is submitted once, polled
// until the backend reports it complete, and its results fetched page by
// page. The package owns HTTP and auth headers only: there is no retry
// or backoff policy here, that is caller policy layered above the
// cursor.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"roboql/internal/logging"
	"roboql/internal/query"
	"roboql/internal/wire"
)

// defaultPollInterval paces status polls while a query is scheduled.
const defaultPollInterval = 2 * time.Second

// Client talks to the search service. It is safe for concurrent use by
// independent cursors; per-query state lives in the continuation token,
// not the client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	orgID      string
	clientID   string
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithToken sets the bearer token sent on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithOrgID sets the org on whose behalf queries run.
func WithOrgID(orgID string) Option {
	return func(c *Client) { c.orgID = orgID }
}

// WithClientID sets the stable per-installation identity sent on every
// request, letting the backend correlate requests across sessions.
func WithClientID(clientID string) Option {
	return func(c *Client) { c.clientID = clientID }
}

// WithPollInterval overrides how often a scheduled query's status is
// polled.
func WithPollInterval(interval time.Duration) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Every(interval), 1) }
}

// WithLogger attaches a logger. Without it, logging is discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		limiter:    rate.NewLimiter(rate.Every(defaultPollInterval), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.Default(c.logger).With("component", "transport")
	return c
}

// submitRequest is the body of POST /v1/query/submit/structured.
type submitRequest struct {
	Query  *wire.QuerySpecification `json:"query"`
	Target query.Target             `json:"target"`
}

// resultsPage is the paged results envelope.
type resultsPage struct {
	Items      []map[string]any `json:"items"`
	NextToken  string           `json:"next_token,omitempty"`
	TotalCount *int64           `json:"total_count,omitempty"`
}

// FetchPage implements query.Transport. An empty continuation token
// submits the query, waits for completion, and fetches the first page;
// the returned token encodes the backend query id so that later pages
// need only the results endpoint.
func (c *Client) FetchPage(ctx context.Context, req query.PageRequest) (query.Page, error) {
	queryID, pageToken, err := splitToken(req.Token)
	if err != nil {
		return query.Page{}, err
	}

	if queryID == "" {
		record, err := c.submit(ctx, req)
		if err != nil {
			return query.Page{}, err
		}
		if err := c.awaitCompletion(ctx, record); err != nil {
			return query.Page{}, err
		}
		queryID = record.QueryID
	}

	page, err := c.fetchResults(ctx, queryID, pageToken, req.IncludeCount)
	if err != nil {
		return query.Page{}, err
	}

	out := query.Page{Items: page.Items, TotalCount: page.TotalCount}
	if page.NextToken != "" {
		out.NextToken = joinToken(queryID, page.NextToken)
	}
	return out, nil
}

func (c *Client) submit(ctx context.Context, req query.PageRequest) (query.Record, error) {
	var record query.Record
	body := submitRequest{Query: req.Spec, Target: req.Target}
	if err := c.do(ctx, http.MethodPost, "/v1/query/submit/structured", body, &record); err != nil {
		return query.Record{}, err
	}
	if record.QueryID == "" {
		return query.Record{}, &Error{Message: "submit response carried no query id"}
	}
	c.logger.Debug("query submitted", "query_id", record.QueryID, "target", req.Target)
	return record, nil
}

// awaitCompletion polls the query record until the backend reports a
// terminal status. Poll pacing is rate-limited; cancellation comes from
// the context.
func (c *Client) awaitCompletion(ctx context.Context, record query.Record) error {
	for record.Status == query.StatusScheduled {
		if err := c.limiter.Wait(ctx); err != nil {
			return &Error{Message: "canceled while awaiting query completion", Err: err}
		}
		var err error
		record, err = c.queryRecord(ctx, record.QueryID)
		if err != nil {
			return err
		}
	}
	if record.Status == query.StatusFailed {
		return &Error{Message: fmt.Sprintf("query %s failed on the backend", record.QueryID), Err: ErrQueryFailed}
	}
	return nil
}

func (c *Client) queryRecord(ctx context.Context, queryID string) (query.Record, error) {
	var record query.Record
	err := c.do(ctx, http.MethodGet, "/v1/query/id/"+url.PathEscape(queryID), nil, &record)
	return record, err
}

func (c *Client) fetchResults(ctx context.Context, queryID, pageToken string, includeCount bool) (resultsPage, error) {
	path := "/v1/query/id/" + url.PathEscape(queryID) + "/results"
	params := url.Values{}
	if pageToken != "" {
		params.Set("page_token", pageToken)
	}
	if includeCount {
		params.Set("include_count", "true")
	}
	if len(params) > 0 {
		path += "?" + params.Encode()
	}
	var page resultsPage
	err := c.do(ctx, http.MethodGet, path, nil, &page)
	return page, err
}

// do issues one request and decodes the "data" envelope into out.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return &Error{Message: "encoding request body", Err: err}
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &Error{Message: "building request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.orgID != "" {
		req.Header.Set("X-Org-Id", c.orgID)
	}
	if c.clientID != "" {
		req.Header.Set("X-Client-Id", c.clientID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Message: fmt.Sprintf("%s %s", method, path), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &Error{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("%s %s: %s", method, path, strings.TrimSpace(string(msg))),
		}
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return &Error{Message: "decoding response envelope", Err: err}
	}
	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return &Error{Message: "decoding response data", Err: err}
		}
	}
	return nil
}

// Continuation tokens returned to the cursor are "queryID:pageToken".
// They are opaque to callers; only this package constructs or parses
// them.

func joinToken(queryID, pageToken string) string {
	return queryID + ":" + pageToken
}

func splitToken(token string) (queryID, pageToken string, err error) {
	if token == "" {
		return "", "", nil
	}
	queryID, pageToken, found := strings.Cut(token, ":")
	if !found || queryID == "" {
		return "", "", &Error{Message: fmt.Sprintf("malformed continuation token %q", token)}
	}
	return queryID, pageToken, nil
}
