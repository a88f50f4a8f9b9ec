// Package search is the high-level entry point for querying the data
// platform: it compiles RoboQL query text, submits it through a
// transport, and streams typed records back.
//
// Compile-time errors (syntax, schema, validation) are returned
// synchronously before any network call; transport failures surface
// lazily inside the returned sequence.
package search

import (
	"context"
	"encoding/json"
	"iter"
	"log/slog"

	"roboql/internal/domain"
	"roboql/internal/logging"
	"roboql/internal/query"
	"roboql/internal/roboql"
	"roboql/internal/schema"
	"roboql/internal/wire"
)

// Search compiles and runs queries against a single transport.
// It is safe for concurrent use; each find call drives its own cursor.
type Search struct {
	transport query.Transport
	registry  *schema.Registry
	pageSize  int
	logger    *slog.Logger
}

// Option configures a Search.
type Option func(*Search)

// WithLogger attaches a logger. Without it, logging is discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Search) { s.logger = logger }
}

// WithPageSize sets the page size requested from the backend.
func WithPageSize(size int) Option {
	return func(s *Search) { s.pageSize = size }
}

// WithRegistry overrides the schema registry. Intended for tests.
func WithRegistry(reg *schema.Registry) Option {
	return func(s *Search) { s.registry = reg }
}

// New creates a Search on top of a transport.
func New(transport query.Transport, opts ...Option) *Search {
	s := &Search{
		transport: transport,
		registry:  schema.Default(),
		pageSize:  wire.DefaultPageSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.Default(s.logger).With("component", "search")
	return s
}

// Compile compiles query text for a target without running it. The
// reserved query "*" compiles to a match-all specification.
func (s *Search) Compile(text string, target query.Target) (*wire.QuerySpecification, error) {
	filter, err := roboql.Compile(text, target.RootEntity(), s.registry)
	if err != nil {
		return nil, err
	}
	spec := wire.NewQuerySpecification(filter)
	spec.Limit = s.pageSize
	return spec, nil
}

// Run compiles query text and returns a cursor over the raw result
// records. Callers that want typed records should prefer the Find
// methods; Run additionally exposes the total-count hint.
func (s *Search) Run(text string, target query.Target) (*query.Cursor, error) {
	spec, err := s.Compile(text, target)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("query compiled", "target", target, "fields", len(spec.Fields()))
	req := query.PageRequest{Spec: spec, Target: target, IncludeCount: true}
	return query.NewCursor(s.transport, req, s.logger), nil
}

// FindDatasets streams datasets matching the query text.
func (s *Search) FindDatasets(ctx context.Context, text string) (iter.Seq2[domain.DatasetRecord, error], error) {
	return find[domain.DatasetRecord](ctx, s, text, query.TargetDatasets)
}

// FindFiles streams files matching the query text.
func (s *Search) FindFiles(ctx context.Context, text string) (iter.Seq2[domain.FileRecord, error], error) {
	return find[domain.FileRecord](ctx, s, text, query.TargetFiles)
}

// FindTopics streams topics matching the query text.
//
// Example:
//
//	results, err := s.FindTopics(ctx, "msgpaths[cpuload.load].max > 0.9")
func (s *Search) FindTopics(ctx context.Context, text string) (iter.Seq2[domain.TopicRecord, error], error) {
	return find[domain.TopicRecord](ctx, s, text, query.TargetTopics)
}

// FindMessagePaths streams message paths matching the query text.
func (s *Search) FindMessagePaths(ctx context.Context, text string) (iter.Seq2[domain.MessagePathRecord, error], error) {
	return find[domain.MessagePathRecord](ctx, s, text, query.TargetTopicMessagePaths)
}

// FindEvents streams events matching the query text.
func (s *Search) FindEvents(ctx context.Context, text string) (iter.Seq2[domain.EventRecord, error], error) {
	return find[domain.EventRecord](ctx, s, text, query.TargetEvents)
}

func find[T any](ctx context.Context, s *Search, text string, target query.Target) (iter.Seq2[T, error], error) {
	cursor, err := s.Run(text, target)
	if err != nil {
		return nil, err
	}
	return func(yield func(T, error) bool) {
		for item, err := range cursor.Records(ctx) {
			var rec T
			if err == nil {
				err = decodeRecord(item, &rec)
			}
			if !yield(rec, err) || err != nil {
				return
			}
		}
	}, nil
}

// decodeRecord converts a raw result map into a typed record via its
// JSON representation. Unknown fields are ignored.
func decodeRecord(item map[string]any, out any) error {
	raw, err := json.Marshal(item)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}
