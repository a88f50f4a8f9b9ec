// Package logging provides utilities for structured logging.
//
// Loggers are dependency-injected, never global: each component takes an
// optional *slog.Logger, scopes it once at construction with slog.With,
// and falls back to a discard logger when none is provided. Output
// format, level, and destination are configured only in main().
package logging

import (
	"context"
	"log/slog"
)

// discardHandler drops all log records.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }

// Discard returns a logger that discards all output.
func Discard() *slog.Logger {
	return slog.New(discardHandler{})
}

// Default returns the provided logger if non-nil, otherwise a discard
// logger. This is the standard pattern for optional logger parameters:
//
//	func NewClient(logger *slog.Logger) *Client {
//	    logger = logging.Default(logger)
//	    return &Client{logger: logger.With("component", "client")}
//	}
func Default(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return Discard()
}
