// Command roboql compiles RoboQL queries and runs them against a search
// backend.
//
// Logging:
//   - Base logger is created here with output format and level
//   - Logger is passed to all components via dependency injection
//   - No global slog configuration (no slog.SetDefault)
package main

import (
	"log/slog"
	"os"

	"roboql/cmd/roboql/cli"
)

var version = "dev"

func main() {
	level := slog.LevelWarn
	if os.Getenv("ROBOQL_DEBUG") != "" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	root := cli.NewRootCommand(logger, version)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
