// Package logging assembles structured slog loggers and formatting helpers used
// across vidsum.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so pipeline stages automatically
// tag log lines with the stage name, the run correlation ID, and the source
// URL being processed. A no-op logger is provided for tests and wiring code
// that cannot fail.
package logging
