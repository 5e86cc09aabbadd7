// Package logging assembles structured slog loggers for chaptermux.
//
// It owns the console and JSON handlers, level parsing, and output routing
// (stderr plus an optional log file), and exposes context-aware helpers so the
// workflow can tag log lines with the run ID, video and stage. A
// no-op logger is provided for tests and wiring code that cannot fail.
package logging
