// Package logging assembles structured slog loggers and formatting helpers used
// across the comicbatch pipeline.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so stage code can automatically
// tag log lines with the stage, issue index, and output ordinal. Every record
// of a run carries the same run_id. The package also provides a no-op logger
// for tests and wiring code that cannot fail.
package logging
