// Package logging assembles the structured slog loggers used across the
// daemon and CLI.
//
// It centralizes level and output plumbing, supports console and JSON
// formats, and exposes context helpers so request handlers and generation
// pipelines automatically tag log lines with project and entity IDs. A
// no-op logger is provided for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits data with the same shape.
package logging
