package logging

import (
	"context"
	"log/slog"
)

// Standardized structured logging keys.
const (
	// FieldComponent is the structured logging key for component names.
	FieldComponent = "component"
	// FieldProjectID is the structured logging key for project identifiers.
	FieldProjectID = "project_id"
	// FieldEntityKind is the structured logging key for entity family tags.
	FieldEntityKind = "entity_kind"
	// FieldEntityID is the structured logging key for entity identifiers.
	FieldEntityID = "entity_id"
	// FieldStep is the structured logging key for pipeline step numbers.
	FieldStep = "step"
)

type contextKey struct{}

// WithContext stores a logger on the context.
func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns the logger stored on the context, falling back to
// a no-op logger so callers never need a nil check.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(contextKey{}).(*slog.Logger); ok && logger != nil {
			return logger
		}
	}
	return NewNop()
}
