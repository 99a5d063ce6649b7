package logging

import (
	"context"
	"log/slog"

	"comicbatch/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldStage is the standardized structured logging key for pipeline stage names.
	FieldStage = "stage"
	// FieldUnitIndex is the standardized structured logging key for zero-based issue indices.
	FieldUnitIndex = "unit_index"
	// FieldGroupOrdinal is the standardized structured logging key for 1-based output ordinals.
	FieldGroupOrdinal = "group_ordinal"
	// FieldRunID is the standardized structured logging key for run identifiers.
	FieldRunID = "run_id"
	// FieldEventType names the kind of event a record describes (stage_start, unit_normalized, ...).
	FieldEventType = "event_type"
	// FieldErrorHint tells the operator what to check next.
	FieldErrorHint = "error_hint"
	// FieldImpact is the standardized key for user-facing consequence of a warning.
	FieldImpact = "impact"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if stage, ok := services.StageFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldStage, stage))
	}
	if idx, ok := services.UnitIndexFromContext(ctx); ok {
		fields = append(fields, slog.Int(FieldUnitIndex, idx))
	}
	if ordinal, ok := services.GroupOrdinalFromContext(ctx); ok {
		fields = append(fields, slog.Int(FieldGroupOrdinal, ordinal))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
