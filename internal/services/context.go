package services

import "context"

type contextKey string

const (
	unitIndexKey    contextKey = "unit_index"
	groupOrdinalKey contextKey = "group_ordinal"
	stageKey        contextKey = "stage"
	runIDKey        contextKey = "run_id"
)

// WithUnitIndex annotates context with the zero-based unit (issue) index.
func WithUnitIndex(ctx context.Context, index int) context.Context {
	return context.WithValue(ctx, unitIndexKey, index)
}

// UnitIndexFromContext extracts the unit index if present.
func UnitIndexFromContext(ctx context.Context) (int, bool) {
	v, ok := ctx.Value(unitIndexKey).(int)
	return v, ok
}

// WithGroupOrdinal annotates context with the 1-based output group ordinal.
func WithGroupOrdinal(ctx context.Context, ordinal int) context.Context {
	if ordinal <= 0 {
		return ctx
	}
	return context.WithValue(ctx, groupOrdinalKey, ordinal)
}

// GroupOrdinalFromContext returns the group ordinal if present.
func GroupOrdinalFromContext(ctx context.Context) (int, bool) {
	v, ok := ctx.Value(groupOrdinalKey).(int)
	return v, ok
}

// WithStage annotates context with the pipeline stage name.
func WithStage(ctx context.Context, stage string) context.Context {
	if stage == "" {
		return ctx
	}
	return context.WithValue(ctx, stageKey, stage)
}

// StageFromContext returns the stage name if present.
func StageFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(stageKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithRunID annotates context with the run correlation identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
