package workflow

import (
	"context"
	"log/slog"
	"time"

	"comicbatch/internal/logging"
	"comicbatch/internal/services"
)

type stageFunc func(ctx context.Context) (int, error)

// runStage wraps one pipeline stage with context tagging, lifecycle events
// and observer notifications. total is the number of items the stage will
// work through, or zero when it is not item-based.
func (m *Manager) runStage(ctx context.Context, logger *slog.Logger, stage string, total int, fn stageFunc) error {
	if err := ctx.Err(); err != nil {
		return ensureStage(stage, err)
	}
	stageCtx := services.WithStage(ctx, stage)
	stageLogger := logging.WithContext(stageCtx, logger)
	stageStart := time.Now()

	stageLogger.Info(
		"stage started",
		logging.String(logging.FieldEventType, "stage_start"),
		logging.Int("items", total),
	)
	m.notifyStarted(stage, total)

	count, err := fn(stageCtx)
	if err != nil {
		m.handleStageFailure(stageLogger, stage, err)
		return ensureStage(stage, err)
	}

	stageLogger.Info(
		"stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.Int("items", count),
		logging.Duration("stage_duration", time.Since(stageStart)),
	)
	m.notifyFinished(stage, count)
	return nil
}

// ensureStage tags errors that reached the manager without a stage, such as
// context cancellation, so callers can always name the failing stage.
func ensureStage(stage string, err error) error {
	if _, ok := services.StageOf(err); ok {
		return err
	}
	marker := services.Classify(err)
	if marker == nil {
		marker = stageMarker(stage)
	}
	return services.Wrap(marker, stage, "run", "", err)
}

func stageMarker(stage string) error {
	switch stage {
	case StageExtract, StageDiscover:
		return services.ErrExtraction
	case StageNormalize, StageSize:
		return services.ErrNormalization
	case StagePartition, StageExport:
		return services.ErrExport
	case StagePreflight:
		return services.ErrConfiguration
	default:
		return services.ErrWorkspace
	}
}
