package workflow

import (
	"context"
	"errors"
	"log/slog"

	"comicbatch/internal/logging"
	"comicbatch/internal/services"
)

func (m *Manager) handleStageFailure(logger *slog.Logger, stage string, stageErr error) {
	if errors.Is(stageErr, context.Canceled) {
		logger.Debug("stage interrupted", logging.String(logging.FieldEventType, "stage_interrupted"))
		return
	}
	attrs := []logging.Attr{
		logging.Error(stageErr),
		logging.String(logging.FieldErrorHint, failureHint(stage, stageErr)),
	}
	if marker := services.Classify(stageErr); marker != nil {
		attrs = append(attrs, logging.String("error_kind", marker.Error()))
	}
	logging.ErrorWithContext(logger, "stage failed", "stage_failure", attrs...)
}

func failureHint(stage string, err error) string {
	switch {
	case errors.Is(err, services.ErrExternalTool):
		return "check that the external tools run correctly on the failing file"
	case errors.Is(err, services.ErrWorkspace):
		return "check that no other run is using the input directory and that it is writable"
	case errors.Is(err, services.ErrConfiguration):
		return "run comicbatch check to see what is missing"
	}
	switch stage {
	case StageExtract:
		return "the archive may be corrupt; try opening it with another tool"
	case StageNormalize:
		return "the page may be corrupt or in an unsupported format"
	case StageExport:
		return "check free space and permissions in the output directory"
	default:
		return "check logs for details"
	}
}
