package workflow

import (
	"fmt"
	"log/slog"
	"strings"

	"comicbatch/internal/logging"
	"comicbatch/internal/preflight"
	"comicbatch/internal/services"
)

// runPreflightChecks validates directory and tool readiness before the
// scratch area is created. Returns nil when all checks pass, or an error
// describing all failures.
func (m *Manager) runPreflightChecks(logger *slog.Logger, inputDir string) error {
	results := preflight.RunAll(m.cfg, inputDir)

	var failures []string
	for _, r := range results {
		if r.Passed {
			logger.Debug("preflight check passed",
				logging.String("check", r.Name),
				logging.String("detail", r.Detail),
				logging.String(logging.FieldEventType, "preflight_passed"),
			)
			continue
		}
		logger.Error("preflight check failed",
			logging.String("check", r.Name),
			logging.String("detail", r.Detail),
			logging.String(logging.FieldEventType, "preflight_failed"),
			logging.String(logging.FieldErrorHint, "fix the reported issue and rerun"),
		)
		failures = append(failures, fmt.Sprintf("%s: %s", r.Name, r.Detail))
	}

	if len(failures) > 0 {
		return services.Wrap(services.ErrConfiguration, StagePreflight, "check", strings.Join(failures, "; "), nil)
	}
	return nil
}
