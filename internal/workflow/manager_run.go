package workflow

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"comicbatch/internal/batch"
	"comicbatch/internal/config"
	"comicbatch/internal/export"
	"comicbatch/internal/extract"
	"comicbatch/internal/logging"
	"comicbatch/internal/normalize"
	"comicbatch/internal/services"
	"comicbatch/internal/sizing"
	"comicbatch/internal/workspace"
)

// Run executes the whole pipeline for req. On failure the returned error
// carries the failing stage (see services.StageOf) and the partial Summary
// describes what completed before it.
func (m *Manager) Run(ctx context.Context, req Request) (Summary, error) {
	start := time.Now()
	logger := m.logger
	runID := req.RunID
	if runID == "" {
		runID = uuid.NewString()
		logger = logger.With(logging.String(logging.FieldRunID, runID))
	}
	ctx = services.WithRunID(ctx, runID)

	inputDir, err := config.ExpandPath(req.InputDir)
	if err != nil || inputDir == "" {
		return Summary{RunID: runID, Duration: time.Since(start)}, services.Wrap(services.ErrConfiguration, StagePreflight, "resolve input", req.InputDir, err)
	}
	outputDir := m.cfg.Output.Dir
	if outputDir == "" {
		outputDir = inputDir
	} else if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return Summary{RunID: runID, Duration: time.Since(start)}, services.Wrap(services.ErrConfiguration, StagePreflight, "create output dir", outputDir, err)
	}
	summary := Summary{RunID: runID, InputDir: inputDir, OutputDir: outputDir}

	logger.Info(
		"run started",
		logging.String(logging.FieldEventType, "run_start"),
		logging.String("input_dir", inputDir),
		logging.String("output_dir", outputDir),
		logging.String("backend", m.cfg.Processing.Backend),
		logging.Int64("max_size", m.cfg.Output.MaxSize.Bytes()),
	)

	if !m.skipPreflight {
		if err := m.runStage(ctx, logger, StagePreflight, 0, func(context.Context) (int, error) {
			return 0, m.runPreflightChecks(logger, inputDir)
		}); err != nil {
			return m.finish(logger, summary, start, err)
		}
	}

	var ws *workspace.Workspace
	if err := m.runStage(ctx, logger, StageWorkspace, 0, func(context.Context) (int, error) {
		var err error
		ws, err = workspace.Initialize(inputDir, m.cfg.Workspace.DirName)
		return 0, err
	}); err != nil {
		return m.finish(logger, summary, start, err)
	}

	runErr := m.runPipeline(ctx, logger, ws, inputDir, outputDir, &summary)
	if runErr != nil && m.cfg.Workspace.KeepOnFailure {
		ws.Release()
		summary.WorkspaceKept = ws.Root
		logging.WarnWithContext(logger, "scratch area kept after failure", "workspace_kept",
			logging.String("path", ws.Root),
			logging.String(logging.FieldErrorHint, "inspect the scratch area, then delete it or rerun"),
			logging.String(logging.FieldImpact, "disk space is not reclaimed until the next run"),
		)
	} else if err := ws.Teardown(); err != nil {
		logging.WarnWithContext(logger, "scratch area cleanup failed", "workspace_cleanup_failed",
			logging.Error(err),
			logging.String("path", ws.Root),
			logging.String(logging.FieldErrorHint, "check input directory permissions"),
			logging.String(logging.FieldImpact, "disk space not reclaimed"),
		)
		if runErr == nil {
			runErr = err
		}
	}
	return m.finish(logger, summary, start, runErr)
}

func (m *Manager) runPipeline(ctx context.Context, logger *slog.Logger, ws *workspace.Workspace, inputDir, outputDir string, summary *Summary) error {
	var archives []extract.Archive
	if err := m.runStage(ctx, logger, StageDiscover, 0, func(context.Context) (int, error) {
		var err error
		archives, err = extract.Discover(inputDir)
		return len(archives), err
	}); err != nil {
		return err
	}
	if len(archives) == 0 {
		logging.WarnWithContext(logger, "no archives found", "no_archives",
			logging.String("input_dir", inputDir),
			logging.String(logging.FieldErrorHint, "archives must be top-level files ending in "+extract.ArchiveExtension),
			logging.String(logging.FieldImpact, "no documents written"),
		)
	}

	workers := m.cfg.Processing.Workers
	if err := m.runStage(ctx, logger, StageExtract, len(archives), func(ctx context.Context) (int, error) {
		count, err := extract.New(m.unpacker, workers, logger).Extract(ctx, ws, archives, m.progress(StageExtract))
		summary.Units = count
		return count, err
	}); err != nil {
		return err
	}

	var units []normalize.Unit
	if err := m.runStage(ctx, logger, StageNormalize, summary.Units, func(ctx context.Context) (int, error) {
		opts := normalize.Options{
			MaxWidth:  m.cfg.Pages.MaxWidth,
			MaxHeight: m.cfg.Pages.MaxHeight,
			Quality:   m.cfg.Pages.Quality,
		}
		var err error
		units, err = normalize.New(m.resizer, opts, workers, logger).Normalize(ctx, ws, summary.Units, m.progress(StageNormalize))
		for _, unit := range units {
			summary.Pages += unit.Pages
		}
		return len(units), err
	}); err != nil {
		return err
	}

	var sized []batch.Unit
	if err := m.runStage(ctx, logger, StageSize, len(units), func(ctx context.Context) (int, error) {
		var err error
		sized, err = sizing.UnitSizes(ctx, len(units), ws.NormalizedDir)
		if err != nil {
			return 0, services.Wrap(services.ErrNormalization, StageSize, "measure units", ws.Normalized, err)
		}
		return len(sized), nil
	}); err != nil {
		return err
	}

	var groups []batch.Group
	if err := m.runStage(ctx, logger, StagePartition, len(sized), func(context.Context) (int, error) {
		if err := batch.Validate(sized); err != nil {
			return 0, services.Wrap(services.ErrExport, StagePartition, "validate units", "", err)
		}
		groups = batch.Partition(sized, m.cfg.Output.MaxSize.Bytes())
		summary.Groups = len(groups)
		m.logGroups(logger, groups)
		return len(groups), nil
	}); err != nil {
		return err
	}

	return m.runStage(ctx, logger, StageExport, len(groups), func(ctx context.Context) (int, error) {
		exporter := export.New(m.assembler, export.Options{
			Dir:       outputDir,
			Prefix:    m.cfg.Output.Prefix,
			Title:     m.cfg.Output.Title,
			Author:    m.cfg.Output.Author,
			Numbering: m.cfg.Output.TitleNumbering,
		}, logger)
		outputs, err := exporter.Export(ctx, ws, groups, m.progress(StageExport))
		summary.Outputs = outputs
		return len(outputs), err
	})
}

func (m *Manager) progress(stage string) func(done, total int) {
	return func(done, total int) {
		m.notifyProgress(stage, done, total)
	}
}

func (m *Manager) logGroups(logger *slog.Logger, groups []batch.Group) {
	ceiling := m.cfg.Output.MaxSize.Bytes()
	for i, group := range groups {
		attrs := []logging.Attr{
			logging.String(logging.FieldEventType, "group_planned"),
			logging.GroupOrdinal(i+1),
			logging.Int("first_unit", group.First()),
			logging.Int("last_unit", group.Last()),
			logging.Int64("bytes", group.Size),
		}
		if group.Size >= ceiling {
			logging.WarnWithContext(logger, "single issue exceeds size ceiling", "group_oversized", append(attrs,
				logging.UnitIndex(group.First()),
				logging.String(logging.FieldErrorHint, "raise max_size or lower page bounds/quality"),
				logging.String(logging.FieldImpact, "document will be larger than the requested maximum"),
			)...)
			continue
		}
		logger.Debug("group planned", logging.Args(attrs...)...)
	}
}

func (m *Manager) finish(logger *slog.Logger, summary Summary, start time.Time, err error) (Summary, error) {
	summary.Duration = time.Since(start)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Warn("run interrupted",
				logging.String(logging.FieldEventType, "run_interrupted"),
				logging.String(logging.FieldImpact, "no further documents written"),
			)
		}
		return summary, err
	}
	logger.Info(
		"run completed",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.Int("units", summary.Units),
		logging.Int("pages", summary.Pages),
		logging.Int("documents", len(summary.Outputs)),
		logging.String("output_dir", filepath.Clean(summary.OutputDir)),
	)
	return summary, nil
}
