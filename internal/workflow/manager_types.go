package workflow

import (
	"time"

	"comicbatch/internal/export"
)

// Stage names, in pipeline order.
const (
	StagePreflight = "preflight"
	StageWorkspace = "workspace"
	StageDiscover  = "discover"
	StageExtract   = "extract"
	StageNormalize = "normalize"
	StageSize      = "size"
	StagePartition = "partition"
	StageExport    = "export"
)

// Request describes one pipeline run.
type Request struct {
	// InputDir holds the archives and hosts the scratch area.
	InputDir string
	// RunID correlates the run's log records. When empty the Manager
	// generates one and stamps it on its own records.
	RunID string
}

// Summary reports what a run produced.
type Summary struct {
	RunID     string
	InputDir  string
	OutputDir string
	Units     int
	Pages     int
	Groups    int
	Outputs   []export.Output
	Duration  time.Duration
	// WorkspaceKept is set when a failed run left its scratch area behind.
	WorkspaceKept string
}

// Observer receives progress notifications. The Manager never calls an
// Observer from more than one goroutine at a time.
type Observer interface {
	StageStarted(stage string, total int)
	StageProgress(stage string, done, total int)
	StageFinished(stage string, count int)
}

type nopObserver struct{}

func (nopObserver) StageStarted(string, int)       {}
func (nopObserver) StageProgress(string, int, int) {}
func (nopObserver) StageFinished(string, int)      {}
