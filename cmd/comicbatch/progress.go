package main

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"

	"comicbatch/internal/workflow"
)

const timeRounding = 100 * time.Millisecond

// runObserver is a workflow.Observer that must be closed when the run ends,
// whether or not every stage finished.
type runObserver interface {
	workflow.Observer
	Close()
}

// newObserver picks a progress bar for terminals and plain lines otherwise.
func newObserver(out io.Writer) runObserver {
	plain := &plainObserver{out: out}
	if !shouldColorize(out) {
		return plain
	}
	return &barObserver{plainObserver: plain}
}

// plainObserver prints one line per stage transition and per scaled issue.
type plainObserver struct {
	out io.Writer
}

func (o *plainObserver) StageStarted(stage string, _ int) {
	switch stage {
	case workflow.StageExtract:
		fmt.Fprintln(o.out, "Extracting pages...")
	case workflow.StageNormalize:
		fmt.Fprintln(o.out, "Scaling pages...")
	case workflow.StagePartition:
		fmt.Fprintln(o.out, "Grouping issues...")
	case workflow.StageExport:
		fmt.Fprintln(o.out, "Exporting PDFs...")
	}
}

func (o *plainObserver) StageProgress(stage string, done, total int) {
	switch stage {
	case workflow.StageNormalize:
		fmt.Fprintf(o.out, "...%d/%d issues scaled\n", done, total)
	case workflow.StageExport:
		fmt.Fprintf(o.out, "...%d/%d PDFs exported\n", done, total)
	}
}

func (o *plainObserver) StageFinished(stage string, count int) {
	switch stage {
	case workflow.StageExtract:
		fmt.Fprintf(o.out, "Extracted %d issues.\n", count)
	case workflow.StageNormalize:
		fmt.Fprintln(o.out, "Scaled pages.")
	case workflow.StagePartition:
		fmt.Fprintln(o.out, "Grouped issues.")
	case workflow.StageExport:
		fmt.Fprintf(o.out, "Exported %d PDFs.\n", count)
	}
}

func (o *plainObserver) Close() {}

// barObserver replaces per-item lines with a progress bar.
type barObserver struct {
	*plainObserver
	bar *progressbar.ProgressBar
}

func (o *barObserver) StageStarted(stage string, total int) {
	o.plainObserver.StageStarted(stage, total)
	label := barLabel(stage)
	if label == "" || total <= 0 {
		return
	}
	o.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(o.out),
		progressbar.OptionSetDescription(label),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionClearOnFinish(),
	)
}

func (o *barObserver) StageProgress(stage string, done, total int) {
	if o.bar == nil {
		o.plainObserver.StageProgress(stage, done, total)
		return
	}
	_ = o.bar.Set(done)
}

func (o *barObserver) StageFinished(stage string, count int) {
	if o.bar != nil {
		_ = o.bar.Finish()
		o.bar = nil
	}
	o.plainObserver.StageFinished(stage, count)
}

// Close drops a bar left active by a failed stage so later output starts on a
// clean line.
func (o *barObserver) Close() {
	if o.bar == nil {
		return
	}
	_ = o.bar.Exit()
	_ = o.bar.Clear()
	o.bar = nil
}

func barLabel(stage string) string {
	switch stage {
	case workflow.StageExtract:
		return "extracting"
	case workflow.StageNormalize:
		return "scaling"
	case workflow.StageExport:
		return "exporting"
	default:
		return ""
	}
}
