package main

import (
	"fmt"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"comicbatch/internal/config"
	"comicbatch/internal/logging"
	"comicbatch/internal/workflow"
)

type runFlags struct {
	prefix        string
	outputDir     string
	maxSize       string
	width         int
	height        int
	author        string
	title         string
	quality       int
	workers       int
	backend       string
	keepWorkspace bool
}

func (f *runFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.prefix, "output", "o", "", "Output filename prefix (default \"comic\")")
	flags.StringVarP(&f.outputDir, "output-dir", "d", "", "Directory for the PDFs (default: the input directory)")
	flags.StringVarP(&f.maxSize, "max-file-size", "m", "", "Maximum size of each PDF in bytes, or a size like 95MB (default 100000000)")
	flags.IntVarP(&f.width, "width", "x", 0, "Maximum page width in pixels (default 1600)")
	flags.IntVarP(&f.height, "height", "y", 0, "Maximum page height in pixels (default 2000)")
	flags.StringVarP(&f.author, "author", "a", "", "Author metadata for each PDF")
	flags.StringVarP(&f.title, "title", "t", "", "Title metadata for each PDF; an ordinal is appended")
	flags.IntVarP(&f.quality, "quality", "q", 0, "JPEG quality for scaled pages (default 60)")
	flags.IntVarP(&f.workers, "workers", "j", 0, "Issues processed in parallel (default 1)")
	flags.StringVar(&f.backend, "backend", "", "Imaging backend: native or external")
	flags.BoolVar(&f.keepWorkspace, "keep-workspace", false, "Keep the scratch directory when a run fails")
}

// apply copies explicitly set flags over cfg and re-validates it.
func (f *runFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.Output.Prefix = f.prefix
	}
	if flags.Changed("output-dir") {
		cfg.Output.Dir = f.outputDir
	}
	if flags.Changed("max-file-size") {
		size, err := config.ParseByteSize(f.maxSize)
		if err != nil {
			return fmt.Errorf("--max-file-size: %w", err)
		}
		cfg.Output.MaxSize = size
	}
	if flags.Changed("width") {
		cfg.Pages.MaxWidth = f.width
	}
	if flags.Changed("height") {
		cfg.Pages.MaxHeight = f.height
	}
	if flags.Changed("author") {
		cfg.Output.Author = f.author
	}
	if flags.Changed("title") {
		cfg.Output.Title = f.title
	}
	if flags.Changed("quality") {
		cfg.Pages.Quality = f.quality
	}
	if flags.Changed("workers") {
		cfg.Processing.Workers = f.workers
	}
	if flags.Changed("backend") {
		cfg.Processing.Backend = f.backend
	}
	if flags.Changed("keep-workspace") {
		cfg.Workspace.KeepOnFailure = f.keepWorkspace
	}
	return cfg.Finalize()
}

func runConvert(cmd *cobra.Command, ctx *commandContext, flags *runFlags, inputDir string) error {
	loaded, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	cfg := *loaded
	if err := flags.apply(cmd, &cfg); err != nil {
		return err
	}

	runID := uuid.NewString()
	logger, err := logging.NewFromConfig(&cfg, runID, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	observer := newObserver(out)
	manager, err := workflow.NewManager(&cfg, logger, workflow.WithObserver(observer))
	if err != nil {
		return err
	}

	summary, err := manager.Run(runCtx, workflow.Request{InputDir: inputDir, RunID: runID})
	observer.Close()
	if err != nil {
		if summary.WorkspaceKept != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Scratch directory kept at %s\n", summary.WorkspaceKept)
		}
		return err
	}

	switch {
	case summary.Units == 0:
		fmt.Fprintf(out, "No .cbz archives found in %s\n", summary.InputDir)
		return nil
	case len(summary.Outputs) == 0:
		fmt.Fprintf(out, "No pages found in %d issues; nothing exported\n", summary.Units)
		return nil
	}
	fmt.Fprintln(out, renderSummary(summary))
	fmt.Fprintf(out, "Finished in %s\n", summary.Duration.Round(timeRounding))
	return nil
}

func renderSummary(summary workflow.Summary) string {
	docs := newReport(
		column{title: "#", numeric: true},
		column{title: "File"},
		column{title: "Issues", numeric: true},
		column{title: "Pages", numeric: true},
		column{title: "Size", numeric: true},
	)
	var total int64
	for _, output := range summary.Outputs {
		docs.row(
			strconv.Itoa(output.Ordinal),
			filepath.Base(output.Path),
			issueRange(output.Units),
			strconv.Itoa(output.Pages),
			humanize.Bytes(uint64(output.Size)),
		)
		total += output.Size
	}
	docs.totals("", fmt.Sprintf("%d PDFs", len(summary.Outputs)), strconv.Itoa(summary.Units), strconv.Itoa(summary.Pages), humanize.Bytes(uint64(total)))
	return docs.String()
}

// issueRange renders member unit indices as one-based issue numbers.
func issueRange(units []int) string {
	switch len(units) {
	case 0:
		return ""
	case 1:
		return strconv.Itoa(units[0] + 1)
	default:
		return fmt.Sprintf("%d-%d", units[0]+1, units[len(units)-1]+1)
	}
}
