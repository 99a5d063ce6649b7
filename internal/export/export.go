package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"comicbatch/internal/batch"
	"comicbatch/internal/fileutil"
	"comicbatch/internal/logging"
	"comicbatch/internal/services"
)

const stageName = "export"

// Title numbering modes.
const (
	NumberAlways   = "always"
	NumberMultiple = "multiple"
)

// Metadata is the document-level information passed to the Assembler.
type Metadata struct {
	Title  string
	Author string
}

// Assembler writes pages, in the given order, into a document at outputPath.
type Assembler interface {
	Assemble(ctx context.Context, outputPath string, pages []string, meta Metadata) error
}

// Layout exposes the scratch areas the exporter reads and writes.
type Layout interface {
	NormalizedDir(index int) string
	ResetPages() (string, error)
}

// Options controls naming and metadata of exported documents.
type Options struct {
	Dir       string
	Prefix    string
	Title     string
	Author    string
	Numbering string
}

// Output describes one written document.
type Output struct {
	Ordinal int
	Path    string
	Units   []int
	Pages   int
	Size    int64
	Title   string
}

// ProgressFunc is called after each document is written.
type ProgressFunc func(done, total int)

// Exporter writes one document per group, sequentially.
type Exporter struct {
	assembler Assembler
	opts      Options
	logger    *slog.Logger
}

// New constructs an Exporter.
func New(assembler Assembler, opts Options, logger *slog.Logger) *Exporter {
	if opts.Numbering == "" {
		opts.Numbering = NumberAlways
	}
	return &Exporter{
		assembler: assembler,
		opts:      opts,
		logger:    logging.NewComponentLogger(logger, "exporter"),
	}
}

// OutputPath returns the document path for the 1-based ordinal.
func OutputPath(dir, prefix string, ordinal int) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%03d.pdf", prefix, ordinal))
}

// Title returns the document title for ordinal out of total groups. An empty
// base yields an empty title.
func Title(base, numbering string, ordinal, total int) string {
	if base == "" {
		return ""
	}
	if numbering == NumberMultiple && total <= 1 {
		return base
	}
	return fmt.Sprintf("%s %d", base, ordinal)
}

// StagedName returns the staging file name for the seq-th page of a group.
func StagedName(seq int, pageFile string) string {
	return fmt.Sprintf("%06d_%s", seq, pageFile)
}

// Export writes every group in order. Ordinals start at 1 and count only the
// documents actually written; a group whose units hold no pages is skipped.
func (e *Exporter) Export(ctx context.Context, layout Layout, groups []batch.Group, progress ProgressFunc) ([]Output, error) {
	if e.assembler == nil {
		return nil, services.Wrap(services.ErrExport, stageName, "configure", "assembler unavailable", nil)
	}
	pageCounts := make([]int, len(groups))
	documents := 0
	for i, group := range groups {
		count, err := countPages(layout, group.Units)
		if err != nil {
			return nil, services.Wrap(services.ErrExport, stageName, "count pages", fmt.Sprintf("group %d", i+1), err)
		}
		pageCounts[i] = count
		if count > 0 {
			documents++
		}
	}

	outputs := make([]Output, 0, documents)
	for i, group := range groups {
		if err := ctx.Err(); err != nil {
			return outputs, err
		}
		if pageCounts[i] == 0 {
			logging.WarnWithContext(e.logger, "group has no pages", "group_empty",
				logging.UnitIndex(group.First()),
				logging.Int("last_unit", group.Last()),
				logging.String(logging.FieldErrorHint, "check that the archives contain image files"),
				logging.String(logging.FieldImpact, "no document written for these issues"),
			)
		} else {
			output, err := e.exportGroup(ctx, layout, group, len(outputs)+1, documents)
			if err != nil {
				return outputs, err
			}
			outputs = append(outputs, output)
		}
		if progress != nil {
			progress(i+1, len(groups))
		}
	}
	return outputs, nil
}

func (e *Exporter) exportGroup(ctx context.Context, layout Layout, group batch.Group, ordinal, total int) (Output, error) {
	ctx = services.WithGroupOrdinal(ctx, ordinal)
	logger := logging.WithContext(ctx, e.logger)

	staging, err := layout.ResetPages()
	if err != nil {
		return Output{}, err
	}
	if err := Stage(layout, staging, group.Units); err != nil {
		return Output{}, services.Wrap(services.ErrExport, stageName, "stage pages", fmt.Sprintf("group %d", ordinal), err)
	}
	pages, err := regularFiles(staging)
	if err != nil {
		return Output{}, services.Wrap(services.ErrExport, stageName, "list pages", staging, err)
	}
	for i, name := range pages {
		pages[i] = filepath.Join(staging, name)
	}

	output := Output{
		Ordinal: ordinal,
		Path:    OutputPath(e.opts.Dir, e.opts.Prefix, ordinal),
		Units:   append([]int(nil), group.Units...),
		Pages:   len(pages),
		Title:   Title(e.opts.Title, e.opts.Numbering, ordinal, total),
	}
	meta := Metadata{Title: output.Title, Author: e.opts.Author}
	if err := e.assembler.Assemble(ctx, output.Path, pages, meta); err != nil {
		return Output{}, services.Wrap(services.ErrExport, stageName, "assemble", output.Path, err)
	}
	if info, err := os.Stat(output.Path); err == nil {
		output.Size = info.Size()
	}

	logger.Info(
		"document written",
		logging.String(logging.FieldEventType, "document_written"),
		logging.String("path", output.Path),
		logging.Int("first_unit", group.First()),
		logging.Int("last_unit", group.Last()),
		logging.Int("pages", output.Pages),
		logging.Int64("bytes", output.Size),
	)
	return output, nil
}

// Stage copies the pages of units, in order, into staging with a running
// group-wide prefix.
func Stage(layout Layout, staging string, units []int) error {
	seq := 0
	for _, unit := range units {
		dir := layout.NormalizedDir(unit)
		names, err := regularFiles(dir)
		if err != nil {
			return err
		}
		for _, name := range names {
			if err := fileutil.LinkOrCopy(filepath.Join(dir, name), filepath.Join(staging, StagedName(seq, name))); err != nil {
				return fmt.Errorf("stage unit %d page %s: %w", unit, name, err)
			}
			seq++
		}
	}
	return nil
}

func countPages(layout Layout, units []int) (int, error) {
	total := 0
	for _, unit := range units {
		names, err := regularFiles(layout.NormalizedDir(unit))
		if err != nil {
			return 0, err
		}
		total += len(names)
	}
	return total, nil
}

// regularFiles returns the names of the regular files in dir in page order.
func regularFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			names = append(names, entry.Name())
		}
	}
	sortPages(names)
	return names, nil
}
