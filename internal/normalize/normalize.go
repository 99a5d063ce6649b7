package normalize

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"comicbatch/internal/logging"
	"comicbatch/internal/services"
	"comicbatch/internal/textutil"
)

const stageName = "normalize"

var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

// Options bounds every page and sets the JPEG encoding quality.
type Options struct {
	MaxWidth  int
	MaxHeight int
	Quality   int
}

// Resizer scales src into the bounding box described by opts and writes the
// result to dst.
type Resizer interface {
	Resize(ctx context.Context, src, dst string, opts Options) error
}

// Layout resolves the per-unit scratch subareas.
type Layout interface {
	RawDir(index int) string
	NormalizedDir(index int) string
}

// Unit reports the outcome of normalizing one unit.
type Unit struct {
	Index int
	Pages int
}

// ProgressFunc is called after each completed unit. Calls are serialized.
type ProgressFunc func(done, total int)

// Normalizer runs the Resizer over every page of every unit.
type Normalizer struct {
	resizer Resizer
	opts    Options
	workers int
	logger  *slog.Logger
}

// New constructs a Normalizer. workers below 1 is treated as 1.
func New(resizer Resizer, opts Options, workers int, logger *slog.Logger) *Normalizer {
	if workers < 1 {
		workers = 1
	}
	return &Normalizer{
		resizer: resizer,
		opts:    opts,
		workers: workers,
		logger:  logging.NewComponentLogger(logger, "normalizer"),
	}
}

// PageName returns the normalized file name for page n.
func PageName(n int) string {
	return fmt.Sprintf("page_%04d.jpg", n)
}

// IsImage reports whether name carries a supported image extension.
func IsImage(name string) bool {
	_, ok := imageExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

// Normalize processes units 0..count-1 and returns them in index order. The
// first failing page aborts the remaining work.
func (n *Normalizer) Normalize(ctx context.Context, layout Layout, count int, progress ProgressFunc) ([]Unit, error) {
	if n.resizer == nil {
		return nil, services.Wrap(services.ErrNormalization, stageName, "configure", "resizer unavailable", nil)
	}
	units := make([]Unit, count)

	var (
		mu   sync.Mutex
		done int
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(n.workers)
	for i := 0; i < count; i++ {
		group.Go(func() error {
			pages, err := n.normalizeUnit(groupCtx, layout, i)
			if err != nil {
				return err
			}
			units[i] = Unit{Index: i, Pages: pages}

			mu.Lock()
			defer mu.Unlock()
			done++
			if progress != nil {
				progress(done, count)
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return units, nil
}

func (n *Normalizer) normalizeUnit(ctx context.Context, layout Layout, index int) (int, error) {
	ctx = services.WithUnitIndex(ctx, index)
	logger := logging.WithContext(ctx, n.logger)

	srcDir := layout.RawDir(index)
	dstDir := layout.NormalizedDir(index)
	pages, err := ListPages(srcDir)
	if err != nil {
		return 0, services.Wrap(services.ErrNormalization, stageName, "list pages", srcDir, err)
	}
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return 0, services.Wrap(services.ErrNormalization, stageName, "create unit dir", dstDir, err)
	}

	for page, rel := range pages {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		src := filepath.Join(srcDir, rel)
		dst := filepath.Join(dstDir, PageName(page))
		if err := n.resizer.Resize(ctx, src, dst, n.opts); err != nil {
			return 0, services.Wrap(
				services.ErrNormalization,
				stageName,
				"resize",
				fmt.Sprintf("unit %s page %d (%s)", filepath.Base(srcDir), page, rel),
				err,
			)
		}
	}

	logger.Debug(
		"unit normalized",
		logging.String(logging.FieldEventType, "unit_normalized"),
		logging.Int("pages", len(pages)),
	)
	return len(pages), nil
}

// ListPages returns the image files below dir as relative paths in
// page order: case-folded base name first, relative path as tie-break.
func ListPages(dir string) ([]string, error) {
	var pages []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() || !IsImage(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		pages = append(pages, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	textutil.SortFoldBy(pages, filepath.Base, func(rel string) string { return rel })
	return pages, nil
}
