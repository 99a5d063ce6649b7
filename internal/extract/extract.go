package extract

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"comicbatch/internal/logging"
	"comicbatch/internal/services"
	"comicbatch/internal/textutil"
)

const (
	stageName = "extract"

	// ArchiveExtension is the suffix recognized as a comic archive, ignoring case.
	ArchiveExtension = ".cbz"
)

// Archive is one discovered input archive.
type Archive struct {
	Index int
	Name  string
	Path  string
	Size  int64
}

// Unpacker expands an archive into destDir.
type Unpacker interface {
	Unpack(ctx context.Context, archivePath, destDir string) error
}

// Layout resolves the raw subarea for a unit index.
type Layout interface {
	RawDir(index int) string
}

// ProgressFunc is called after each archive is unpacked. Calls are serialized.
type ProgressFunc func(done, total int)

// Discover lists the archives directly inside dir in pipeline order.
// Subdirectories are not searched.
func Discover(dir string) ([]Archive, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, services.Wrap(services.ErrExtraction, stageName, "discover", dir, err)
	}

	var archives []Archive
	for _, entry := range entries {
		if entry.IsDir() || !textutil.HasSuffixFold(entry.Name(), ArchiveExtension) {
			continue
		}
		// Stat follows symlinks; dangling links and links to directories are skipped.
		info, err := os.Stat(filepath.Join(dir, entry.Name()))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, services.Wrap(services.ErrExtraction, stageName, "discover", entry.Name(), err)
		}
		if !info.Mode().IsRegular() {
			continue
		}
		archives = append(archives, Archive{
			Name: entry.Name(),
			Path: filepath.Join(dir, entry.Name()),
			Size: info.Size(),
		})
	}

	textutil.SortFoldBy(archives, func(a Archive) string { return a.Name })
	for i := range archives {
		archives[i].Index = i
	}
	return archives, nil
}

// Extractor unpacks archives into their indexed subareas.
type Extractor struct {
	unpacker Unpacker
	workers  int
	logger   *slog.Logger
}

// New constructs an Extractor. workers below 1 is treated as 1.
func New(unpacker Unpacker, workers int, logger *slog.Logger) *Extractor {
	if workers < 1 {
		workers = 1
	}
	return &Extractor{
		unpacker: unpacker,
		workers:  workers,
		logger:   logging.NewComponentLogger(logger, "extractor"),
	}
}

// Extract unpacks every archive into layout.RawDir(archive.Index) and returns
// the number of units produced. The first failure cancels outstanding work.
func (e *Extractor) Extract(ctx context.Context, layout Layout, archives []Archive, progress ProgressFunc) (int, error) {
	if e.unpacker == nil {
		return 0, services.Wrap(services.ErrExtraction, stageName, "configure", "unpacker unavailable", nil)
	}

	var (
		mu   sync.Mutex
		done int
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(e.workers)
	for _, archive := range archives {
		group.Go(func() error {
			if err := e.extractOne(groupCtx, layout, archive); err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			done++
			if progress != nil {
				progress(done, len(archives))
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return 0, err
	}
	return len(archives), nil
}

func (e *Extractor) extractOne(ctx context.Context, layout Layout, archive Archive) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ctx = services.WithUnitIndex(ctx, archive.Index)
	dest := layout.RawDir(archive.Index)
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return services.Wrap(services.ErrExtraction, stageName, "create unit dir", dest, err)
	}
	if err := e.unpacker.Unpack(ctx, archive.Path, dest); err != nil {
		return services.Wrap(services.ErrExtraction, stageName, "unpack", fmt.Sprintf("%s (unit %d)", archive.Name, archive.Index), err)
	}
	logging.WithContext(ctx, e.logger).Debug(
		"archive extracted",
		logging.String(logging.FieldEventType, "archive_extracted"),
		logging.String("archive", archive.Name),
		logging.Int64("archive_bytes", archive.Size),
	)
	return nil
}
