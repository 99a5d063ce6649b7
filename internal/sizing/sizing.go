// Package sizing measures the on-disk footprint of normalized units.
package sizing

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"

	"comicbatch/internal/batch"
)

// DirSize returns the total size in bytes of all regular files below path.
// Directories and other non-regular entries contribute nothing.
func DirSize(path string) (int64, error) {
	var size int64
	err := filepath.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		size += info.Size()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("measure %s: %w", path, err)
	}
	return size, nil
}

// UnitSizes measures count units whose directories are resolved by dirFor
// and returns them in index order, ready for batch.Partition.
func UnitSizes(ctx context.Context, count int, dirFor func(int) string) ([]batch.Unit, error) {
	out := make([]batch.Unit, 0, count)
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		size, err := DirSize(dirFor(i))
		if err != nil {
			return nil, err
		}
		out = append(out, batch.Unit{Index: i, Size: size})
	}
	return out, nil
}
