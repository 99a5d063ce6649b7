package testsupport

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// WriteFile creates path, and its parent directories, holding exactly size
// filler bytes. A size <= 0 writes a single byte so the file is never empty.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, bytes.Repeat([]byte{'B'}, int(size)), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteUnit lays out one normalized unit directory with a page file per
// entry of sizes, named the way the normalizer names pages.
func WriteUnit(t testing.TB, dir string, sizes ...int64) {
	t.Helper()

	for i, size := range sizes {
		WriteFile(t, filepath.Join(dir, fmt.Sprintf("page_%04d.jpg", i)), size)
	}
}
