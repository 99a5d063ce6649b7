package extract_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"

	"comicbatch/internal/extract"
	"comicbatch/internal/services"
	"comicbatch/internal/services/cbz"
	"comicbatch/internal/testsupport"
	"comicbatch/internal/workspace"
)

type stubUnpacker struct {
	mu    sync.Mutex
	calls map[string]string
	fail  string
}

func (s *stubUnpacker) Unpack(_ context.Context, archivePath, destDir string) error {
	s.mu.Lock()
	if s.calls == nil {
		s.calls = make(map[string]string)
	}
	s.calls[filepath.Base(archivePath)] = destDir
	s.mu.Unlock()
	if s.fail != "" && filepath.Base(archivePath) == s.fail {
		return errors.New("zip: not a valid zip file")
	}
	return os.WriteFile(filepath.Join(destDir, "01.jpg"), []byte(filepath.Base(archivePath)), 0o644)
}

func names(archives []extract.Archive) []string {
	out := make([]string, len(archives))
	for i, a := range archives {
		out[i] = a.Name
	}
	return out
}

func TestDiscoverSortsCaseInsensitively(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.cbz", "A.cbz", "c.CBZ", "notes.txt", "d.cbr"} {
		testsupport.WriteFile(t, filepath.Join(dir, name), 10)
	}
	testsupport.WriteFile(t, filepath.Join(dir, "nested", "e.cbz"), 10)

	archives, err := extract.Discover(dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if got, want := names(archives), []string{"A.cbz", "b.cbz", "c.CBZ"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Discover = %v, want %v", got, want)
	}
	for i, a := range archives {
		if a.Index != i {
			t.Fatalf("archive %s has index %d, want %d", a.Name, a.Index, i)
		}
		if a.Size != 10 {
			t.Fatalf("archive %s has size %d", a.Name, a.Size)
		}
		if a.Path != filepath.Join(dir, a.Name) {
			t.Fatalf("unexpected path %s", a.Path)
		}
	}
}

func TestDiscoverFollowsSymlinks(t *testing.T) {
	dir := t.TempDir()
	elsewhere := t.TempDir()
	target := filepath.Join(elsewhere, "real.cbz")
	testsupport.WriteFile(t, target, 25)
	if err := os.Symlink(target, filepath.Join(dir, "linked.cbz")); err != nil {
		t.Fatalf("symlink: %v", err)
	}
	if err := os.Symlink(filepath.Join(elsewhere, "gone.cbz"), filepath.Join(dir, "dangling.cbz")); err != nil {
		t.Fatalf("symlink: %v", err)
	}
	if err := os.Symlink(elsewhere, filepath.Join(dir, "folder.cbz")); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	archives, err := extract.Discover(dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if got, want := names(archives), []string{"linked.cbz"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Discover = %v, want %v", got, want)
	}
	if archives[0].Size != 25 {
		t.Fatalf("expected size of link target, got %d", archives[0].Size)
	}
}

func TestDiscoverIsStable(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"Issue 10.cbz", "issue 02.cbz", "ISSUE 01.cbz", "issue 01.cbz"} {
		testsupport.WriteFile(t, filepath.Join(dir, name), 1)
	}
	first, err := extract.Discover(dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	second, err := extract.Discover(dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("discovery not stable: %v vs %v", names(first), names(second))
	}
	if got, want := names(first), []string{"ISSUE 01.cbz", "issue 01.cbz", "issue 02.cbz", "Issue 10.cbz"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Discover = %v, want %v", got, want)
	}
}

func TestDiscoverEmptyDirectory(t *testing.T) {
	archives, err := extract.Discover(t.TempDir())
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(archives) != 0 {
		t.Fatalf("expected no archives, got %v", names(archives))
	}
}

func TestDiscoverMissingDirectory(t *testing.T) {
	_, err := extract.Discover(filepath.Join(t.TempDir(), "missing"))
	if !errors.Is(err, services.ErrExtraction) {
		t.Fatalf("expected extraction error, got %v", err)
	}
}

func TestExtractUsesIndexedSubareas(t *testing.T) {
	input := t.TempDir()
	for _, name := range []string{"b.cbz", "a.cbz"} {
		testsupport.WriteFile(t, filepath.Join(input, name), 1)
	}
	ws, err := workspace.Initialize(input, ".comicbatch")
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	t.Cleanup(func() { _ = ws.Teardown() })

	archives, err := extract.Discover(input)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	unpacker := &stubUnpacker{}
	var progress []int
	count, err := extract.New(unpacker, 1, nil).Extract(context.Background(), ws, archives, func(done, total int) {
		progress = append(progress, done)
		if total != 2 {
			t.Errorf("unexpected total %d", total)
		}
	})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 units, got %d", count)
	}
	if unpacker.calls["a.cbz"] != ws.RawDir(0) || unpacker.calls["b.cbz"] != ws.RawDir(1) {
		t.Fatalf("unexpected destinations %v", unpacker.calls)
	}
	if !reflect.DeepEqual(progress, []int{1, 2}) {
		t.Fatalf("unexpected progress %v", progress)
	}
}

func TestExtractFailureIsClassified(t *testing.T) {
	input := t.TempDir()
	for _, name := range []string{"a.cbz", "b.cbz", "c.cbz"} {
		testsupport.WriteFile(t, filepath.Join(input, name), 1)
	}
	ws, err := workspace.Initialize(input, ".comicbatch")
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	t.Cleanup(func() { _ = ws.Teardown() })

	archives, _ := extract.Discover(input)
	_, err = extract.New(&stubUnpacker{fail: "b.cbz"}, 2, nil).Extract(context.Background(), ws, archives, nil)
	if !errors.Is(err, services.ErrExtraction) {
		t.Fatalf("expected extraction error, got %v", err)
	}
	if !strings.Contains(err.Error(), "b.cbz") {
		t.Fatalf("expected failing archive in message, got %v", err)
	}
}

func TestExtractRealArchives(t *testing.T) {
	input := t.TempDir()
	testsupport.WriteCBZ(t, filepath.Join(input, "one.cbz"), testsupport.Issue(t, 2, 8, 8)...)
	testsupport.WriteCBZ(t, filepath.Join(input, "two.cbz"), testsupport.Issue(t, 3, 8, 8)...)
	ws, err := workspace.Initialize(input, ".comicbatch")
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	t.Cleanup(func() { _ = ws.Teardown() })

	archives, err := extract.Discover(input)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if _, err := extract.New(cbz.New(), 2, nil).Extract(context.Background(), ws, archives, nil); err != nil {
		t.Fatalf("Extract: %v", err)
	}
	entries, err := os.ReadDir(filepath.Join(ws.RawDir(1), "pages"))
	if err != nil {
		t.Fatalf("read extracted pages: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 extracted pages for two.cbz, got %d", len(entries))
	}
	if _, err := os.Stat(filepath.Join(ws.RawDir(0), "ComicInfo.xml")); err != nil {
		t.Fatalf("expected metadata preserved in raw area: %v", err)
	}
}
