package fileutil_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"comicbatch/internal/fileutil"
)

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.jpg")
	dst := filepath.Join(dir, "dst.jpg")
	if err := os.WriteFile(src, []byte("page"), 0o600); err != nil {
		t.Fatalf("write src: %v", err)
	}
	if err := fileutil.CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile: %v", err)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read dst: %v", err)
	}
	if string(got) != "page" {
		t.Fatalf("unexpected content %q", got)
	}
}

func TestCopyFileMissingSource(t *testing.T) {
	dir := t.TempDir()
	if err := fileutil.CopyFile(filepath.Join(dir, "missing"), filepath.Join(dir, "dst")); err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestLinkOrCopy(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "page_0000.jpg")
	if err := os.WriteFile(src, []byte("jpeg"), 0o644); err != nil {
		t.Fatalf("write src: %v", err)
	}
	dst := filepath.Join(dir, "000000_page_0000.jpg")
	if err := fileutil.LinkOrCopy(src, dst); err != nil {
		t.Fatalf("LinkOrCopy: %v", err)
	}
	if err := os.Remove(dst); err != nil {
		t.Fatalf("remove staged copy: %v", err)
	}
	if got, err := os.ReadFile(src); err != nil || string(got) != "jpeg" {
		t.Fatalf("source changed after removing staged copy: %q err=%v", got, err)
	}
	if err := fileutil.LinkOrCopy(filepath.Join(dir, "missing"), dst); err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestWriteAtomicCommits(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "comic_001.pdf")
	err := fileutil.WriteAtomic(dst, func(tmp string) error {
		if filepath.Dir(tmp) != filepath.Dir(dst) {
			t.Fatalf("temp file %q outside target dir", tmp)
		}
		return os.WriteFile(tmp, []byte("%PDF"), 0o600)
	})
	if err != nil {
		t.Fatalf("WriteAtomic: %v", err)
	}
	got, err := os.ReadFile(dst)
	if err != nil || string(got) != "%PDF" {
		t.Fatalf("unexpected dst content %q err=%v", got, err)
	}
}

func TestWriteAtomicLeavesNothingOnFailure(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "comic_001.pdf")
	boom := errors.New("boom")
	err := fileutil.WriteAtomic(dst, func(tmp string) error {
		_ = os.WriteFile(tmp, []byte("half"), 0o600)
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty dir, found %d entries", len(entries))
	}
}
