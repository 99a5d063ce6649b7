package testsupport

import (
	"archive/zip"
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"
)

// Entry is one file stored in a fixture archive.
type Entry struct {
	Name string
	Data []byte
}

// WriteCBZ writes a zip archive containing entries in the given order.
func WriteCBZ(t testing.TB, path string, entries ...Entry) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, entry := range entries {
		w, err := zw.Create(entry.Name)
		if err != nil {
			t.Fatalf("add %s to %s: %v", entry.Name, path, err)
		}
		if _, err := w.Write(entry.Data); err != nil {
			t.Fatalf("write %s to %s: %v", entry.Name, path, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close %s: %v", path, err)
	}
}

// JPEG returns an encoded width x height gradient image.
func JPEG(t testing.TB, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8((x * 255) / max(width, 1)),
				G: uint8((y * 255) / max(height, 1)),
				B: uint8(((x + y) * 7) % 256),
				A: 0xff,
			})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return buf.Bytes()
}

// WriteJPEG writes a width x height gradient JPEG to path.
func WriteJPEG(t testing.TB, path string, width, height int) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, JPEG(t, width, height), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// Issue builds archive entries holding pages JPEG pages plus a metadata file
// that the pipeline is expected to skip.
func Issue(t testing.TB, pages, width, height int) []Entry {
	t.Helper()

	entries := []Entry{{Name: "ComicInfo.xml", Data: []byte("<ComicInfo/>")}}
	for i := 0; i < pages; i++ {
		entries = append(entries, Entry{
			Name: fmt.Sprintf("pages/p%03d.jpg", i),
			Data: JPEG(t, width, height),
		})
	}
	return entries
}
