package imaging_test

import (
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"comicbatch/internal/normalize"
	"comicbatch/internal/services/imaging"
	"comicbatch/internal/testsupport"
)

func TestFit(t *testing.T) {
	tests := []struct {
		name             string
		w, h, maxW, maxH int
		wantW, wantH     int
	}{
		{name: "inside box", w: 800, h: 1200, maxW: 1600, maxH: 2000, wantW: 800, wantH: 1200},
		{name: "width bound", w: 3200, h: 2000, maxW: 1600, maxH: 2000, wantW: 1600, wantH: 1000},
		{name: "height bound", w: 1000, h: 4000, maxW: 1600, maxH: 2000, wantW: 500, wantH: 2000},
		{name: "both bound", w: 4000, h: 4000, maxW: 1600, maxH: 2000, wantW: 1600, wantH: 1600},
		{name: "exact box", w: 1600, h: 2000, maxW: 1600, maxH: 2000, wantW: 1600, wantH: 2000},
		{name: "unbounded", w: 5000, h: 7000, maxW: 0, maxH: 0, wantW: 5000, wantH: 7000},
		{name: "thin strip", w: 10000, h: 1, maxW: 100, maxH: 100, wantW: 100, wantH: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := imaging.Fit(tt.w, tt.h, tt.maxW, tt.maxH)
			if w != tt.wantW || h != tt.wantH {
				t.Fatalf("Fit(%d,%d,%d,%d) = %dx%d, want %dx%d", tt.w, tt.h, tt.maxW, tt.maxH, w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestResizeShrinksIntoBox(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "src.jpg")
	dst := filepath.Join(tmp, "out", "page_0000.jpg")
	testsupport.WriteJPEG(t, src, 400, 200)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	opts := normalize.Options{MaxWidth: 100, MaxHeight: 100, Quality: 60}
	if err := imaging.New().Resize(context.Background(), src, dst, opts); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	cfg := decodeConfig(t, dst)
	if cfg.Width != 100 || cfg.Height != 50 {
		t.Fatalf("expected 100x50, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestResizeNeverUpscales(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "small.jpg")
	dst := filepath.Join(tmp, "page_0000.jpg")
	testsupport.WriteJPEG(t, src, 40, 60)

	if err := imaging.New().Resize(context.Background(), src, dst, normalize.Options{MaxWidth: 1600, MaxHeight: 2000, Quality: 60}); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	cfg := decodeConfig(t, dst)
	if cfg.Width != 40 || cfg.Height != 60 {
		t.Fatalf("expected original 40x60, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestResizeConvertsPNGToJPEG(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "page.png")
	img := image.NewNRGBA(image.Rect(0, 0, 30, 30))
	for y := 0; y < 30; y++ {
		for x := 0; x < 30; x++ {
			img.Set(x, y, color.NRGBA{R: 200, A: uint8(x * 8)})
		}
	}
	f, err := os.Create(src)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	f.Close()

	dst := filepath.Join(tmp, "page_0000.jpg")
	if err := imaging.New().Resize(context.Background(), src, dst, normalize.Options{MaxWidth: 10, MaxHeight: 10, Quality: 80}); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	in, err := os.Open(dst)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer in.Close()
	if _, err := jpeg.Decode(in); err != nil {
		t.Fatalf("output is not a jpeg: %v", err)
	}
}

func TestResizeRejectsNonImage(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "bogus.jpg")
	if err := os.WriteFile(src, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	dst := filepath.Join(tmp, "page_0000.jpg")
	if err := imaging.New().Resize(context.Background(), src, dst, normalize.Options{MaxWidth: 10, MaxHeight: 10, Quality: 60}); err == nil {
		t.Fatal("expected decode error")
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Fatalf("expected no output for failed page, err=%v", err)
	}
}

func decodeConfig(t *testing.T, path string) image.Config {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	cfg, err := jpeg.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return cfg
}
