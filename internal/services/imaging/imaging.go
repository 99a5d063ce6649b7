// Package imaging scales page images into a bounding box and re-encodes them
// as JPEG.
package imaging

import (
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"os"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"comicbatch/internal/fileutil"
	"comicbatch/internal/normalize"
)

// Resizer is the built-in page resizer.
type Resizer struct {
	scaler draw.Scaler
}

// New returns a resizer using Catmull-Rom resampling.
func New() *Resizer {
	return &Resizer{scaler: draw.CatmullRom}
}

// Resize decodes src, shrinks it to fit within the bounding box in opts while
// keeping its aspect ratio, and writes a JPEG to dst. Images already inside
// the box keep their dimensions.
func (r *Resizer) Resize(ctx context.Context, src, dst string, opts normalize.Options) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open page: %w", err)
	}
	img, format, err := image.Decode(in)
	in.Close()
	if err != nil {
		return fmt.Errorf("decode %s: %w", src, err)
	}

	bounds := img.Bounds()
	width, height := Fit(bounds.Dx(), bounds.Dy(), opts.MaxWidth, opts.MaxHeight)
	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	if width == bounds.Dx() && height == bounds.Dy() {
		draw.Draw(canvas, canvas.Bounds(), img, bounds.Min, draw.Over)
	} else {
		r.scaler.Scale(canvas, canvas.Bounds(), img, bounds, draw.Over, nil)
	}

	quality := opts.Quality
	if quality <= 0 || quality > 100 {
		quality = jpeg.DefaultQuality
	}
	return fileutil.WriteAtomic(dst, func(tmp string) error {
		out, err := os.Create(tmp)
		if err != nil {
			return err
		}
		if err := jpeg.Encode(out, canvas, &jpeg.Options{Quality: quality}); err != nil {
			out.Close()
			return fmt.Errorf("encode %s page as jpeg: %w", format, err)
		}
		return out.Close()
	})
}

// Fit returns the largest dimensions no greater than width x height that fit
// inside maxWidth x maxHeight with the same aspect ratio. Non-positive bounds
// leave that axis unconstrained.
func Fit(width, height, maxWidth, maxHeight int) (int, int) {
	if width <= 0 || height <= 0 {
		return width, height
	}
	scale := 1.0
	if maxWidth > 0 && width > maxWidth {
		scale = float64(maxWidth) / float64(width)
	}
	if maxHeight > 0 && height > maxHeight {
		scale = min(scale, float64(maxHeight)/float64(height))
	}
	if scale >= 1 {
		return width, height
	}
	w := max(int(float64(width)*scale+0.5), 1)
	h := max(int(float64(height)*scale+0.5), 1)
	if maxWidth > 0 {
		w = min(w, maxWidth)
	}
	if maxHeight > 0 {
		h = min(h, maxHeight)
	}
	return w, h
}
