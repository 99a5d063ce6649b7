package external

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"comicbatch/internal/normalize"
	"comicbatch/internal/services"
)

// Resizer scales pages with ImageMagick.
type Resizer struct {
	binary string
	opts   options
}

// NewResizer constructs a convert-backed Resizer.
func NewResizer(binary string, opts ...Option) (*Resizer, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("convert binary required")
	}
	return &Resizer{binary: binary, opts: buildOptions(opts)}, nil
}

// ResizeArgs returns the convert arguments for one page. The trailing '>'
// on the geometry only ever shrinks the page.
func ResizeArgs(src, dst string, opts normalize.Options) []string {
	return []string{
		src,
		"-quality", strconv.Itoa(opts.Quality),
		"-resize", fmt.Sprintf("%dx%d>", opts.MaxWidth, opts.MaxHeight),
		"jpg:" + dst,
	}
}

// Resize implements normalize.Resizer.
func (r *Resizer) Resize(ctx context.Context, src, dst string, opts normalize.Options) error {
	if err := r.opts.exec.Run(ctx, r.binary, ResizeArgs(src, dst, opts), r.opts.onOutput); err != nil {
		return services.Wrap(services.ErrExternalTool, "normalize", "convert", src, err)
	}
	return nil
}
