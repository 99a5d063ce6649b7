package external

import (
	"context"
	"errors"
	"strings"

	"comicbatch/internal/export"
	"comicbatch/internal/fileutil"
	"comicbatch/internal/services"
)

// Assembler builds documents with img2pdf.
type Assembler struct {
	binary string
	opts   options
}

// NewAssembler constructs an img2pdf-backed Assembler.
func NewAssembler(binary string, opts ...Option) (*Assembler, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("img2pdf binary required")
	}
	return &Assembler{binary: binary, opts: buildOptions(opts)}, nil
}

// AssembleArgs returns the img2pdf arguments for one document. Optional
// metadata flags are omitted when empty.
func AssembleArgs(outputPath string, pages []string, meta export.Metadata) []string {
	args := []string{"--output", outputPath}
	if meta.Title != "" {
		args = append(args, "--title", meta.Title)
	}
	if meta.Author != "" {
		args = append(args, "--author", meta.Author)
	}
	return append(args, pages...)
}

// Assemble implements export.Assembler.
func (a *Assembler) Assemble(ctx context.Context, outputPath string, pages []string, meta export.Metadata) error {
	if len(pages) == 0 {
		return errors.New("no pages to assemble")
	}
	return fileutil.WriteAtomic(outputPath, func(tmp string) error {
		if err := a.opts.exec.Run(ctx, a.binary, AssembleArgs(tmp, pages, meta), a.opts.onOutput); err != nil {
			return services.Wrap(services.ErrExternalTool, "export", "img2pdf", outputPath, err)
		}
		return nil
	})
}
