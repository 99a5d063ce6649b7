// Package pdf assembles page images into a PDF document, one image per page.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"comicbatch/internal/export"
	"comicbatch/internal/fileutil"
)

// PixelsPerInch maps image pixels to page points (72 per inch).
const PixelsPerInch = 96.0

const creator = "comicbatch"

// Assembler writes documents with gofpdf.
type Assembler struct {
	ppi float64
}

// New returns an Assembler that sizes each page to its image at PixelsPerInch.
func New() *Assembler {
	return &Assembler{ppi: PixelsPerInch}
}

// Assemble writes pages, in order, to outputPath. The document appears under
// outputPath only once it has been written completely.
func (a *Assembler) Assemble(ctx context.Context, outputPath string, pages []string, meta export.Metadata) error {
	if len(pages) == 0 {
		return errors.New("no pages to assemble")
	}

	doc := gofpdf.NewCustom(&gofpdf.InitType{UnitStr: "pt"})
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	doc.SetCompression(false)
	doc.SetCreator(creator, true)
	if meta.Title != "" {
		doc.SetTitle(meta.Title, true)
	}
	if meta.Author != "" {
		doc.SetAuthor(meta.Author, true)
	}

	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		width, height, imageType, err := a.pageSize(page)
		if err != nil {
			return err
		}
		doc.AddPageFormat("P", gofpdf.SizeType{Wd: width, Ht: height})
		doc.ImageOptions(page, 0, 0, width, height, false, gofpdf.ImageOptions{ImageType: imageType}, 0, "")
		if err := doc.Error(); err != nil {
			return fmt.Errorf("add page %s: %w", filepath.Base(page), err)
		}
	}

	return fileutil.WriteAtomic(outputPath, func(tmp string) error {
		if err := doc.OutputFileAndClose(tmp); err != nil {
			return fmt.Errorf("write document: %w", err)
		}
		return nil
	})
}

func (a *Assembler) pageSize(path string) (float64, float64, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, "", fmt.Errorf("open page: %w", err)
	}
	defer f.Close()
	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, "", fmt.Errorf("inspect %s: %w", filepath.Base(path), err)
	}
	var imageType string
	switch format {
	case "jpeg":
		imageType = "JPG"
	case "png":
		imageType = "PNG"
	default:
		return 0, 0, "", fmt.Errorf("unsupported page format %q for %s", format, filepath.Base(path))
	}
	scale := 72.0 / a.ppi
	return float64(cfg.Width) * scale, float64(cfg.Height) * scale, imageType, nil
}
