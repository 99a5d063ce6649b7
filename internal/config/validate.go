package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateOutput(); err != nil {
		return err
	}
	if err := c.validatePages(); err != nil {
		return err
	}
	if err := c.validateProcessing(); err != nil {
		return err
	}
	if err := c.validateWorkspace(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateOutput() error {
	if strings.TrimSpace(c.Output.Prefix) == "" {
		return errors.New("output.prefix must be set")
	}
	if c.Output.MaxSize <= 0 {
		return errors.New("output.max_size must be positive")
	}
	switch c.Output.TitleNumbering {
	case TitleNumberingAlways, TitleNumberingMultiple:
	default:
		return fmt.Errorf("output.title_numbering must be %q or %q, got %q", TitleNumberingAlways, TitleNumberingMultiple, c.Output.TitleNumbering)
	}
	return nil
}

func (c *Config) validatePages() error {
	if err := ensurePositiveMap(map[string]int{
		"pages.max_width":  c.Pages.MaxWidth,
		"pages.max_height": c.Pages.MaxHeight,
	}); err != nil {
		return err
	}
	if c.Pages.Quality < 1 || c.Pages.Quality > 100 {
		return errors.New("pages.quality must be between 1 and 100")
	}
	return nil
}

func (c *Config) validateProcessing() error {
	if c.Processing.Workers < 1 || c.Processing.Workers > maxWorkers {
		return fmt.Errorf("processing.workers must be between 1 and %d", maxWorkers)
	}
	switch c.Processing.Backend {
	case BackendNative:
	case BackendExternal:
		if c.ConvertBinary() == "" {
			return errors.New("processing.convert_binary must be set when processing.backend is external")
		}
		if c.Img2PDFBinary() == "" {
			return errors.New("processing.img2pdf_binary must be set when processing.backend is external")
		}
	default:
		return fmt.Errorf("processing.backend must be %q or %q, got %q", BackendNative, BackendExternal, c.Processing.Backend)
	}
	return nil
}

func (c *Config) validateWorkspace() error {
	name := c.Workspace.DirName
	if name == "." || name == ".." || filepath.Base(name) != name || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("workspace.dir_name must be a single directory name, got %q", name)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
