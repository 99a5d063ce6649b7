package config

import (
	"fmt"
	"strings"

	"comicbatch/internal/textutil"
)

func (c *Config) normalize() error {
	if err := c.normalizeOutput(); err != nil {
		return err
	}
	c.normalizePages()
	c.normalizeProcessing()
	c.normalizeWorkspace()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeOutput() error {
	c.Output.Prefix = textutil.SanitizeFileName(c.Output.Prefix)
	if c.Output.Prefix == "" {
		c.Output.Prefix = defaultOutputPrefix
	}
	var err error
	if c.Output.Dir, err = expandPath(strings.TrimSpace(c.Output.Dir)); err != nil {
		return fmt.Errorf("output.dir: %w", err)
	}
	c.Output.Title = strings.TrimSpace(c.Output.Title)
	c.Output.Author = strings.TrimSpace(c.Output.Author)
	c.Output.TitleNumbering = strings.ToLower(strings.TrimSpace(c.Output.TitleNumbering))
	if c.Output.TitleNumbering == "" {
		c.Output.TitleNumbering = defaultTitleNumbering
	}
	return nil
}

func (c *Config) normalizePages() {
	if c.Pages.MaxWidth == 0 {
		c.Pages.MaxWidth = defaultMaxWidth
	}
	if c.Pages.MaxHeight == 0 {
		c.Pages.MaxHeight = defaultMaxHeight
	}
	if c.Pages.Quality == 0 {
		c.Pages.Quality = defaultQuality
	}
}

func (c *Config) normalizeProcessing() {
	if c.Processing.Workers == 0 {
		c.Processing.Workers = defaultWorkers
	}
	c.Processing.Backend = strings.ToLower(strings.TrimSpace(c.Processing.Backend))
	if c.Processing.Backend == "" {
		c.Processing.Backend = defaultBackend
	}
	c.Processing.ConvertBinary = strings.TrimSpace(c.Processing.ConvertBinary)
	if c.Processing.ConvertBinary == "" {
		c.Processing.ConvertBinary = defaultConvertBinary
	}
	c.Processing.Img2PDFBinary = strings.TrimSpace(c.Processing.Img2PDFBinary)
	if c.Processing.Img2PDFBinary == "" {
		c.Processing.Img2PDFBinary = defaultImg2PDFBinary
	}
}

func (c *Config) normalizeWorkspace() {
	c.Workspace.DirName = strings.TrimSpace(c.Workspace.DirName)
	if c.Workspace.DirName == "" {
		c.Workspace.DirName = defaultWorkspaceDir
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
