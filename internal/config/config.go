package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Output contains naming, size, and metadata settings for exported documents.
type Output struct {
	Prefix         string   `toml:"prefix"`
	Dir            string   `toml:"dir"`
	MaxSize        ByteSize `toml:"max_size"`
	Title          string   `toml:"title"`
	Author         string   `toml:"author"`
	TitleNumbering string   `toml:"title_numbering"`
}

// Pages contains the page normalization bounds.
type Pages struct {
	MaxWidth  int `toml:"max_width"`
	MaxHeight int `toml:"max_height"`
	Quality   int `toml:"quality"`
}

// Processing selects the capability backend and the per-unit worker count.
type Processing struct {
	Workers       int    `toml:"workers"`
	Backend       string `toml:"backend"`
	ConvertBinary string `toml:"convert_binary"`
	Img2PDFBinary string `toml:"img2pdf_binary"`
}

// Workspace contains scratch directory settings.
type Workspace struct {
	DirName       string `toml:"dir_name"`
	KeepOnFailure bool   `toml:"keep_on_failure"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for comicbatch.
//
// Configuration sections by subsystem:
//   - Output: document prefix, destination, size ceiling, title/author metadata
//   - Pages: maximum page dimensions and JPEG quality
//   - Processing: native or external capability backend, worker pool size
//   - Workspace: scratch directory name and failure retention
//   - Logging: log format and level
type Config struct {
	Output     Output     `toml:"output"`
	Pages      Pages      `toml:"pages"`
	Processing Processing `toml:"processing"`
	Workspace  Workspace  `toml:"workspace"`
	Logging    Logging    `toml:"logging"`
}

const (
	BackendNative   = "native"
	BackendExternal = "external"

	TitleNumberingAlways   = "always"
	TitleNumberingMultiple = "multiple"
)

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	if err := cfg.Finalize(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolvedPath, exists, nil
}

// Finalize normalizes and validates the configuration. Callers that mutate a
// loaded config (for example with command-line overrides) must call it again.
func (c *Config) Finalize() error {
	if err := c.normalize(); err != nil {
		return err
	}
	return c.Validate()
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		if value, ok := os.LookupEnv("COMICBATCH_CONFIG"); ok {
			path = strings.TrimSpace(value)
		}
	}
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("comicbatch.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// ConvertBinary returns the ImageMagick executable used by the external backend.
func (c *Config) ConvertBinary() string {
	return strings.TrimSpace(c.Processing.ConvertBinary)
}

// Img2PDFBinary returns the img2pdf executable used by the external backend.
func (c *Config) Img2PDFBinary() string {
	return strings.TrimSpace(c.Processing.Img2PDFBinary)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
