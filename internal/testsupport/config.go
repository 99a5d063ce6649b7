package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"comicbatch/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a finalized config whose output directory lives in a
// unique temp directory. It defaults common fields and applies any provided
// options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Output.Dir = filepath.Join(base, "output")
	if err := os.MkdirAll(cfgVal.Output.Dir, 0o755); err != nil {
		t.Fatalf("mkdir output dir: %v", err)
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.Finalize(); err != nil {
		t.Fatalf("finalize test config: %v", err)
	}
	return builder.cfg
}

// WithMaxSize sets the document size ceiling.
func WithMaxSize(size int64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Output.MaxSize = config.ByteSize(size)
	}
}

// WithMetadata sets the base title and author.
func WithMetadata(title, author string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Output.Title = title
		b.cfg.Output.Author = author
	}
}

// WithPageBounds overrides the page bounding box.
func WithPageBounds(width, height int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Pages.MaxWidth = width
		b.cfg.Pages.MaxHeight = height
	}
}

// WithWorkers sets the per-stage worker count.
func WithWorkers(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Processing.Workers = n
	}
}

// WithBackend selects the capability backend.
func WithBackend(backend string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Processing.Backend = backend
	}
}

// WithKeepOnFailure keeps the scratch area after failed runs.
func WithKeepOnFailure() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Workspace.KeepOnFailure = true
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, the external backend binaries
// are stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"convert", "img2pdf"}
		}
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		script := []byte("#!/bin/sh\nexit 0\n")
		for _, name := range names {
			target := filepath.Join(binDir, name)
			if err := os.WriteFile(target, script, 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}

		oldPath := os.Getenv("PATH")
		if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
			b.t.Fatalf("set PATH: %v", err)
		}
		b.t.Cleanup(func() {
			_ = os.Setenv("PATH", oldPath)
		})
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Output.Dir)
}
