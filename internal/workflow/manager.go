package workflow

import (
	"fmt"
	"log/slog"
	"sync"

	"comicbatch/internal/config"
	"comicbatch/internal/export"
	"comicbatch/internal/extract"
	"comicbatch/internal/logging"
	"comicbatch/internal/normalize"
	"comicbatch/internal/services"
	"comicbatch/internal/services/cbz"
	"comicbatch/internal/services/external"
	"comicbatch/internal/services/imaging"
	"comicbatch/internal/services/pdf"
)

// Manager runs the pipeline with a fixed configuration and capability set.
type Manager struct {
	cfg    *config.Config
	logger *slog.Logger

	unpacker  extract.Unpacker
	resizer   normalize.Resizer
	assembler export.Assembler
	observer  Observer

	skipPreflight bool

	// observerMu serializes Observer calls across worker goroutines.
	observerMu sync.Mutex
}

// ManagerOption configures optional Manager behavior.
type ManagerOption func(*Manager)

// WithUnpacker replaces the archive unpacker.
func WithUnpacker(u extract.Unpacker) ManagerOption {
	return func(m *Manager) {
		if u != nil {
			m.unpacker = u
		}
	}
}

// WithResizer replaces the page resizer chosen from the configured backend.
func WithResizer(r normalize.Resizer) ManagerOption {
	return func(m *Manager) {
		if r != nil {
			m.resizer = r
		}
	}
}

// WithAssembler replaces the document assembler chosen from the configured backend.
func WithAssembler(a export.Assembler) ManagerOption {
	return func(m *Manager) {
		if a != nil {
			m.assembler = a
		}
	}
}

// WithObserver registers a progress observer.
func WithObserver(o Observer) ManagerOption {
	return func(m *Manager) {
		if o != nil {
			m.observer = o
		}
	}
}

// WithoutPreflight skips the readiness checks (used by tests with stub capabilities).
func WithoutPreflight() ManagerOption {
	return func(m *Manager) {
		m.skipPreflight = true
	}
}

// NewManager constructs a workflow manager. Capabilities default to the
// backend named in cfg.
func NewManager(cfg *config.Config, logger *slog.Logger, opts ...ManagerOption) (*Manager, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "workflow", "configure", "config required", nil)
	}
	m := &Manager{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "workflow-manager"),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(m)
	}
	if err := m.defaultCapabilities(logger); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manager) defaultCapabilities(logger *slog.Logger) error {
	if m.unpacker == nil {
		m.unpacker = cbz.New()
	}
	switch m.cfg.Processing.Backend {
	case config.BackendNative, "":
		if m.resizer == nil {
			m.resizer = imaging.New()
		}
		if m.assembler == nil {
			m.assembler = pdf.New()
		}
	case config.BackendExternal:
		toolLogger := logging.NewComponentLogger(logger, "external-tool")
		output := external.WithOutput(func(line string) {
			toolLogger.Debug("tool output", logging.String("line", line))
		})
		if m.resizer == nil {
			r, err := external.NewResizer(m.cfg.ConvertBinary(), output)
			if err != nil {
				return services.Wrap(services.ErrConfiguration, "workflow", "configure", "convert", err)
			}
			m.resizer = r
		}
		if m.assembler == nil {
			a, err := external.NewAssembler(m.cfg.Img2PDFBinary(), output)
			if err != nil {
				return services.Wrap(services.ErrConfiguration, "workflow", "configure", "img2pdf", err)
			}
			m.assembler = a
		}
	default:
		return services.Wrap(services.ErrConfiguration, "workflow", "configure", fmt.Sprintf("unknown backend %q", m.cfg.Processing.Backend), nil)
	}
	return nil
}

func (m *Manager) notifyStarted(stage string, total int) {
	m.observerMu.Lock()
	defer m.observerMu.Unlock()
	m.observer.StageStarted(stage, total)
}

func (m *Manager) notifyProgress(stage string, done, total int) {
	m.observerMu.Lock()
	defer m.observerMu.Unlock()
	m.observer.StageProgress(stage, done, total)
}

func (m *Manager) notifyFinished(stage string, count int) {
	m.observerMu.Lock()
	defer m.observerMu.Unlock()
	m.observer.StageFinished(stage, count)
}
