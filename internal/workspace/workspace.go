package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"

	"comicbatch/internal/services"
)

const (
	rawDir        = "raw"
	normalizedDir = "normalized"
	pagesDir      = "pages"
)

// Workspace is the scratch area for a single run. The orchestrator owns its
// lifetime; stages only touch the indexed subareas they are handed.
type Workspace struct {
	Root       string
	Raw        string
	Normalized string
	Pages      string

	lockPath string
	lock     *flock.Flock

	mu       sync.Mutex
	tornDown bool
}

// Initialize creates a fresh scratch area named name under parent. A leftover
// area from a previous run is removed entirely before being recreated. An
// exclusive lock next to the area keeps concurrent runs on the same parent
// from sharing it.
func Initialize(parent, name string) (*Workspace, error) {
	parent = strings.TrimSpace(parent)
	name = strings.TrimSpace(name)
	if parent == "" || name == "" {
		return nil, services.Wrap(services.ErrWorkspace, "workspace", "initialize", "parent and name required", nil)
	}

	root := filepath.Join(parent, name)
	lockPath := root + ".lock"
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrWorkspace, "workspace", "lock", lockPath, err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrWorkspace, "workspace", "lock", "another run is using "+root, nil)
	}

	ws := &Workspace{
		Root:       root,
		Raw:        filepath.Join(root, rawDir),
		Normalized: filepath.Join(root, normalizedDir),
		Pages:      filepath.Join(root, pagesDir),
		lockPath:   lockPath,
		lock:       lock,
	}

	if err := recreateDir(root); err != nil {
		ws.release()
		return nil, services.Wrap(services.ErrWorkspace, "workspace", "initialize", root, err)
	}
	for _, dir := range []string{ws.Raw, ws.Normalized} {
		if err := os.Mkdir(dir, 0o755); err != nil {
			_ = os.RemoveAll(root)
			ws.release()
			return nil, services.Wrap(services.ErrWorkspace, "workspace", "initialize", dir, err)
		}
	}
	return ws, nil
}

// UnitName is the subarea name used for unit index i.
func UnitName(i int) string {
	return fmt.Sprintf("%04d", i)
}

// RawDir returns the extracted-originals subarea for unit i.
func (w *Workspace) RawDir(i int) string {
	return filepath.Join(w.Raw, UnitName(i))
}

// NormalizedDir returns the normalized-pages subarea for unit i.
func (w *Workspace) NormalizedDir(i int) string {
	return filepath.Join(w.Normalized, UnitName(i))
}

// ResetPages destructively recreates the per-group page staging area.
func (w *Workspace) ResetPages() (string, error) {
	if err := recreateDir(w.Pages); err != nil {
		return "", services.Wrap(services.ErrWorkspace, "workspace", "reset pages", w.Pages, err)
	}
	return w.Pages, nil
}

// Teardown removes the scratch area and releases the lock. It is safe to call
// more than once and on a partially populated workspace.
func (w *Workspace) Teardown() error {
	if w == nil {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.tornDown {
		return nil
	}
	w.tornDown = true

	removeErr := os.RemoveAll(w.Root)
	w.release()
	if removeErr != nil {
		return services.Wrap(services.ErrWorkspace, "workspace", "teardown", w.Root, removeErr)
	}
	return nil
}

// Release drops the lock but keeps the scratch area on disk for inspection.
func (w *Workspace) Release() {
	if w == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.tornDown {
		return
	}
	w.tornDown = true
	w.release()
}

func (w *Workspace) release() {
	if w.lock == nil {
		return
	}
	_ = w.lock.Unlock()
	_ = os.Remove(w.lockPath)
}

func recreateDir(path string) error {
	if err := os.RemoveAll(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove stale %s: %w", path, err)
	}
	return os.Mkdir(path, 0o755)
}
