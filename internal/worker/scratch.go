package worker

import (
	"fmt"
	"os"
	"path/filepath"
)

// ScratchManager hands out per-job working directories on the shared scratch
// filesystem. Paths are namespaced by job id, so concurrent workers never
// collide.
type ScratchManager struct {
	root string
}

func NewScratchManager(root string) *ScratchManager {
	if root == "" {
		root = filepath.Join(os.TempDir(), "video-edit")
	}
	return &ScratchManager{root: root}
}

func (m *ScratchManager) Root() string {
	return m.root
}

// Acquire creates a fresh workspace for one processing attempt. Any leftover
// directory from an abandoned attempt for the same job is discarded first.
func (m *ScratchManager) Acquire(jobID string) (*Workspace, error) {
	dir := filepath.Join(m.root, jobID)
	if err := os.RemoveAll(dir); err != nil {
		return nil, fmt.Errorf("failed to clear workspace %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create workspace %s: %w", dir, err)
	}
	return &Workspace{dir: dir}, nil
}

// Workspace is the ephemeral directory tree owned by a single in-flight
// attempt.
type Workspace struct {
	dir string
}

func (w *Workspace) Dir() string {
	return w.dir
}

func (w *Workspace) Path(name string) string {
	return filepath.Join(w.dir, name)
}

func (w *Workspace) InputPath(idx int, ext string) string {
	return filepath.Join(w.dir, fmt.Sprintf("input_%03d%s", idx, ext))
}

func (w *Workspace) Cleanup() error {
	return os.RemoveAll(w.dir)
}
