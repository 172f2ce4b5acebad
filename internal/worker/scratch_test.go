package worker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScratchManagerAcquire(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	m := NewScratchManager(root)

	ws, err := m.Acquire("job-a")
	require.NoError(t, err)
	require.DirExists(t, ws.Dir())
	require.Equal(t, filepath.Join(root, "job-a"), ws.Dir())

	require.Equal(t, filepath.Join(root, "job-a", "input_000.mp4"), ws.InputPath(0, ".mp4"))
	require.Equal(t, filepath.Join(root, "job-a", "input_011.mp3"), ws.InputPath(11, ".mp3"))
	require.Equal(t, filepath.Join(root, "job-a", "merged.mp4"), ws.Path("merged.mp4"))

	require.NoError(t, ws.Cleanup())
	require.NoDirExists(t, ws.Dir())
}

func TestScratchManagerDiscardsLeftovers(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	m := NewScratchManager(root)

	stale := filepath.Join(root, "job-b")
	require.NoError(t, os.MkdirAll(stale, 0755))
	leftover := filepath.Join(stale, "half_written.mp4")
	require.NoError(t, os.WriteFile(leftover, []byte("junk"), 0644))

	ws, err := m.Acquire("job-b")
	require.NoError(t, err)
	require.NoFileExists(t, leftover, "a new attempt must start from an empty workspace")
	require.DirExists(t, ws.Dir())
}

func TestScratchManagerDefaultRoot(t *testing.T) {
	t.Parallel()

	m := NewScratchManager("")
	require.Equal(t, filepath.Join(os.TempDir(), "video-edit"), m.Root())
}
