package watcher_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yakschuss/dialkit-rails/internal/watcher"
)

func startWatcher(t *testing.T, path string) <-chan struct{} {
	t.Helper()
	w, err := watcher.New(watcher.Config{Path: path, Debounce: 50 * time.Millisecond})
	require.NoError(t, err, "failed to create watcher")
	t.Cleanup(func() { _ = w.Stop() })

	ch, err := w.Start()
	require.NoError(t, err, "failed to start watcher")
	return ch
}

func TestWatcher_DebounceMultipleWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte("<p></p>"), 0o644))

	onChange := startWatcher(t, path)

	for i := 0; i < 10; i++ {
		require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf("<p>%d</p>", i)), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-onChange:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected notification but got timeout")
	}

	select {
	case <-onChange:
		t.Fatal("unexpected second notification")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.html")
	other := filepath.Join(dir, "other.css")
	require.NoError(t, os.WriteFile(path, []byte("<p></p>"), 0o644))
	require.NoError(t, os.WriteFile(other, []byte("a{}"), 0o644))

	onChange := startWatcher(t, path)

	require.NoError(t, os.WriteFile(other, []byte("b{}"), 0o644))

	select {
	case <-onChange:
		t.Fatal("unexpected notification for unrelated file")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcher_RenameSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.html")
	require.NoError(t, os.WriteFile(path, []byte("<p></p>"), 0o644))

	onChange := startWatcher(t, path)

	tmp := filepath.Join(dir, ".page.html.swp")
	require.NoError(t, os.WriteFile(tmp, []byte("<p>new</p>"), 0o644))
	require.NoError(t, os.Rename(tmp, path))

	select {
	case <-onChange:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected notification after rename save")
	}
}

func TestWatcher_StartFailsForMissingDir(t *testing.T) {
	w, err := watcher.New(watcher.DefaultConfig(filepath.Join(t.TempDir(), "missing", "page.html")))
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	_, err = w.Start()
	require.Error(t, err)
}

func TestListen(t *testing.T) {
	require.Nil(t, watcher.Listen(nil))

	ch := make(chan struct{}, 1)
	ch <- struct{}{}
	require.Equal(t, watcher.PageChangedMsg{}, watcher.Listen(ch)())

	close(ch)
	require.Nil(t, watcher.Listen(ch)())
}

func TestDefaultConfig(t *testing.T) {
	cfg := watcher.DefaultConfig("page.html")
	require.Equal(t, "page.html", cfg.Path)
	require.Equal(t, 150*time.Millisecond, cfg.Debounce)
}
