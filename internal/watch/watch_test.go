package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	calls [][]string
}

func (r *recorder) fn(_ context.Context, changed []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, changed)
	return nil
}

func (r *recorder) snapshot() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]string(nil), r.calls...)
}

// start runs Watch in the background and returns a stop func that waits for
// it to return.
func start(t *testing.T, root string, fn Func) func() {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, root, "md", 50*time.Millisecond, slog.New(slog.DiscardHandler), fn)
	}()
	// Give fsnotify time to register the directories.
	time.Sleep(100 * time.Millisecond)
	return func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("watcher did not stop")
		}
	}
}

func TestWatch_ReportsChangedNotes(t *testing.T) {
	root := t.TempDir()
	rec := &recorder{}
	stop := start(t, root, rec.fn)
	defer stop()

	require.NoError(t, os.WriteFile(filepath.Join(root, "a.md"), []byte("#x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.md"), []byte("#y"), 0o644))

	assert.Eventually(t, func() bool {
		seen := make(map[string]bool)
		for _, c := range rec.snapshot() {
			for _, p := range c {
				seen[p] = true
			}
		}
		return seen["a.md"] && seen["b.md"]
	}, 5*time.Second, 20*time.Millisecond)
	assert.LessOrEqual(t, len(rec.snapshot()), 2)
}

func TestWatch_IgnoresCompanionsAndOtherFiles(t *testing.T) {
	root := t.TempDir()
	rec := &recorder{}
	stop := start(t, root, rec.fn)
	defer stop()

	require.NoError(t, os.WriteFile(filepath.Join(root, ".garden.md"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o644))
	time.Sleep(300 * time.Millisecond)
	assert.Empty(t, rec.snapshot())
}

func TestWatch_FollowsNewDirectories(t *testing.T) {
	root := t.TempDir()
	rec := &recorder{}
	stop := start(t, root, rec.fn)
	defer stop()

	sub := filepath.Join(root, "diary")
	require.NoError(t, os.Mkdir(sub, 0o755))
	time.Sleep(150 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(sub, "2024-05-01.md"), []byte("x"), 0o644))

	assert.Eventually(t, func() bool {
		for _, c := range rec.snapshot() {
			for _, p := range c {
				if p == "diary/2024-05-01.md" {
					return true
				}
			}
		}
		return false
	}, 5*time.Second, 20*time.Millisecond)
}

func TestIsHidden(t *testing.T) {
	assert.True(t, isHidden(".garden.md"))
	assert.True(t, isHidden("diary/.2024-05-01.md"))
	assert.True(t, isHidden(".git/config"))
	assert.False(t, isHidden("diary/2024-05-01.md"))
	assert.False(t, isHidden("."))
}
