package ingest

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_DebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "batch.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0600))

	w, err := NewWatcher(path, 50*time.Millisecond, zerolog.Nop())
	require.NoError(t, err)
	defer w.Stop()

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0600))
	}

	select {
	case <-w.Changes():
	case <-time.After(2 * time.Second):
		t.Fatal("expected a change notification")
	}

	select {
	case <-w.Changes():
		t.Fatal("writes should collapse into one notification")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "batch.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0600))

	w, err := NewWatcher(path, 20*time.Millisecond, zerolog.Nop())
	require.NoError(t, err)
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.jsonl"), []byte("{}\n"), 0600))

	select {
	case <-w.Changes():
		t.Fatal("unrelated file should not trigger a change")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestNewWatcher_MissingDirectory(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "nope", "batch.jsonl"), 0, zerolog.Nop())
	assert.Error(t, err)
}

func TestWatch_StopsOnContext(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "batch.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0600))

	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32
	done := make(chan error, 1)

	go func() {
		done <- Watch(ctx, path, 20*time.Millisecond, zerolog.Nop(), func() error {
			calls.Add(1)
			cancel()
			return nil
		})
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("{}\n{}\n"), 0600))

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		cancel()
		t.Fatal("Watch did not return after cancel")
	}
	assert.Equal(t, int32(1), calls.Load())
}
