package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

const DefaultDebounce = 500 * time.Millisecond

// Watcher reports debounced changes to a single batch file. It watches the
// parent directory so atomic replace-by-rename is seen.
type Watcher struct {
	watcher  *fsnotify.Watcher
	logger   zerolog.Logger
	target   string
	debounce time.Duration
	changes  chan struct{}
	stopCh   chan struct{}
}

// NewWatcher starts watching path.
func NewWatcher(path string, debounce time.Duration, logger zerolog.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve batch path: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		watcher:  fsw,
		logger:   logger,
		target:   abs,
		debounce: debounce,
		changes:  make(chan struct{}, 1),
		stopCh:   make(chan struct{}),
	}

	go w.run()

	return w, nil
}

// Changes delivers one value per debounced burst of writes.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	close(w.stopCh)
	return w.watcher.Close()
}

func (w *Watcher) run() {
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			w.logger.Debug().
				Str("file", filepath.Base(event.Name)).
				Str("op", event.Op.String()).
				Msg("Batch change detected")

			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, w.notify)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error().Err(err).Msg("File watcher error")

		case <-w.stopCh:
			return
		}
	}
}

func (w *Watcher) notify() {
	select {
	case w.changes <- struct{}{}:
	default:
	}
}

// Watch calls onChange on the calling goroutine after every debounced change
// to path, until ctx is done. Errors from onChange are logged, not fatal.
func Watch(ctx context.Context, path string, debounce time.Duration, logger zerolog.Logger, onChange func() error) error {
	w, err := NewWatcher(path, debounce, logger)
	if err != nil {
		return err
	}
	defer w.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.Changes():
			if err := onChange(); err != nil {
				w.logger.Error().Err(err).Msg("Failed to apply batch change")
			}
		}
	}
}
