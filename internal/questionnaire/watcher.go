package questionnaire

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultWatchDebounce = 500 * time.Millisecond

// Watcher reloads the questionnaire file when it changes on disk
type Watcher struct {
	loader   *Loader
	path     string
	debounce time.Duration
}

// NewWatcher creates a watcher for the file currently backing loader
func NewWatcher(loader *Loader, debounce time.Duration) (*Watcher, error) {
	path := loader.Path()
	if path == "" {
		return nil, fmt.Errorf("questionnaire was not loaded from a file")
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if debounce <= 0 {
		debounce = defaultWatchDebounce
	}

	return &Watcher{
		loader:   loader,
		path:     filepath.Clean(path),
		debounce: debounce,
	}, nil
}

// Run watches until ctx is cancelled.
// The parent directory is watched so editors that replace the file are handled.
func (w *Watcher) Run(ctx context.Context) error {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fsWatcher.Close()

	if err := fsWatcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(w.path), err)
	}

	slog.Info("questionnaire watcher started", "file", w.path)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("questionnaire watcher stopped")
			return nil

		case event, ok := <-fsWatcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(w.debounce)

		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("questionnaire watcher error", "error", err)

		case <-timer.C:
			if err := w.loader.LoadFromFile(w.path); err != nil {
				slog.Error("failed to reload questionnaire, keeping previous version",
					"file", w.path,
					"error", err,
				)
			}
		}
	}
}
