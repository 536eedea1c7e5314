package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDebounce collapses the burst of events editors emit for one save.
const reloadDebounce = 100 * time.Millisecond

// WatchBehavior watches the behavior file and calls onChange with every new
// valid config. Invalid edits are logged and ignored, the previous config
// stays in effect. Blocks until ctx is canceled.
//
// The parent directory is watched rather than the file itself so that
// atomic-rename saves are seen.
func WatchBehavior(ctx context.Context, path string, onChange func(Behavior)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating behavior watcher: %w", err)
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving behavior path %s: %w", path, err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	slog.Info("behavior hot reload enabled", "path", abs)

	// Reload once the file has been quiet for reloadDebounce.
	debounce := time.NewTimer(reloadDebounce)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			debounce.Reset(reloadDebounce)

		case <-debounce.C:
			cfg, err := LoadBehavior(abs)
			if err != nil {
				slog.Warn("behavior reload rejected", "path", abs, "err", err)
				continue
			}
			slog.Info("behavior reloaded", "path", abs)
			onChange(cfg)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Warn("behavior watcher error", "err", err)
		}
	}
}
