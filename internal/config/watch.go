package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/mastermind-ai/mastermind/internal/logging"
)

// Watch reloads the file at path whenever it changes and calls onChange
// with base overlaid by the new contents. Invalid edits are logged and
// skipped. Blocks until ctx is done.
//
// The parent directory is watched rather than the file itself so that
// editors which save by rename keep triggering reloads.
func Watch(ctx context.Context, path string, base Config, onChange func(Config)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("config: watch %s: %w", filepath.Dir(path), err)
	}
	target := filepath.Clean(path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			c, err := LoadFile(base, path)
			if err != nil {
				logging.Warnf("[config] ignoring invalid edit: %v", err)
				continue
			}
			logging.Debugf("[config] reloaded %s", path)
			onChange(c)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logging.Warnf("[config] watcher error: %v", err)
		}
	}
}
