// Package watcher notifies the TUI when the board directory changes on disk.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce coalesces bursts of events (a temp write plus rename) into
// one callback.
const debounce = 100 * time.Millisecond

// Watcher watches directories and calls back after changes settle.
type Watcher struct {
	fsw      *fsnotify.Watcher
	callback func()
}

// New starts watching paths. Every path must exist.
func New(paths []string, callback func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	for _, p := range paths {
		if err := fsw.Add(p); err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("watching %s: %w", p, err)
		}
	}
	return &Watcher{fsw: fsw, callback: callback}, nil
}

// Run delivers debounced callbacks until ctx is done or the watcher is
// closed. errFn, when non-nil, receives watcher errors.
func (w *Watcher) Run(ctx context.Context, errFn func(error)) {
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !relevant(ev) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, w.callback)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if errFn != nil {
				errFn(err)
			}
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// relevant drops chmod-only events and the store's own lock and temp files.
func relevant(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	base := filepath.Base(ev.Name)
	return !strings.HasSuffix(base, ".lock") && !strings.HasSuffix(base, ".tmp")
}
