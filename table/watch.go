// SPDX-License-Identifier: EPL-2.0

package table

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 100 * time.Millisecond

// Watcher reloads a table file when it changes on disk.
type Watcher struct {
	path     string
	onChange func(*Table)
	debounce time.Duration
	logger   *slog.Logger

	fsw *fsnotify.Watcher
}

type WatchOption func(*Watcher)

func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) { w.debounce = d }
}

func WithWatchLogger(logger *slog.Logger) WatchOption {
	return func(w *Watcher) { w.logger = logger }
}

// NewWatcher starts watching path. onChange is called from Run with every
// table that loaded successfully; a file that fails to parse is logged and
// the previous table stays in use.
func NewWatcher(path string, onChange func(*Table), opts ...WatchOption) (*Watcher, error) {
	w := &Watcher{
		path:     filepath.Clean(path),
		onChange: onChange,
		debounce: defaultDebounce,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	// editors replace files instead of writing them, so watch the directory
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", w.path, err)
	}
	w.fsw = fsw

	return w, nil
}

// Run delivers reloads until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	var (
		timer  *time.Timer
		reload <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			reload = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("table watch error", "path", w.path, "error", err)

		case <-reload:
			reload = nil
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	t, err := LoadFile(w.path)
	if err != nil {
		w.logger.Warn("table reload failed, keeping previous table", "path", w.path, "error", err)
		return
	}

	w.logger.Info("table reloaded", "path", w.path, "name", t.Name(), "keys", t.Len())
	w.onChange(t)
}

func (w *Watcher) Close() error {
	return w.fsw.Close()
}
