package session

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/entrhq/lookout/pkg/logging"
	"github.com/entrhq/lookout/pkg/viewer"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the bursts of events editors produce on save.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reloads the session file whenever it changes.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   logging.Interface
}

// WatchOption configures a Watcher.
type WatchOption func(*Watcher)

// WithDebounce sets how long the watcher waits for events to settle.
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) { w.debounce = d }
}

// WithWatchLogger sets the logger.
func WithWatchLogger(l logging.Interface) WatchOption {
	return func(w *Watcher) { w.logger = l }
}

// NewWatcher creates a watcher for the session file at path.
func NewWatcher(path string, opts ...WatchOption) *Watcher {
	w := &Watcher{path: path, debounce: DefaultDebounce, logger: logging.Nop()}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Watch delivers freshly loaded props on the first channel every time the
// file settles after a change, and load failures on the second. Both close
// when ctx is done. The directory is watched rather than the file so
// editors that replace the file by rename keep being seen.
func (w *Watcher) Watch(ctx context.Context) (<-chan viewer.Props, <-chan error, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	dir := filepath.Dir(w.path)
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	props := make(chan viewer.Props, 1)
	errs := make(chan error, 1)
	go w.loop(ctx, fsw, props, errs)
	return props, errs, nil
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher, props chan<- viewer.Props, errs chan<- error) {
	defer close(props)
	defer close(errs)
	defer fsw.Close()

	name := filepath.Base(w.path)
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != name {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			p, err := LoadProps(w.path)
			if err != nil {
				w.logger.Warnf("session file %s not applied: %v", w.path, err)
				if !send(ctx, errs, err) {
					return
				}
				continue
			}
			w.logger.Debugf("session file %s reloaded", w.path)
			if !send(ctx, props, p) {
				return
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warnf("file watcher: %v", err)

		case <-ctx.Done():
			return
		}
	}
}

func send[T any](ctx context.Context, ch chan<- T, v T) bool {
	select {
	case ch <- v:
		return true
	case <-ctx.Done():
		return false
	}
}
