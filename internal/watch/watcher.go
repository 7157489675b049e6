// Package watch re-parses a trace file whenever the simulator rewrites it,
// so an external viewer can live-reload the exported dataset.
package watch

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Handler is invoked after the watched file settles following a change
type Handler func(path string)

// ErrorHandler is invoked for watcher-level errors
type ErrorHandler func(err error)

// Watcher watches one trace file and debounces change events. The simulator
// appends to the trace over many writes, so events are coalesced until the
// file has been quiet for the debounce interval.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
	handler  Handler
	onError  ErrorHandler
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewWatcher creates a watcher for the given trace file
func NewWatcher(path string, debounce time.Duration, handler Handler, onError ErrorHandler) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("resolve path: %w", err)
	}

	if onError == nil {
		onError = func(error) {}
	}

	return &Watcher{
		watcher:  fsw,
		path:     abs,
		debounce: debounce,
		handler:  handler,
		onError:  onError,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching. The containing directory is watched rather than the
// file itself, so the file being truncated and recreated between runs still
// produces events. Non-blocking.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}

	go w.run()
	return nil
}

// Stop stops the watcher and waits for the event loop to exit
func (w *Watcher) Stop() {
	close(w.stopCh)
	_ = w.watcher.Close()
	<-w.doneCh
}

func (w *Watcher) run() {
	defer close(w.doneCh)

	var timer *time.Timer
	var settled <-chan time.Time

	for {
		select {
		case <-w.stopCh:
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				settled = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case <-settled:
			w.handler(w.path)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.onError(err)
		}
	}
}
