package filesystem

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"pictag/internal/logging"
)

// DefaultDebounce is the quiet period after the last change before the
// reload callback runs
const DefaultDebounce = 200 * time.Millisecond

// Watcher reloads the tag tree when its file changes on disk. The parent
// directory is watched so atomic replacements are seen.
type Watcher struct {
	path     string
	onChange func() error
	debounce time.Duration
	logger   *slog.Logger

	watcher  *fsnotify.Watcher
	done     chan struct{}
	stopped  chan struct{}
	started  atomic.Bool
	stopOnce sync.Once
}

// NewWatcher creates a watcher for the file at path. onChange runs on the
// watcher goroutine once per burst of changes.
func NewWatcher(path string, onChange func() error, logger *slog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	return &Watcher{
		path:     filepath.Clean(ExpandHome(path)),
		onChange: onChange,
		debounce: DefaultDebounce,
		logger:   logging.OrDiscard(logger),
		watcher:  fw,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}, nil
}

// SetDebounce changes the debounce window; call before Start
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Start begins watching until ctx is done or Stop is called. The tree
// file's directory is created when missing.
func (w *Watcher) Start(ctx context.Context) error {
	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	w.started.Store(true)
	go w.loop(ctx)
	return nil
}

// Stop ends watching and waits for the watcher goroutine to exit. It is
// safe to call when Start failed or was never called.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.watcher.Close()
		if !w.started.Load() {
			close(w.stopped)
		}
	})
	<-w.stopped
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.stopped)

	var timer *time.Timer
	var timerC <-chan time.Time
	pending := false

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			pending = true
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}
		case <-timerC:
			timer, timerC = nil, nil
			if !pending {
				continue
			}
			pending = false
			w.logger.Info("tag tree changed on disk, reloading", "path", w.path)
			if err := w.onChange(); err != nil {
				w.logger.Error("reload failed", "path", w.path, "error", err)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}
