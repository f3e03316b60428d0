package store

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"futurechat/internal/knowledge"
	"futurechat/internal/logging"
)

// DefaultDebounce batches the burst of events one save produces.
const DefaultDebounce = 300 * time.Millisecond

// Replacer receives reloaded tables. *knowledge.Base satisfies it.
type Replacer interface {
	Replace(snap knowledge.Snapshot)
}

// WatcherStats counts watcher activity.
type WatcherStats struct {
	Events        int
	Reloads       int
	Errors        int
	LastEventTime time.Time
	LastEventType string
}

// Watcher reloads a FileStore into a Replacer when the file changes on
// disk. It watches the parent directory so atomic renames are seen.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	store    *FileStore
	target   Replacer
	debounce time.Duration
	pending  time.Time
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
	stats    WatcherStats
}

// NewWatcher creates a stopped watcher. debounce <= 0 uses DefaultDebounce.
func NewWatcher(s *FileStore, target Replacer, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		watcher:  fw,
		store:    s,
		target:   target,
		debounce: debounce,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching. It does not block.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	dir := filepath.Dir(w.store.Path())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logging.StoreWarn("Watcher: failed to create %s: %v", dir, err)
	}
	if err := w.watcher.Add(dir); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return err
	}
	logging.Store("Watching knowledge file %s", w.store.Path())

	go w.run(ctx)
	return nil
}

// Stop ends the watch loop and waits for it.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		w.watcher.Close()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	if err := w.watcher.Close(); err != nil {
		logging.StoreError("Watcher: error closing: %v", err)
	}
}

// Stats returns a copy of the counters.
func (w *Watcher) Stats() WatcherStats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	tick := w.debounce / 3
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.StoreError("Watcher error: %v", err)
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()
		case <-ticker.C:
			w.flush(ctx)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.store.Path() {
		return
	}
	var kind string
	switch {
	case event.Has(fsnotify.Create):
		kind = "create"
	case event.Has(fsnotify.Write):
		kind = "modify"
	case event.Has(fsnotify.Rename):
		kind = "rename"
	case event.Has(fsnotify.Remove):
		kind = "delete"
	default:
		return
	}
	logging.StoreDebug("Watcher: %s %s", kind, event.Name)

	w.mu.Lock()
	w.stats.Events++
	w.stats.LastEventTime = time.Now()
	w.stats.LastEventType = kind
	// A file moved away or deleted leaves memory as is.
	if kind == "create" || kind == "modify" {
		w.pending = time.Now()
	}
	w.mu.Unlock()
}

// flush reloads once the file has been quiet for the debounce period.
func (w *Watcher) flush(ctx context.Context) {
	w.mu.Lock()
	if w.pending.IsZero() || time.Since(w.pending) < w.debounce {
		w.mu.Unlock()
		return
	}
	w.pending = time.Time{}
	w.mu.Unlock()

	snap, changed, err := w.store.loadIfChanged(ctx)
	if err != nil {
		logging.StoreWarn("Watcher: keeping current knowledge, reload failed: %v", err)
		w.mu.Lock()
		w.stats.Errors++
		w.mu.Unlock()
		return
	}
	if !changed {
		logging.StoreDebug("Watcher: %s holds our last save, skipping reload", w.store.Path())
		return
	}
	w.target.Replace(snap)

	w.mu.Lock()
	w.stats.Reloads++
	w.mu.Unlock()
}
