package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vyrodovalexey/qproc/internal/observability"
	"github.com/vyrodovalexey/qproc/internal/schema"
)

// SchemaCallback is called with each successfully reloaded schema.
type SchemaCallback func(*schema.Schema)

// ErrorCallback is called when an error occurs during reload.
type ErrorCallback func(error)

// Watcher watches a schema file for changes and triggers reloads. A failed
// reload keeps the last good schema.
type Watcher struct {
	path          string
	watcher       *fsnotify.Watcher
	loader        *Loader
	callback      SchemaCallback
	errorCallback ErrorCallback
	logger        observability.Logger
	debounceDelay time.Duration
	lastSchema    *schema.Schema
	mu            sync.RWMutex
	stopCh        chan struct{}
	stoppedCh     chan struct{}
	running       bool
}

// WatcherOption is a functional option for configuring the watcher.
type WatcherOption func(*Watcher)

// WithDebounceDelay sets the debounce delay for file changes.
func WithDebounceDelay(delay time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounceDelay = delay
	}
}

// WithLogger sets the logger for the watcher.
func WithLogger(logger observability.Logger) WatcherOption {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithErrorCallback sets the error callback for the watcher.
func WithErrorCallback(callback ErrorCallback) WatcherOption {
	return func(w *Watcher) {
		w.errorCallback = callback
	}
}

// WithLoader sets the loader used for reloads.
func WithLoader(loader *Loader) WatcherOption {
	return func(w *Watcher) {
		if loader != nil {
			w.loader = loader
		}
	}
}

// NewWatcher creates a new schema file watcher.
func NewWatcher(path string, callback SchemaCallback, opts ...WatcherOption) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:          absPath,
		watcher:       fsWatcher,
		loader:        NewLoader(),
		callback:      callback,
		debounceDelay: 100 * time.Millisecond,
		logger:        observability.NopLogger(),
		stopCh:        make(chan struct{}),
		stoppedCh:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// Start loads the schema and begins watching the file. The initial schema is
// not passed to the callback; read it with LastSchema.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.mu.Unlock()

	s, err := w.loader.Load(w.path)
	if err != nil {
		return err
	}

	// Watch the directory so editors that replace the file are seen.
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}

	w.mu.Lock()
	w.lastSchema = s
	w.running = true
	w.mu.Unlock()

	w.logger.Info("started watching schema file",
		observability.String("path", w.path),
	)

	go w.watch(ctx)

	return nil
}

// Stop stops watching the schema file.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return w.watcher.Close()
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.stoppedCh

	return w.watcher.Close()
}

// LastSchema returns the last successfully loaded schema.
func (w *Watcher) LastSchema() *schema.Schema {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.lastSchema
}

func (w *Watcher) watch(ctx context.Context) {
	defer close(w.stoppedCh)

	var debounceTimer *time.Timer
	var debounceCh <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("schema watcher stopped due to context cancellation")
			return

		case <-w.stopCh:
			w.logger.Info("schema watcher stopped")
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			debounceTimer, debounceCh = w.handleFileEvent(event, debounceTimer, debounceCh)

		case <-debounceCh:
			debounceCh = nil
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.handleWatchError(err)
		}
	}
}

func (w *Watcher) handleFileEvent(
	event fsnotify.Event,
	debounceTimer *time.Timer,
	debounceCh <-chan time.Time,
) (timer *time.Timer, ch <-chan time.Time) {
	if filepath.Clean(event.Name) != w.path {
		return debounceTimer, debounceCh
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return debounceTimer, debounceCh
	}

	w.logger.Debug("schema file changed",
		observability.String("path", event.Name),
		observability.String("op", event.Op.String()),
	)

	if debounceTimer != nil {
		debounceTimer.Stop()
	}
	debounceTimer = time.NewTimer(w.debounceDelay)
	return debounceTimer, debounceTimer.C
}

func (w *Watcher) handleWatchError(err error) {
	w.logger.Error("schema watcher error",
		observability.Error(err),
	)
	if w.errorCallback != nil {
		w.errorCallback(err)
	}
}

func (w *Watcher) reload() {
	w.logger.Info("reloading schema",
		observability.String("path", w.path),
	)

	if err := w.ForceReload(); err != nil {
		w.logger.Error("failed to reload schema, keeping previous",
			observability.Error(err),
		)
		if w.errorCallback != nil {
			w.errorCallback(err)
		}
		return
	}

	w.logger.Info("schema reloaded successfully")
}

// ForceReload loads the schema immediately and passes it to the callback.
func (w *Watcher) ForceReload() error {
	s, err := w.loader.Load(w.path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	w.lastSchema = s
	w.mu.Unlock()

	if w.callback != nil {
		w.callback(s)
	}

	return nil
}
