package catalogue

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long the watcher waits after the last change
// before reloading.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reloads the catalogue when its file changes on disk.
//
// The parent directory is watched rather than the file itself so that
// editors which save by rename-and-replace keep triggering reloads.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	delay    time.Duration
	onChange func(ctx context.Context) error
	logger   *zap.Logger

	mu       sync.Mutex
	timer    *time.Timer
	stopChan chan struct{}
	stopOnce sync.Once
	stopErr  error
	wg       sync.WaitGroup
}

// NewWatcher creates a watcher for path that calls onChange after the file
// settles. Store.Reload has the right shape:
//
//	w, err := catalogue.NewWatcher(path, func(ctx context.Context) error {
//		_, err := store.Reload(ctx)
//		return err
//	}, logger)
func NewWatcher(path string, onChange func(ctx context.Context) error, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve catalogue path: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &Watcher{
		path:     abs,
		watcher:  fsw,
		delay:    DefaultDebounce,
		onChange: onChange,
		logger:   logger.Named("catalogue.watch"),
		stopChan: make(chan struct{}),
	}, nil
}

// SetDebounce changes the settle delay. Call before Start.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.delay = d
}

// Start begins watching in the background
func (w *Watcher) Start() error {
	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}
	w.logger.Info("watching catalogue", zap.String("path", w.path))

	w.wg.Add(1)
	go w.watch()
	return nil
}

// Stop stops watching and waits for the event loop to exit. It is safe to
// call more than once and from several goroutines; every call returns after
// shutdown has finished.
func (w *Watcher) Stop() error {
	w.stopOnce.Do(func() {
		close(w.stopChan)
		w.wg.Wait()

		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()

		w.stopErr = w.watcher.Close()
	})
	return w.stopErr
}

func (w *Watcher) watch() {
	defer w.wg.Done()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("catalogue changed", zap.String("op", event.Op.String()))
			w.schedule()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", zap.Error(err))

		case <-w.stopChan:
			return
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	name, err := filepath.Abs(event.Name)
	if err != nil || name != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

// schedule (re)arms the debounce timer
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, w.fire)
}

func (w *Watcher) fire() {
	select {
	case <-w.stopChan:
		return
	default:
	}

	if err := w.onChange(context.Background()); err != nil {
		w.logger.Error("catalogue reload failed", zap.Error(err))
		return
	}
	w.logger.Info("catalogue reloaded after change")
}
