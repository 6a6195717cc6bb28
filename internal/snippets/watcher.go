package snippets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce batches bursts of saves into one reload.
const DefaultDebounce = 300 * time.Millisecond

// Watcher invalidates a Library when files under its root change.
type Watcher struct {
	lib      *Library
	log      *zap.Logger
	debounce time.Duration

	watcher *fsnotify.Watcher
	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewWatcher watches lib's root and each stack directory beneath it.
func NewWatcher(lib *Library, log *zap.Logger, debounce time.Duration) (*Watcher, error) {
	if lib.Root() == "" {
		return nil, errors.New("embedded snippets cannot be watched")
	}
	if log == nil {
		log = zap.NewNop()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		lib:      lib,
		log:      log.With(zap.String("component", "snippets")),
		debounce: debounce,
		watcher:  fw,
	}
	if err := w.addTree(); err != nil {
		fw.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) addTree() error {
	root := w.lib.Root()
	if err := w.watcher.Add(root); err != nil {
		return fmt.Errorf("watch %s: %w", root, err)
	}
	stacks, err := w.lib.Stacks()
	if err != nil {
		return err
	}
	for _, s := range stacks {
		if err := w.watcher.Add(filepath.Join(root, s)); err != nil {
			w.log.Warn("cannot watch stack", zap.String("stack", s), zap.Error(err))
		}
	}
	return nil
}

// Start runs the event loop in a goroutine until ctx ends or Stop.
func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	go w.run(ctx)
}

// Stop ends the event loop and releases the OS watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	running := w.running
	w.running = false
	w.mu.Unlock()
	if running {
		close(w.stopCh)
		<-w.doneCh
	}
	return w.watcher.Close()
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()
	pending := false

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if ev.Op&fsnotify.Create != 0 {
				w.watchNewStack(ev.Name)
			}
			w.log.Debug("snippet change", zap.String("path", ev.Name), zap.String("op", ev.Op.String()))
			if pending && !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.debounce)
			pending = true
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("snippet watcher error", zap.Error(err))
		case <-timer.C:
			pending = false
			w.lib.Invalidate()
			w.log.Info("snippets reloaded", zap.Uint64("version", w.lib.Version()))
		}
	}
}

// watchNewStack adds a freshly created stack directory.
func (w *Watcher) watchNewStack(name string) {
	if filepath.Dir(name) != filepath.Clean(w.lib.Root()) {
		return
	}
	info, err := os.Stat(name)
	if err != nil || !info.IsDir() {
		return
	}
	if err := w.watcher.Add(name); err != nil {
		w.log.Warn("cannot watch new stack", zap.String("path", name), zap.Error(err))
	}
}
