package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/darmiel/dockgate/internal/logging"
)

// DefaultDebounce is the window in which change events are coalesced into a
// single reload. Editors tend to produce bursts of write events per save.
const DefaultDebounce = 250 * time.Millisecond

// Watcher watches the store's config directory and triggers debounced
// reloads. A failed reload is logged and the previous snapshot keeps
// serving; the watcher itself never stops on a bad edit.
type Watcher struct {
	store    *Store
	log      logging.InternalLogger
	debounce time.Duration

	fs   *fsnotify.Watcher
	done chan struct{}
}

// StartWatcher begins watching the store's directory on a background
// goroutine. Close stops it.
func StartWatcher(store *Store, log logging.InternalLogger) (*Watcher, error) {
	return StartWatcherDebounced(store, log, DefaultDebounce)
}

// StartWatcherDebounced is StartWatcher with a custom debounce window.
func StartWatcherDebounced(store *Store, log logging.InternalLogger, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fs watcher: %w", err)
	}
	if err := fsw.Add(store.Dir()); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watching config directory %q: %w", store.Dir(), err)
	}

	w := &Watcher{
		store:    store,
		log:      log,
		debounce: debounce,
		fs:       fsw,
		done:     make(chan struct{}),
	}
	go w.run()

	log.Info("watching config directory %s", store.Dir())
	return w, nil
}

// Close stops the watcher. It does not affect the currently served snapshot.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fs.Close()
}

func (w *Watcher) run() {
	// timer is created stopped; each relevant event re-arms it, so a burst
	// of events within the debounce window coalesces into one reload.
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.log.Info("config file changed: %s", event.Name)
			timer.Reset(w.debounce)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("config watcher error: %v", err)

		case <-timer.C:
			if err := w.store.Reload(); err != nil {
				// keep serving the previous valid snapshot
				w.log.Error("config reload failed, keeping previous config: %v", err)
				continue
			}
			w.log.Info("config reloaded")
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
		return false
	}
	ext := strings.ToLower(filepath.Ext(event.Name))
	return ext == ".yaml" || ext == ".yml"
}
