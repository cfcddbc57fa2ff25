package watcher

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches a SQLite database file and invokes a callback when it
// changes, debounced. The parent directory is watched rather than the
// file itself because SQLite writes through -wal/-journal siblings and
// some editors replace files atomically.
type Watcher struct {
	fsw       *fsnotify.Watcher
	debouncer *Debouncer
	base      string
	done      chan struct{}
}

// Watch starts watching dbPath and calls onChange (debounced) for every
// relevant filesystem event. Close stops the watcher.
func Watch(dbPath string, debounce time.Duration, onChange func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fs watcher: %w", err)
	}

	dir := filepath.Dir(dbPath)
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	w := &Watcher{
		fsw:       fsw,
		debouncer: NewDebouncer(debounce),
		base:      filepath.Base(dbPath),
		done:      make(chan struct{}),
	}

	go w.loop(onChange)
	return w, nil
}

func (w *Watcher) loop(onChange func()) {
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			w.debouncer.Trigger(onChange)
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			// Watch errors are transient on some platforms; keep going.
		case <-w.done:
			return
		}
	}
}

// relevant filters events down to the database file and its SQLite
// sidecar files (-wal, -shm, -journal).
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Base(ev.Name)
	return name == w.base || strings.HasPrefix(name, w.base+"-")
}

// Close stops the watcher and drops any pending reload.
func (w *Watcher) Close() error {
	close(w.done)
	w.debouncer.Cancel()
	return w.fsw.Close()
}
