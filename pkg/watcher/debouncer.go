// Package watcher reloads the viewer when the database file changes on
// disk, coalescing bursts of writes into a single reload.
package watcher

import (
	"sync"
	"time"
)

// DefaultDebounceDuration is the default debounce window.
const DefaultDebounceDuration = 250 * time.Millisecond

// Debouncer coalesces rapid triggers into one callback invocation: only
// the last callback scheduled within the window runs.
type Debouncer struct {
	duration time.Duration
	timer    *time.Timer
	mu       sync.Mutex
	seq      uint64
}

// NewDebouncer creates a Debouncer. A zero duration uses the default.
func NewDebouncer(duration time.Duration) *Debouncer {
	if duration == 0 {
		duration = DefaultDebounceDuration
	}
	return &Debouncer{duration: duration}
}

// Trigger schedules callback after the debounce window, cancelling any
// previously scheduled one.
func (d *Debouncer) Trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	seq := d.seq

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, func() {
		d.mu.Lock()
		// The seq guard closes the race where Stop() misses a timer
		// that already fired: only the most recently scheduled
		// callback may run.
		current := seq == d.seq
		if current {
			d.timer = nil
		}
		d.mu.Unlock()

		if current {
			callback()
		}
	})
}

// Cancel drops any pending callback, including one whose timer has
// already fired but not yet run.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
