package watcher

import (
	"sync"
	"time"
)

// DefaultDebounce is long enough to fold the write, chmod and rename events
// of one editor save into a single reload.
const DefaultDebounce = 200 * time.Millisecond

// debouncer calls fire once kicks have stopped arriving for the quiet
// period.
type debouncer struct {
	quiet time.Duration
	fire  func()

	mu    sync.Mutex
	timer *time.Timer
}

func newDebouncer(quiet time.Duration, fire func()) *debouncer {
	if quiet <= 0 {
		quiet = DefaultDebounce
	}
	return &debouncer{quiet: quiet, fire: fire}
}

func (d *debouncer) kick() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer == nil {
		d.timer = time.AfterFunc(d.quiet, d.fire)
		return
	}
	d.timer.Reset(d.quiet)
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
