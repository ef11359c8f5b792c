// Package debounce provides a schedule / cancel-on-reschedule / fire-once
// timer. It exists so the recompute policy can be tested with a virtual
// clock instead of being welded to a UI framework's event loop.
package debounce

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// Debouncer coalesces bursts of triggers into a single callback invocation
// after a quiet period. At most one timer is pending at a time; triggering
// while one is pending restarts the quiet period (last write wins). The
// callback runs once per settled burst, on the timer goroutine. Pending
// stays true until the callback has returned, so observers never see a
// stable state while a run is still in flight.
type Debouncer struct {
	mu       sync.Mutex
	runMu    sync.Mutex // serializes callback runs
	clk      clock.Clock
	interval time.Duration
	fn       func()
	timer    *clock.Timer
	pending  bool
	gen      uint64
}

// New creates a debouncer firing fn after interval of quiet. The wall clock
// is used; tests use NewWithClock and a mock.
func New(interval time.Duration, fn func()) *Debouncer {
	return NewWithClock(clock.New(), interval, fn)
}

// NewWithClock creates a debouncer on an explicit clock.
func NewWithClock(clk clock.Clock, interval time.Duration, fn func()) *Debouncer {
	return &Debouncer{
		clk:      clk,
		interval: interval,
		fn:       fn,
	}
}

// Trigger schedules the callback after the quiet period, cancelling any
// outstanding schedule.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = true
	d.gen++
	d.timer = d.clk.AfterFunc(d.interval, d.run)
}

// run executes one callback invocation. Pending is cleared only after the
// callback returns, and only when no retrigger arrived while it ran; a
// retrigger bumps the generation and keeps the state pending for its own
// timer.
func (d *Debouncer) run() {
	d.runMu.Lock()
	defer d.runMu.Unlock()

	d.mu.Lock()
	if !d.pending {
		d.mu.Unlock()
		return
	}
	gen := d.gen
	d.timer = nil
	fn := d.fn
	d.mu.Unlock()

	if fn != nil {
		fn()
	}

	d.mu.Lock()
	if d.gen == gen {
		d.pending = false
	}
	d.mu.Unlock()
}

// Pending reports whether a callback is scheduled or still running. While
// pending, any previously computed downstream value is unstable.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Stop cancels any outstanding schedule without firing.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = false
}

// Flush fires the callback immediately if one is pending. Used by consumers
// that need a settled value now rather than after the quiet period. If a run
// is already in flight, Flush waits for it to finish before deciding whether
// anything is still pending.
func (d *Debouncer) Flush() {
	d.runMu.Lock()
	defer d.runMu.Unlock()

	d.mu.Lock()
	if !d.pending {
		d.mu.Unlock()
		return
	}
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	gen := d.gen
	fn := d.fn
	d.mu.Unlock()

	if fn != nil {
		fn()
	}

	d.mu.Lock()
	if d.gen == gen {
		d.pending = false
	}
	d.mu.Unlock()
}

// Interval returns the configured quiet period.
func (d *Debouncer) Interval() time.Duration {
	return d.interval
}
