// Package debounce delays a call until input has been quiet for a fixed
// interval. Each Debouncer belongs to one caller; unrelated inputs never
// share one.
package debounce

import (
	"context"
	"sync"
	"time"
)

type Debouncer struct {
	delay time.Duration

	mu     sync.Mutex
	timer  *time.Timer
	cancel context.CancelFunc
	parent context.Context
}

// New returns a Debouncer whose calls receive contexts derived from parent.
func New(parent context.Context, delay time.Duration) *Debouncer {
	if parent == nil {
		parent = context.Background()
	}
	return &Debouncer{delay: delay, parent: parent}
}

// Trigger schedules fn after the delay, replacing any pending call. If a
// previous call is already running its context is cancelled.
func (d *Debouncer) Trigger(fn func(ctx context.Context)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	if d.cancel != nil {
		d.cancel()
	}
	ctx, cancel := context.WithCancel(d.parent)
	d.cancel = cancel
	d.timer = time.AfterFunc(d.delay, func() {
		if ctx.Err() != nil {
			return
		}
		fn(ctx)
	})
}

// Stop drops any pending call and cancels a running one.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}
