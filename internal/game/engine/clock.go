package engine

import (
	"sync"
	"time"
)

// turnClock is the engine's single-slot turn timer. Arming always cancels the
// previous timer, so at most one is pending per engine. The acting seat is
// captured at arm time and handed back to the fire callback; the engine
// compares it against the seat current at fire time and discards stale fires.
type turnClock struct {
	mu       sync.Mutex
	timer    *time.Timer
	disabled bool
}

// arm schedules fire(seat) after d, replacing any pending timer.
func (c *turnClock) arm(seat int, d time.Duration, fire func(armedSeat int)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disabled {
		return
	}
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(d, func() {
		fire(seat)
	})
}

// stop cancels the pending timer, if any.
func (c *turnClock) stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// disable stops the clock and rejects all future arming. Called exactly once,
// on match resolution.
func (c *turnClock) disable() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.disabled = true
}
