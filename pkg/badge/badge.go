// Package badge implements the client-side unread counter companion of the
// push channel. A receiving context increments the counter on push arrival,
// tries the platform badge first, and falls back to relaying the count to
// every attached foreground view. A view regaining visibility clears the
// counter after a short debounce so transient tab switches do not flicker
// the badge away.
package badge

import (
	"sync"
	"sync/atomic"
	"time"
)

// DefaultClearDelay is the debounce before a visible view clears the count.
const DefaultClearDelay = 2 * time.Second

// Setter applies the count to a platform-level badge. A nil Setter, or one
// returning an error, switches the counter to view relaying.
type Setter func(count int64) error

// Counter is the per-context unread counter. The zero value is not usable;
// create one with New.
type Counter struct {
	count atomic.Int64

	setter Setter
	delay  time.Duration

	mu    sync.Mutex
	views map[int]chan int64
	next  int
	clear *time.Timer
}

// Option configures a Counter.
type Option func(*Counter)

// WithSetter installs the platform badge setter.
func WithSetter(s Setter) Option {
	return func(c *Counter) { c.setter = s }
}

// WithClearDelay overrides the visibility-clear debounce.
func WithClearDelay(d time.Duration) Option {
	return func(c *Counter) { c.delay = d }
}

// New creates a counter. Without a setter every update is relayed to the
// attached views.
func New(opts ...Option) *Counter {
	c := &Counter{
		delay: DefaultClearDelay,
		views: make(map[int]chan int64),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Increment records one arrived notification and publishes the new count.
// It returns the count after the increment.
func (c *Counter) Increment() int64 {
	n := c.count.Add(1)
	c.publish(n)
	return n
}

// Count returns the current count.
func (c *Counter) Count() int64 {
	return c.count.Load()
}

// Attach registers a foreground view and returns its update channel plus a
// detach function. The channel immediately carries the current count so a
// freshly opened view renders the right badge without waiting for the next
// push.
func (c *Counter) Attach() (<-chan int64, func()) {
	ch := make(chan int64, 8)

	c.mu.Lock()
	id := c.next
	c.next++
	c.views[id] = ch
	c.mu.Unlock()

	ch <- c.count.Load()

	detach := func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if _, ok := c.views[id]; ok {
			delete(c.views, id)
			close(ch)
		}
	}
	return ch, detach
}

// VisibilityGained schedules a debounced clear. If visibility is lost again
// before the delay elapses, the pending clear is cancelled.
func (c *Counter) VisibilityGained() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.clear != nil {
		c.clear.Stop()
	}
	c.clear = time.AfterFunc(c.delay, c.clearNow)
}

// VisibilityLost cancels a pending clear.
func (c *Counter) VisibilityLost() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.clear != nil {
		c.clear.Stop()
		c.clear = nil
	}
}

func (c *Counter) clearNow() {
	c.count.Store(0)
	c.publish(0)
}

// publish pushes the count to the platform badge, falling back to the view
// channels when no setter is installed or the setter fails. A view that is
// not draining its channel is skipped rather than blocked on.
func (c *Counter) publish(n int64) {
	if c.setter != nil {
		if err := c.setter(n); err == nil {
			return
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ch := range c.views {
		select {
		case ch <- n:
		default:
		}
	}
}
