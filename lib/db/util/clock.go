package util

import (
	"sync"
	"time"
)

// --------------------------------------------------------------------------
// Clock Abstraction
// --------------------------------------------------------------------------

// Clock is the time source used for all expiry comparisons.
// Implementations must be safe for concurrent use and must return
// non-decreasing readings; wall-clock adjustments must not be visible
// through Now().
type Clock interface {
	Now() time.Time
}

// --------------------------------------------------------------------------
// System Clock
// --------------------------------------------------------------------------

// systemClock reads the process clock. Go's time.Now embeds a monotonic
// reading that survives wall-clock skew, so comparisons between two readings
// are skew-free.
type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the monotonic process clock.
func SystemClock() Clock { return systemClock{} }

// --------------------------------------------------------------------------
// Manual Clock (for tests)
// --------------------------------------------------------------------------

// ManualClock is a Clock whose reading only moves when told to.
// It lets tests exercise expiry semantics deterministically without sleeping.
//
// Thread-safety: all methods can be called concurrently.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewManualClock creates a ManualClock starting at the current process time.
func NewManualClock() *ManualClock {
	return &ManualClock{now: time.Now()}
}

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d. Negative values are ignored so the
// clock stays monotonic.
func (c *ManualClock) Advance(d time.Duration) {
	if d < 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
