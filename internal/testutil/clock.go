package testutil

import (
	"fmt"
	"sync"
)

// FixedClock produces deterministic timestamps for tests and the
// scenario harness. Every call to Now advances a logical counter, so
// repeated runs of the same scenario see identical dates.
//
// Thread-safety: all methods are safe for concurrent use.
type FixedClock struct {
	mu   sync.Mutex
	base string
	seq  int64
}

// NewFixedClock creates a clock anchored at the given calendar day,
// formatted as YYYYMMDD. The first call to Now returns <base>T000001.
func NewFixedClock(base string) *FixedClock {
	return &FixedClock{base: base}
}

// Now advances the logical counter and returns the next timestamp in
// the compact DICOM-style form YYYYMMDDTnnnnnn.
func (c *FixedClock) Now() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return fmt.Sprintf("%sT%06d", c.base, c.seq)
}

// Current returns the number of timestamps handed out so far.
func (c *FixedClock) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

// Reset rewinds the counter so a scenario can be replayed with the
// same timestamps.
func (c *FixedClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq = 0
}
