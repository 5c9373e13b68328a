// Package mocks holds deterministic stand-ins for the clock and token source.
package mocks

import (
	"sync"
	"time"

	"github.com/mcoot/bvzombies/internal/dependencies/clock"
)

var _ clock.Clock = (*MockClock)(nil)

// MockClock only moves when told to. It is safe to read from server
// goroutines while a test advances it.
type MockClock struct {
	mu  sync.RWMutex
	now time.Time
}

// NewMockClock creates a MockClock frozen at t
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{now: t}
}

func (c *MockClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

func (c *MockClock) Until(t time.Time) time.Duration {
	return t.Sub(c.Now())
}

// Advance moves the clock forward by d
func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
