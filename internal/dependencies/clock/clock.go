// Package clock abstracts wall time so expiry and lockout windows can be tested.
package clock

import "time"

// Clock reads the current time
type Clock interface {
	Now() time.Time
	// Until is the time left before t; negative once t has passed
	Until(t time.Time) time.Duration
}

// RealClock is the system clock
type RealClock struct{}

// New creates a RealClock
func New() *RealClock {
	return &RealClock{}
}

func (c *RealClock) Now() time.Time {
	return time.Now()
}

func (c *RealClock) Until(t time.Time) time.Duration {
	return time.Until(t)
}
