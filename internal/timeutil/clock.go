// Package timeutil provides the clock abstraction and the day-granularity
// date arithmetic every planning component uses for due-date comparisons.
package timeutil

import "time"

// Clock is a source of the current time. It exists so that due-date logic
// can be tested deterministically; production code uses RealClock.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the system time.
type RealClock struct{}

// Now returns the current system time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// FixedClock implements Clock with a constant instant. Intended for tests.
type FixedClock struct {
	Instant time.Time
}

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time {
	return c.Instant
}
