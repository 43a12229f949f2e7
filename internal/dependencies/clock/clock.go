package clock

import "time"

// Clock is the time source for match timestamps and session expiry
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock in UTC at millisecond resolution,
// the resolution match timestamps are stored at, so a recorded time
// reads back unchanged from every store
type RealClock struct{}

// New creates a new RealClock
func New() *RealClock {
	return &RealClock{}
}

// Now returns the current time
func (c *RealClock) Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// NowMillis returns the clock's current time as epoch milliseconds
func NowMillis(c Clock) int64 {
	return c.Now().UnixMilli()
}
