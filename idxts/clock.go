package idxts

import "time"

// Clock supplies the microsecond timestamps backends stamp onto published
// records. It is an interface rather than a bare function so a future
// bounded-skew or logical clock can be substituted without changing any
// backend's Publish logic; SystemClock is the only implementation that
// ships today, and the strict-monotonicity checks in package backend
// assume it (or an equivalently monotonic Clock) is in use.
type Clock interface {
	// Now returns the current time as microseconds since the Unix epoch.
	Now() int64
}

// SystemClock is a Clock backed by the operating system's wall clock.
type SystemClock struct{}

func (SystemClock) Now() int64 { return time.Now().UnixMicro() }
