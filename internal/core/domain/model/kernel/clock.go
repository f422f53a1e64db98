package kernel

import "time"

// Clock supplies the instants written to updatedAt and stage timestamps.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time {
	return f()
}

// SystemClock returns the wall clock truncated to microseconds, the resolution postgres keeps.
func SystemClock() Clock {
	return ClockFunc(func() time.Time {
		return time.Now().UTC().Truncate(time.Microsecond)
	})
}

// FixedClock always returns at. Intended for tests.
func FixedClock(at time.Time) Clock {
	return ClockFunc(func() time.Time {
		return at
	})
}
