package kernel

import "time"

// Clock returns the current time. Domain services take a Clock so tests can
// pin timestamps.
type Clock func() time.Time

// SystemClock returns the wall clock in UTC.
func SystemClock() time.Time {
	return time.Now().UTC()
}
