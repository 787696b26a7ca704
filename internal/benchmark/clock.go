package benchmark

import "time"

// Clock supplies timestamps for elapsed-time measurement.
type Clock interface {
	Now() time.Time
}

// SystemClock reads time.Now, whose values carry a monotonic reading so
// Sub is immune to wall clock adjustments.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
