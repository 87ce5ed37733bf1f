package application

import "time"

// Clock stamps created_at on new analyses; swapped out in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock, always in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// ClockFunc adapts a plain function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }
