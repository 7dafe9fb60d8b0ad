package goToken

import "time"

// Clock supplies the issuance instant. Tests inject fixed or stepping clocks.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a plain function to [Clock].
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
