package services

import "time"

// Clock supplies the current instant. Day-sensitive paths (completion intake,
// rollover) resolve "today" through it so tests can pin the calendar.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// SystemClock is the production clock.
var SystemClock Clock = systemClock{}

// FixedClock always returns the same instant. Test helper.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T }
