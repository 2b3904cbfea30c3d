package progression

import "time"

// DateOf truncates a time to its UTC calendar day. All streak and boss math
// runs on these normalized dates so rollovers are deterministic regardless
// of the wall-clock instant they fire at.
func DateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same UTC calendar day.
func SameDay(a, b time.Time) bool {
	return DateOf(a).Equal(DateOf(b))
}

// IsNextDay reports whether next is exactly one calendar day after prev.
func IsNextDay(prev, next time.Time) bool {
	return DateOf(prev).AddDate(0, 0, 1).Equal(DateOf(next))
}
