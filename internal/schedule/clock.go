package schedule

import (
	"math"
	"time"
)

// Clock supplies "now" to the schedule engine. clockz.RealClock is used in
// production and clockz.NewFakeClock() in tests; both satisfy this.
type Clock interface {
	Now() time.Time
}

// Truncate drops the time-of-day from t, keeping the local calendar day.
func Truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysUntil returns the calendar-day offset from today to target, or nil
// when target is nil. A target on today's calendar day yields 0 and one on
// tomorrow's yields 1, regardless of the time of day either falls on.
// The target is converted into the clock's location first, so a date that
// round-tripped through storage as a UTC instant still counts the same
// calendar day it was entered on. Rounding the hour difference keeps
// DST-shortened days from skewing the count, which a raw duration division
// would.
func DaysUntil(clock Clock, target *time.Time) *int {
	if target == nil {
		return nil
	}
	now := clock.Now()
	today := Truncate(now)
	due := Truncate(target.In(now.Location()))
	days := int(math.Round(due.Sub(today).Hours() / 24))
	return &days
}
