package timeutil

import (
	"math"
	"time"
)

const millisPerDay = 24 * 60 * 60 * 1000

// StartOfDay returns the same calendar day as t at 00:00:00 in t's location.
// All "due today / overdue" comparisons normalize through this so that a
// deadline due at 23:59 today is not miscounted as tomorrow.
func StartOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// DaysUntil returns the number of whole calendar days between the start of
// "today" (per clock) and the start of target's calendar day, as
// ceil((target - today) / 86400000ms). Negative values mean the date is in
// the past. The result is independent of the current time of day: two calls
// with the same calendar date return the same value at 00:01 and at 23:58.
func DaysUntil(clock Clock, target time.Time) int {
	now := clock.Now()
	today := StartOfDay(now)
	targetDay := StartOfDay(target.In(now.Location()))

	diffMillis := float64(targetDay.Sub(today).Milliseconds())
	return int(math.Ceil(diffMillis / millisPerDay))
}
