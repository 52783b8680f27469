// utils/dates.go
package utils

import "time"

func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// DayRange returns the half-open interval [start, end) covering the given day.
func DayRange(day time.Time) (time.Time, time.Time) {
	start := BeginningOfDay(day)
	return start, start.AddDate(0, 0, 1)
}

// Today formats the current local day as YYYY-MM-DD.
func Today(now time.Time) string {
	return now.Format(DateLayout)
}
