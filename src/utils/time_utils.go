package utils

import (
	"math"
	"time"
)

// StartOfDay truncates t to midnight UTC.
func StartOfDay(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour)
}

// HoldingPeriodDays returns the whole-day holding period between open and
// close, rounded up and floored at one day so same-day trades count as one.
func HoldingPeriodDays(openedAt, closedAt time.Time) float64 {
	days := math.Ceil(closedAt.Sub(openedAt).Hours() / 24)
	if days < 1 {
		return 1
	}
	return days
}

// RoundToFiveMinutes rounds t down to the nearest five-minute mark,
// e.g. 09:33 becomes 09:30. Used for entry-time-of-day grouping.
func RoundToFiveMinutes(t time.Time) time.Time {
	return t.Truncate(5 * time.Minute)
}
