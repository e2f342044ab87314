package service

import (
	"time"

	"collector/models"
)

// LastDayOfMonth returns the final instant of the last calendar day of a
// month, in UTC
func LastDayOfMonth(year int, month time.Month) time.Time {
	firstOfNext := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return firstOfNext.Add(-time.Nanosecond)
}

// ReportingWindow computes the inclusive [start, end] activity window for
// one target. Start is the target's creation time. End is the last day of
// the target month when the filters pin exactly one year and month; otherwise
// it is capped by the explicit filter date, or by now.
func ReportingWindow(target *models.CollectorTarget, filters models.ReportFilters, now time.Time) (start, end time.Time) {
	start = target.CreatedAt
	lastDay := LastDayOfMonth(target.Year, target.Month)

	switch {
	case filters.PinsSingleMonth():
		end = lastDay
	case filters.Date != nil:
		end = minTime(*filters.Date, lastDay)
	default:
		end = minTime(now, lastDay)
	}

	return start, end
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
