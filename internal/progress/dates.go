// Package progress holds the pure view-model logic for challenge progress:
// calendar-date handling, dense chart-series reconstruction, completion
// aggregation and edit-permission checks. Nothing here touches the network.
package progress

import (
	"strconv"
	"strings"
	"time"
)

const dayFormat = "2006-01-02"

// NormalizeDate reduces "2025-12-20T00:00:00" and "2025-12-20" alike to
// "2025-12-20". The service mixes both representations, so every date is
// normalized before comparison or lookup. Idempotent.
func NormalizeDate(date string) string {
	if date == "" {
		return ""
	}
	if i := strings.IndexByte(date, 'T'); i >= 0 {
		return date[:i]
	}
	return date
}

// Today returns the current calendar date in the client's local timezone,
// not UTC. Charts are keyed on the user's own calendar day.
func Today() string {
	return time.Now().Format(dayFormat)
}

// parseDay parses a normalized YYYY-MM-DD string into a local-midnight time.
// Manual component parsing keeps the result in the local calendar and avoids
// the timezone shift time.Parse would introduce.
func parseDay(date string) (time.Time, bool) {
	parts := strings.Split(date, "-")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	year, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	day, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local), true
}

// DateRange generates every calendar date from start to end inclusive, in
// ascending order. Iteration is by whole local calendar days (AddDate), not
// fixed 24h increments, so daylight-saving transitions cannot drop or double
// a day. Unparseable input or start > end yields an empty range.
func DateRange(start, end string) []string {
	startDay, ok := parseDay(NormalizeDate(start))
	if !ok {
		return nil
	}
	endDay, ok := parseDay(NormalizeDate(end))
	if !ok {
		return nil
	}

	var dates []string
	for cur := startDay; !cur.After(endDay); cur = cur.AddDate(0, 0, 1) {
		dates = append(dates, cur.Format(dayFormat))
	}
	return dates
}
