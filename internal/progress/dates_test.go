package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDate(t *testing.T) {
	assert.Equal(t, "2025-12-20", NormalizeDate("2025-12-20T00:00:00"))
	assert.Equal(t, "2025-12-20", NormalizeDate("2025-12-20"))
	assert.Equal(t, "", NormalizeDate(""))

	// Datetime and date-only forms of the same day normalize identically.
	assert.Equal(t, NormalizeDate("2025-12-20"), NormalizeDate("2025-12-20T00:00:00"))
}

func TestNormalizeDate_Idempotent(t *testing.T) {
	for _, date := range []string{"2025-12-20T13:45:00", "2025-12-20", "", "garbage"} {
		once := NormalizeDate(date)
		assert.Equal(t, once, NormalizeDate(once), "normalize must be idempotent for %q", date)
	}
}

func TestDateRange_Inclusive(t *testing.T) {
	dates := DateRange("2025-01-01", "2025-01-03")

	assert.Equal(t, []string{"2025-01-01", "2025-01-02", "2025-01-03"}, dates)
}

func TestDateRange_SingleDay(t *testing.T) {
	assert.Equal(t, []string{"2025-06-15"}, DateRange("2025-06-15", "2025-06-15"))
}

func TestDateRange_NoGapsNoDuplicates(t *testing.T) {
	dates := DateRange("2025-02-25", "2025-03-05")

	assert.Len(t, dates, 9)
	seen := map[string]bool{}
	for i, d := range dates {
		assert.False(t, seen[d], "duplicate date %s", d)
		seen[d] = true
		if i > 0 {
			assert.Less(t, dates[i-1], d)
		}
	}
	// February boundary handled.
	assert.Contains(t, dates, "2025-02-28")
	assert.Contains(t, dates, "2025-03-01")
	assert.NotContains(t, dates, "2025-02-29")
}

func TestDateRange_AcceptsDatetimeInput(t *testing.T) {
	dates := DateRange("2025-01-01T00:00:00", "2025-01-02T23:59:59")

	assert.Equal(t, []string{"2025-01-01", "2025-01-02"}, dates)
}

func TestDateRange_StartAfterEnd(t *testing.T) {
	assert.Empty(t, DateRange("2025-01-05", "2025-01-01"))
}

func TestDateRange_BadInput(t *testing.T) {
	assert.Empty(t, DateRange("not-a-date", "2025-01-01"))
	assert.Empty(t, DateRange("2025-01-01", ""))
}
