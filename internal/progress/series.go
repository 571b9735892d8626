package progress

import (
	"sort"

	"betyaClient/internal/types/challenge"
	progresstypes "betyaClient/internal/types/progress"
)

// SeriesPoint is one day of the dense chart series: a date plus one percent
// value per active participant, keyed by username.
type SeriesPoint struct {
	Date   string
	Values map[string]int
}

// Window computes the visible chart window for a task.
//
// Start: the challenge start date when the challenge is time-bound and has
// one; otherwise the earliest date seen in the sparse history; otherwise
// today. End: today, clamped to the challenge end date when that date is
// already in the past.
func Window(ch *challenge.Challenge, history []progresstypes.ParticipantHistory, today string) (start, end string) {
	apiDates := historyDates(history)

	chStart := ""
	if ch.StartDate != nil {
		chStart = NormalizeDate(*ch.StartDate)
	}
	chEnd := ""
	if ch.EndDate != nil {
		chEnd = NormalizeDate(*ch.EndDate)
	}

	switch {
	case ch.TimeBound && chStart != "":
		start = chStart
	case len(apiDates) > 0:
		start = apiDates[0]
	default:
		start = today
	}

	end = today
	if ch.TimeBound && chEnd != "" && chEnd < today {
		end = chEnd
	}
	return start, end
}

// BuildSeries materializes the dense daily series for a chart: one entry per
// calendar date in [start, end], every active participant initialized to 0,
// sparse history points overlaid where their normalized date falls inside
// the window. Points outside the window are dropped. Output is ascending by
// date and deterministic for identical inputs.
func BuildSeries(start, end string, active []challenge.Participant, history []progresstypes.ParticipantHistory) []SeriesPoint {
	dates := DateRange(start, end)
	if len(dates) == 0 {
		return nil
	}

	index := make(map[string]int, len(dates))
	series := make([]SeriesPoint, len(dates))
	for i, d := range dates {
		values := make(map[string]int, len(active))
		for _, p := range active {
			values[p.Username] = 0
		}
		series[i] = SeriesPoint{Date: d, Values: values}
		index[d] = i
	}

	for _, ph := range history {
		for _, pt := range ph.Points {
			day := NormalizeDate(pt.Date)
			if i, ok := index[day]; ok {
				series[i].Values[ph.Username] = pt.Percent
			}
		}
	}
	return series
}

// LatestHistoryDate returns the most recent normalized date present in the
// sparse history, or "" when the history is empty.
func LatestHistoryDate(history []progresstypes.ParticipantHistory) string {
	dates := historyDates(history)
	if len(dates) == 0 {
		return ""
	}
	return dates[len(dates)-1]
}

func historyDates(history []progresstypes.ParticipantHistory) []string {
	var dates []string
	for _, ph := range history {
		for _, pt := range ph.Points {
			dates = append(dates, NormalizeDate(pt.Date))
		}
	}
	sort.Strings(dates)
	return dates
}
