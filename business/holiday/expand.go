package holiday

import (
	"time"
)

// Expand returns the concrete dates rule denotes around the reference date
func Expand(rule Rule, reference time.Time) []time.Time {
	return rule.expand(DayStart(reference))
}

func (e ExplicitDates) expand(_ time.Time) []time.Time {
	results := make([]time.Time, 0, len(e.Dates))
	for _, d := range e.Dates {
		results = append(results, DayStart(d))
	}
	return results
}

// expand computes every occurrence in the reference month and the month after it
func (n NthWeekdayOfMonth) expand(reference time.Time) []time.Time {
	thisMonth := date(reference.Year(), reference.Month(), 1)
	nextMonth := date(reference.Year(), reference.Month()+1, 1)

	results := make([]time.Time, 0, 2*len(n.Occurrences))
	for _, month := range []time.Time{thisMonth, nextMonth} {
		for _, occurrence := range n.Occurrences {
			results = append(results, nthWeekday(month, occurrence))
		}
	}
	return results
}

// nthWeekday finds the first occurrence.Weekday on or after monthStart and advances it by
// occurrence.Ordinal-1 weeks. The result is not clamped to the month.
func nthWeekday(monthStart time.Time, occurrence NthWeekday) time.Time {
	offset := (int(occurrence.Weekday) - int(monthStart.Weekday()) + 7) % 7
	return date(monthStart.Year(), monthStart.Month(), 1+offset+7*(occurrence.Ordinal-1))
}
