package holiday

import (
	"fmt"
	"sort"
	"time"
)

// Resolution answers if a store is closed on the reference date and when it next closes.
// NextHoliday is nil when no closure after the reference date is known.
type Resolution struct {
	IsHoliday   bool
	NextHoliday *time.Time
}

func (r Resolution) String() string {
	next := "none"
	if r.NextHoliday != nil {
		next = r.NextHoliday.Format("2006-01-02")
	}
	return fmt.Sprintf("Resolution IsHoliday:%t NextHoliday:%s", r.IsHoliday, next)
}

// CandidateHolidays returns the ascending, de-duplicated closing dates of rule around reference:
// the expansion of rule and, for recurring rules, the national holidays of the reference year and the year after.
func CandidateHolidays(rule Rule, reference time.Time) ([]time.Time, error) {
	reference = DayStart(reference)

	candidates := rule.expand(reference)
	if rule.includesNationalHolidays() {
		national, err := nationalHolidayDates(reference.Year(), reference.Year()+1)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, national...)
	}
	return sortedUniqueDates(candidates), nil
}

// Resolve determines if reference is a holiday under rule, and the first holiday after it.
// The only error is ErrInvalidLunarDate from building the national holidays.
func Resolve(rule Rule, reference time.Time) (Resolution, error) {
	reference = DayStart(reference)

	candidates, err := CandidateHolidays(rule, reference)
	if err != nil {
		return Resolution{}, err
	}

	result := Resolution{IsHoliday: containsDate(candidates, reference)}

	// place the reference date among the candidates, the next holiday is the date after it
	withReference := sortedUniqueDates(append(candidates, reference))
	index := sort.Search(len(withReference), func(i int) bool {
		return !withReference[i].Before(reference)
	})
	if index+1 < len(withReference) {
		next := withReference[index+1]
		result.NextHoliday = &next
	}
	return result, nil
}

// sortedUniqueDates returns dates sorted ascending with duplicate instants removed
func sortedUniqueDates(dates []time.Time) []time.Time {
	seen := make(map[int64]bool, len(dates))
	results := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		if seen[d.Unix()] {
			continue
		}
		seen[d.Unix()] = true
		results = append(results, d)
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Before(results[j])
	})
	return results
}

func containsDate(dates []time.Time, day time.Time) bool {
	for _, d := range dates {
		if d.Equal(day) {
			return true
		}
	}
	return false
}
