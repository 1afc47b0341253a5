package holiday

import (
	"fmt"
	"strings"
	"time"
)

// Rule is the canonical form of a store's holiday schedule.
// Implemented only by ExplicitDates and NthWeekdayOfMonth.
type Rule interface {
	// expand returns the concrete dates the rule denotes around reference, which is a KST midnight
	expand(reference time.Time) []time.Time

	// includesNationalHolidays reports if the fixed national holidays are merged into the rule's candidates
	includesNationalHolidays() bool

	String() string
}

// ExplicitDates is a rule listing the closing dates directly.
// Sources publishing explicit dates publish every closure, national holidays included,
// so the fixed national holidays are not merged in.
// An ExplicitDates with no Dates is valid and means no known closures.
type ExplicitDates struct {
	Dates []time.Time
}

func (e ExplicitDates) includesNationalHolidays() bool {
	return false
}

func (e ExplicitDates) String() string {
	dates := make([]string, 0, len(e.Dates))
	for _, d := range e.Dates {
		dates = append(dates, d.Format("2006-01-02"))
	}
	return fmt.Sprintf("ExplicitDates[%s]", strings.Join(dates, ","))
}

// NthWeekday is the Ordinal-th occurrence of Weekday within a month, Ordinal is 1..4
type NthWeekday struct {
	Ordinal int
	Weekday time.Weekday
}

func (n NthWeekday) String() string {
	return fmt.Sprintf("%d:%s", n.Ordinal, n.Weekday)
}

// NthWeekdayOfMonth is a rule closing on each of Occurrences every month, e.g. the 2nd and 4th Sunday
type NthWeekdayOfMonth struct {
	Occurrences []NthWeekday
}

func (n NthWeekdayOfMonth) includesNationalHolidays() bool {
	return true
}

func (n NthWeekdayOfMonth) String() string {
	occurrences := make([]string, 0, len(n.Occurrences))
	for _, o := range n.Occurrences {
		occurrences = append(occurrences, o.String())
	}
	return fmt.Sprintf("NthWeekdayOfMonth[%s]", strings.Join(occurrences, ","))
}
