// Package holiday resolves mandatory store closing days.
//
// Source specific holiday descriptions are parsed into a Rule, expanded into concrete dates
// around a reference date, merged with the fixed national holidays and queried for
// "is the store closed on the reference date" and "when does it next close".
// All dates are Korea Standard Time midnights. Nothing in this package reads the clock,
// performs I/O or keeps state between calls.
package holiday

import (
	"errors"
	"fmt"
	"time"
)

// KST is the Korea Standard Time zone (UTC+9, no daylight saving) every date is anchored to
var KST = time.FixedZone("KST", 9*60*60)

var (
	// ErrUnrecognizedHolidayPattern is returned when recurrence text matches none of the known grammars
	ErrUnrecognizedHolidayPattern = errors.New("unrecognized holiday pattern")

	// ErrInvalidLunarDate is returned when a lunar year, month, day triple does not exist
	ErrInvalidLunarDate = errors.New("invalid lunar date")

	// ErrInvalidHolidayDate is returned when an explicit holiday token is not a YYYYMMDD date
	ErrInvalidHolidayDate = errors.New("invalid holiday date")
)

// PatternError carries the text that could not be parsed into a Rule.
// errors.Is(err, ErrUnrecognizedHolidayPattern) holds for every PatternError
type PatternError struct {
	Text string
}

func (p *PatternError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnrecognizedHolidayPattern, p.Text)
}

func (p *PatternError) Unwrap() error {
	return ErrUnrecognizedHolidayPattern
}

// DayStart returns midnight KST of the calendar day t falls on in KST
func DayStart(t time.Time) time.Time {
	y, m, d := t.In(KST).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, KST)
}

// date builds a KST midnight, normalizing out of range months and days the way time.Date does
func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, KST)
}
