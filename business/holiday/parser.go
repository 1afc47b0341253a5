package holiday

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// ordinals maps the Korean ordinal prefix ("첫째", "둘째", ...) to its ordinal
var ordinals = map[string]int{
	"첫": 1,
	"둘": 2,
	"셋": 3,
	"넷": 4,
}

// weekdays maps the Korean weekday prefix ("월요일", ...) to time.Weekday
var weekdays = map[string]time.Weekday{
	"월": time.Monday,
	"화": time.Tuesday,
	"수": time.Wednesday,
	"목": time.Thursday,
	"금": time.Friday,
	"토": time.Saturday,
	"일": time.Sunday,
}

var (
	// compressed form, two ordinals sharing one weekday: "매월 둘째, 넷째 일요일 의무 휴무"
	compressedPattern = regexp.MustCompile(`([첫둘셋넷])째\s*,\s*([첫둘셋넷])째\s*([월화수목금토일])요일`)

	// expanded form, two ordinal weekday pairs: "매월 둘째 수요일, 넷째 일요일 의무 휴무"
	expandedPattern = regexp.MustCompile(`([첫둘셋넷])째\s*([월화수목금토일])요일\s*,\s*([첫둘셋넷])째\s*([월화수목금토일])요일`)

	// single ordinal weekday pair: "매월 둘째 일요일 의무 휴무"
	singlePattern = regexp.MustCompile(`([첫둘셋넷])째\s*([월화수목금토일])요일`)
)

// Parse converts a natural language recurrence description into a NthWeekdayOfMonth rule.
// The compressed form is tried first, then the expanded form, then a single pair.
// Returns a *PatternError if the text matches none of them.
func Parse(text string) (Rule, error) {
	cleaned := strings.Join(strings.Fields(norm.NFC.String(text)), " ")

	if found := compressedPattern.FindStringSubmatch(cleaned); found != nil {
		weekday := weekdays[found[3]]
		return NthWeekdayOfMonth{Occurrences: []NthWeekday{
			{Ordinal: ordinals[found[1]], Weekday: weekday},
			{Ordinal: ordinals[found[2]], Weekday: weekday},
		}}, nil
	}
	if found := expandedPattern.FindStringSubmatch(cleaned); found != nil {
		return NthWeekdayOfMonth{Occurrences: []NthWeekday{
			{Ordinal: ordinals[found[1]], Weekday: weekdays[found[2]]},
			{Ordinal: ordinals[found[3]], Weekday: weekdays[found[4]]},
		}}, nil
	}
	if found := singlePattern.FindStringSubmatch(cleaned); found != nil {
		return NthWeekdayOfMonth{Occurrences: []NthWeekday{
			{Ordinal: ordinals[found[1]], Weekday: weekdays[found[2]]},
		}}, nil
	}
	return nil, &PatternError{Text: text}
}

// ParseDates builds an ExplicitDates rule from YYYYMMDD tokens. Empty tokens mean "not specified" and are skipped,
// so a source with no dates at all yields an ExplicitDates with no Dates.
func ParseDates(tokens ...string) (Rule, error) {
	dates := make([]time.Time, 0, len(tokens))
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if len(token) == 0 {
			continue
		}
		d, err := dateFromYYYYMMDD(token)
		if err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return ExplicitDates{Dates: dates}, nil
}

// dateFromYYYYMMDD parses a date such as 20240310 as KST midnight
func dateFromYYYYMMDD(dateString string) (time.Time, error) {
	const layout = "20060102"
	result, err := time.ParseInLocation(layout, dateString, KST)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidHolidayDate, dateString)
	}
	return result, nil
}
