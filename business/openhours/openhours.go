// Package openhours normalizes store opening hours published as clock text into timestamps on a reference date
package openhours

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/martcast/martcast/business/holiday"
)

// ErrInvalidTimeFormat is returned when clock text matches none of the known formats
var ErrInvalidTimeFormat = errors.New("invalid time format")

// clock markers for 12-hour times
var (
	amMarkers = []string{"오전", "AM", "am"}
	pmMarkers = []string{"오후", "PM", "pm"}
)

// Normalize parses startText and endText and anchors them on the KST calendar day of reference.
// Accepted formats are "HH:MM" 24-hour time and "오전 H:MM" / "오후 H:MM" 12-hour time.
// The close time is always on the same day as the open time.
func Normalize(startText string, endText string, reference time.Time) (open time.Time, close time.Time, err error) {
	day := holiday.DayStart(reference)
	open, err = anchor(startText, day)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	close, err = anchor(endText, day)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return open, close, nil
}

// SplitRange splits a single "start - end" range such as "오전 10:00 - 오후 10:00" into its two clock texts
func SplitRange(text string) (start string, end string, err error) {
	parts := strings.Split(text, "-")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("%w: expected one '-' in range %q", ErrInvalidTimeFormat, text)
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), nil
}

// anchor places the time of day parsed from text on day
func anchor(text string, day time.Time) (time.Time, error) {
	hours, minutes, err := parseClock(text)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hours, minutes, 0, 0, day.Location()), nil
}

// parseClock parses hours and minutes of the day from text.
// 12-hour times take the hour modulo 12 and add 12 after noon, so "오후 12:30" is 12:30 and "오전 12:30" is 00:30
func parseClock(text string) (hours int, minutes int, err error) {
	clock := strings.TrimSpace(text)
	marker := ""
	if rest, ok := trimMarker(clock, amMarkers); ok {
		marker, clock = "am", rest
	} else if rest, ok = trimMarker(clock, pmMarkers); ok {
		marker, clock = "pm", rest
	}

	parts := strings.Split(clock, ":")
	if len(parts) != 2 || len(parts[1]) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, text)
	}
	hours, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, text)
	}
	minutes, err = strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, text)
	}

	switch marker {
	case "":
		if hours < 0 || hours > 23 {
			return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, text)
		}
	case "am", "pm":
		if hours < 1 || hours > 12 {
			return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, text)
		}
		hours = hours % 12
		if marker == "pm" {
			hours += 12
		}
	}
	return hours, minutes, nil
}

// trimMarker removes the first of markers prefixing clock
func trimMarker(clock string, markers []string) (string, bool) {
	for _, m := range markers {
		if strings.HasPrefix(clock, m) {
			return strings.TrimSpace(strings.TrimPrefix(clock, m)), true
		}
	}
	return clock, false
}
