package martmanager

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/martcast/martcast/business/data/mart"
	"github.com/martcast/martcast/business/holiday"
	"github.com/martcast/martcast/business/openhours"
)

// martSource retrieves the raw store listings of one mart chain
type martSource interface {
	// martType is the tag recorded on each mart.Mart built from this source
	martType() string

	// fetch retrieves every store the source lists as of reference
	fetch(ctx context.Context, reference time.Time) ([]rawMart, error)
}

// rawMart holds store fields as the source publishes them, before any parsing
type rawMart struct {
	martType  string
	martName  string
	longitude float64
	latitude  float64
	openText  string
	closeText string
	// holidayDates are YYYYMMDD tokens, used when explicitDates is true
	holidayDates  []string
	explicitDates bool
	// holidayText is a recurrence description such as "매월 둘째, 넷째 일요일 의무 휴무"
	holidayText string
	// readErr is set when the source listed the store but its fields could not be read
	readErr error
}

// holidayRule parses the holiday schedule in whichever form the source published it
func (r *rawMart) holidayRule() (holiday.Rule, error) {
	if r.explicitDates {
		return holiday.ParseDates(r.holidayDates...)
	}
	return holiday.Parse(r.holidayText)
}

// buildMart resolves the holiday schedule and opening hours of raw as of reference
func buildMart(raw rawMart, reference time.Time) (*mart.Mart, error) {
	if raw.readErr != nil {
		return nil, raw.readErr
	}
	rule, err := raw.holidayRule()
	if err != nil {
		return nil, fmt.Errorf("unable to parse holidays of %s, error: %w", raw.martName, err)
	}
	resolution, err := holiday.Resolve(rule, reference)
	if err != nil {
		return nil, fmt.Errorf("unable to resolve holidays of %s with %s, error: %w", raw.martName, rule, err)
	}
	open, close, err := openhours.Normalize(raw.openText, raw.closeText, reference)
	if err != nil {
		return nil, fmt.Errorf("unable to parse opening hours of %s, error: %w", raw.martName, err)
	}
	return &mart.Mart{
		BaseDate:    reference.In(holiday.KST),
		MartType:    raw.martType,
		MartName:    raw.martName,
		Longitude:   raw.longitude,
		Latitude:    raw.latitude,
		StartTime:   open,
		EndTime:     close,
		NextHoliday: resolution.NextHoliday,
		IsHoliday:   resolution.IsHoliday,
	}, nil
}

// flexFloat decodes a json number or a json string holding a number, store sites publish coordinates as either
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	text := strings.Trim(string(data), "\" \t\r\n")
	if len(text) == 0 || text == "null" {
		*f = 0
		return nil
	}
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return fmt.Errorf("unable to parse %s as float, error: %w", string(data), err)
	}
	*f = flexFloat(value)
	return nil
}

var _ json.Unmarshaler = (*flexFloat)(nil)
