package holiday

import (
	"fmt"
	"time"

	"github.com/rickar/cal/v2"
)

// NationalHolidays holds the national holidays every recurring rule is closed on.
// Lunar holidays keep their lunar month and day in Month and Day.
var NationalHolidays = []*cal.Holiday{
	NewYear,
	Seollal,
	Chuseok,
}

var (
	// NewYear is 신정, January 1st
	NewYear = &cal.Holiday{
		Name:  "신정",
		Month: time.January,
		Day:   1,
		Func:  cal.CalcDayOfMonth,
	}

	// Seollal is 설날, the first day of the first lunar month
	Seollal = &cal.Holiday{
		Name:  "설날",
		Month: 1,
		Day:   1,
		Func:  calcLunarDayOfMonth,
	}

	// Chuseok is 추석, the fifteenth day of the eighth lunar month
	Chuseok = &cal.Holiday{
		Name:  "추석",
		Month: 8,
		Day:   15,
		Func:  calcLunarDayOfMonth,
	}
)

// calcLunarDayOfMonth implements cal.HolidayFn for holidays fixed on the lunar calendar.
// Returns the zero time if the lunar date can not be converted.
func calcLunarDayOfMonth(h *cal.Holiday, year int) time.Time {
	solar, err := ToSolar(year, int(h.Month), h.Day)
	if err != nil {
		return time.Time{}
	}
	return solar
}

// nationalHolidayDates materializes NationalHolidays for each of years as KST midnights
func nationalHolidayDates(years ...int) ([]time.Time, error) {
	results := make([]time.Time, 0, len(years)*len(NationalHolidays))
	for _, year := range years {
		for _, h := range NationalHolidays {
			actual, _ := h.Calc(year)
			if actual.IsZero() {
				return nil, fmt.Errorf("%w: unable to calculate %s in %d", ErrInvalidLunarDate, h.Name, year)
			}
			y, m, d := actual.Date()
			results = append(results, date(y, m, d))
		}
	}
	return results, nil
}
