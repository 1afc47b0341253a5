package holiday

import (
	"fmt"
	"math"
	"time"

	"github.com/6tail/lunar-go/ShouXingUtil"
	"github.com/6tail/lunar-go/calendar"
)

// lunar years ToSolar accepts
const (
	minLunarYear = 1900
	maxLunarYear = 2100
)

// ToSolar converts a Korean lunar calendar date to the solar date it falls on, as KST midnight.
// Leap months are not addressable, lunarMonth is the regular month 1..12.
// Returns ErrInvalidLunarDate if the date does not exist in that lunar year or the year is outside 1900..2100.
//
// Month numbering comes from the lunar-go table, which dates new moons in UTC+8. Korean months begin on the
// KST day of the new moon, so each month start is recomputed from the new moon instant.
func ToSolar(lunarYear int, lunarMonth int, lunarDay int) (time.Time, error) {
	if lunarYear < minLunarYear || lunarYear > maxLunarYear ||
		lunarMonth < 1 || lunarMonth > 12 || lunarDay < 1 || lunarDay > 30 {
		return time.Time{}, invalidLunarDate(lunarYear, lunarMonth, lunarDay)
	}

	month := calendar.NewLunarYear(lunarYear).GetMonth(lunarMonth)
	if month == nil {
		return time.Time{}, invalidLunarDate(lunarYear, lunarMonth, lunarDay)
	}
	start := koreanMonthStart(month.GetFirstJulianDay())
	next := koreanMonthStart(month.GetFirstJulianDay() + float64(month.GetDayCount()))
	if lunarDay > daysBetween(start, next) {
		return time.Time{}, invalidLunarDate(lunarYear, lunarMonth, lunarDay)
	}
	return start.AddDate(0, 0, lunarDay-1), nil
}

func invalidLunarDate(lunarYear int, lunarMonth int, lunarDay int) error {
	return fmt.Errorf("%w: %04d-%02d-%02d", ErrInvalidLunarDate, lunarYear, lunarMonth, lunarDay)
}

// koreanMonthStart returns the KST date of the new moon nearest to julianDay
func koreanMonthStart(julianDay float64) time.Time {
	k := math.Round((julianDay - newMoonEpoch) / synodicMonth)
	newMoon := julianDayToTime(newMoonUT(k)).In(KST)
	return date(newMoon.Year(), newMoon.Month(), newMoon.Day())
}

func daysBetween(from time.Time, to time.Time) int {
	return int(math.Round(to.Sub(from).Hours() / 24))
}

const (
	// julian ephemeris day of the new moon of 2000-01-06
	newMoonEpoch = 2451550.09766
	synodicMonth = 29.530588861
	unixEpochJD  = 2440587.5
)

func julianDayToTime(julianDay float64) time.Time {
	seconds := (julianDay - unixEpochJD) * 86400
	whole := math.Floor(seconds)
	return time.Unix(int64(whole), int64((seconds-whole)*1e9)).UTC()
}

// newMoonUT returns the julian day, in universal time, of new moon number k counted from 2000-01-06.
// Uses the periodic terms of Meeus, Astronomical Algorithms chapter 49, accurate to well under a minute.
func newMoonUT(k float64) float64 {
	t := k / 1236.85
	t2 := t * t
	t3 := t2 * t
	t4 := t3 * t

	jde := newMoonEpoch + synodicMonth*k + 0.00015437*t2 - 0.000000150*t3 + 0.00000000073*t4
	e := 1 - 0.002516*t - 0.0000074*t2
	m := radians(2.5534 + 29.10535670*k - 0.0000014*t2 - 0.00000011*t3)
	mp := radians(201.5643 + 385.81693528*k + 0.0107582*t2 + 0.00001238*t3 - 0.000000058*t4)
	f := radians(160.7108 + 390.67050284*k - 0.0016118*t2 - 0.00000227*t3 + 0.000000011*t4)
	omega := radians(124.7746 - 1.56375588*k + 0.0020672*t2 + 0.00000215*t3)

	jde += -0.40720*math.Sin(mp) +
		0.17241*e*math.Sin(m) +
		0.01608*math.Sin(2*mp) +
		0.01039*math.Sin(2*f) +
		0.00739*e*math.Sin(mp-m) -
		0.00514*e*math.Sin(mp+m) +
		0.00208*e*e*math.Sin(2*m) -
		0.00111*math.Sin(mp-2*f) -
		0.00057*math.Sin(mp+2*f) +
		0.00056*e*math.Sin(2*mp+m) -
		0.00042*math.Sin(3*mp) +
		0.00042*e*math.Sin(m+2*f) +
		0.00038*e*math.Sin(m-2*f) -
		0.00024*e*math.Sin(2*mp-m) -
		0.00017*math.Sin(omega) -
		0.00007*math.Sin(mp+2*m) +
		0.00004*math.Sin(2*mp-2*f) +
		0.00004*math.Sin(3*m) +
		0.00003*math.Sin(mp+m-2*f) +
		0.00003*math.Sin(2*mp+2*f) -
		0.00003*math.Sin(mp+m+2*f) +
		0.00003*math.Sin(mp-m+2*f) -
		0.00002*math.Sin(mp-m-2*f) -
		0.00002*math.Sin(3*mp+m) +
		0.00002*math.Sin(4*mp)

	planetary := [14][3]float64{
		{299.77, 0.107408, 0.000325},
		{251.88, 0.016321, 0.000165},
		{251.83, 26.651886, 0.000164},
		{349.42, 36.412478, 0.000126},
		{84.66, 18.206239, 0.000110},
		{141.74, 53.303771, 0.000062},
		{207.14, 2.453732, 0.000060},
		{154.84, 7.306860, 0.000056},
		{34.52, 27.261239, 0.000047},
		{207.19, 0.121824, 0.000042},
		{291.34, 1.844379, 0.000040},
		{161.72, 24.198154, 0.000037},
		{239.56, 25.513099, 0.000035},
		{331.55, 3.592518, 0.000023},
	}
	for i, p := range planetary {
		argument := p[0] + p[1]*k
		if i == 0 {
			argument -= 0.009173 * t2
		}
		jde += p[2] * math.Sin(radians(argument))
	}

	// DtT takes and returns days relative to J2000
	return jde - ShouXingUtil.DtT(jde-calendar.J2000)
}

func radians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
