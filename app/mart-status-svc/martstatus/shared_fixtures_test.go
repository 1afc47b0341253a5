package martstatus

import (
	"io"
	"log"
	"testing"
	"time"

	"github.com/martcast/martcast/business/data/mart"
)

var testKST = time.FixedZone("KST", 9*60*60)

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func testMart(martType string, martName string, baseDate time.Time) *mart.Mart {
	day := time.Date(baseDate.Year(), baseDate.Month(), baseDate.Day(), 0, 0, 0, 0, testKST)
	next := day.AddDate(0, 0, 7)
	return &mart.Mart{
		BaseDate:    baseDate,
		MartType:    martType,
		MartName:    martName,
		Longitude:   127.0365,
		Latitude:    37.4627,
		StartTime:   day.Add(10 * time.Hour),
		EndTime:     day.Add(22 * time.Hour),
		NextHoliday: &next,
	}
}

func testWrapper(t *testing.T, m *mart.Mart) *martWrapper {
	t.Helper()
	w, err := makeMartWrapper(m)
	if err != nil {
		t.Fatal(err)
	}
	return w
}
