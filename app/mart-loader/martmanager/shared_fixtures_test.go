package martmanager

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/martcast/martcast/business/data/mart"
)

var testKST = time.FixedZone("KST", 9*60*60)

func kstTime(year int, month time.Month, day int, hour int, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, testKST)
}

func datePointer(year int, month time.Month, day int) *time.Time {
	t := kstTime(year, month, day, 0, 0)
	return &t
}

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// serveFixture starts a server answering every request with the contents of testdata/fileName
func serveFixture(t *testing.T, fileName string, check func(r *http.Request) error) *httptest.Server {
	t.Helper()
	body, err := os.ReadFile(filepath.Join("testdata", fileName))
	if err != nil {
		t.Fatalf("unable to read fixture %s: %v", fileName, err)
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(r); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}))
	t.Cleanup(server.Close)
	return server
}

// fixedSource returns the same rawMarts or error on every fetch
type fixedSource struct {
	name  string
	raws  []rawMart
	err   error
	calls int
}

func (f *fixedSource) martType() string {
	return f.name
}

func (f *fixedSource) fetch(_ context.Context, _ time.Time) ([]rawMart, error) {
	f.calls++
	return f.raws, f.err
}

// recordingPublisher keeps every published batch
type recordingPublisher struct {
	batches []*mart.Batch
	err     error
}

func (r *recordingPublisher) publish(batch *mart.Batch) error {
	if r.err != nil {
		return r.err
	}
	r.batches = append(r.batches, batch)
	return nil
}

var errFetch = errors.New("connection refused")

func rawCostco(name string, holidayText string) rawMart {
	return rawMart{
		martType:    costcoType,
		martName:    fmt.Sprintf("%s%s", costcoNamePrefix, name),
		longitude:   127.0365,
		latitude:    37.4627,
		openText:    "오전 10:00",
		closeText:   "오후 10:00",
		holidayText: holidayText,
	}
}

func rawEmart(name string, holidayDates ...string) rawMart {
	return rawMart{
		martType:      emartType,
		martName:      name,
		longitude:     127.0557,
		latitude:      37.5447,
		openText:      "10:00",
		closeText:     "23:00",
		holidayDates:  holidayDates,
		explicitDates: true,
	}
}
