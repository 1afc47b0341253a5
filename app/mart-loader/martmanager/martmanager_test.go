package martmanager

import (
	"context"
	"errors"
	"testing"

	"github.com/matryer/is"
)

func Test_makeSources(t *testing.T) {
	conf := Conf{EmartUrl: "http://emart.test", CostcoUrl: "http://costco.test"}
	tests := []struct {
		name      string
		martTypes []string
		wantTypes []string
		wantErr   bool
	}{
		{
			name:      "all sources",
			martTypes: nil,
			wantTypes: []string{emartType, costcoType},
		},
		{
			name:      "one source",
			martTypes: []string{costcoType},
			wantTypes: []string{costcoType},
		},
		{
			name:      "requested order kept",
			martTypes: []string{costcoType, emartType},
			wantTypes: []string{costcoType, emartType},
		},
		{
			name:      "unknown source",
			martTypes: []string{"lottemart"},
			wantErr:   true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			sources, err := makeSources(conf, tt.martTypes)
			if tt.wantErr {
				is.True(err != nil)
				return
			}
			is.NoErr(err)
			var gotTypes []string
			for _, s := range sources {
				gotTypes = append(gotTypes, s.martType())
			}
			is.Equal(gotTypes, tt.wantTypes)
		})
	}
}

func Test_updateMarts(t *testing.T) {
	is := is.New(t)
	reference := kstTime(2024, 3, 10, 0, 5)
	costco := &fixedSource{name: costcoType, raws: []rawMart{
		rawCostco("양재점", "매월 둘째, 넷째 일요일 의무 휴무"),
		rawCostco("휴점", "연중무휴"),
	}}
	emart := &fixedSource{name: emartType, raws: []rawMart{
		rawEmart("이마트 성수점", "20240313", "20240327"),
	}}
	publisher := &recordingPublisher{}

	batch, err := updateMarts(context.Background(), discardLogger(), publisher, []martSource{emart, costco}, reference)
	is.NoErr(err)
	is.Equal(len(publisher.batches), 1)
	is.Equal(publisher.batches[0], batch)
	is.True(batch.BaseDate.Equal(reference))
	is.True(len(batch.RunId) > 0)

	// source order is kept and the unparseable store is skipped
	is.Equal(len(batch.Marts), 2)
	is.Equal(batch.Marts[0].MartName, "이마트 성수점")
	is.Equal(batch.Marts[0].IsHoliday, false)
	is.True(batch.Marts[0].NextHoliday.Equal(kstTime(2024, 3, 13, 0, 0)))
	is.Equal(batch.Marts[1].MartName, "코스트코 양재점")
	is.Equal(batch.Marts[1].IsHoliday, true)
	is.True(batch.Marts[1].NextHoliday.Equal(kstTime(2024, 3, 24, 0, 0)))
	is.Equal(costco.calls, 1)
	is.Equal(emart.calls, 1)
}

func Test_updateMartsFailures(t *testing.T) {
	reference := kstTime(2024, 3, 10, 0, 5)
	publishErr := errors.New("database unavailable")
	tests := []struct {
		name      string
		sources   []martSource
		publisher *recordingPublisher
		wantErr   error
	}{
		{
			name: "source fetch fails the run",
			sources: []martSource{
				&fixedSource{name: emartType, raws: []rawMart{rawEmart("이마트 성수점", "20240313")}},
				&fixedSource{name: costcoType, err: errFetch},
			},
			publisher: &recordingPublisher{},
			wantErr:   errFetch,
		},
		{
			name: "publish failure returned",
			sources: []martSource{
				&fixedSource{name: emartType, raws: []rawMart{rawEmart("이마트 성수점", "20240313")}},
			},
			publisher: &recordingPublisher{err: publishErr},
			wantErr:   publishErr,
		},
		{
			name: "nothing resolved",
			sources: []martSource{
				&fixedSource{name: costcoType, raws: []rawMart{rawCostco("휴점", "연중무휴")}},
			},
			publisher: &recordingPublisher{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			batch, err := updateMarts(context.Background(), discardLogger(), tt.publisher, tt.sources, reference)
			is.True(err != nil)
			if tt.wantErr != nil {
				is.True(errors.Is(err, tt.wantErr))
			}
			is.True(batch == nil)
			is.Equal(len(tt.publisher.batches), 0)
		})
	}
}
