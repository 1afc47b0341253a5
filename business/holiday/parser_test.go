package holiday

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/matryer/is"
	"golang.org/x/text/unicode/norm"
)

func TestParse(t *testing.T) {
	secondAndFourthSunday := NthWeekdayOfMonth{Occurrences: []NthWeekday{
		{Ordinal: 2, Weekday: time.Sunday},
		{Ordinal: 4, Weekday: time.Sunday},
	}}
	tests := []struct {
		name    string
		text    string
		want    Rule
		wantErr bool
	}{
		{
			name: "compressed form",
			text: "둘째, 넷째 일요일",
			want: secondAndFourthSunday,
		},
		{
			name: "expanded form",
			text: "둘째 일요일, 넷째 일요일",
			want: secondAndFourthSunday,
		},
		{
			name: "compressed form inside source sentence",
			text: "매월 둘째, 넷째 일요일 의무 휴무",
			want: secondAndFourthSunday,
		},
		{
			name: "expanded form with different weekdays",
			text: "매월 둘째 수요일, 넷째 일요일 의무 휴무",
			want: NthWeekdayOfMonth{Occurrences: []NthWeekday{
				{Ordinal: 2, Weekday: time.Wednesday},
				{Ordinal: 4, Weekday: time.Sunday},
			}},
		},
		{
			name: "first and third monday",
			text: "첫째, 셋째 월요일",
			want: NthWeekdayOfMonth{Occurrences: []NthWeekday{
				{Ordinal: 1, Weekday: time.Monday},
				{Ordinal: 3, Weekday: time.Monday},
			}},
		},
		{
			name: "irregular whitespace",
			text: "매월  둘째,넷째 일요일\n의무 휴무",
			want: secondAndFourthSunday,
		},
		{
			name: "decomposed hangul",
			text: norm.NFD.String("매월 둘째, 넷째 일요일 의무 휴무"),
			want: secondAndFourthSunday,
		},
		{
			name: "single pair",
			text: "매월 둘째 토요일 휴무",
			want: NthWeekdayOfMonth{Occurrences: []NthWeekday{
				{Ordinal: 2, Weekday: time.Saturday},
			}},
		},
		{
			name:    "no weekday",
			text:    "매월 둘째, 넷째 휴무",
			wantErr: true,
		},
		{
			name:    "fifth is not an ordinal",
			text:    "다섯째 일요일",
			wantErr: true,
		},
		{
			name:    "empty",
			text:    "",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			got, err := Parse(tt.text)
			if tt.wantErr {
				is.True(errors.Is(err, ErrUnrecognizedHolidayPattern))
				var patternError *PatternError
				is.True(errors.As(err, &patternError))
				is.Equal(patternError.Text, tt.text)
				return
			}
			is.NoErr(err)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse() got = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParse_formsAreEquivalent(t *testing.T) {
	is := is.New(t)
	compressed, err := Parse("둘째, 넷째 일요일")
	is.NoErr(err)
	expanded, err := Parse("둘째 일요일, 넷째 일요일")
	is.NoErr(err)
	is.True(reflect.DeepEqual(compressed, expanded))
}

func TestParseDates(t *testing.T) {
	tests := []struct {
		name    string
		tokens  []string
		want    Rule
		wantErr bool
	}{
		{
			name:   "three dates",
			tokens: []string{"20240310", "20240324", "20240414"},
			want: ExplicitDates{Dates: []time.Time{
				time.Date(2024, 3, 10, 0, 0, 0, 0, KST),
				time.Date(2024, 3, 24, 0, 0, 0, 0, KST),
				time.Date(2024, 4, 14, 0, 0, 0, 0, KST),
			}},
		},
		{
			name:   "empty tokens are skipped",
			tokens: []string{"20240310", "", " "},
			want: ExplicitDates{Dates: []time.Time{
				time.Date(2024, 3, 10, 0, 0, 0, 0, KST),
			}},
		},
		{
			name:   "no dates",
			tokens: []string{"", "", ""},
			want:   ExplicitDates{Dates: []time.Time{}},
		},
		{
			name:    "malformed date",
			tokens:  []string{"2024-03-10"},
			wantErr: true,
		},
		{
			name:    "impossible date",
			tokens:  []string{"20240231"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			got, err := ParseDates(tt.tokens...)
			if tt.wantErr {
				is.True(errors.Is(err, ErrInvalidHolidayDate))
				return
			}
			is.NoErr(err)
			is.Equal(got.String(), tt.want.String())
			is.Equal(len(got.(ExplicitDates).Dates), len(tt.want.(ExplicitDates).Dates))
		})
	}
}
