package holiday

import (
	"testing"
	"time"

	"github.com/matryer/is"
)

func kstDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, KST)
}

func TestExpand(t *testing.T) {
	tests := []struct {
		name      string
		rule      Rule
		reference time.Time
		want      []time.Time
	}{
		{
			name: "second sunday of march and april 2024",
			rule: NthWeekdayOfMonth{Occurrences: []NthWeekday{
				{Ordinal: 2, Weekday: time.Sunday},
			}},
			reference: kstDate(2024, 3, 1),
			want:      []time.Time{kstDate(2024, 3, 10), kstDate(2024, 4, 14)},
		},
		{
			name: "second and fourth sunday",
			rule: NthWeekdayOfMonth{Occurrences: []NthWeekday{
				{Ordinal: 2, Weekday: time.Sunday},
				{Ordinal: 4, Weekday: time.Sunday},
			}},
			reference: kstDate(2024, 3, 15),
			want: []time.Time{
				kstDate(2024, 3, 10), kstDate(2024, 3, 24),
				kstDate(2024, 4, 14), kstDate(2024, 4, 28),
			},
		},
		{
			name: "first day of month is the weekday",
			rule: NthWeekdayOfMonth{Occurrences: []NthWeekday{
				{Ordinal: 1, Weekday: time.Friday},
				{Ordinal: 4, Weekday: time.Friday},
			}},
			reference: kstDate(2024, 3, 20),
			want: []time.Time{
				kstDate(2024, 3, 1), kstDate(2024, 3, 22),
				kstDate(2024, 4, 5), kstDate(2024, 4, 26),
			},
		},
		{
			name: "february with exactly four sundays",
			rule: NthWeekdayOfMonth{Occurrences: []NthWeekday{
				{Ordinal: 4, Weekday: time.Sunday},
			}},
			reference: kstDate(2023, 2, 1),
			want:      []time.Time{kstDate(2023, 2, 26), kstDate(2023, 3, 26)},
		},
		{
			name: "december rolls into january",
			rule: NthWeekdayOfMonth{Occurrences: []NthWeekday{
				{Ordinal: 2, Weekday: time.Wednesday},
				{Ordinal: 4, Weekday: time.Sunday},
			}},
			reference: kstDate(2024, 12, 30),
			want: []time.Time{
				kstDate(2024, 12, 11), kstDate(2024, 12, 22),
				kstDate(2025, 1, 8), kstDate(2025, 1, 26),
			},
		},
		{
			name: "explicit dates are returned verbatim",
			rule: ExplicitDates{Dates: []time.Time{
				kstDate(2024, 3, 10), kstDate(2024, 2, 25),
			}},
			reference: kstDate(2024, 3, 1),
			want:      []time.Time{kstDate(2024, 3, 10), kstDate(2024, 2, 25)},
		},
		{
			name:      "no explicit dates",
			rule:      ExplicitDates{},
			reference: kstDate(2024, 3, 1),
			want:      []time.Time{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			got := Expand(tt.rule, tt.reference)
			is.Equal(len(got), len(tt.want))
			for i := range tt.want {
				if !got[i].Equal(tt.want[i]) {
					t.Errorf("Expand()[%d] got = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestExpand_referenceInAnotherZone(t *testing.T) {
	is := is.New(t)
	rule := NthWeekdayOfMonth{Occurrences: []NthWeekday{{Ordinal: 1, Weekday: time.Monday}}}

	// 2024-03-31 20:00 UTC is already April 1st in Korea
	got := Expand(rule, time.Date(2024, 3, 31, 20, 0, 0, 0, time.UTC))

	is.Equal(len(got), 2)
	is.True(got[0].Equal(kstDate(2024, 4, 1)))
	is.True(got[1].Equal(kstDate(2024, 5, 6)))
}
