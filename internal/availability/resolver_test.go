package availability

import (
	"testing"
	"time"

	"github.com/iliyamo/attraction-reservation/internal/model"
)

func weekendAttraction() *model.Attraction {
	return &model.Attraction{
		Name:        "Zipline Canopy Tour",
		MaxCapacity: 8,
		Availability: model.WeeklyAvailability{
			Saturday: true,
			Sunday:   true,
		},
		TimeSlots: []string{"09:00", "11:30", "14:00"},
	}
}

func TestResolveDates(t *testing.T) {
	t.Parallel()

	// 2025-06-02 is a Monday.
	start := time.Date(2025, 6, 2, 10, 15, 0, 0, time.UTC)

	t.Run("returns only open weekdays in ascending order", func(t *testing.T) {
		a := weekendAttraction()
		dates := ResolveDates(a, start, 14)
		if len(dates) != 4 {
			t.Fatalf("expected 4 weekend dates in 14 days, got %d", len(dates))
		}
		for i, d := range dates {
			if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
				t.Fatalf("date %v has closed weekday %v", d, wd)
			}
			if i > 0 && !dates[i-1].Before(d) {
				t.Fatalf("dates not ascending: %v before %v", dates[i-1], d)
			}
		}
		if got, want := dates[0], time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
			t.Fatalf("first date = %v, want %v", got, want)
		}
	})

	t.Run("omits no open weekday in range", func(t *testing.T) {
		a := weekendAttraction()
		a.Availability = model.WeeklyAvailability{
			Monday: true, Tuesday: true, Wednesday: true, Thursday: true,
			Friday: true, Saturday: true, Sunday: true,
		}
		dates := ResolveDates(a, start, 30)
		if len(dates) != 30 {
			t.Fatalf("all-open pattern over 30 days returned %d dates", len(dates))
		}
	})

	t.Run("all-closed pattern yields empty sequence", func(t *testing.T) {
		a := weekendAttraction()
		a.Availability = model.WeeklyAvailability{}
		if dates := ResolveDates(a, start, 30); len(dates) != 0 {
			t.Fatalf("expected no dates, got %d", len(dates))
		}
	})

	t.Run("non-positive window falls back to default", func(t *testing.T) {
		a := weekendAttraction()
		a.Availability = model.WeeklyAvailability{
			Monday: true, Tuesday: true, Wednesday: true, Thursday: true,
			Friday: true, Saturday: true, Sunday: true,
		}
		if got := len(ResolveDates(a, start, 0)); got != DefaultWindowDays {
			t.Fatalf("default window returned %d dates, want %d", got, DefaultWindowDays)
		}
	})

	t.Run("restartable: same inputs produce same output", func(t *testing.T) {
		a := weekendAttraction()
		first := ResolveDates(a, start, 21)
		second := ResolveDates(a, start, 21)
		if len(first) != len(second) {
			t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
		}
		for i := range first {
			if !first[i].Equal(second[i]) {
				t.Fatalf("index %d differs: %v vs %v", i, first[i], second[i])
			}
		}
	})
}

func TestResolveTimes(t *testing.T) {
	t.Parallel()

	a := weekendAttraction()
	saturday := time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC)
	monday := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	t.Run("open day returns the full slot list", func(t *testing.T) {
		slots := ResolveTimes(a, saturday)
		if len(slots) != 3 {
			t.Fatalf("expected 3 slots, got %d", len(slots))
		}
		if slots[0] != "09:00" || slots[2] != "14:00" {
			t.Fatalf("unexpected slots %v", slots)
		}
	})

	t.Run("closed day returns an empty sequence", func(t *testing.T) {
		if slots := ResolveTimes(a, monday); len(slots) != 0 {
			t.Fatalf("expected no slots on a closed day, got %v", slots)
		}
	})

	t.Run("returned slice is a copy", func(t *testing.T) {
		slots := ResolveTimes(a, saturday)
		slots[0] = "mutated"
		if a.TimeSlots[0] != "09:00" {
			t.Fatalf("attraction slot list was mutated: %v", a.TimeSlots)
		}
	})
}
