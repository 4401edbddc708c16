// Package availability resolves which calendar dates and time slots of
// an attraction can be offered for booking.  Both functions are pure:
// the result depends only on the attraction record and the requested
// window, so callers may re-run them at any point of the wizard.
package availability

import (
	"time"

	"github.com/iliyamo/attraction-reservation/internal/model"
)

// DefaultWindowDays is the booking horizon offered when the caller does
// not ask for a specific window length.
const DefaultWindowDays = 30

// ResolveDates returns the bookable calendar dates for an attraction
// within [windowStart, windowStart+windowDays).  A date is bookable
// when its day of week is open in the attraction's weekly pattern.
// Dates are returned in ascending order, truncated to midnight UTC.
// A non-positive windowDays falls back to DefaultWindowDays.  An
// all-closed weekly pattern yields an empty slice.
func ResolveDates(a *model.Attraction, windowStart time.Time, windowDays int) []time.Time {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	start := midnightUTC(windowStart)
	dates := make([]time.Time, 0, windowDays)
	for i := 0; i < windowDays; i++ {
		d := start.AddDate(0, 0, i)
		if a.Availability.Bookable(d.Weekday()) {
			dates = append(dates, d)
		}
	}
	return dates
}

// ResolveTimes returns the offerable time slots for an attraction on
// the selected date.  When the date's day of week is open, the
// attraction's full slot list is returned; slots are not filtered by
// prior bookings because no per-slot occupancy ledger exists.  A
// closed day yields an empty slice.
func ResolveTimes(a *model.Attraction, selectedDate time.Time) []string {
	if !a.Availability.Bookable(selectedDate.Weekday()) {
		return []string{}
	}
	slots := make([]string, len(a.TimeSlots))
	copy(slots, a.TimeSlots)
	return slots
}

// midnightUTC truncates a timestamp to the start of its UTC day.
func midnightUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
