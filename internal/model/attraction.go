package model

import (
	"fmt"
	"time"
)

// Attraction lifecycle status values stored in attractions.status.
const (
	AttractionStatusActive   = "ACTIVE"
	AttractionStatusInactive = "INACTIVE"
)

// Pricing mode values stored in attractions.pricing_mode.  GROUP is
// accepted but priced identically to FIXED; no tier rules exist yet.
const (
	PricingModePerUnit = "PER_UNIT"
	PricingModeFixed   = "FIXED"
	PricingModeGroup   = "GROUP"
)

// WeeklyAvailability is the day-of-week open pattern of an attraction.
// Each field mirrors a tinyint column in the attractions table.  A day
// marked false can never be booked regardless of time slots.
type WeeklyAvailability struct {
	Monday    bool // attractions.open_monday
	Tuesday   bool // attractions.open_tuesday
	Wednesday bool // attractions.open_wednesday
	Thursday  bool // attractions.open_thursday
	Friday    bool // attractions.open_friday
	Saturday  bool // attractions.open_saturday
	Sunday    bool // attractions.open_sunday
}

// Bookable reports whether the given weekday is open for booking.
func (w WeeklyAvailability) Bookable(d time.Weekday) bool {
	switch d {
	case time.Monday:
		return w.Monday
	case time.Tuesday:
		return w.Tuesday
	case time.Wednesday:
		return w.Wednesday
	case time.Thursday:
		return w.Thursday
	case time.Friday:
		return w.Friday
	case time.Saturday:
		return w.Saturday
	case time.Sunday:
		return w.Sunday
	}
	return false
}

// HasBookableDay reports whether at least one weekday is open.  An
// attraction with an all-closed pattern yields no bookable dates and
// the reservation wizard must not advance past date selection.
func (w WeeklyAvailability) HasBookableDay() bool {
	return w.Monday || w.Tuesday || w.Wednesday || w.Thursday ||
		w.Friday || w.Saturday || w.Sunday
}

// Attraction represents a bookable activity offered by the venue.
// It corresponds to a row in the `attractions` table.  Time slots are
// stored as a JSON array of "HH:MM" labels in a TEXT column.
//
// Fields:
//  ID             – primary key identifier.
//  OwnerID        – staff user who manages this attraction.
//  Name           – display name, unique per owner.
//  Description    – optional free-text description.
//  Location       – human-readable location label within the venue.
//  DurationValue  – duration magnitude (e.g. 90).
//  DurationUnit   – duration unit ("minutes" or "hours").
//  MaxCapacity    – maximum participants per booking (>= 1).
//  BasePriceCents – base price in cents (>= 0).
//  PricingMode    – PER_UNIT, FIXED or GROUP.
//  Availability   – weekly open/closed pattern.
//  TimeSlots      – flat list of offerable time-of-day labels.
//  Status         – ACTIVE or INACTIVE.
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
type Attraction struct {
	ID             uint64             // attractions.id
	OwnerID        uint64             // attractions.owner_id
	Name           string             // attractions.name
	Description    *string            // attractions.description (nullable)
	Location       string             // attractions.location
	DurationValue  uint32             // attractions.duration_value
	DurationUnit   string             // attractions.duration_unit
	MaxCapacity    uint32             // attractions.max_capacity
	BasePriceCents uint32             // attractions.base_price_cents
	PricingMode    string             // attractions.pricing_mode
	Availability   WeeklyAvailability // attractions.open_* columns
	TimeSlots      []string           // attractions.time_slots (JSON array)
	Status         string             // attractions.status
	CreatedAt      time.Time          // attractions.created_at
	UpdatedAt      time.Time          // attractions.updated_at
}

// DurationLabel renders the duration for denormalized storage on
// bookings, e.g. "90 minutes".
func (a *Attraction) DurationLabel() string {
	return fmt.Sprintf("%d %s", a.DurationValue, a.DurationUnit)
}
