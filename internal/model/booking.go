package model

import "time"

// Booking status values stored in bookings.status.  The reservation
// workflow only ever writes CONFIRMED; cancellation and completion are
// applied later by back-office tooling outside this service's wizard.
const (
	BookingStatusConfirmed = "CONFIRMED"
	BookingStatusCancelled = "CANCELLED"
	BookingStatusCompleted = "COMPLETED"
)

// Booking records a committed, time-scheduled reservation against an
// attraction.  The attraction name and duration label are denormalized
// so the record stays readable even if the attraction changes later.
// A booking is immutable once written by the reservation workflow.
//
// Fields:
//  ID               – primary key identifier.
//  AttractionID     – attraction being reserved.
//  AttractionName   – denormalized attraction display name.
//  CustomerFirst    – customer first name.
//  CustomerLast     – customer last name.
//  CustomerEmail    – customer email address.
//  CustomerPhone    – optional customer phone number.
//  ReservedDate     – calendar date of the reservation (midnight UTC).
//  ReservedTime     – time-of-day slot label, e.g. "14:30".
//  Participants     – party size, 1..attraction.MaxCapacity.
//  Status           – CONFIRMED, CANCELLED or COMPLETED.
//  TotalAmountCents – computed total, immutable after commit.
//  PaymentMethod    – selected payment method.
//  DurationLabel    – denormalized duration text, e.g. "90 minutes".
//  IdempotencyKey   – per-workflow-instance key; unique column so a
//                     repeated commit cannot create a second row.
//  CreatedAt        – creation timestamp.
type Booking struct {
	ID               uint64    // bookings.id
	AttractionID     uint64    // bookings.attraction_id
	AttractionName   string    // bookings.attraction_name
	CustomerFirst    string    // bookings.customer_first
	CustomerLast     string    // bookings.customer_last
	CustomerEmail    string    // bookings.customer_email
	CustomerPhone    string    // bookings.customer_phone
	ReservedDate     time.Time // bookings.reserved_date
	ReservedTime     string    // bookings.reserved_time
	Participants     uint32    // bookings.participants
	Status           string    // bookings.status
	TotalAmountCents uint32    // bookings.total_amount_cents
	PaymentMethod    string    // bookings.payment_method
	DurationLabel    string    // bookings.duration_label
	IdempotencyKey   string    // bookings.idempotency_key (unique)
	CreatedAt        time.Time // bookings.created_at
}
