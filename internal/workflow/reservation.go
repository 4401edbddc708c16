package workflow

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/attraction-reservation/internal/model"
	"github.com/iliyamo/attraction-reservation/internal/pricing"
)

// Step identifies a stage of the reservation wizard.  The wizard is
// strictly linear: each forward transition has an entry guard, backward
// transitions are always permitted, and the confirmation step is only
// reachable through Complete.
type Step int

const (
	StepDateTime Step = iota + 1
	StepParticipants
	StepCustomerInfo
	StepPayment
	StepConfirmation
)

// String returns the wire name of a step as exposed to the UI.
func (s Step) String() string {
	switch s {
	case StepDateTime:
		return "DATE_TIME"
	case StepParticipants:
		return "PARTICIPANTS"
	case StepCustomerInfo:
		return "CUSTOMER_INFO"
	case StepPayment:
		return "PAYMENT"
	case StepConfirmation:
		return "CONFIRMATION"
	}
	return "UNKNOWN"
}

// BookingStore persists committed bookings.  Implementations must
// deduplicate on the booking's idempotency key and return the
// previously committed record when the same key is inserted again.
type BookingStore interface {
	CreateBooking(ctx context.Context, b *model.Booking) (*model.Booking, error)
}

// Reservation is one in-flight run of the booking wizard for a single
// attraction.  It owns its selection state exclusively; abandoning the
// wizard before Complete persists nothing.
type Reservation struct {
	attraction *model.Attraction

	step         Step
	date         time.Time
	dateSet      bool
	timeSlot     string
	participants uint32
	firstName    string
	lastName     string
	email        string
	phone        string
	payment      PaymentMethod

	idempotencyKey string
	committing     bool
}

// NewReservation starts a wizard instance at the date/time step with a
// party of one.  Each instance carries its own idempotency key so a
// repeated commit cannot create a second booking row.
func NewReservation(a *model.Attraction) *Reservation {
	return &Reservation{
		attraction:     a,
		step:           StepDateTime,
		participants:   1,
		idempotencyKey: uuid.New().String(),
	}
}

// Step returns the wizard's current step.
func (r *Reservation) Step() Step { return r.step }

// IdempotencyKey returns the commit deduplication key for this instance.
func (r *Reservation) IdempotencyKey() string { return r.idempotencyKey }

// Participants returns the currently selected party size.
func (r *Reservation) Participants() uint32 { return r.participants }

// SelectDate records the reservation date.  The date must fall on a
// weekday the attraction is open; closed days are rejected so the
// selection always mirrors what ResolveDates would offer.
func (r *Reservation) SelectDate(d time.Time) error {
	if !r.attraction.Availability.Bookable(d.Weekday()) {
		return &FieldError{Field: "date", Reason: "attraction is closed on this day"}
	}
	u := d.UTC()
	r.date = time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	r.dateSet = true
	return nil
}

// SelectTime records the time slot.  A date must already be selected
// and the slot must be one the attraction offers.
func (r *Reservation) SelectTime(slot string) error {
	if !r.dateSet {
		return &FieldError{Field: "time", Reason: "select a date first"}
	}
	slot = strings.TrimSpace(slot)
	for _, s := range r.attraction.TimeSlots {
		if s == slot {
			r.timeSlot = slot
			return nil
		}
	}
	return &FieldError{Field: "time", Reason: "slot is not offered for this attraction"}
}

// IncrementParticipants raises the party size, clamped at the
// attraction's maximum capacity.
func (r *Reservation) IncrementParticipants() {
	if r.participants < r.attraction.MaxCapacity {
		r.participants++
	}
}

// DecrementParticipants lowers the party size, clamped at one.
func (r *Reservation) DecrementParticipants() {
	if r.participants > 1 {
		r.participants--
	}
}

// SetParticipants sets the party size directly, rejecting values
// outside [1, MaxCapacity] and values whose per-unit total would not
// fit the stored cents range.
func (r *Reservation) SetParticipants(n uint32) error {
	if n < 1 || n > r.attraction.MaxCapacity {
		return &FieldError{Field: "participants", Reason: "must be between 1 and the attraction capacity"}
	}
	mode, _ := pricing.ParseMode(r.attraction.PricingMode)
	if _, err := pricing.Subtotal(r.attraction.BasePriceCents, mode, n); err != nil {
		return &FieldError{Field: "participants", Reason: "total would exceed the maximum amount"}
	}
	r.participants = n
	return nil
}

// SetCustomer records the customer's contact details.  First name,
// last name and email must be non-empty; email format checking is left
// to the UI.  Phone is optional.
func (r *Reservation) SetCustomer(first, last, email, phone string) error {
	first = strings.TrimSpace(first)
	last = strings.TrimSpace(last)
	email = strings.TrimSpace(email)
	if first == "" {
		return &FieldError{Field: "first_name", Reason: "required"}
	}
	if last == "" {
		return &FieldError{Field: "last_name", Reason: "required"}
	}
	if email == "" {
		return &FieldError{Field: "email", Reason: "required"}
	}
	r.firstName, r.lastName, r.email, r.phone = first, last, email, strings.TrimSpace(phone)
	return nil
}

// SelectPayment records the payment method for the booking.
func (r *Reservation) SelectPayment(m PaymentMethod) error {
	if _, ok := ParsePaymentMethod(string(m)); !ok {
		return &FieldError{Field: "payment_method", Reason: "unknown payment method"}
	}
	r.payment = m
	return nil
}

// Advance moves the wizard one step forward after the current step's
// entry guard passes.  On a guard failure the wizard stays put and the
// failing field is reported.  Advancing from the payment step is not
// possible; confirmation is entered through Complete only.
func (r *Reservation) Advance() error {
	switch r.step {
	case StepDateTime:
		if err := r.guardDateTime(); err != nil {
			return err
		}
		r.step = StepParticipants
	case StepParticipants:
		if err := r.guardParticipants(); err != nil {
			return err
		}
		r.step = StepCustomerInfo
	case StepCustomerInfo:
		if err := r.guardCustomer(); err != nil {
			return err
		}
		r.step = StepPayment
	default:
		return ErrAdvanceBlocked
	}
	return nil
}

// Back moves the wizard one step backward.  Backward moves are always
// permitted and never clear previously entered data.
func (r *Reservation) Back() {
	if r.step > StepDateTime && r.step < StepConfirmation {
		r.step--
	}
}

// Total returns the amount due for the current selection.
func (r *Reservation) Total() (uint32, error) {
	mode, _ := pricing.ParseMode(r.attraction.PricingMode)
	return pricing.ComputeTotal(r.attraction.BasePriceCents, mode, r.participants, 0)
}

// Complete validates every entry guard, builds a confirmed booking and
// persists it through the store.  While the store call is outstanding
// the instance refuses a second Complete; the guard is released when
// the call resolves so a failed commit can be retried with the
// selection intact.  On success the wizard lands on the confirmation
// step and the committed record (possibly a deduplicated earlier one)
// is returned.
func (r *Reservation) Complete(ctx context.Context, store BookingStore, now time.Time) (*model.Booking, error) {
	if r.committing {
		return nil, ErrCommitInFlight
	}
	if err := r.guardDateTime(); err != nil {
		return nil, err
	}
	if err := r.guardParticipants(); err != nil {
		return nil, err
	}
	if err := r.guardCustomer(); err != nil {
		return nil, err
	}
	if err := r.guardPayment(); err != nil {
		return nil, err
	}
	total, err := r.Total()
	if err != nil {
		return nil, &FieldError{Field: "participants", Reason: "total would exceed the maximum amount"}
	}

	r.committing = true
	defer func() { r.committing = false }()

	b := &model.Booking{
		AttractionID:     r.attraction.ID,
		AttractionName:   r.attraction.Name,
		CustomerFirst:    r.firstName,
		CustomerLast:     r.lastName,
		CustomerEmail:    r.email,
		CustomerPhone:    r.phone,
		ReservedDate:     r.date,
		ReservedTime:     r.timeSlot,
		Participants:     r.participants,
		Status:           model.BookingStatusConfirmed,
		TotalAmountCents: total,
		PaymentMethod:    string(r.payment),
		DurationLabel:    r.attraction.DurationLabel(),
		IdempotencyKey:   r.idempotencyKey,
		CreatedAt:        now,
	}
	committed, err := store.CreateBooking(ctx, b)
	if err != nil {
		return nil, err
	}
	r.step = StepConfirmation
	return committed, nil
}

func (r *Reservation) guardDateTime() error {
	if !r.dateSet {
		return &FieldError{Field: "date", Reason: "required"}
	}
	if r.timeSlot == "" {
		return &FieldError{Field: "time", Reason: "required"}
	}
	return nil
}

func (r *Reservation) guardParticipants() error {
	if r.participants < 1 || r.participants > r.attraction.MaxCapacity {
		return &FieldError{Field: "participants", Reason: "must be between 1 and the attraction capacity"}
	}
	return nil
}

func (r *Reservation) guardCustomer() error {
	if r.firstName == "" {
		return &FieldError{Field: "first_name", Reason: "required"}
	}
	if r.lastName == "" {
		return &FieldError{Field: "last_name", Reason: "required"}
	}
	if r.email == "" {
		return &FieldError{Field: "email", Reason: "required"}
	}
	return nil
}

func (r *Reservation) guardPayment() error {
	if r.payment == "" {
		return &FieldError{Field: "payment_method", Reason: "required"}
	}
	return nil
}
