package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iliyamo/attraction-reservation/internal/model"
)

type fakeBookingStore struct {
	byKey    map[string]*model.Booking
	nextID   uint64
	failures int
}

func newFakeBookingStore() *fakeBookingStore {
	return &fakeBookingStore{byKey: map[string]*model.Booking{}}
}

func (f *fakeBookingStore) CreateBooking(_ context.Context, b *model.Booking) (*model.Booking, error) {
	if f.failures > 0 {
		f.failures--
		return nil, errors.New("storage unavailable")
	}
	if prev, ok := f.byKey[b.IdempotencyKey]; ok {
		return prev, nil
	}
	f.nextID++
	c := *b
	c.ID = f.nextID
	f.byKey[b.IdempotencyKey] = &c
	return &c, nil
}

func raftAttraction() *model.Attraction {
	return &model.Attraction{
		ID:             7,
		Name:           "River Rafting",
		DurationValue:  90,
		DurationUnit:   "minutes",
		MaxCapacity:    10,
		BasePriceCents: 2500,
		PricingMode:    model.PricingModePerUnit,
		Availability: model.WeeklyAvailability{
			Monday: true, Tuesday: true, Wednesday: true, Thursday: true,
			Friday: true, Saturday: true, Sunday: true,
		},
		TimeSlots: []string{"10:00", "13:00", "16:00"},
		Status:    model.AttractionStatusActive,
	}
}

func TestReservationGuards(t *testing.T) {
	t.Parallel()

	date := time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC)

	t.Run("cannot advance without date and time", func(t *testing.T) {
		r := NewReservation(raftAttraction())
		if err := r.Advance(); err == nil {
			t.Fatal("expected guard failure with empty selection")
		}
		if r.Step() != StepDateTime {
			t.Fatalf("step moved to %v on failed guard", r.Step())
		}

		if err := r.SelectDate(date); err != nil {
			t.Fatalf("SelectDate: %v", err)
		}
		if err := r.Advance(); err == nil {
			t.Fatal("expected guard failure with no time slot")
		}
		if r.Step() != StepDateTime {
			t.Fatalf("step moved to %v without a time slot", r.Step())
		}
	})

	t.Run("closed day and unknown slot are rejected", func(t *testing.T) {
		a := raftAttraction()
		a.Availability = model.WeeklyAvailability{Saturday: true}
		r := NewReservation(a)
		monday := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
		if err := r.SelectDate(monday); err == nil {
			t.Fatal("expected closed-day rejection")
		}
		if err := r.SelectDate(date); err != nil {
			t.Fatalf("SelectDate on open day: %v", err)
		}
		if err := r.SelectTime("23:59"); err == nil {
			t.Fatal("expected unknown slot rejection")
		}
	})

	t.Run("participants clamp at both bounds", func(t *testing.T) {
		r := NewReservation(raftAttraction())
		r.DecrementParticipants()
		if got := r.Participants(); got != 1 {
			t.Fatalf("participants dropped below 1: %d", got)
		}
		for i := 0; i < 30; i++ {
			r.IncrementParticipants()
		}
		if got := r.Participants(); got != 10 {
			t.Fatalf("participants exceeded capacity: %d", got)
		}
		if err := r.SetParticipants(0); err == nil {
			t.Fatal("expected rejection of zero participants")
		}
		if err := r.SetParticipants(11); err == nil {
			t.Fatal("expected rejection above capacity")
		}
	})

	t.Run("participants that wrap the total are rejected", func(t *testing.T) {
		a := raftAttraction()
		a.BasePriceCents = 3000
		a.MaxCapacity = 300_000_000
		r := NewReservation(a)
		// 3000 x 200,000,000 = 600,000,000,000 cents; 32-bit
		// arithmetic would wrap this to a plausible-looking total.
		if err := r.SetParticipants(200_000_000); err == nil {
			t.Fatal("expected rejection of an overflowing party size")
		}
		if r.Participants() != 1 {
			t.Fatalf("participants changed to %d on rejected edit", r.Participants())
		}
		if err := r.SetParticipants(1000); err != nil {
			t.Fatalf("SetParticipants within range: %v", err)
		}
		if total, err := r.Total(); err != nil || total != 3_000_000 {
			t.Fatalf("total = %d (%v), want 3000000", total, err)
		}
	})

	t.Run("customer info requires names and email", func(t *testing.T) {
		r := NewReservation(raftAttraction())
		if err := r.SetCustomer("", "Reed", "a@b.c", ""); err == nil {
			t.Fatal("expected first_name rejection")
		}
		if err := r.SetCustomer("Ana", "", "a@b.c", ""); err == nil {
			t.Fatal("expected last_name rejection")
		}
		if err := r.SetCustomer("Ana", "Reed", "  ", ""); err == nil {
			t.Fatal("expected email rejection")
		}
	})

	t.Run("backward moves keep entered data", func(t *testing.T) {
		r := NewReservation(raftAttraction())
		mustSetup(t, r, date)
		if r.Step() != StepPayment {
			t.Fatalf("setup should land on payment, got %v", r.Step())
		}
		r.Back()
		r.Back()
		if r.Step() != StepParticipants {
			t.Fatalf("expected participants step, got %v", r.Step())
		}
		if r.Participants() != 3 {
			t.Fatalf("participant count lost on Back: %d", r.Participants())
		}
		if err := r.Advance(); err != nil {
			t.Fatalf("re-advance after Back: %v", err)
		}
	})

	t.Run("advance cannot enter confirmation", func(t *testing.T) {
		r := NewReservation(raftAttraction())
		mustSetup(t, r, date)
		if err := r.Advance(); !errors.Is(err, ErrAdvanceBlocked) {
			t.Fatalf("expected ErrAdvanceBlocked, got %v", err)
		}
	})
}

// mustSetup walks a reservation through steps 1-3 and selects payment:
// date, slot 13:00, three participants, customer details, cash.
func mustSetup(t *testing.T, r *Reservation, date time.Time) {
	t.Helper()
	if err := r.SelectDate(date); err != nil {
		t.Fatalf("SelectDate: %v", err)
	}
	if err := r.SelectTime("13:00"); err != nil {
		t.Fatalf("SelectTime: %v", err)
	}
	if err := r.Advance(); err != nil {
		t.Fatalf("advance to participants: %v", err)
	}
	if err := r.SetParticipants(3); err != nil {
		t.Fatalf("SetParticipants: %v", err)
	}
	if err := r.Advance(); err != nil {
		t.Fatalf("advance to customer info: %v", err)
	}
	if err := r.SetCustomer("Ana", "Reed", "ana@example.com", "555-0117"); err != nil {
		t.Fatalf("SetCustomer: %v", err)
	}
	if err := r.Advance(); err != nil {
		t.Fatalf("advance to payment: %v", err)
	}
	if err := r.SelectPayment(PayCash); err != nil {
		t.Fatalf("SelectPayment: %v", err)
	}
}

func TestReservationComplete(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	date := time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC)

	t.Run("commits a confirmed booking with computed total", func(t *testing.T) {
		r := NewReservation(raftAttraction())
		mustSetup(t, r, date)
		store := newFakeBookingStore()

		b, err := r.Complete(context.Background(), store, now)
		if err != nil {
			t.Fatalf("Complete: %v", err)
		}
		if b.Status != model.BookingStatusConfirmed {
			t.Fatalf("status = %s, want CONFIRMED", b.Status)
		}
		if b.TotalAmountCents != 7500 {
			t.Fatalf("total = %d, want 7500 (25.00 x 3)", b.TotalAmountCents)
		}
		if b.DurationLabel != "90 minutes" {
			t.Fatalf("duration label = %q", b.DurationLabel)
		}
		if b.ReservedTime != "13:00" || !b.ReservedDate.Equal(date) {
			t.Fatalf("unexpected schedule %v %s", b.ReservedDate, b.ReservedTime)
		}
		if r.Step() != StepConfirmation {
			t.Fatalf("step = %v, want confirmation", r.Step())
		}
	})

	t.Run("refuses to commit with unmet guards", func(t *testing.T) {
		r := NewReservation(raftAttraction())
		if err := r.SelectDate(date); err != nil {
			t.Fatalf("SelectDate: %v", err)
		}
		store := newFakeBookingStore()
		if _, err := r.Complete(context.Background(), store, now); err == nil {
			t.Fatal("expected guard failure")
		}
		if len(store.byKey) != 0 {
			t.Fatal("a record was persisted despite failing guards")
		}
	})

	t.Run("failed commit keeps state and allows retry", func(t *testing.T) {
		r := NewReservation(raftAttraction())
		mustSetup(t, r, date)
		store := newFakeBookingStore()
		store.failures = 1

		if _, err := r.Complete(context.Background(), store, now); err == nil {
			t.Fatal("expected persistence failure")
		}
		if r.Step() == StepConfirmation {
			t.Fatal("step advanced despite failed commit")
		}
		b, err := r.Complete(context.Background(), store, now)
		if err != nil {
			t.Fatalf("retry failed: %v", err)
		}
		if b.IdempotencyKey != r.IdempotencyKey() {
			t.Fatal("retry used a different idempotency key")
		}
	})

	t.Run("repeated commit is deduplicated by key", func(t *testing.T) {
		r := NewReservation(raftAttraction())
		mustSetup(t, r, date)
		store := newFakeBookingStore()

		first, err := r.Complete(context.Background(), store, now)
		if err != nil {
			t.Fatalf("first Complete: %v", err)
		}
		second, err := r.Complete(context.Background(), store, now)
		if err != nil {
			t.Fatalf("second Complete: %v", err)
		}
		if first.ID != second.ID {
			t.Fatalf("duplicate rows created: %d and %d", first.ID, second.ID)
		}
		if len(store.byKey) != 1 {
			t.Fatalf("store holds %d records, want 1", len(store.byKey))
		}
	})
}
