package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iliyamo/attraction-reservation/internal/model"
)

type fakePurchaseStore struct {
	byKey    map[string]*model.Purchase
	nextID   uint64
	failures int
}

func newFakePurchaseStore() *fakePurchaseStore {
	return &fakePurchaseStore{byKey: map[string]*model.Purchase{}}
}

func (f *fakePurchaseStore) CreatePurchase(_ context.Context, p *model.Purchase) (*model.Purchase, error) {
	if f.failures > 0 {
		f.failures--
		return nil, errors.New("storage unavailable")
	}
	if prev, ok := f.byKey[p.IdempotencyKey]; ok {
		return prev, nil
	}
	f.nextID++
	c := *p
	c.ID = f.nextID
	f.byKey[p.IdempotencyKey] = &c
	return &c, nil
}

func dayPassItem() *model.Attraction {
	return &model.Attraction{
		ID:             12,
		Name:           "Day Pass",
		MaxCapacity:    1,
		BasePriceCents: 4000,
		PricingMode:    model.PricingModePerUnit,
		Status:         model.AttractionStatusActive,
	}
}

func TestCounterSale(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("complete without an item is a no-op", func(t *testing.T) {
		s := NewCounterSale()
		store := newFakePurchaseStore()
		if _, err := s.Complete(context.Background(), store, now); !errors.Is(err, ErrNoItemSelected) {
			t.Fatalf("expected ErrNoItemSelected, got %v", err)
		}
		if len(store.byKey) != 0 {
			t.Fatal("a record was persisted without an item")
		}
	})

	t.Run("discount is validated against the subtotal", func(t *testing.T) {
		s := NewCounterSale()
		if err := s.SetDiscount(100); err == nil {
			t.Fatal("expected rejection before an item is selected")
		}
		s.SelectItem(dayPassItem())
		if err := s.SetQuantity(2); err != nil {
			t.Fatalf("SetQuantity: %v", err)
		}
		if err := s.SetDiscount(8001); err == nil {
			t.Fatal("expected rejection above subtotal")
		}
		if err := s.SetDiscount(1500); err != nil {
			t.Fatalf("SetDiscount: %v", err)
		}
		if got, err := s.Subtotal(); err != nil || got != 8000 {
			t.Fatalf("subtotal = %d (%v), want 8000", got, err)
		}
		if got, err := s.Total(); err != nil || got != 6500 {
			t.Fatalf("total = %d (%v), want 6500", got, err)
		}
	})

	t.Run("quantities that wrap the total are rejected", func(t *testing.T) {
		s := NewCounterSale()
		s.SelectItem(dayPassItem())
		// 4000 x 2,000,000 = 8,000,000,000 cents, past the uint32
		// ceiling; 32-bit arithmetic would wrap to a smaller number.
		if err := s.SetQuantity(2_000_000); err == nil {
			t.Fatal("expected rejection of an overflowing quantity")
		}
		if s.quantity != 1 {
			t.Fatalf("quantity changed to %d on rejected edit", s.quantity)
		}
	})

	t.Run("item selected after a huge quantity cannot commit a wrapped total", func(t *testing.T) {
		s := NewCounterSale()
		if err := s.SetQuantity(2_000_000); err != nil {
			t.Fatalf("SetQuantity before item: %v", err)
		}
		s.SelectItem(dayPassItem())
		if _, err := s.Subtotal(); err == nil {
			t.Fatal("expected subtotal overflow error")
		}
		store := newFakePurchaseStore()
		if _, err := s.Complete(context.Background(), store, now); err == nil {
			t.Fatal("expected commit rejection on overflowing total")
		}
		if len(store.byKey) != 0 {
			t.Fatal("a record was persisted with an overflowing total")
		}
	})

	t.Run("fields can be edited in any order", func(t *testing.T) {
		s := NewCounterSale()
		s.SetNotes("birthday group")
		if err := s.SelectPayment(PayCard); err != nil {
			t.Fatalf("SelectPayment: %v", err)
		}
		s.SelectItem(dayPassItem())
		if err := s.SetQuantity(3); err != nil {
			t.Fatalf("SetQuantity: %v", err)
		}
		if got, err := s.Total(); err != nil || got != 12000 {
			t.Fatalf("total = %d (%v), want 12000", got, err)
		}
	})

	t.Run("successful commit persists and resets", func(t *testing.T) {
		s := NewCounterSale()
		s.SelectItem(dayPassItem())
		if err := s.SetQuantity(2); err != nil {
			t.Fatalf("SetQuantity: %v", err)
		}
		if err := s.SetDiscount(1500); err != nil {
			t.Fatalf("SetDiscount: %v", err)
		}
		if err := s.SelectPayment(PayCash); err != nil {
			t.Fatalf("SelectPayment: %v", err)
		}
		firstKey := s.idempotencyKey
		store := newFakePurchaseStore()

		p, err := s.Complete(context.Background(), store, now)
		if err != nil {
			t.Fatalf("Complete: %v", err)
		}
		if p.Status != model.PurchaseStatusConfirmed {
			t.Fatalf("status = %s, want CONFIRMED", p.Status)
		}
		if p.TotalAmountCents != 6500 || p.DiscountCents != 1500 {
			t.Fatalf("amounts = %d/%d, want 6500/1500", p.TotalAmountCents, p.DiscountCents)
		}
		if p.CustomerName != model.WalkInCustomer {
			t.Fatalf("customer = %q, want walk-in placeholder", p.CustomerName)
		}

		if s.Item() != nil {
			t.Fatal("item not reset after commit")
		}
		if s.quantity != 1 || s.discountCents != 0 || s.notes != "" || s.payment != "" {
			t.Fatal("transient state not reset after commit")
		}
		if s.idempotencyKey == firstKey {
			t.Fatal("idempotency key not rotated after commit")
		}
	})

	t.Run("failed commit keeps the selection", func(t *testing.T) {
		s := NewCounterSale()
		s.SelectItem(dayPassItem())
		store := newFakePurchaseStore()
		store.failures = 1

		if _, err := s.Complete(context.Background(), store, now); err == nil {
			t.Fatal("expected persistence failure")
		}
		if s.Item() == nil {
			t.Fatal("selection reset despite failed commit")
		}
		if _, err := s.Complete(context.Background(), store, now); err != nil {
			t.Fatalf("retry failed: %v", err)
		}
	})
}
