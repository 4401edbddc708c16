package workflow

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/attraction-reservation/internal/model"
	"github.com/iliyamo/attraction-reservation/internal/pricing"
)

// PurchaseStore persists committed counter sales.  Implementations
// deduplicate on the purchase's idempotency key like BookingStore.
type PurchaseStore interface {
	CreatePurchase(ctx context.Context, p *model.Purchase) (*model.Purchase, error)
}

// CounterSale is the immediate on-site sale flow.  Unlike the
// reservation wizard it is not a gated sequence: item, quantity,
// discount, notes and payment method can be edited in any order, and
// Complete becomes available as soon as an item is selected.
type CounterSale struct {
	item          *model.Attraction
	quantity      uint32
	discountCents uint32
	notes         string
	customerName  string
	payment       PaymentMethod

	idempotencyKey string
	committing     bool
}

// NewCounterSale starts an empty counter sale with quantity one.
func NewCounterSale() *CounterSale {
	return &CounterSale{
		quantity:       1,
		idempotencyKey: uuid.New().String(),
	}
}

// SelectItem picks the attraction being sold.
func (s *CounterSale) SelectItem(a *model.Attraction) { s.item = a }

// Item returns the currently selected attraction, or nil.
func (s *CounterSale) Item() *model.Attraction { return s.item }

// SetQuantity sets the number of units, which must be at least one.
// When an item is already selected the quantity is also checked
// against the cents ceiling, so a per-unit total can never wrap.
func (s *CounterSale) SetQuantity(n uint32) error {
	if n < 1 {
		return &FieldError{Field: "quantity", Reason: "must be at least 1"}
	}
	if s.item != nil {
		mode, _ := pricing.ParseMode(s.item.PricingMode)
		if _, err := pricing.Subtotal(s.item.BasePriceCents, mode, n); err != nil {
			return &FieldError{Field: "quantity", Reason: "total would exceed the maximum amount"}
		}
	}
	s.quantity = n
	return nil
}

// SetDiscount sets the discount in cents.  The discount may not exceed
// the current subtotal; the calculator re-clamps defensively anyway.
func (s *CounterSale) SetDiscount(cents uint32) error {
	if s.item == nil {
		return &FieldError{Field: "discount", Reason: "select an item first"}
	}
	sub, err := s.Subtotal()
	if err != nil {
		return &FieldError{Field: "quantity", Reason: "total would exceed the maximum amount"}
	}
	if cents > sub {
		return &FieldError{Field: "discount", Reason: "cannot exceed the subtotal"}
	}
	s.discountCents = cents
	return nil
}

// SetNotes records free-text notes for the sale.
func (s *CounterSale) SetNotes(notes string) { s.notes = strings.TrimSpace(notes) }

// SetCustomerName records the optional buyer name.  When left empty the
// committed purchase carries the walk-in placeholder.
func (s *CounterSale) SetCustomerName(name string) { s.customerName = strings.TrimSpace(name) }

// SelectPayment records the payment method for the sale.
func (s *CounterSale) SelectPayment(m PaymentMethod) error {
	if _, ok := ParsePaymentMethod(string(m)); !ok {
		return &FieldError{Field: "payment_method", Reason: "unknown payment method"}
	}
	s.payment = m
	return nil
}

// Subtotal returns the pre-discount amount for the current selection,
// or zero when no item is selected.  An item selected after a huge
// quantity can push the product past the cents ceiling; the calculator
// reports that instead of wrapping.
func (s *CounterSale) Subtotal() (uint32, error) {
	if s.item == nil {
		return 0, nil
	}
	mode, _ := pricing.ParseMode(s.item.PricingMode)
	return pricing.Subtotal(s.item.BasePriceCents, mode, s.quantity)
}

// Total returns the amount due after the discount.
func (s *CounterSale) Total() (uint32, error) {
	if s.item == nil {
		return 0, nil
	}
	mode, _ := pricing.ParseMode(s.item.PricingMode)
	return pricing.ComputeTotal(s.item.BasePriceCents, mode, s.quantity, s.discountCents)
}

// Complete persists the sale as a confirmed purchase and resets the
// flow to its initial state (no item, quantity one, no discount, no
// notes, no payment method, fresh idempotency key).  Without a
// selected item the call is a no-op error and nothing is persisted.
// The commit guard mirrors the reservation wizard: a second Complete
// while the store call is outstanding is refused, and a failed commit
// leaves the selection intact for retry.
func (s *CounterSale) Complete(ctx context.Context, store PurchaseStore, now time.Time) (*model.Purchase, error) {
	if s.item == nil {
		return nil, ErrNoItemSelected
	}
	if s.committing {
		return nil, ErrCommitInFlight
	}
	total, err := s.Total()
	if err != nil {
		return nil, &FieldError{Field: "quantity", Reason: "total would exceed the maximum amount"}
	}

	s.committing = true
	defer func() { s.committing = false }()

	customer := s.customerName
	if customer == "" {
		customer = model.WalkInCustomer
	}
	p := &model.Purchase{
		AttractionID:     s.item.ID,
		AttractionName:   s.item.Name,
		CustomerName:     customer,
		Quantity:         s.quantity,
		Status:           model.PurchaseStatusConfirmed,
		TotalAmountCents: total,
		DiscountCents:    s.discountCents,
		PaymentMethod:    string(s.payment),
		Notes:            s.notes,
		IdempotencyKey:   s.idempotencyKey,
		CreatedAt:        now,
	}
	committed, err := store.CreatePurchase(ctx, p)
	if err != nil {
		return nil, err
	}
	s.reset()
	return committed, nil
}

// reset clears every transient field after a successful commit.
func (s *CounterSale) reset() {
	s.item = nil
	s.quantity = 1
	s.discountCents = 0
	s.notes = ""
	s.customerName = ""
	s.payment = ""
	s.idempotencyKey = uuid.New().String()
}
