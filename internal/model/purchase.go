package model

import "time"

// WalkInCustomer is the placeholder name recorded on counter sales when
// the buyer's identity is not captured.
const WalkInCustomer = "Walk-in Customer"

// Purchase status values stored in purchases.status.  Counter sales are
// committed immediately, so CONFIRMED is the only value this service writes.
const PurchaseStatusConfirmed = "CONFIRMED"

// Purchase records an immediate on-site sale of attraction access made
// through the counter-sale flow.  There is no scheduled date; the sale
// is consumed on the spot.
//
// Fields:
//  ID               – primary key identifier.
//  AttractionID     – attraction sold.
//  AttractionName   – denormalized attraction display name.
//  CustomerName     – buyer name, defaults to WalkInCustomer.
//  Quantity         – number of units sold (>= 1).
//  Status           – always CONFIRMED.
//  TotalAmountCents – post-discount total in cents.
//  DiscountCents    – discount applied, 0 <= discount <= subtotal.
//  PaymentMethod    – selected payment method.
//  Notes            – free-text notes entered at the counter.
//  IdempotencyKey   – per-sale key; unique column guards against a
//                     rapid double submission creating two rows.
//  CreatedAt        – creation timestamp.
type Purchase struct {
	ID               uint64    // purchases.id
	AttractionID     uint64    // purchases.attraction_id
	AttractionName   string    // purchases.attraction_name
	CustomerName     string    // purchases.customer_name
	Quantity         uint32    // purchases.quantity
	Status           string    // purchases.status
	TotalAmountCents uint32    // purchases.total_amount_cents
	DiscountCents    uint32    // purchases.discount_cents
	PaymentMethod    string    // purchases.payment_method
	Notes            string    // purchases.notes
	IdempotencyKey   string    // purchases.idempotency_key (unique)
	CreatedAt        time.Time // purchases.created_at
}
