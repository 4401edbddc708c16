// Package queue defines message payloads exchanged over the message
// broker.  Events carry denormalized fields so downstream consumers
// (notifications, analytics) can react without querying the primary
// database.
package queue

// Queue names.  One durable queue per event type.
const (
	BookingConfirmedQueue    = "commerce.booking.confirmed"
	PurchaseCompletedQueue   = "commerce.purchase.completed"
	InstrumentLifecycleQueue = "commerce.instrument.lifecycle"
)

// BookingConfirmedEvent is published when the reservation workflow
// commits a booking.
type BookingConfirmedEvent struct {
	BookingID        uint64 `json:"booking_id"`
	AttractionID     uint64 `json:"attraction_id"`
	AttractionName   string `json:"attraction_name"`
	CustomerName     string `json:"customer_name"`
	CustomerEmail    string `json:"customer_email"`
	ReservedDate     string `json:"reserved_date"`
	ReservedTime     string `json:"reserved_time"`
	Participants     uint32 `json:"participants"`
	TotalAmountCents uint32 `json:"total_amount_cents"`
	PaymentMethod    string `json:"payment_method"`
	ConfirmedAt      string `json:"confirmed_at"`
}

// PurchaseCompletedEvent is published when a counter sale commits.
type PurchaseCompletedEvent struct {
	PurchaseID       uint64 `json:"purchase_id"`
	AttractionID     uint64 `json:"attraction_id"`
	AttractionName   string `json:"attraction_name"`
	CustomerName     string `json:"customer_name"`
	Quantity         uint32 `json:"quantity"`
	TotalAmountCents uint32 `json:"total_amount_cents"`
	DiscountCents    uint32 `json:"discount_cents"`
	PaymentMethod    string `json:"payment_method"`
	CompletedAt      string `json:"completed_at"`
}

// InstrumentLifecycleEvent is published on every gift instrument
// lifecycle change.  Action is one of CREATED, ACTIVATED, DEACTIVATED,
// UPDATED or DELETED; Status is the effective status after the change.
type InstrumentLifecycleEvent struct {
	InstrumentID uint64 `json:"instrument_id"`
	Code         string `json:"code"`
	Action       string `json:"action"`
	Status       string `json:"status"`
	OccurredAt   string `json:"occurred_at"`
}
