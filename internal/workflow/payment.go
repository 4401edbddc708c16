package workflow

import "strings"

// PaymentMethod enumerates how a booking or counter sale is paid.
type PaymentMethod string

const (
	PayCash   PaymentMethod = "CASH"
	PayCard   PaymentMethod = "CARD"
	PayOnline PaymentMethod = "ONLINE"
)

// ParsePaymentMethod normalizes a payment method string.  Unknown
// values are rejected; the wizard cannot pass its payment guard
// without a method from this set.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch PaymentMethod(strings.ToUpper(strings.TrimSpace(s))) {
	case PayCash:
		return PayCash, true
	case PayCard:
		return PayCard, true
	case PayOnline:
		return PayOnline, true
	}
	return "", false
}
