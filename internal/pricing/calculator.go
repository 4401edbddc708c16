// Package pricing computes booking and counter-sale totals.  All
// amounts are integer cents; the calculator never returns a negative
// value.
package pricing

import (
	"errors"
	"math"
	"strings"

	"github.com/iliyamo/attraction-reservation/internal/model"
)

// ErrAmountOverflow is returned when a per-unit product does not fit in
// the uint32 cents range carried by stored amounts.
var ErrAmountOverflow = errors.New("amount exceeds the representable cents range")

// Mode is an attraction's pricing rule set.
type Mode string

const (
	// ModePerUnit multiplies the base price by the quantity of
	// participants or units.
	ModePerUnit Mode = model.PricingModePerUnit
	// ModeFixed charges the base price once, ignoring quantity.
	ModeFixed Mode = model.PricingModeFixed
	// ModeGroup is declared in the catalog but has no tier rules of
	// its own; it prices identically to ModeFixed.
	ModeGroup Mode = model.PricingModeGroup
)

// ParseMode normalizes a pricing mode string.  It accepts the stored
// uppercase values as well as the hyphenated spellings used by catalog
// imports ("per-unit", "fixed", "group").
func ParseMode(s string) (Mode, bool) {
	switch strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_")) {
	case string(ModePerUnit):
		return ModePerUnit, true
	case string(ModeFixed):
		return ModeFixed, true
	case string(ModeGroup):
		return ModeGroup, true
	}
	return "", false
}

// Subtotal computes the pre-discount amount in cents for the given
// base price, mode and quantity.  Unknown modes price as fixed.  The
// per-unit product is computed in 64 bits; a result that does not fit
// the uint32 cents range is ErrAmountOverflow, never a wrapped value.
func Subtotal(basePriceCents uint32, mode Mode, quantity uint32) (uint32, error) {
	switch mode {
	case ModePerUnit:
		product := uint64(basePriceCents) * uint64(quantity)
		if product > math.MaxUint32 {
			return 0, ErrAmountOverflow
		}
		return uint32(product), nil
	default:
		// ModeFixed, ModeGroup and anything unrecognized charge the
		// base price once.
		return basePriceCents, nil
	}
}

// ComputeTotal computes the amount due after applying a discount.
// Callers are expected to have clamped the discount to the subtotal
// already; the calculator re-clamps so the result can never go
// negative.
func ComputeTotal(basePriceCents uint32, mode Mode, quantity uint32, discountCents uint32) (uint32, error) {
	sub, err := Subtotal(basePriceCents, mode, quantity)
	if err != nil {
		return 0, err
	}
	if discountCents >= sub {
		return 0, nil
	}
	return sub - discountCents, nil
}
