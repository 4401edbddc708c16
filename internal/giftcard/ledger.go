// Package giftcard holds the validation rules, derived-status
// projection and code generation for gift instruments.  Persistence
// lives in the repository layer; everything here is pure.
package giftcard

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/iliyamo/attraction-reservation/internal/model"
)

// FieldError reports a rejected instrument field.  Nothing is created
// or updated when validation fails.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// Params carries raw instrument input as received from the caller.
// Numeric fields arrive as strings and are parsed here so that a
// non-numeric value ("abc") is rejected as a field error rather than a
// transport failure.
type Params struct {
	ValueMode    string
	InitialValue string
	Balance      string
	MaxUsage     string
	Description  string
	ExpiresAt    *time.Time
}

// Draft is a validated instrument ready to be persisted or applied as
// an edit.
type Draft struct {
	ValueMode    string
	InitialValue uint32
	Balance      uint32
	MaxUsage     uint32
	Description  string
	ExpiresAt    *time.Time
}

// Validate parses and cross-checks instrument input.  The same rules
// apply on create and on edit: the balance must stay within
// [0, initial_value] for FIXED instruments and [0, 100] for PERCENTAGE
// instruments, and max_usage must be at least one.
func Validate(p Params) (Draft, error) {
	mode, ok := parseValueMode(p.ValueMode)
	if !ok {
		return Draft{}, &FieldError{Field: "value_mode", Reason: "must be FIXED or PERCENTAGE"}
	}
	initial, err := parseAmount("initial_value", p.InitialValue)
	if err != nil {
		return Draft{}, err
	}
	balance, err := parseAmount("balance", p.Balance)
	if err != nil {
		return Draft{}, err
	}
	maxUsage, err := parseAmount("max_usage", p.MaxUsage)
	if err != nil {
		return Draft{}, err
	}
	if maxUsage < 1 {
		return Draft{}, &FieldError{Field: "max_usage", Reason: "must be at least 1"}
	}
	switch mode {
	case model.ValueModeFixed:
		if balance > initial {
			return Draft{}, &FieldError{Field: "balance", Reason: "cannot exceed initial_value"}
		}
	case model.ValueModePercentage:
		if balance > 100 {
			return Draft{}, &FieldError{Field: "balance", Reason: "cannot exceed 100 percent"}
		}
	}
	return Draft{
		ValueMode:    mode,
		InitialValue: initial,
		Balance:      balance,
		MaxUsage:     maxUsage,
		Description:  strings.TrimSpace(p.Description),
		ExpiresAt:    p.ExpiresAt,
	}, nil
}

// ParamsFromInstrument renders a stored instrument back into raw
// params.  Edits overlay only the fields they carry on top of this
// before re-validation, so an omitted field keeps its stored value.
func ParamsFromInstrument(inst *model.GiftInstrument) Params {
	p := Params{
		ValueMode:    inst.ValueMode,
		InitialValue: strconv.FormatUint(uint64(inst.InitialValue), 10),
		Balance:      strconv.FormatUint(uint64(inst.Balance), 10),
		MaxUsage:     strconv.FormatUint(uint64(inst.MaxUsage), 10),
	}
	if inst.Description != nil {
		p.Description = *inst.Description
	}
	if inst.ExpiresAt != nil {
		t := *inst.ExpiresAt
		p.ExpiresAt = &t
	}
	return p
}

// ParseStatus normalizes a lifecycle status supplied on an edit.  Only
// statuses that may be persisted through an edit are accepted: EXPIRED
// is a read-time projection and DELETED is entered through soft delete
// only.
func ParseStatus(s string) (string, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case model.InstrumentStatusActive:
		return model.InstrumentStatusActive, true
	case model.InstrumentStatusInactive:
		return model.InstrumentStatusInactive, true
	case model.InstrumentStatusRedeemed:
		return model.InstrumentStatusRedeemed, true
	case model.InstrumentStatusCancelled:
		return model.InstrumentStatusCancelled, true
	}
	return "", false
}

// EffectiveStatus projects the status shown to readers.  An instrument
// whose expiry has passed reads as EXPIRED; the persisted status field
// is never rewritten by this projection.  Every read site must apply
// this uniformly.
func EffectiveStatus(inst *model.GiftInstrument, now time.Time) string {
	if inst.ExpiresAt != nil && inst.ExpiresAt.Before(now) {
		return model.InstrumentStatusExpired
	}
	return inst.Status
}

// NewCode generates a redemption code of the form GFT-XXXXXXXXXX from
// five random bytes.  Uniqueness is not guaranteed here; the
// repository inserts against a unique index and regenerates on
// collision.
func NewCode() (string, error) {
	buf := make([]byte, 5)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return "GFT-" + strings.ToUpper(hex.EncodeToString(buf)), nil
}

func parseValueMode(s string) (string, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case model.ValueModeFixed, "FIXED_AMOUNT":
		return model.ValueModeFixed, true
	case model.ValueModePercentage, "PERCENT":
		return model.ValueModePercentage, true
	}
	return "", false
}

// parseAmount parses a non-negative integer field, reporting the field
// name on failure.
func parseAmount(field, s string) (uint32, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, &FieldError{Field: field, Reason: "required"}
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, &FieldError{Field: field, Reason: "must be a non-negative number"}
	}
	return uint32(n), nil
}
