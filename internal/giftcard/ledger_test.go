package giftcard

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/iliyamo/attraction-reservation/internal/model"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := Params{
		ValueMode:    "FIXED",
		InitialValue: "5000",
		Balance:      "5000",
		MaxUsage:     "1",
		Description:  "  anniversary voucher  ",
	}

	t.Run("accepts a well-formed fixed instrument", func(t *testing.T) {
		d, err := Validate(valid)
		if err != nil {
			t.Fatalf("Validate: %v", err)
		}
		if d.ValueMode != model.ValueModeFixed || d.InitialValue != 5000 || d.Balance != 5000 || d.MaxUsage != 1 {
			t.Fatalf("unexpected draft %+v", d)
		}
		if d.Description != "anniversary voucher" {
			t.Fatalf("description not trimmed: %q", d.Description)
		}
	})

	t.Run("rejects non-numeric initial value", func(t *testing.T) {
		p := valid
		p.InitialValue = "abc"
		_, err := Validate(p)
		var fe *FieldError
		if !errors.As(err, &fe) || fe.Field != "initial_value" {
			t.Fatalf("expected initial_value field error, got %v", err)
		}
	})

	t.Run("rejects negative numbers", func(t *testing.T) {
		p := valid
		p.Balance = "-10"
		if _, err := Validate(p); err == nil {
			t.Fatal("expected rejection of negative balance")
		}
	})

	t.Run("rejects zero max usage", func(t *testing.T) {
		p := valid
		p.MaxUsage = "0"
		_, err := Validate(p)
		var fe *FieldError
		if !errors.As(err, &fe) || fe.Field != "max_usage" {
			t.Fatalf("expected max_usage field error, got %v", err)
		}
	})

	t.Run("fixed balance may not exceed initial value", func(t *testing.T) {
		p := valid
		p.Balance = "5001"
		if _, err := Validate(p); err == nil {
			t.Fatal("expected balance/initial_value cross-check to fail")
		}
	})

	t.Run("percentage balance may not exceed 100", func(t *testing.T) {
		p := Params{ValueMode: "PERCENTAGE", InitialValue: "20", Balance: "101", MaxUsage: "3"}
		if _, err := Validate(p); err == nil {
			t.Fatal("expected percentage cap to fail")
		}
		p.Balance = "20"
		if _, err := Validate(p); err != nil {
			t.Fatalf("valid percentage instrument rejected: %v", err)
		}
	})

	t.Run("unknown value mode is rejected", func(t *testing.T) {
		p := valid
		p.ValueMode = "POINTS"
		if _, err := Validate(p); err == nil {
			t.Fatal("expected value_mode rejection")
		}
	})
}

func TestParamsFromInstrument(t *testing.T) {
	t.Parallel()

	exp := time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC)
	desc := "season opener voucher"
	stored := &model.GiftInstrument{
		ValueMode:    model.ValueModeFixed,
		InitialValue: 5000,
		Balance:      4200,
		MaxUsage:     3,
		Description:  &desc,
		Status:       model.InstrumentStatusActive,
		ExpiresAt:    &exp,
	}

	t.Run("round-trips the stored fields", func(t *testing.T) {
		p := ParamsFromInstrument(stored)
		d, err := Validate(p)
		if err != nil {
			t.Fatalf("Validate: %v", err)
		}
		if d.ValueMode != model.ValueModeFixed || d.InitialValue != 5000 || d.Balance != 4200 || d.MaxUsage != 3 {
			t.Fatalf("unexpected draft %+v", d)
		}
		if d.Description != desc {
			t.Fatalf("description = %q, want %q", d.Description, desc)
		}
		if d.ExpiresAt == nil || !d.ExpiresAt.Equal(exp) {
			t.Fatalf("expiry = %v, want %v", d.ExpiresAt, exp)
		}
	})

	t.Run("single-field overlay keeps the rest and the invariants", func(t *testing.T) {
		p := ParamsFromInstrument(stored)
		p.Balance = "6000" // above the stored initial value
		if _, err := Validate(p); err == nil {
			t.Fatal("expected balance/initial_value cross-check to fail on merged edit")
		}

		p = ParamsFromInstrument(stored)
		p.Balance = "1000"
		d, err := Validate(p)
		if err != nil {
			t.Fatalf("Validate: %v", err)
		}
		if d.InitialValue != 5000 || d.MaxUsage != 3 || d.Description != desc {
			t.Fatalf("untouched fields changed: %+v", d)
		}
		if d.ExpiresAt == nil || !d.ExpiresAt.Equal(exp) {
			t.Fatal("expiry lost on a balance-only edit")
		}
	})
}

func TestParseStatus(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"ACTIVE", model.InstrumentStatusActive, true},
		{" inactive ", model.InstrumentStatusInactive, true},
		{"redeemed", model.InstrumentStatusRedeemed, true},
		{"CANCELLED", model.InstrumentStatusCancelled, true},
		{"EXPIRED", "", false}, // projection only, never stored by an edit
		{"DELETED", "", false}, // entered through soft delete only
		{"FROZEN", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseStatus(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ParseStatus(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestEffectiveStatus(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	t.Run("no expiry keeps the persisted status", func(t *testing.T) {
		inst := &model.GiftInstrument{Status: model.InstrumentStatusActive}
		if got := EffectiveStatus(inst, now); got != model.InstrumentStatusActive {
			t.Fatalf("status = %s", got)
		}
	})

	t.Run("past expiry reads as expired without mutating", func(t *testing.T) {
		inst := &model.GiftInstrument{Status: model.InstrumentStatusActive, ExpiresAt: &past}
		if got := EffectiveStatus(inst, now); got != model.InstrumentStatusExpired {
			t.Fatalf("status = %s, want EXPIRED", got)
		}
		if inst.Status != model.InstrumentStatusActive {
			t.Fatal("persisted status was mutated by the projection")
		}
	})

	t.Run("future expiry keeps the persisted status", func(t *testing.T) {
		inst := &model.GiftInstrument{Status: model.InstrumentStatusInactive, ExpiresAt: &future}
		if got := EffectiveStatus(inst, now); got != model.InstrumentStatusInactive {
			t.Fatalf("status = %s", got)
		}
	})
}

func TestNewCode(t *testing.T) {
	t.Parallel()

	code, err := NewCode()
	if err != nil {
		t.Fatalf("NewCode: %v", err)
	}
	if !strings.HasPrefix(code, "GFT-") || len(code) != 14 {
		t.Fatalf("unexpected code format %q", code)
	}
	other, err := NewCode()
	if err != nil {
		t.Fatalf("NewCode: %v", err)
	}
	if code == other {
		t.Fatalf("two generated codes collided: %s", code)
	}
}
