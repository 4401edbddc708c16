package pricing

import (
	"errors"
	"math"
	"testing"
)

func TestParseMode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want Mode
		ok   bool
	}{
		{"PER_UNIT", ModePerUnit, true},
		{"per-unit", ModePerUnit, true},
		{" fixed ", ModeFixed, true},
		{"GROUP", ModeGroup, true},
		{"group", ModeGroup, true},
		{"tiered", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseMode(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ParseMode(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestSubtotal(t *testing.T) {
	t.Parallel()

	t.Run("per-unit multiplies by quantity", func(t *testing.T) {
		got, err := Subtotal(2500, ModePerUnit, 3)
		if err != nil {
			t.Fatalf("Subtotal: %v", err)
		}
		if got != 7500 {
			t.Fatalf("subtotal = %d, want 7500", got)
		}
	})

	t.Run("fixed ignores quantity", func(t *testing.T) {
		for _, q := range []uint32{1, 2, 10, 50} {
			got, err := Subtotal(4000, ModeFixed, q)
			if err != nil {
				t.Fatalf("Subtotal with q=%d: %v", q, err)
			}
			if got != 4000 {
				t.Fatalf("fixed subtotal with q=%d = %d, want 4000", q, got)
			}
		}
	})

	t.Run("group prices as fixed", func(t *testing.T) {
		g, err := Subtotal(4000, ModeGroup, 7)
		if err != nil {
			t.Fatalf("group Subtotal: %v", err)
		}
		f, err := Subtotal(4000, ModeFixed, 7)
		if err != nil {
			t.Fatalf("fixed Subtotal: %v", err)
		}
		if g != f {
			t.Fatal("group mode diverged from fixed mode")
		}
	})

	t.Run("per-unit product beyond uint32 is rejected, not wrapped", func(t *testing.T) {
		// 3000 x 200,000,000 = 600,000,000,000 cents, far past the
		// uint32 ceiling; wrapped 32-bit arithmetic would yield
		// 2,999,545,856 instead of an error.
		if _, err := Subtotal(3000, ModePerUnit, 200_000_000); !errors.Is(err, ErrAmountOverflow) {
			t.Fatalf("expected ErrAmountOverflow, got %v", err)
		}
	})

	t.Run("per-unit product at the uint32 ceiling is accepted", func(t *testing.T) {
		got, err := Subtotal(math.MaxUint32, ModePerUnit, 1)
		if err != nil {
			t.Fatalf("Subtotal at ceiling: %v", err)
		}
		if got != math.MaxUint32 {
			t.Fatalf("subtotal = %d, want %d", got, uint32(math.MaxUint32))
		}
	})
}

func TestComputeTotal(t *testing.T) {
	t.Parallel()

	t.Run("discount within subtotal is subtracted", func(t *testing.T) {
		// Counter-sale scenario: price 40.00, quantity 2, discount 15.00.
		got, err := ComputeTotal(4000, ModePerUnit, 2, 1500)
		if err != nil {
			t.Fatalf("ComputeTotal: %v", err)
		}
		if got != 6500 {
			t.Fatalf("total = %d, want 6500", got)
		}
	})

	t.Run("discount exceeding subtotal clamps to zero", func(t *testing.T) {
		got, err := ComputeTotal(1000, ModeFixed, 1, 99999)
		if err != nil {
			t.Fatalf("ComputeTotal: %v", err)
		}
		if got != 0 {
			t.Fatalf("total = %d, want 0", got)
		}
	})

	t.Run("zero discount leaves subtotal intact", func(t *testing.T) {
		// Reservation scenario: price 25.00 per unit, 3 participants.
		got, err := ComputeTotal(2500, ModePerUnit, 3, 0)
		if err != nil {
			t.Fatalf("ComputeTotal: %v", err)
		}
		if got != 7500 {
			t.Fatalf("total = %d, want 7500", got)
		}
	})

	t.Run("overflowing subtotal propagates the error", func(t *testing.T) {
		if _, err := ComputeTotal(3000, ModePerUnit, 200_000_000, 500); !errors.Is(err, ErrAmountOverflow) {
			t.Fatalf("expected ErrAmountOverflow, got %v", err)
		}
	})
}
