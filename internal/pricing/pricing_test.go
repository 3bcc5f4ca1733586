package pricing

import (
	"math"
	"testing"
)

func TestDiscount(t *testing.T) {
	tests := []struct {
		name        string
		size        int
		maxDiscount float64
		perMember   float64
		want        float64
	}{
		{name: "single traveler gets no discount", size: 1, maxDiscount: 0.25, perMember: 0.03, want: 0},
		{name: "two travelers", size: 2, maxDiscount: 0.25, perMember: 0.03, want: 0.03},
		{name: "below the cap", size: 8, maxDiscount: 0.25, perMember: 0.03, want: 0.21},
		{name: "capped at max discount", size: 12, maxDiscount: 0.25, perMember: 0.03, want: 0.25},
		{name: "exactly at the cap", size: 11, maxDiscount: 0.30, perMember: 0.03, want: 0.30},
		{name: "zero per-member rate", size: 10, maxDiscount: 0.25, perMember: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Discount(tt.size, tt.maxDiscount, tt.perMember)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Discount(%d, %v, %v) = %v, want %v", tt.size, tt.maxDiscount, tt.perMember, got, tt.want)
			}
		})
	}
}

func TestDiscount_MonotonicAndBounded(t *testing.T) {
	const (
		maxDiscount = 0.25
		perMember   = 0.03
	)
	prev := -1.0
	for size := 1; size <= 50; size++ {
		d := Discount(size, maxDiscount, perMember)
		if d < 0 || d > maxDiscount {
			t.Fatalf("Discount(%d) = %v, out of [0, %v]", size, d, maxDiscount)
		}
		if d < prev {
			t.Fatalf("Discount(%d) = %v decreased from %v", size, d, prev)
		}
		prev = d
	}
}

func TestFinalPrice(t *testing.T) {
	// base_price=45000, max_discount=0.25, discount_per_member=0.03, size=8:
	// discount = min(0.25, 0.03*7) = 0.21, final = 45000 * 0.79 = 35550.
	got := FinalPrice(45000, 8, 0.25, 0.03)
	if math.Abs(got-35550) > 0.01 {
		t.Errorf("FinalPrice = %v, want 35550", got)
	}
}

func TestQuote(t *testing.T) {
	q := Quote(45000, 8, 0.25, 0.03)
	if q.GroupSize != 8 {
		t.Errorf("GroupSize = %d, want 8", q.GroupSize)
	}
	if math.Abs(q.DiscountRate-0.21) > 1e-9 {
		t.Errorf("DiscountRate = %v, want 0.21", q.DiscountRate)
	}
	if math.Abs(q.FinalPricePerPerson-35550) > 0.01 {
		t.Errorf("FinalPricePerPerson = %v, want 35550", q.FinalPricePerPerson)
	}
	if q.BasePrice != 45000 {
		t.Errorf("BasePrice = %v, want 45000", q.BasePrice)
	}
}

func TestQuote_Deterministic(t *testing.T) {
	a := Quote(1200, 5, 0.2, 0.04)
	b := Quote(1200, 5, 0.2, 0.04)
	if a != b {
		t.Errorf("Quote is not deterministic: %+v != %+v", a, b)
	}
}
