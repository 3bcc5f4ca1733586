// Package pricing computes the size-dependent group discount. Pure functions,
// deterministic for identical inputs: the same quote is shown to travelers
// before and after matching.
package pricing

import "groupgetaway/internal/domain"

// Discount returns the discount rate for a group of the given size.
// discount = min(maxDiscount, perMember × (size − 1)); zero for a single
// traveler, non-decreasing in size, capped at maxDiscount.
// Inputs are validated by the caller.
func Discount(size int, maxDiscount, perMember float64) float64 {
	if size <= 1 {
		return 0
	}
	d := perMember * float64(size-1)
	if d > maxDiscount {
		return maxDiscount
	}
	return d
}

// FinalPrice returns the per-person price after the group discount.
func FinalPrice(basePrice float64, size int, maxDiscount, perMember float64) float64 {
	return basePrice * (1 - Discount(size, maxDiscount, perMember))
}

// Quote builds the full pricing snapshot stored on a group at formation.
func Quote(basePrice float64, size int, maxDiscount, perMember float64) domain.PriceBreakdown {
	rate := Discount(size, maxDiscount, perMember)
	return domain.PriceBreakdown{
		BasePrice:           basePrice,
		GroupSize:           size,
		DiscountRate:        rate,
		FinalPricePerPerson: basePrice * (1 - rate),
	}
}
