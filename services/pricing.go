package services

import "math"

// Deterministic pricing policy applied to the server-recomputed subtotal.
// Client-declared totals are advisory only and never trusted.
const (
	FreeShippingThreshold = 500.0
	FlatShippingFee       = 50.0
	TaxRate               = 0.18
)

// ShippingFee returns the flat delivery fee, waived above the threshold.
func ShippingFee(subtotal float64) float64 {
	if subtotal > FreeShippingThreshold {
		return 0
	}
	return FlatShippingFee
}

// GrandTotal computes subtotal + shipping + tax.
func GrandTotal(subtotal float64) float64 {
	return subtotal + ShippingFee(subtotal) + subtotal*TaxRate
}

// ToMinorUnits converts a currency amount to the gateway's integer minor
// units (paise).
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
