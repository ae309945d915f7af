package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShippingFee(t *testing.T) {
	assert.Equal(t, 50.0, ShippingFee(0))
	assert.Equal(t, 50.0, ShippingFee(200))
	assert.Equal(t, 50.0, ShippingFee(500)) // waiver is strictly above the threshold
	assert.Equal(t, 0.0, ShippingFee(500.01))
	assert.Equal(t, 0.0, ShippingFee(1000))
}

func TestGrandTotal(t *testing.T) {
	// 200 subtotal: 50 shipping + 36 tax = 286
	assert.Equal(t, 286.0, GrandTotal(200))
	// 600 subtotal: shipping waived, 108 tax = 708
	assert.Equal(t, 708.0, GrandTotal(600))
}

func TestToMinorUnits(t *testing.T) {
	assert.Equal(t, int64(28600), ToMinorUnits(286))
	assert.Equal(t, int64(10), ToMinorUnits(0.1))
	assert.Equal(t, int64(1999), ToMinorUnits(19.99))
}
