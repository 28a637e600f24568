package enum_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/Bochino693/Smart-Adega/internal/domain/enum"
)

func TestPaymentMethodFeeRates(t *testing.T) {
	cases := []struct {
		method enum.PaymentMethod
		rate   string
	}{
		{enum.PaymentCreditCard, "1.99"},
		{enum.PaymentDebitCard, "1.99"},
		{enum.PaymentPixQRCode, "4.99"},
		{enum.PaymentPix, "0"},
		{enum.PaymentCash, "0"},
		{enum.PaymentPending, "0"},
	}
	for _, tc := range cases {
		t.Run(tc.method.String(), func(t *testing.T) {
			assert.True(t, tc.method.Valid())
			assert.True(t, decimal.RequireFromString(tc.rate).Equal(tc.method.FeeRate()))
		})
	}
	assert.False(t, enum.PaymentMethod("cheque").Valid())
	assert.True(t, enum.PaymentPending.IsPending())
	assert.False(t, enum.PaymentCash.IsPending())
}

func TestIsStockExempt(t *testing.T) {
	assert.True(t, enum.IsStockExempt("combos"))
	assert.True(t, enum.IsStockExempt("doses"))
	assert.True(t, enum.IsStockExempt("fracionados"))
	assert.False(t, enum.IsStockExempt("cervejas"))
	assert.False(t, enum.IsStockExempt("gelo"))
}

func TestClassifyExpiry(t *testing.T) {
	today := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	day := func(offset int) *time.Time {
		d := today.AddDate(0, 0, offset)
		return &d
	}

	assert.Equal(t, enum.ExpiryGreen, enum.ClassifyExpiry(nil, today))
	assert.Equal(t, enum.ExpiryExpired, enum.ClassifyExpiry(day(-1), today))
	assert.Equal(t, enum.ExpiryRed, enum.ClassifyExpiry(day(0), today))
	assert.Equal(t, enum.ExpiryRed, enum.ClassifyExpiry(day(5), today))
	assert.Equal(t, enum.ExpiryYellow, enum.ClassifyExpiry(day(6), today))
	assert.Equal(t, enum.ExpiryYellow, enum.ClassifyExpiry(day(15), today))
	assert.Equal(t, enum.ExpiryGreen, enum.ClassifyExpiry(day(16), today))
}
