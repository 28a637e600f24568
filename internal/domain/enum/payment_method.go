package enum

import "github.com/shopspring/decimal"

// PaymentMethod represents how a sale was (or will be) paid
type PaymentMethod string

const (
	PaymentPix        PaymentMethod = "pix"
	PaymentCreditCard PaymentMethod = "credit_card"
	PaymentDebitCard  PaymentMethod = "debit_card"
	PaymentCash       PaymentMethod = "cash"
	PaymentPixQRCode  PaymentMethod = "pix_qrcode"
	PaymentPending    PaymentMethod = "pending"
)

// feeRates holds the percentage charged by the payment processor per method.
// Direct pix transfers, cash and pending sales carry no fee.
var feeRates = map[PaymentMethod]decimal.Decimal{
	PaymentCreditCard: decimal.NewFromFloat(1.99),
	PaymentDebitCard:  decimal.NewFromFloat(1.99),
	PaymentPixQRCode:  decimal.NewFromFloat(4.99),
	PaymentPix:        decimal.Zero,
	PaymentCash:       decimal.Zero,
	PaymentPending:    decimal.Zero,
}

// Valid reports whether the method is one of the accepted values
func (m PaymentMethod) Valid() bool {
	_, ok := feeRates[m]
	return ok
}

// FeeRate returns the percentage fee for the method (zero for unknown methods)
func (m PaymentMethod) FeeRate() decimal.Decimal {
	return feeRates[m]
}

// IsPending reports whether payment accounting is deferred to settlement
func (m PaymentMethod) IsPending() bool {
	return m == PaymentPending
}

func (m PaymentMethod) String() string {
	return string(m)
}
