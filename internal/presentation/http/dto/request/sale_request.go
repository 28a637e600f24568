package request

import (
	"github.com/shopspring/decimal"
)

// SaleComplementRequest is an add-on attached to a cart line. Quantity zero
// means five ice units on combo lines and nothing anywhere else.
type SaleComplementRequest struct {
	Type      string `json:"type" binding:"required,oneof=ice energy"`
	ProductID string `json:"product_id" binding:"required,uuid"`
	Quantity  int    `json:"quantity" binding:"gte=0"`
}

// SaleLineRequest is one cart line. Unit price is the price the sale was rung
// up at; when omitted the catalog price applies.
type SaleLineRequest struct {
	ProductID   string                  `json:"product_id" binding:"required,uuid"`
	Quantity    int                     `json:"quantity" binding:"required,gt=0"`
	UnitPrice   *decimal.Decimal        `json:"unit_price"`
	Complements []SaleComplementRequest `json:"complements" binding:"omitempty,dive"`
}

// FinalizeSaleRequest represents a sale finalization request
type FinalizeSaleRequest struct {
	CustomerName   *string           `json:"customer_name" binding:"omitempty,max=90"`
	Method         string            `json:"method" binding:"required"`
	Discount       decimal.Decimal   `json:"discount"`
	Lines          []SaleLineRequest `json:"lines" binding:"required,min=1,dive"`
	AmountReceived *decimal.Decimal  `json:"amount_received"`
}

// SettlePaymentRequest represents the pending-to-settled transition
type SettlePaymentRequest struct {
	Method string `json:"method" binding:"required"`
}

// SaleFilterRequest represents sale listing query parameters
type SaleFilterRequest struct {
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
	Method  string `form:"method"`
	From    string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To      string `form:"to" binding:"omitempty,datetime=2006-01-02"`
}
