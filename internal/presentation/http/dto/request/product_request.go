package request

import (
	"github.com/shopspring/decimal"
)

// ProductRequest represents a product create or update request
type ProductRequest struct {
	CategoryID    string          `json:"category_id" binding:"required,uuid"`
	Code          *string         `json:"code" binding:"omitempty,max=100"`
	Name          string          `json:"name" binding:"required,min=1,max=255"`
	SalePrice     decimal.Decimal `json:"sale_price" binding:"required"`
	SupplierPrice decimal.Decimal `json:"supplier_price" binding:"required"`
}

// CategoryRequest represents a category creation request
type CategoryRequest struct {
	Name string `json:"name" binding:"required,min=1,max=90"`
}

// ProductFilterRequest represents product listing query parameters
type ProductFilterRequest struct {
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
	Search     string `form:"search"`
	CategoryID string `form:"category_id"`
}
