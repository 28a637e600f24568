package request

import (
	"github.com/shopspring/decimal"
)

// ExpenseRequest represents an expense create or update request
type ExpenseRequest struct {
	CategoryID  *string         `json:"category_id" binding:"omitempty,uuid"`
	Description *string         `json:"description" binding:"omitempty,max=255"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Date        string          `json:"date" binding:"required,datetime=2006-01-02"`
}

// ExpenseCategoryRequest represents an expense category creation request
type ExpenseCategoryRequest struct {
	Name string `json:"name" binding:"required,min=1,max=50"`
}

// ExpenseFilterRequest represents expense listing query parameters
type ExpenseFilterRequest struct {
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
	CategoryID string `form:"category_id"`
	Month      *int   `form:"month"`
	Year       *int   `form:"year"`
}

// RecomputeRequest represents a monthly recompute request
type RecomputeRequest struct {
	Month int `json:"month" binding:"required,min=1,max=12"`
	Year  int `json:"year" binding:"required,min=2000"`
}
