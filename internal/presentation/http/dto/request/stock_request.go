package request

// AddStockRequest represents a single stock intake. Expiry is a date string
// in 2006-01-02 form; empty means the no-expiry bucket.
type AddStockRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
	Expiry    string `json:"expiry" binding:"omitempty,datetime=2006-01-02"`
}

// BulkAddStockRequest represents a multi-product intake
type BulkAddStockRequest struct {
	Items []AddStockRequest `json:"items" binding:"required,min=1,dive"`
}

// DeductStockRequest represents a manual write-down (breakage, loss,
// consumption outside a sale)
type DeductStockRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

// BulkDeductStockRequest represents a multi-product write-down
type BulkDeductStockRequest struct {
	Items []DeductStockRequest `json:"items" binding:"required,min=1,dive"`
}

// BatchFilterRequest represents stock overview query parameters
type BatchFilterRequest struct {
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
	Search    string `form:"search"`
	ProductID string `form:"product_id"`
}

// WithdrawalFilterRequest represents withdrawal history query parameters
type WithdrawalFilterRequest struct {
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
	ProductID string `form:"product_id"`
	From      string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To        string `form:"to" binding:"omitempty,datetime=2006-01-02"`
}
