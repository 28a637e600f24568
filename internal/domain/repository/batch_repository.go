package repository

import (
	"context"
	"time"

	"github.com/Bochino693/Smart-Adega/internal/domain/entity"
	"github.com/Bochino693/Smart-Adega/pkg/pagination"
	"github.com/google/uuid"
)

// BatchRepository defines the interface for stock batch operations. Callers
// are expected to hold the product's ledger lock while mutating its batches.
type BatchRepository interface {
	Create(ctx context.Context, batch *entity.Batch) error
	// ListByProduct returns all batches of a product ordered by lot ascending
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]entity.Batch, error)
	// UpdateQuantity persists a batch's reduced or merged quantity
	UpdateQuantity(ctx context.Context, id uint, quantity int) error
	// UpdateLot rewrites a batch's lot rank
	UpdateLot(ctx context.Context, id uint, lot int) error
	Delete(ctx context.Context, id uint) error
	// List returns batches across products for the stock overview
	List(ctx context.Context, params *BatchFilterParams) ([]entity.Batch, int64, error)
}

// BatchFilterParams contains filtering parameters for batch queries
type BatchFilterParams struct {
	Pagination *pagination.PaginationParams
	ProductID  *uuid.UUID
	Search     string
}

// WithdrawalRepository tracks daily cumulative withdrawal totals per product
type WithdrawalRepository interface {
	// GetForDay returns the record for (product, day), or nil when none exists
	GetForDay(ctx context.Context, productID uuid.UUID, day time.Time) (*entity.Withdrawal, error)
	Create(ctx context.Context, w *entity.Withdrawal) error
	// AddQuantity increases an existing record's accumulated total
	AddQuantity(ctx context.Context, id uint, delta int) error
	List(ctx context.Context, params *WithdrawalFilterParams) ([]entity.Withdrawal, int64, error)
}

// WithdrawalFilterParams contains filtering parameters for withdrawal queries
type WithdrawalFilterParams struct {
	Pagination *pagination.PaginationParams
	ProductID  *uuid.UUID
	From       *time.Time
	To         *time.Time
}
