package repository

import (
	"context"
	"time"

	"github.com/Bochino693/Smart-Adega/internal/domain/entity"
	"github.com/Bochino693/Smart-Adega/internal/domain/enum"
	"github.com/Bochino693/Smart-Adega/pkg/pagination"
	"github.com/google/uuid"
)

// SaleRepository defines the interface for sale persistence
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	CreateItems(ctx context.Context, items []entity.SaleItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	// Update persists the pending-to-settled transition (method, fee, net)
	Update(ctx context.Context, sale *entity.Sale) error
	List(ctx context.Context, params *SaleFilterParams) ([]entity.Sale, int64, error)
	// ListByPeriod returns all sale headers of a calendar month
	ListByPeriod(ctx context.Context, month, year int) ([]entity.Sale, error)
	// ListItemsByPeriod returns all sale lines of a calendar month with their
	// products loaded, for potential-gain aggregation
	ListItemsByPeriod(ctx context.Context, month, year int) ([]entity.SaleItem, error)
}

// SaleFilterParams contains filtering parameters for sale queries
type SaleFilterParams struct {
	Pagination *pagination.PaginationParams
	Method     *enum.PaymentMethod
	From       *time.Time
	To         *time.Time
}
