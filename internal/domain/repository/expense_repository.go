package repository

import (
	"context"

	"github.com/Bochino693/Smart-Adega/internal/domain/entity"
	"github.com/Bochino693/Smart-Adega/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseRepository defines the interface for expense data operations
type ExpenseRepository interface {
	Create(ctx context.Context, expense *entity.Expense) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Expense, error)
	Update(ctx context.Context, expense *entity.Expense) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *ExpenseFilterParams) ([]entity.Expense, int64, error)
	// SumByPeriod totals expense amounts inside a calendar month
	SumByPeriod(ctx context.Context, month, year int) (decimal.Decimal, error)
}

// ExpenseFilterParams contains filtering parameters for expense queries
type ExpenseFilterParams struct {
	Pagination *pagination.PaginationParams
	CategoryID *uuid.UUID
	Month      *int
	Year       *int
}

// ExpenseCategoryRepository defines the interface for expense category operations
type ExpenseCategoryRepository interface {
	Create(ctx context.Context, category *entity.ExpenseCategory) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.ExpenseCategory, error)
	GetByName(ctx context.Context, name string) (*entity.ExpenseCategory, error)
	List(ctx context.Context) ([]entity.ExpenseCategory, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
