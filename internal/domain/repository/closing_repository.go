package repository

import (
	"context"

	"github.com/Bochino693/Smart-Adega/internal/domain/entity"
	"github.com/google/uuid"
)

// ClosingRepository defines the interface for monthly closing rows
type ClosingRepository interface {
	// GetByPeriod returns the closing for (month, year), or nil when none exists
	GetByPeriod(ctx context.Context, month, year int) (*entity.MonthlyClosing, error)
	Create(ctx context.Context, closing *entity.MonthlyClosing) error
	Update(ctx context.Context, closing *entity.MonthlyClosing) error
	// List returns all closings ordered by year then month descending
	List(ctx context.Context) ([]entity.MonthlyClosing, error)
}

// UserRepository defines the interface for operator accounts
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	List(ctx context.Context) ([]entity.User, error)
}
