package repository

import (
	"context"
	"errors"

	"github.com/Bochino693/Smart-Adega/internal/domain/entity"
	domainRepo "github.com/Bochino693/Smart-Adega/internal/domain/repository"
	"gorm.io/gorm"
)

type closingRepository struct {
	db *gorm.DB
}

// NewClosingRepository creates a new monthly closing repository
func NewClosingRepository(db *gorm.DB) domainRepo.ClosingRepository {
	return &closingRepository{db: db}
}

func (r *closingRepository) GetByPeriod(ctx context.Context, month, year int) (*entity.MonthlyClosing, error) {
	var closing entity.MonthlyClosing
	err := dbFrom(ctx, r.db).First(&closing, "month = ? AND year = ?", month, year).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &closing, err
}

func (r *closingRepository) Create(ctx context.Context, closing *entity.MonthlyClosing) error {
	return dbFrom(ctx, r.db).Create(closing).Error
}

func (r *closingRepository) Update(ctx context.Context, closing *entity.MonthlyClosing) error {
	return dbFrom(ctx, r.db).Save(closing).Error
}

func (r *closingRepository) List(ctx context.Context) ([]entity.MonthlyClosing, error) {
	var closings []entity.MonthlyClosing
	err := dbFrom(ctx, r.db).Order("year DESC, month DESC").Find(&closings).Error
	return closings, err
}
