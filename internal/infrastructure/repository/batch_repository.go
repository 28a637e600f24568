package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Bochino693/Smart-Adega/internal/domain/entity"
	domainRepo "github.com/Bochino693/Smart-Adega/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type batchRepository struct {
	db *gorm.DB
}

// NewBatchRepository creates a new batch repository
func NewBatchRepository(db *gorm.DB) domainRepo.BatchRepository {
	return &batchRepository{db: db}
}

func (r *batchRepository) Create(ctx context.Context, batch *entity.Batch) error {
	return dbFrom(ctx, r.db).Create(batch).Error
}

// ListByProduct locks the product's batch rows for the enclosing transaction,
// mirroring the per-product critical section held by the ledger.
func (r *batchRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]entity.Batch, error) {
	var batches []entity.Batch
	err := dbFrom(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id = ?", productID).
		Order("lot ASC, id ASC").
		Find(&batches).Error
	return batches, err
}

func (r *batchRepository) UpdateQuantity(ctx context.Context, id uint, quantity int) error {
	return dbFrom(ctx, r.db).Model(&entity.Batch{}).
		Where("id = ?", id).
		Update("quantity", quantity).Error
}

func (r *batchRepository) UpdateLot(ctx context.Context, id uint, lot int) error {
	return dbFrom(ctx, r.db).Model(&entity.Batch{}).
		Where("id = ?", id).
		Update("lot", lot).Error
}

func (r *batchRepository) Delete(ctx context.Context, id uint) error {
	return dbFrom(ctx, r.db).Delete(&entity.Batch{}, "id = ?", id).Error
}

func (r *batchRepository) List(ctx context.Context, params *domainRepo.BatchFilterParams) ([]entity.Batch, int64, error) {
	var batches []entity.Batch
	var total int64

	query := dbFrom(ctx, r.db).Model(&entity.Batch{})

	if params.ProductID != nil {
		query = query.Where("product_id = ?", *params.ProductID)
	}

	if params.Search != "" {
		query = query.Joins("JOIN products ON products.id = batches.product_id").
			Where("products.name ILIKE ?", "%"+params.Search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Product").Preload("Product.Category").
		Order("product_id ASC, lot ASC").
		Find(&batches).Error

	return batches, total, err
}

type withdrawalRepository struct {
	db *gorm.DB
}

// NewWithdrawalRepository creates a new withdrawal repository
func NewWithdrawalRepository(db *gorm.DB) domainRepo.WithdrawalRepository {
	return &withdrawalRepository{db: db}
}

func (r *withdrawalRepository) GetForDay(ctx context.Context, productID uuid.UUID, day time.Time) (*entity.Withdrawal, error) {
	var w entity.Withdrawal
	err := dbFrom(ctx, r.db).
		First(&w, "product_id = ? AND day = ?", productID, entity.DayOf(day)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &w, err
}

func (r *withdrawalRepository) Create(ctx context.Context, w *entity.Withdrawal) error {
	w.Day = entity.DayOf(w.Day)
	return dbFrom(ctx, r.db).Create(w).Error
}

func (r *withdrawalRepository) AddQuantity(ctx context.Context, id uint, delta int) error {
	return dbFrom(ctx, r.db).Model(&entity.Withdrawal{}).
		Where("id = ?", id).
		Update("quantity", gorm.Expr("quantity + ?", delta)).Error
}

func (r *withdrawalRepository) List(ctx context.Context, params *domainRepo.WithdrawalFilterParams) ([]entity.Withdrawal, int64, error) {
	var withdrawals []entity.Withdrawal
	var total int64

	query := dbFrom(ctx, r.db).Model(&entity.Withdrawal{})

	if params.ProductID != nil {
		query = query.Where("product_id = ?", *params.ProductID)
	}
	if params.From != nil {
		query = query.Where("day >= ?", entity.DayOf(*params.From))
	}
	if params.To != nil {
		query = query.Where("day <= ?", entity.DayOf(*params.To))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("day DESC, product_name ASC").
		Find(&withdrawals).Error

	return withdrawals, total, err
}
