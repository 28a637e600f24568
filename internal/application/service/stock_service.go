package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Bochino693/Smart-Adega/internal/domain/entity"
	"github.com/Bochino693/Smart-Adega/internal/domain/enum"
	"github.com/Bochino693/Smart-Adega/internal/domain/repository"
	"github.com/Bochino693/Smart-Adega/pkg/apperror"
	"github.com/Bochino693/Smart-Adega/pkg/keylock"
	"github.com/Bochino693/Smart-Adega/pkg/pagination"
)

// StockService owns the batch ledger. All mutations of a product's batches go
// through here under the product's lock, which keeps the one-batch-per-expiry
// and dense-lot invariants intact. now is injectable so tests control the day
// that withdrawals land on.
type StockService struct {
	txManager      repository.TxManager
	productRepo    repository.ProductRepository
	batchRepo      repository.BatchRepository
	withdrawalRepo repository.WithdrawalRepository
	locks          *keylock.KeyedMutex
	now            func() time.Time
}

// NewStockService creates a new stock service
func NewStockService(
	txManager repository.TxManager,
	productRepo repository.ProductRepository,
	batchRepo repository.BatchRepository,
	withdrawalRepo repository.WithdrawalRepository,
	locks *keylock.KeyedMutex,
) *StockService {
	return &StockService{
		txManager:      txManager,
		productRepo:    productRepo,
		batchRepo:      batchRepo,
		withdrawalRepo: withdrawalRepo,
		locks:          locks,
		now:            time.Now,
	}
}

// AddStockInput represents one stock intake: a quantity of a product with an
// optional expiry date
type AddStockInput struct {
	ProductID uuid.UUID
	Quantity  int
	Expiry    *time.Time
}

// AddStock records a stock arrival. If a batch with the same expiry already
// exists the quantity merges into it instead of creating a second batch, then
// lot ranks are renumbered so they stay dense and expiry ordered.
func (s *StockService) AddStock(ctx context.Context, input *AddStockInput) (*entity.Batch, error) {
	if input.Quantity <= 0 {
		return nil, apperror.NewInvalidInputError("Quantity must be positive")
	}

	unlock := s.locks.Lock(input.ProductID)
	defer unlock()

	var result *entity.Batch
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		product, err := s.productRepo.GetByID(ctx, input.ProductID)
		if err != nil {
			return apperror.NewInternalError(err)
		}
		if product == nil {
			return apperror.NewNotFoundError("Product")
		}

		result, err = s.addLocked(ctx, product.ID, input.Quantity, input.Expiry)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// BulkAddStock records several intakes in one transaction; either every line
// lands or none does
func (s *StockService) BulkAddStock(ctx context.Context, inputs []AddStockInput) ([]entity.Batch, error) {
	if len(inputs) == 0 {
		return nil, apperror.NewInvalidInputError("At least one item is required")
	}
	ids := make([]uuid.UUID, 0, len(inputs))
	for _, in := range inputs {
		if in.Quantity <= 0 {
			return nil, apperror.NewInvalidInputError("Quantity must be positive")
		}
		ids = append(ids, in.ProductID)
	}

	unlock := s.locks.LockAll(ids)
	defer unlock()

	var batches []entity.Batch
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		products, err := s.productRepo.GetByIDs(ctx, ids)
		if err != nil {
			return apperror.NewInternalError(err)
		}
		known := make(map[uuid.UUID]struct{}, len(products))
		for _, p := range products {
			known[p.ID] = struct{}{}
		}

		for _, in := range inputs {
			if _, ok := known[in.ProductID]; !ok {
				return apperror.NewNotFoundError("Product")
			}
			batch, err := s.addLocked(ctx, in.ProductID, in.Quantity, in.Expiry)
			if err != nil {
				return err
			}
			batches = append(batches, *batch)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return batches, nil
}

// DeductStock removes up to quantity from a product's batches in lot order and
// accumulates the deducted amount into today's withdrawal record. Running out
// of stock is not an error here: the return value says how much actually left,
// zero included, and the caller decides what a shortfall means.
func (s *StockService) DeductStock(ctx context.Context, productID uuid.UUID, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, apperror.NewInvalidInputError("Quantity must be positive")
	}

	unlock := s.locks.Lock(productID)
	defer unlock()

	deducted := 0
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		product, err := s.productRepo.GetByID(ctx, productID)
		if err != nil {
			return apperror.NewInternalError(err)
		}
		if product == nil {
			return apperror.NewNotFoundError("Product")
		}

		available, batches, err := s.availableLocked(ctx, productID)
		if err != nil {
			return err
		}
		if available <= 0 {
			return nil
		}

		deducted = quantity
		if available < deducted {
			deducted = available
		}
		if err := s.deductBatchesLocked(ctx, batches, deducted); err != nil {
			return err
		}
		return s.recordWithdrawalLocked(ctx, product, deducted)
	})
	if err != nil {
		return 0, err
	}
	return deducted, nil
}

// DeductStockInput represents one line of a bulk write-down
type DeductStockInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// DeductResult reports how much of a requested write-down actually happened
type DeductResult struct {
	ProductID uuid.UUID `json:"product_id"`
	Deducted  int       `json:"deducted"`
}

// BulkDeductStock applies several write-downs, each one independently: a line
// that finds less stock than requested still deducts what is there, and one
// line failing does not undo the others
func (s *StockService) BulkDeductStock(ctx context.Context, inputs []DeductStockInput) ([]DeductResult, error) {
	if len(inputs) == 0 {
		return nil, apperror.NewInvalidInputError("At least one item is required")
	}
	for _, in := range inputs {
		if in.Quantity <= 0 {
			return nil, apperror.NewInvalidInputError("Quantity must be positive")
		}
	}

	results := make([]DeductResult, 0, len(inputs))
	for _, in := range inputs {
		deducted, err := s.DeductStock(ctx, in.ProductID, in.Quantity)
		if err != nil {
			return nil, err
		}
		results = append(results, DeductResult{ProductID: in.ProductID, Deducted: deducted})
	}
	return results, nil
}

// addLocked merges or creates the batch and renumbers lots. Caller holds the
// product lock and an open transaction.
func (s *StockService) addLocked(ctx context.Context, productID uuid.UUID, quantity int, expiry *time.Time) (*entity.Batch, error) {
	batches, err := s.batchRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, apperror.NewInternalError(err)
	}

	var target *entity.Batch
	for i := range batches {
		if batches[i].SameExpiry(expiry) {
			target = &batches[i]
			break
		}
	}

	if target != nil {
		target.Quantity += quantity
		if err := s.batchRepo.UpdateQuantity(ctx, target.ID, target.Quantity); err != nil {
			return nil, apperror.NewInternalError(err)
		}
	} else {
		batch := &entity.Batch{
			ProductID: productID,
			Expiry:    expiry,
			Quantity:  quantity,
		}
		if err := s.batchRepo.Create(ctx, batch); err != nil {
			return nil, apperror.NewInternalError(err)
		}
		batches = append(batches, *batch)
		target = &batches[len(batches)-1]
	}

	if err := s.renumberLocked(ctx, batches); err != nil {
		return nil, err
	}
	return target, nil
}

// renumberLocked reassigns dense lot ranks: dated batches ascending by expiry,
// the no-expiry bucket last, creation order breaking ties
func (s *StockService) renumberLocked(ctx context.Context, batches []entity.Batch) error {
	entity.SortBatches(batches)
	for i := range batches {
		lot := i + 1
		if batches[i].Lot == lot {
			continue
		}
		batches[i].Lot = lot
		if err := s.batchRepo.UpdateLot(ctx, batches[i].ID, lot); err != nil {
			return apperror.NewInternalError(err)
		}
	}
	return nil
}

// availableLocked returns a product's total stock and its batches in lot order
func (s *StockService) availableLocked(ctx context.Context, productID uuid.UUID) (int, []entity.Batch, error) {
	batches, err := s.batchRepo.ListByProduct(ctx, productID)
	if err != nil {
		return 0, nil, apperror.NewInternalError(err)
	}
	total := 0
	for _, b := range batches {
		total += b.Quantity
	}
	return total, batches, nil
}

// deductBatchesLocked walks the batches in lot order, consuming each until the
// quantity is covered. Batches drained to zero are deleted so lot one is
// always the next batch to leave.
func (s *StockService) deductBatchesLocked(ctx context.Context, batches []entity.Batch, quantity int) error {
	remaining := quantity
	for _, batch := range batches {
		if remaining == 0 {
			break
		}
		take := batch.Quantity
		if take > remaining {
			take = remaining
		}
		left := batch.Quantity - take
		if left == 0 {
			if err := s.batchRepo.Delete(ctx, batch.ID); err != nil {
				return apperror.NewInternalError(err)
			}
		} else {
			if err := s.batchRepo.UpdateQuantity(ctx, batch.ID, left); err != nil {
				return apperror.NewInternalError(err)
			}
		}
		remaining -= take
	}
	if remaining != 0 {
		return apperror.NewInternalError(fmt.Errorf("stock underflow: %d units unaccounted", remaining))
	}
	return nil
}

// recordWithdrawalLocked upserts today's cumulative withdrawal row for the
// product, snapshotting its name and code on first creation
func (s *StockService) recordWithdrawalLocked(ctx context.Context, product *entity.Product, quantity int) error {
	day := entity.DayOf(s.now())
	existing, err := s.withdrawalRepo.GetForDay(ctx, product.ID, day)
	if err != nil {
		return apperror.NewInternalError(err)
	}
	if existing != nil {
		if err := s.withdrawalRepo.AddQuantity(ctx, existing.ID, quantity); err != nil {
			return apperror.NewInternalError(err)
		}
		return nil
	}
	w := &entity.Withdrawal{
		ProductID:   product.ID,
		Day:         day,
		ProductName: product.Name,
		ProductCode: product.Code,
		Quantity:    quantity,
	}
	if err := s.withdrawalRepo.Create(ctx, w); err != nil {
		return apperror.NewInternalError(err)
	}
	return nil
}

// BatchView pairs a batch with its product and expiry classification for the
// stock overview screens
type BatchView struct {
	Batch        entity.Batch      `json:"batch"`
	ExpiryStatus enum.ExpiryStatus `json:"expiry_status"`
}

// ListBatches returns the paginated batch overview with expiry classification
func (s *StockService) ListBatches(ctx context.Context, params *repository.BatchFilterParams) (*pagination.PaginatedResult[BatchView], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	batches, total, err := s.batchRepo.List(ctx, params)
	if err != nil {
		return nil, apperror.NewInternalError(err)
	}
	today := s.now()
	views := make([]BatchView, 0, len(batches))
	for _, b := range batches {
		views = append(views, BatchView{
			Batch:        b,
			ExpiryStatus: enum.ClassifyExpiry(b.Expiry, today),
		})
	}
	return pagination.NewPaginatedResult(views, pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)), nil
}

// ListWithdrawals returns the withdrawal history with optional product and
// date range filters
func (s *StockService) ListWithdrawals(ctx context.Context, params *repository.WithdrawalFilterParams) (*pagination.PaginatedResult[entity.Withdrawal], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	withdrawals, total, err := s.withdrawalRepo.List(ctx, params)
	if err != nil {
		return nil, apperror.NewInternalError(err)
	}
	return pagination.NewPaginatedResult(withdrawals, pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)), nil
}

// ShoppingList returns products whose total stock is at or below the
// threshold, including products with no batches at all
func (s *StockService) ShoppingList(ctx context.Context, threshold int) ([]repository.ProductStock, error) {
	if threshold < 0 {
		threshold = 0
	}
	items, err := s.productRepo.ListWithStock(ctx, threshold)
	if err != nil {
		return nil, apperror.NewInternalError(err)
	}
	return items, nil
}
