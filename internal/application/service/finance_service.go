package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Bochino693/Smart-Adega/internal/cache"
	"github.com/Bochino693/Smart-Adega/internal/domain/entity"
	"github.com/Bochino693/Smart-Adega/internal/domain/repository"
	"github.com/Bochino693/Smart-Adega/pkg/apperror"
	"github.com/Bochino693/Smart-Adega/pkg/pagination"
)

const closingCacheTTL = time.Hour

// FinanceService reconciles monthly closings and manages the expenses that
// feed them. Recomputing a month is idempotent: the closing row is created on
// first demand and fully overwritten on every later run, so it can be
// triggered freely after any sale, settlement or expense change.
type FinanceService struct {
	txManager           repository.TxManager
	saleRepo            repository.SaleRepository
	expenseRepo         repository.ExpenseRepository
	expenseCategoryRepo repository.ExpenseCategoryRepository
	closingRepo         repository.ClosingRepository
	closingCache        cache.ClosingCache
}

// NewFinanceService creates a new finance service
func NewFinanceService(
	txManager repository.TxManager,
	saleRepo repository.SaleRepository,
	expenseRepo repository.ExpenseRepository,
	expenseCategoryRepo repository.ExpenseCategoryRepository,
	closingRepo repository.ClosingRepository,
	closingCache cache.ClosingCache,
) *FinanceService {
	return &FinanceService{
		txManager:           txManager,
		saleRepo:            saleRepo,
		expenseRepo:         expenseRepo,
		expenseCategoryRepo: expenseCategoryRepo,
		closingRepo:         closingRepo,
		closingCache:        closingCache,
	}
}

func validPeriod(month, year int) error {
	if month < 1 || month > 12 || year < 2000 {
		return apperror.NewInvalidInputError("Invalid month or year")
	}
	return nil
}

// Recompute rebuilds the closing for a calendar month from scratch. Net
// revenue counts settled sales only; potential gain counts every sale of the
// month, pending included, since stock already left for those.
func (s *FinanceService) Recompute(ctx context.Context, month, year int) (*entity.MonthlyClosing, error) {
	if err := validPeriod(month, year); err != nil {
		return nil, err
	}

	var closing *entity.MonthlyClosing
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		sales, err := s.saleRepo.ListByPeriod(ctx, month, year)
		if err != nil {
			return apperror.NewInternalError(err)
		}
		totalNet := decimal.Zero
		for _, sale := range sales {
			if sale.Method.IsPending() {
				continue
			}
			totalNet = totalNet.Add(sale.Net)
		}

		items, err := s.saleRepo.ListItemsByPeriod(ctx, month, year)
		if err != nil {
			return apperror.NewInternalError(err)
		}
		totalPotentialGain := decimal.Zero
		for _, item := range items {
			gain := item.Product.PotentialGain.Mul(decimal.NewFromInt(int64(item.Quantity)))
			totalPotentialGain = totalPotentialGain.Add(gain)
		}

		totalExpenses, err := s.expenseRepo.SumByPeriod(ctx, month, year)
		if err != nil {
			return apperror.NewInternalError(err)
		}

		closing, err = s.closingRepo.GetByPeriod(ctx, month, year)
		if err != nil {
			return apperror.NewInternalError(err)
		}
		fresh := closing == nil
		if fresh {
			closing = &entity.MonthlyClosing{Month: month, Year: year}
		}
		closing.TotalNet = totalNet.Round(2)
		closing.TotalPotentialGain = totalPotentialGain.Round(2)
		closing.TotalExpenses = totalExpenses.Round(2)
		closing.NetProfit = closing.TotalNet.Sub(closing.TotalExpenses)
		closing.PotentialProfit = closing.TotalPotentialGain.Sub(closing.TotalExpenses)

		if fresh {
			return s.closingRepo.Create(ctx, closing)
		}
		return s.closingRepo.Update(ctx, closing)
	})
	if err != nil {
		return nil, err
	}

	// Cache write failures must not fail the recompute
	_ = s.closingCache.Set(ctx, cache.ClosingKey(month, year), closing, closingCacheTTL)
	return closing, nil
}

// GetClosing returns the closing for a month, computing it on first access
func (s *FinanceService) GetClosing(ctx context.Context, month, year int) (*entity.MonthlyClosing, error) {
	if err := validPeriod(month, year); err != nil {
		return nil, err
	}
	if cached, ok, err := s.closingCache.Get(ctx, cache.ClosingKey(month, year)); err == nil && ok {
		return cached, nil
	}
	closing, err := s.closingRepo.GetByPeriod(ctx, month, year)
	if err != nil {
		return nil, apperror.NewInternalError(err)
	}
	if closing == nil {
		return s.Recompute(ctx, month, year)
	}
	_ = s.closingCache.Set(ctx, cache.ClosingKey(month, year), closing, closingCacheTTL)
	return closing, nil
}

// ListClosings returns every reconciled month, newest first
func (s *FinanceService) ListClosings(ctx context.Context) ([]entity.MonthlyClosing, error) {
	closings, err := s.closingRepo.List(ctx)
	if err != nil {
		return nil, apperror.NewInternalError(err)
	}
	return closings, nil
}

// ExpenseInput represents expense create and update input
type ExpenseInput struct {
	CategoryID  *uuid.UUID
	Description *string
	Amount      decimal.Decimal
	Date        time.Time
}

// CreateExpense stores an expense and recomputes its month
func (s *FinanceService) CreateExpense(ctx context.Context, input *ExpenseInput) (*entity.Expense, error) {
	if !input.Amount.IsPositive() {
		return nil, apperror.NewInvalidInputError("Amount must be positive")
	}
	if input.Date.IsZero() {
		return nil, apperror.NewInvalidInputError("Date is required")
	}
	if input.CategoryID != nil {
		category, err := s.expenseCategoryRepo.GetByID(ctx, *input.CategoryID)
		if err != nil {
			return nil, apperror.NewInternalError(err)
		}
		if category == nil {
			return nil, apperror.NewNotFoundError("Expense category")
		}
	}

	expense := &entity.Expense{
		CategoryID:  input.CategoryID,
		Description: input.Description,
		Amount:      input.Amount.Round(2),
		Date:        entity.DayOf(input.Date),
	}
	if err := s.expenseRepo.Create(ctx, expense); err != nil {
		return nil, apperror.NewInternalError(err)
	}
	if _, err := s.Recompute(ctx, int(expense.Date.Month()), expense.Date.Year()); err != nil {
		return nil, err
	}
	return expense, nil
}

// UpdateExpense rewrites an expense and recomputes every month it touched
func (s *FinanceService) UpdateExpense(ctx context.Context, id uuid.UUID, input *ExpenseInput) (*entity.Expense, error) {
	if !input.Amount.IsPositive() {
		return nil, apperror.NewInvalidInputError("Amount must be positive")
	}
	expense, err := s.expenseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NewInternalError(err)
	}
	if expense == nil {
		return nil, apperror.NewNotFoundError("Expense")
	}

	oldMonth, oldYear := int(expense.Date.Month()), expense.Date.Year()
	expense.CategoryID = input.CategoryID
	expense.Description = input.Description
	expense.Amount = input.Amount.Round(2)
	if !input.Date.IsZero() {
		expense.Date = entity.DayOf(input.Date)
	}
	if err := s.expenseRepo.Update(ctx, expense); err != nil {
		return nil, apperror.NewInternalError(err)
	}

	newMonth, newYear := int(expense.Date.Month()), expense.Date.Year()
	if _, err := s.Recompute(ctx, newMonth, newYear); err != nil {
		return nil, err
	}
	if oldMonth != newMonth || oldYear != newYear {
		if _, err := s.Recompute(ctx, oldMonth, oldYear); err != nil {
			return nil, err
		}
	}
	return expense, nil
}

// DeleteExpense removes an expense and recomputes its month
func (s *FinanceService) DeleteExpense(ctx context.Context, id uuid.UUID) error {
	expense, err := s.expenseRepo.GetByID(ctx, id)
	if err != nil {
		return apperror.NewInternalError(err)
	}
	if expense == nil {
		return apperror.NewNotFoundError("Expense")
	}
	if err := s.expenseRepo.Delete(ctx, id); err != nil {
		return apperror.NewInternalError(err)
	}
	_, err = s.Recompute(ctx, int(expense.Date.Month()), expense.Date.Year())
	return err
}

// ListExpenses returns expenses filtered by category and month
func (s *FinanceService) ListExpenses(ctx context.Context, params *repository.ExpenseFilterParams) (*pagination.PaginatedResult[entity.Expense], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	expenses, total, err := s.expenseRepo.List(ctx, params)
	if err != nil {
		return nil, apperror.NewInternalError(err)
	}
	return pagination.NewPaginatedResult(expenses, pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)), nil
}

// CreateExpenseCategory creates a category, returning the existing one when
// the name is already taken
func (s *FinanceService) CreateExpenseCategory(ctx context.Context, name string) (*entity.ExpenseCategory, error) {
	if name == "" {
		return nil, apperror.NewInvalidInputError("Name is required")
	}
	existing, err := s.expenseCategoryRepo.GetByName(ctx, name)
	if err != nil {
		return nil, apperror.NewInternalError(err)
	}
	if existing != nil {
		return existing, nil
	}
	category := &entity.ExpenseCategory{Name: name}
	if err := s.expenseCategoryRepo.Create(ctx, category); err != nil {
		return nil, apperror.NewInternalError(err)
	}
	return category, nil
}

// ListExpenseCategories returns all expense categories
func (s *FinanceService) ListExpenseCategories(ctx context.Context) ([]entity.ExpenseCategory, error) {
	categories, err := s.expenseCategoryRepo.List(ctx)
	if err != nil {
		return nil, apperror.NewInternalError(err)
	}
	return categories, nil
}

// DeleteExpenseCategory removes an expense category
func (s *FinanceService) DeleteExpenseCategory(ctx context.Context, id uuid.UUID) error {
	category, err := s.expenseCategoryRepo.GetByID(ctx, id)
	if err != nil {
		return apperror.NewInternalError(err)
	}
	if category == nil {
		return apperror.NewNotFoundError("Expense category")
	}
	return s.expenseCategoryRepo.Delete(ctx, id)
}
