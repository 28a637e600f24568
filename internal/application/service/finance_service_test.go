package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bochino693/Smart-Adega/internal/application/service"
	"github.com/Bochino693/Smart-Adega/internal/domain/enum"
)

func TestRecomputeAggregatesMonth(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	product := h.seedProduct(t, "Heineken 600ml", "cervejas", "50.00", "30.00")
	_, err := h.stock.AddStock(ctx, &service.AddStockInput{ProductID: product.ID, Quantity: 10})
	require.NoError(t, err)

	// Settled sale: counts toward revenue and potential gain
	_, err = h.sale.FinalizeSale(ctx, &service.FinalizeSaleInput{
		Method: enum.PaymentPix,
		Lines:  []service.SaleLineInput{{ProductID: product.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	// Pending sale: stock already left, so it counts toward potential gain only
	_, err = h.sale.FinalizeSale(ctx, &service.FinalizeSaleInput{
		Method: enum.PaymentPending,
		Lines:  []service.SaleLineInput{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	now := time.Now()
	_, err = h.finance.CreateExpense(ctx, &service.ExpenseInput{
		Amount: decimal.RequireFromString("40.00"),
		Date:   now,
	})
	require.NoError(t, err)

	closing, err := h.finance.Recompute(ctx, int(now.Month()), now.Year())
	require.NoError(t, err)

	assertDecimal(t, "100.00", closing.TotalNet)
	// margin 20.00 per unit over 3 units sold
	assertDecimal(t, "60.00", closing.TotalPotentialGain)
	assertDecimal(t, "40.00", closing.TotalExpenses)
	assertDecimal(t, "60.00", closing.NetProfit)
	assertDecimal(t, "20.00", closing.PotentialProfit)
}

func TestRecomputeIsIdempotent(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	product := h.seedProduct(t, "Skol 350ml", "cervejas", "5.00", "2.80")
	_, err := h.stock.AddStock(ctx, &service.AddStockInput{ProductID: product.ID, Quantity: 10})
	require.NoError(t, err)
	_, err = h.sale.FinalizeSale(ctx, &service.FinalizeSaleInput{
		Method: enum.PaymentCash,
		Lines:  []service.SaleLineInput{{ProductID: product.ID, Quantity: 4}},
	})
	require.NoError(t, err)

	now := time.Now()
	first, err := h.finance.Recompute(ctx, int(now.Month()), now.Year())
	require.NoError(t, err)
	second, err := h.finance.Recompute(ctx, int(now.Month()), now.Year())
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assertDecimal(t, "20.00", second.TotalNet)

	closings, err := h.finance.ListClosings(ctx)
	require.NoError(t, err)
	assert.Len(t, closings, 1)
}

func TestGetClosingMaterializesOnFirstAccess(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	closing, err := h.finance.GetClosing(ctx, 3, 2026)
	require.NoError(t, err)
	require.NotNil(t, closing)
	assert.Equal(t, 3, closing.Month)
	assert.Equal(t, 2026, closing.Year)
	assertDecimal(t, "0.00", closing.TotalNet)

	closings, err := h.finance.ListClosings(ctx)
	require.NoError(t, err)
	assert.Len(t, closings, 1)
}

func TestGetClosingRejectsBadPeriod(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	_, err := h.finance.GetClosing(ctx, 13, 2026)
	require.Error(t, err)
	_, err = h.finance.Recompute(ctx, 0, 2026)
	require.Error(t, err)
	_, err = h.finance.Recompute(ctx, 5, 1990)
	require.Error(t, err)
}

func TestExpenseLifecycleRecomputesTouchedMonths(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	march := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.Local)
	april := time.Date(2026, time.April, 5, 0, 0, 0, 0, time.Local)

	expense, err := h.finance.CreateExpense(ctx, &service.ExpenseInput{
		Amount: decimal.RequireFromString("100.00"),
		Date:   march,
	})
	require.NoError(t, err)

	closing, err := h.finance.GetClosing(ctx, 3, 2026)
	require.NoError(t, err)
	assertDecimal(t, "100.00", closing.TotalExpenses)
	assertDecimal(t, "-100.00", closing.NetProfit)

	// Moving the expense to April rebuilds both months
	_, err = h.finance.UpdateExpense(ctx, expense.ID, &service.ExpenseInput{
		Amount: decimal.RequireFromString("80.00"),
		Date:   april,
	})
	require.NoError(t, err)

	closing, err = h.finance.GetClosing(ctx, 3, 2026)
	require.NoError(t, err)
	assertDecimal(t, "0.00", closing.TotalExpenses)
	closing, err = h.finance.GetClosing(ctx, 4, 2026)
	require.NoError(t, err)
	assertDecimal(t, "80.00", closing.TotalExpenses)

	require.NoError(t, h.finance.DeleteExpense(ctx, expense.ID))
	closing, err = h.finance.GetClosing(ctx, 4, 2026)
	require.NoError(t, err)
	assertDecimal(t, "0.00", closing.TotalExpenses)
}

func TestCreateExpenseValidation(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	_, err := h.finance.CreateExpense(ctx, &service.ExpenseInput{
		Amount: decimal.Zero,
		Date:   time.Now(),
	})
	require.Error(t, err)

	ghost := uuid.New()
	_, err = h.finance.CreateExpense(ctx, &service.ExpenseInput{
		CategoryID: &ghost,
		Amount:     decimal.RequireFromString("10.00"),
		Date:       time.Now(),
	})
	require.Error(t, err)
}

func TestCreateExpenseCategoryReturnsExistingOnDuplicate(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	first, err := h.finance.CreateExpenseCategory(ctx, "Aluguel")
	require.NoError(t, err)
	second, err := h.finance.CreateExpenseCategory(ctx, "Aluguel")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	categories, err := h.finance.ListExpenseCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 1)
}
