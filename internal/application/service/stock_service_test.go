package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bochino693/Smart-Adega/internal/application/service"
	"github.com/Bochino693/Smart-Adega/internal/cache"
	"github.com/Bochino693/Smart-Adega/internal/domain/entity"
	"github.com/Bochino693/Smart-Adega/internal/domain/repository"
	"github.com/Bochino693/Smart-Adega/internal/infrastructure/repository/memory"
	"github.com/Bochino693/Smart-Adega/pkg/keylock"
	"github.com/Bochino693/Smart-Adega/pkg/pagination"
)

type harness struct {
	store   *memory.Store
	stock   *service.StockService
	sale    *service.SaleService
	finance *service.FinanceService
}

func newHarness() *harness {
	store := memory.NewStore()
	locks := keylock.New()
	stock := service.NewStockService(store.Tx(), store.Products(), store.Batches(), store.Withdrawals(), locks)
	finance := service.NewFinanceService(store.Tx(), store.Sales(), store.Expenses(), store.ExpenseCategories(), store.Closings(), cache.NoopClosingCache{})
	sale := service.NewSaleService(store.Tx(), store.Sales(), store.Products(), stock, finance, locks)
	return &harness{store: store, stock: stock, sale: sale, finance: finance}
}

func (h *harness) seedCategory(t *testing.T, name string) entity.Category {
	t.Helper()
	ctx := context.Background()
	existing, err := h.store.Categories().GetByName(ctx, name)
	require.NoError(t, err)
	if existing != nil {
		return *existing
	}
	category := entity.Category{Name: name}
	require.NoError(t, h.store.Categories().Create(ctx, &category))
	return category
}

func (h *harness) seedProduct(t *testing.T, name, categoryName, salePrice, supplierPrice string) entity.Product {
	t.Helper()
	category := h.seedCategory(t, categoryName)
	product := entity.Product{
		CategoryID:    category.ID,
		Name:          name,
		SalePrice:     decimal.RequireFromString(salePrice),
		SupplierPrice: decimal.RequireFromString(supplierPrice),
	}
	product.RecalcPotentialGain()
	require.NoError(t, h.store.Products().Create(context.Background(), &product))
	return product
}

func (h *harness) totalStock(t *testing.T, product entity.Product) int {
	t.Helper()
	batches, err := h.store.Batches().ListByProduct(context.Background(), product.ID)
	require.NoError(t, err)
	total := 0
	for _, b := range batches {
		total += b.Quantity
	}
	return total
}

func datePtr(t time.Time) *time.Time { return &t }

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func TestAddStockMergesSameExpiry(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	product := h.seedProduct(t, "Heineken 330ml", "cervejas", "8.00", "4.50")
	expiry := time.Date(2026, 11, 20, 0, 0, 0, 0, time.Local)

	_, err := h.stock.AddStock(ctx, &service.AddStockInput{ProductID: product.ID, Quantity: 5, Expiry: datePtr(expiry)})
	require.NoError(t, err)
	_, err = h.stock.AddStock(ctx, &service.AddStockInput{ProductID: product.ID, Quantity: 3, Expiry: datePtr(expiry)})
	require.NoError(t, err)

	batches, err := h.store.Batches().ListByProduct(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Equal(t, 8, batches[0].Quantity)
	assert.Equal(t, 1, batches[0].Lot)
}

func TestAddStockRenumbersLots(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	product := h.seedProduct(t, "Smirnoff 998ml", "destilados", "45.00", "28.00")
	later := time.Date(2027, 3, 1, 0, 0, 0, 0, time.Local)
	sooner := time.Date(2026, 10, 1, 0, 0, 0, 0, time.Local)

	// Arrival order deliberately scrambled: no-expiry first, then the later
	// date, then the soonest one
	_, err := h.stock.AddStock(ctx, &service.AddStockInput{ProductID: product.ID, Quantity: 10})
	require.NoError(t, err)
	_, err = h.stock.AddStock(ctx, &service.AddStockInput{ProductID: product.ID, Quantity: 6, Expiry: datePtr(later)})
	require.NoError(t, err)
	_, err = h.stock.AddStock(ctx, &service.AddStockInput{ProductID: product.ID, Quantity: 4, Expiry: datePtr(sooner)})
	require.NoError(t, err)

	batches, err := h.store.Batches().ListByProduct(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, batches, 3)

	// Lot 1 is the soonest expiry, the no-expiry bucket comes last
	assert.Equal(t, 1, batches[0].Lot)
	require.NotNil(t, batches[0].Expiry)
	assert.True(t, batches[0].Expiry.Equal(sooner))
	assert.Equal(t, 2, batches[1].Lot)
	require.NotNil(t, batches[1].Expiry)
	assert.True(t, batches[1].Expiry.Equal(later))
	assert.Equal(t, 3, batches[2].Lot)
	assert.Nil(t, batches[2].Expiry)
}

func TestDeductStockWalksLotsAndDeletesDrained(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	product := h.seedProduct(t, "Coca-Cola 2L", "refrigerantes", "12.00", "7.00")
	sooner := time.Date(2026, 9, 10, 0, 0, 0, 0, time.Local)
	later := time.Date(2026, 12, 25, 0, 0, 0, 0, time.Local)

	_, err := h.stock.AddStock(ctx, &service.AddStockInput{ProductID: product.ID, Quantity: 2, Expiry: datePtr(sooner)})
	require.NoError(t, err)
	_, err = h.stock.AddStock(ctx, &service.AddStockInput{ProductID: product.ID, Quantity: 3, Expiry: datePtr(later)})
	require.NoError(t, err)

	deducted, err := h.stock.DeductStock(ctx, product.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, deducted)

	batches, err := h.store.Batches().ListByProduct(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Equal(t, 1, batches[0].Quantity)
	require.NotNil(t, batches[0].Expiry)
	assert.True(t, batches[0].Expiry.Equal(later))
}

func TestDeductStockReturnsPartialWhenShort(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	product := h.seedProduct(t, "Red Bull 250ml", "energeticos", "10.00", "6.00")
	expiry := time.Date(2026, 10, 1, 0, 0, 0, 0, time.Local)

	_, err := h.stock.AddStock(ctx, &service.AddStockInput{ProductID: product.ID, Quantity: 3, Expiry: datePtr(expiry)})
	require.NoError(t, err)
	_, err = h.stock.AddStock(ctx, &service.AddStockInput{ProductID: product.ID, Quantity: 4})
	require.NoError(t, err)

	// A shortfall is not an error: the caller reads the returned amount
	deducted, err := h.stock.DeductStock(ctx, product.ID, 100)
	require.NoError(t, err)
	assert.Equal(t, 7, deducted)

	batches, err := h.store.Batches().ListByProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Empty(t, batches)

	w, err := h.store.Withdrawals().GetForDay(ctx, product.ID, time.Now())
	require.NoError(t, err)
	require.NotNil(t, w)
	assert.Equal(t, 7, w.Quantity)
}

func TestDeductStockEmptyProductReturnsZero(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	product := h.seedProduct(t, "Red Label 1L", "destilados", "80.00", "55.00")

	deducted, err := h.stock.DeductStock(ctx, product.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 0, deducted)

	// No stock moved, so no withdrawal row either
	withdrawals, _, err := h.store.Withdrawals().List(ctx, &repository.WithdrawalFilterParams{Pagination: pagination.DefaultPagination()})
	require.NoError(t, err)
	assert.Empty(t, withdrawals)
}

func TestDeductStockAccumulatesDailyWithdrawal(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	product := h.seedProduct(t, "Skol 350ml", "cervejas", "5.00", "2.80")

	_, err := h.stock.AddStock(ctx, &service.AddStockInput{ProductID: product.ID, Quantity: 10})
	require.NoError(t, err)

	_, err = h.stock.DeductStock(ctx, product.ID, 2)
	require.NoError(t, err)
	_, err = h.stock.DeductStock(ctx, product.ID, 3)
	require.NoError(t, err)

	w, err := h.store.Withdrawals().GetForDay(ctx, product.ID, time.Now())
	require.NoError(t, err)
	require.NotNil(t, w)
	assert.Equal(t, 5, w.Quantity)
	assert.Equal(t, product.Name, w.ProductName)
}

func TestBulkDeductStockAppliesLinesIndependently(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	beer := h.seedProduct(t, "Skol 350ml", "cervejas", "5.00", "2.80")
	soda := h.seedProduct(t, "Guarana 2L", "refrigerantes", "10.00", "6.00")

	_, err := h.stock.AddStock(ctx, &service.AddStockInput{ProductID: beer.ID, Quantity: 10})
	require.NoError(t, err)
	_, err = h.stock.AddStock(ctx, &service.AddStockInput{ProductID: soda.ID, Quantity: 2})
	require.NoError(t, err)

	results, err := h.stock.BulkDeductStock(ctx, []service.DeductStockInput{
		{ProductID: beer.ID, Quantity: 4},
		{ProductID: soda.ID, Quantity: 5},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 4, results[0].Deducted)
	assert.Equal(t, 2, results[1].Deducted)
	assert.Equal(t, 6, h.totalStock(t, beer))
	assert.Equal(t, 0, h.totalStock(t, soda))
}

func TestBulkAddStockIsAtomic(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	product := h.seedProduct(t, "Antarctica 269ml", "cervejas", "4.50", "2.50")
	ghost := h.seedProduct(t, "temp", "cervejas", "1.00", "0.50")
	require.NoError(t, h.store.Products().Delete(ctx, ghost.ID))

	_, err := h.stock.BulkAddStock(ctx, []service.AddStockInput{
		{ProductID: product.ID, Quantity: 6},
		{ProductID: ghost.ID, Quantity: 4},
	})
	require.Error(t, err)

	// The failing line rolled back the whole intake
	assert.Equal(t, 0, h.totalStock(t, product))
}

func TestConcurrentDeductionsNeverOversell(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	product := h.seedProduct(t, "Brahma 600ml", "cervejas", "9.00", "5.00")

	const units = 5
	const callers = 12

	_, err := h.stock.AddStock(ctx, &service.AddStockInput{ProductID: product.ID, Quantity: units})
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make(chan int, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			deducted, err := h.stock.DeductStock(ctx, product.ID, 1)
			assert.NoError(t, err)
			results <- deducted
		}()
	}
	wg.Wait()
	close(results)

	total := 0
	for deducted := range results {
		assert.True(t, deducted == 0 || deducted == 1)
		total += deducted
	}

	assert.Equal(t, units, total)
	assert.Equal(t, 0, h.totalStock(t, product))
}
