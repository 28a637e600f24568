package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bochino693/Smart-Adega/internal/application/service"
	"github.com/Bochino693/Smart-Adega/internal/domain/enum"
	"github.com/Bochino693/Smart-Adega/pkg/apperror"
)

func TestFinalizeSaleComputesFeesAndNet(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	product := h.seedProduct(t, "Original 600ml", "cervejas", "50.00", "30.00")
	_, err := h.stock.AddStock(ctx, &service.AddStockInput{ProductID: product.ID, Quantity: 10})
	require.NoError(t, err)

	result, err := h.sale.FinalizeSale(ctx, &service.FinalizeSaleInput{
		Method:   enum.PaymentPixQRCode,
		Discount: decimal.RequireFromString("10.00"),
		Lines:    []service.SaleLineInput{{ProductID: product.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	sale := result.Sale
	assertDecimal(t, "100.00", sale.Gross)
	assertDecimal(t, "10.00", sale.Discount)
	// 90.00 at 4.99% is 4.491, rounded to 4.49
	assertDecimal(t, "4.49", sale.Fee)
	assertDecimal(t, "85.51", sale.Net)

	assert.Equal(t, 8, h.totalStock(t, product))

	require.Len(t, sale.Items, 1)
	assertDecimal(t, "50.00", sale.Items[0].UnitPrice)
	assert.Equal(t, 2, sale.Items[0].Quantity)

	// Finalizing refreshed the month's closing
	now := time.Now()
	closing, err := h.store.Closings().GetByPeriod(ctx, int(now.Month()), now.Year())
	require.NoError(t, err)
	require.NotNil(t, closing)
	assertDecimal(t, "85.51", closing.TotalNet)
}

func TestFinalizeSaleCollectsEveryShortage(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	stocked := h.seedProduct(t, "Skol 350ml", "cervejas", "5.00", "2.80")
	shortA := h.seedProduct(t, "Corona 330ml", "cervejas", "9.00", "5.50")
	shortB := h.seedProduct(t, "Budweiser 330ml", "cervejas", "8.00", "5.00")

	_, err := h.stock.AddStock(ctx, &service.AddStockInput{ProductID: stocked.ID, Quantity: 10})
	require.NoError(t, err)
	_, err = h.stock.AddStock(ctx, &service.AddStockInput{ProductID: shortA.ID, Quantity: 1})
	require.NoError(t, err)

	_, err = h.sale.FinalizeSale(ctx, &service.FinalizeSaleInput{
		Method: enum.PaymentCash,
		Lines: []service.SaleLineInput{
			{ProductID: stocked.ID, Quantity: 2},
			{ProductID: shortA.ID, Quantity: 3},
			{ProductID: shortB.ID, Quantity: 1},
		},
	})
	require.Error(t, err)
	require.True(t, apperror.IsInsufficientStock(err))

	appErr := apperror.GetAppError(err)
	require.Len(t, appErr.Shortages, 2)
	assert.Equal(t, shortA.Name, appErr.Shortages[0].ProductName)
	assert.Equal(t, 1, appErr.Shortages[0].Available)
	assert.Equal(t, 3, appErr.Shortages[0].Required)
	assert.Equal(t, shortB.Name, appErr.Shortages[1].ProductName)
	assert.Equal(t, 0, appErr.Shortages[1].Available)

	// Nothing moved, not even for the product that had enough
	assert.Equal(t, 10, h.totalStock(t, stocked))
	assert.Equal(t, 1, h.totalStock(t, shortA))
}

func TestFinalizeSaleComboSkipsDeductionButIceDefaultsToFive(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	combo := h.seedProduct(t, "Combo Vodka + Energetico", "combos", "120.00", "70.00")
	ice := h.seedProduct(t, "Gelo pacote", "gelo", "6.00", "2.00")

	_, err := h.stock.AddStock(ctx, &service.AddStockInput{ProductID: ice.ID, Quantity: 20})
	require.NoError(t, err)

	result, err := h.sale.FinalizeSale(ctx, &service.FinalizeSaleInput{
		Method: enum.PaymentPix,
		Lines: []service.SaleLineInput{{
			ProductID: combo.ID,
			Quantity:  1,
			Complements: []service.ComplementInput{
				{Type: enum.ComplementIce, ProductID: ice.ID},
			},
		}},
	})
	require.NoError(t, err)

	// The combo line itself never touches the ledger, the ice does
	assert.Equal(t, 15, h.totalStock(t, ice))
	// Gross covers main lines only; the complement is recorded as its own line
	assertDecimal(t, "120.00", result.Sale.Gross)
	assertDecimal(t, "120.00", result.Sale.Net)

	require.Len(t, result.Sale.Items, 2)
	iceItem := result.Sale.Items[1]
	assert.Equal(t, ice.ID, iceItem.ProductID)
	assert.Equal(t, 5, iceItem.Quantity)
	assertDecimal(t, "0", iceItem.Discount)
	assertDecimal(t, "30.00", iceItem.Total)
}

func TestFinalizeSaleEnergyComplementDeductsRequestedQuantity(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	dose := h.seedProduct(t, "Dose Whisky", "doses", "15.00", "8.00")
	energy := h.seedProduct(t, "Red Bull 250ml", "energeticos", "10.00", "6.00")

	_, err := h.stock.AddStock(ctx, &service.AddStockInput{ProductID: energy.ID, Quantity: 4})
	require.NoError(t, err)

	_, err = h.sale.FinalizeSale(ctx, &service.FinalizeSaleInput{
		Method: enum.PaymentCash,
		Lines: []service.SaleLineInput{{
			ProductID: dose.ID,
			Quantity:  2,
			Complements: []service.ComplementInput{
				{Type: enum.ComplementEnergy, ProductID: energy.ID, Quantity: 2},
			},
		}},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, h.totalStock(t, energy))
}

func TestFinalizeSaleSpreadsDiscountProportionally(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	cheap := h.seedProduct(t, "Agua 500ml", "refrigerantes", "30.00", "15.00")
	pricey := h.seedProduct(t, "Whisky 12 anos", "destilados", "70.00", "40.00")

	_, err := h.stock.AddStock(ctx, &service.AddStockInput{ProductID: cheap.ID, Quantity: 5})
	require.NoError(t, err)
	_, err = h.stock.AddStock(ctx, &service.AddStockInput{ProductID: pricey.ID, Quantity: 5})
	require.NoError(t, err)

	result, err := h.sale.FinalizeSale(ctx, &service.FinalizeSaleInput{
		Method:   enum.PaymentCash,
		Discount: decimal.RequireFromString("10.00"),
		Lines: []service.SaleLineInput{
			{ProductID: cheap.ID, Quantity: 1},
			{ProductID: pricey.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)

	items := result.Sale.Items
	require.Len(t, items, 2)
	assertDecimal(t, "3.00", items[0].Discount)
	assertDecimal(t, "27.00", items[0].Total)
	assertDecimal(t, "7.00", items[1].Discount)
	assertDecimal(t, "63.00", items[1].Total)
}

func TestFinalizeSaleCashChange(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	product := h.seedProduct(t, "Brahma 600ml", "cervejas", "9.00", "5.00")
	_, err := h.stock.AddStock(ctx, &service.AddStockInput{ProductID: product.ID, Quantity: 10})
	require.NoError(t, err)

	received := decimal.RequireFromString("50.00")
	result, err := h.sale.FinalizeSale(ctx, &service.FinalizeSaleInput{
		Method:         enum.PaymentCash,
		Lines:          []service.SaleLineInput{{ProductID: product.ID, Quantity: 2}},
		AmountReceived: &received,
	})
	require.NoError(t, err)
	require.NotNil(t, result.Change)
	assertDecimal(t, "32.00", *result.Change)

	// Underpayment clamps change at zero instead of failing the sale
	short := decimal.RequireFromString("10.00")
	result, err = h.sale.FinalizeSale(ctx, &service.FinalizeSaleInput{
		Method:         enum.PaymentCash,
		Lines:          []service.SaleLineInput{{ProductID: product.ID, Quantity: 2}},
		AmountReceived: &short,
	})
	require.NoError(t, err)
	require.NotNil(t, result.Change)
	assertDecimal(t, "0", *result.Change)
}

func TestFinalizeSaleNonCashReportsNoChange(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	product := h.seedProduct(t, "Original 600ml", "cervejas", "50.00", "30.00")
	_, err := h.stock.AddStock(ctx, &service.AddStockInput{ProductID: product.ID, Quantity: 5})
	require.NoError(t, err)

	received := decimal.RequireFromString("100.00")
	result, err := h.sale.FinalizeSale(ctx, &service.FinalizeSaleInput{
		Method:         enum.PaymentPixQRCode,
		Discount:       decimal.RequireFromString("10.00"),
		Lines:          []service.SaleLineInput{{ProductID: product.ID, Quantity: 2}},
		AmountReceived: &received,
	})
	require.NoError(t, err)

	assertDecimal(t, "85.51", result.Sale.Net)
	assert.Nil(t, result.Change)
}

func TestFinalizeSaleUnspecifiedIceOutsideComboDeductsNothing(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	dose := h.seedProduct(t, "Dose Cachaca", "doses", "8.00", "4.00")
	ice := h.seedProduct(t, "Gelo pacote", "gelo", "6.00", "2.00")

	_, err := h.stock.AddStock(ctx, &service.AddStockInput{ProductID: ice.ID, Quantity: 20})
	require.NoError(t, err)

	result, err := h.sale.FinalizeSale(ctx, &service.FinalizeSaleInput{
		Method: enum.PaymentCash,
		Lines: []service.SaleLineInput{{
			ProductID: dose.ID,
			Quantity:  1,
			Complements: []service.ComplementInput{
				{Type: enum.ComplementIce, ProductID: ice.ID},
			},
		}},
	})
	require.NoError(t, err)

	// The five-unit default is combo-only; elsewhere no quantity means none
	assert.Equal(t, 20, h.totalStock(t, ice))
	require.Len(t, result.Sale.Items, 1)
	assert.Equal(t, dose.ID, result.Sale.Items[0].ProductID)
}

func TestFinalizeSaleHonorsCartUnitPrice(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	product := h.seedProduct(t, "Heineken 330ml", "cervejas", "50.00", "30.00")
	_, err := h.stock.AddStock(ctx, &service.AddStockInput{ProductID: product.ID, Quantity: 5})
	require.NoError(t, err)

	rungUp := decimal.RequireFromString("45.00")
	result, err := h.sale.FinalizeSale(ctx, &service.FinalizeSaleInput{
		Method: enum.PaymentCash,
		Lines:  []service.SaleLineInput{{ProductID: product.ID, Quantity: 2, UnitPrice: &rungUp}},
	})
	require.NoError(t, err)

	// The cart's rung-up price wins over the catalog price
	assertDecimal(t, "90.00", result.Sale.Gross)
	require.Len(t, result.Sale.Items, 1)
	assertDecimal(t, "45.00", result.Sale.Items[0].UnitPrice)
	assertDecimal(t, "90.00", result.Sale.Items[0].Total)

	negative := decimal.RequireFromString("-1.00")
	_, err = h.sale.FinalizeSale(ctx, &service.FinalizeSaleInput{
		Method: enum.PaymentCash,
		Lines:  []service.SaleLineInput{{ProductID: product.ID, Quantity: 1, UnitPrice: &negative}},
	})
	require.Error(t, err)
}

func TestFinalizeSaleDiscountNeverDrivesTotalNegative(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	product := h.seedProduct(t, "Skol 350ml", "cervejas", "5.00", "2.80")
	_, err := h.stock.AddStock(ctx, &service.AddStockInput{ProductID: product.ID, Quantity: 5})
	require.NoError(t, err)

	result, err := h.sale.FinalizeSale(ctx, &service.FinalizeSaleInput{
		Method:   enum.PaymentCash,
		Discount: decimal.RequireFromString("100.00"),
		Lines:    []service.SaleLineInput{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	assertDecimal(t, "0.00", result.Sale.Net)
	assertDecimal(t, "0.00", result.Sale.Fee)
}

func TestPendingSaleDeductsStockAndSettlesOnce(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	product := h.seedProduct(t, "Heineken 330ml", "cervejas", "50.00", "30.00")
	_, err := h.stock.AddStock(ctx, &service.AddStockInput{ProductID: product.ID, Quantity: 5})
	require.NoError(t, err)

	customer := "Carlos"
	result, err := h.sale.FinalizeSale(ctx, &service.FinalizeSaleInput{
		Method:       enum.PaymentPending,
		CustomerName: &customer,
		Lines:        []service.SaleLineInput{{ProductID: product.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	// Stock leaves at finalize time even for pending sales
	assert.Equal(t, 3, h.totalStock(t, product))
	assertDecimal(t, "0.00", result.Sale.Fee)
	assertDecimal(t, "100.00", result.Sale.Net)

	settled, err := h.sale.SettlePayment(ctx, result.Sale.ID, enum.PaymentCreditCard)
	require.NoError(t, err)
	assert.Equal(t, enum.PaymentCreditCard, settled.Method)
	// 100.00 at 1.99% is 1.99
	assertDecimal(t, "1.99", settled.Fee)
	assertDecimal(t, "98.01", settled.Net)

	// Settling twice is rejected and stock stays where it was
	_, err = h.sale.SettlePayment(ctx, result.Sale.ID, enum.PaymentPix)
	require.Error(t, err)
	assert.Equal(t, 3, h.totalStock(t, product))
}

func TestSettleRejectsPendingAsTarget(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	product := h.seedProduct(t, "Skol 350ml", "cervejas", "5.00", "2.80")
	_, err := h.stock.AddStock(ctx, &service.AddStockInput{ProductID: product.ID, Quantity: 5})
	require.NoError(t, err)

	result, err := h.sale.FinalizeSale(ctx, &service.FinalizeSaleInput{
		Method: enum.PaymentPending,
		Lines:  []service.SaleLineInput{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = h.sale.SettlePayment(ctx, result.Sale.ID, enum.PaymentPending)
	require.Error(t, err)
	_, err = h.sale.SettlePayment(ctx, result.Sale.ID, enum.PaymentMethod("cheque"))
	require.Error(t, err)
}
