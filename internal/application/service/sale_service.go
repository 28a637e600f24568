package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Bochino693/Smart-Adega/internal/domain/entity"
	"github.com/Bochino693/Smart-Adega/internal/domain/enum"
	"github.com/Bochino693/Smart-Adega/internal/domain/repository"
	"github.com/Bochino693/Smart-Adega/pkg/apperror"
	"github.com/Bochino693/Smart-Adega/pkg/keylock"
	"github.com/Bochino693/Smart-Adega/pkg/pagination"
)

var oneHundred = decimal.NewFromInt(100)

// SaleService finalizes sales atomically: every stock movement of the cart
// commits together with the sale rows, or nothing does. Locks for every
// touched product are taken upfront through the shared KeyedMutex, in key
// order, so concurrent carts over the same products cannot deadlock.
type SaleService struct {
	txManager   repository.TxManager
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
	stock       *StockService
	finance     *FinanceService
	locks       *keylock.KeyedMutex
	now         func() time.Time
}

// NewSaleService creates a new sale service
func NewSaleService(
	txManager repository.TxManager,
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	stock *StockService,
	finance *FinanceService,
	locks *keylock.KeyedMutex,
) *SaleService {
	return &SaleService{
		txManager:   txManager,
		saleRepo:    saleRepo,
		productRepo: productRepo,
		stock:       stock,
		finance:     finance,
		locks:       locks,
		now:         time.Now,
	}
}

// ComplementInput is an add-on attached to a cart line. Complements always
// deduct stock, even when the line's own product is exempt. Quantity zero
// means five ice units on combo lines and nothing anywhere else.
type ComplementInput struct {
	Type      enum.ComplementType
	ProductID uuid.UUID
	Quantity  int
}

// SaleLineInput is one cart line. UnitPrice is the price the cart was rung up
// at; when absent the catalog price applies.
type SaleLineInput struct {
	ProductID   uuid.UUID
	Quantity    int
	UnitPrice   *decimal.Decimal
	Complements []ComplementInput
}

// FinalizeSaleInput represents the finalize sale input
type FinalizeSaleInput struct {
	UserID         *uuid.UUID
	CustomerName   *string
	Method         enum.PaymentMethod
	Discount       decimal.Decimal
	Lines          []SaleLineInput
	AmountReceived *decimal.Decimal
}

// FinalizeSaleResult carries the stored sale plus the change due on cash
// payments
type FinalizeSaleResult struct {
	Sale   *entity.Sale     `json:"sale"`
	Change *decimal.Decimal `json:"change,omitempty"`
}

// deduction is one entry of the stock plan built before any mutation
type deduction struct {
	product  entity.Product
	quantity int
}

// FinalizeSale prices the cart, deducts stock for every non-exempt line and
// every complement, and persists the sale with its lines. Shortages are
// collected across the whole cart before failing, so the caller learns every
// shortfall at once and stock is left untouched.
func (s *SaleService) FinalizeSale(ctx context.Context, input *FinalizeSaleInput) (*FinalizeSaleResult, error) {
	if !input.Method.Valid() {
		return nil, apperror.NewInvalidInputError("Unknown payment method")
	}
	if len(input.Lines) == 0 {
		return nil, apperror.NewInvalidInputError("Sale has no items")
	}
	if input.Discount.IsNegative() {
		return nil, apperror.NewInvalidInputError("Discount cannot be negative")
	}
	for _, line := range input.Lines {
		if line.Quantity <= 0 {
			return nil, apperror.NewInvalidInputError("Item quantity must be positive")
		}
		if line.UnitPrice != nil && line.UnitPrice.IsNegative() {
			return nil, apperror.NewInvalidInputError("Unit price cannot be negative")
		}
		for _, c := range line.Complements {
			if !c.Type.Valid() {
				return nil, apperror.NewInvalidInputError("Unknown complement type")
			}
			if c.Quantity < 0 {
				return nil, apperror.NewInvalidInputError("Complement quantity cannot be negative")
			}
		}
	}

	products, err := s.loadProducts(ctx, input.Lines)
	if err != nil {
		return nil, err
	}

	gross := decimal.Zero
	for _, line := range input.Lines {
		price := unitPrice(line, products[line.ProductID])
		gross = gross.Add(price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	discounted := gross.Sub(input.Discount)
	if discounted.IsNegative() {
		discounted = decimal.Zero
	}
	fee := discounted.Mul(input.Method.FeeRate()).Div(oneHundred).Round(2)
	net := discounted.Sub(fee)

	// Change exists only for cash; card and pix amounts are exact by nature
	var change *decimal.Decimal
	if input.Method == enum.PaymentCash && input.AmountReceived != nil {
		c := input.AmountReceived.Sub(net).Round(2)
		if c.IsNegative() {
			c = decimal.Zero
		}
		change = &c
	}

	plan := s.buildDeductionPlan(input.Lines, products)

	ids := make([]uuid.UUID, 0, len(plan))
	for _, d := range plan {
		ids = append(ids, d.product.ID)
	}
	unlock := s.locks.LockAll(ids)
	defer unlock()

	sale := &entity.Sale{
		UserID:       input.UserID,
		CustomerName: input.CustomerName,
		Method:       input.Method,
		Gross:        gross,
		Discount:     input.Discount,
		Fee:          fee,
		Net:          net,
		SoldAt:       s.now(),
	}

	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		var shortages []apperror.StockShortage
		available := make(map[uuid.UUID][]entity.Batch, len(plan))
		for _, d := range plan {
			total, batches, err := s.stock.availableLocked(ctx, d.product.ID)
			if err != nil {
				return err
			}
			if total < d.quantity {
				shortages = append(shortages, apperror.StockShortage{
					ProductID:   d.product.ID.String(),
					ProductName: d.product.Name,
					Available:   total,
					Required:    d.quantity,
				})
				continue
			}
			available[d.product.ID] = batches
		}
		if len(shortages) > 0 {
			return apperror.NewInsufficientStockError(shortages)
		}

		for _, d := range plan {
			if err := s.stock.deductBatchesLocked(ctx, available[d.product.ID], d.quantity); err != nil {
				return err
			}
			product := d.product
			if err := s.stock.recordWithdrawalLocked(ctx, &product, d.quantity); err != nil {
				return err
			}
		}

		if err := s.saleRepo.Create(ctx, sale); err != nil {
			return apperror.NewInternalError(err)
		}
		items := s.buildItems(sale, input.Lines, products, gross, input.Discount)
		if err := s.saleRepo.CreateItems(ctx, items); err != nil {
			return apperror.NewInternalError(err)
		}
		sale.Items = items
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recomputeMonth(ctx, sale.SoldAt)
	return &FinalizeSaleResult{Sale: sale, Change: change}, nil
}

// recomputeMonth refreshes the sale month's closing after the transaction
// commits. The recompute is idempotent and rebuilt by every later sale,
// settlement or expense write, so a failure here is not allowed to fail a sale
// that is already committed.
func (s *SaleService) recomputeMonth(ctx context.Context, soldAt time.Time) {
	_, _ = s.finance.Recompute(ctx, int(soldAt.Month()), soldAt.Year())
}

// loadProducts fetches every product referenced by the cart, lines and
// complements alike, in one query
func (s *SaleService) loadProducts(ctx context.Context, lines []SaleLineInput) (map[uuid.UUID]entity.Product, error) {
	ids := make([]uuid.UUID, 0, len(lines))
	seen := make(map[uuid.UUID]struct{})
	collect := func(id uuid.UUID) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	for _, line := range lines {
		collect(line.ProductID)
		for _, c := range line.Complements {
			collect(c.ProductID)
		}
	}

	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, apperror.NewInternalError(err)
	}
	byID := make(map[uuid.UUID]entity.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			return nil, apperror.NewNotFoundError("Product")
		}
	}
	return byID, nil
}

// buildDeductionPlan aggregates required quantities per product in first
// appearance order. Lines of exempt categories (combos, doses, fractioned)
// skip deduction; their complements never do.
func (s *SaleService) buildDeductionPlan(lines []SaleLineInput, products map[uuid.UUID]entity.Product) []deduction {
	var order []uuid.UUID
	required := make(map[uuid.UUID]int)
	add := func(id uuid.UUID, qty int) {
		if _, ok := required[id]; !ok {
			order = append(order, id)
		}
		required[id] += qty
	}

	for _, line := range lines {
		p := products[line.ProductID]
		if !enum.IsStockExempt(strings.ToLower(p.Category.Name)) {
			add(line.ProductID, line.Quantity)
		}
		for _, c := range line.Complements {
			if qty := complementQty(c, p); qty > 0 {
				add(c.ProductID, qty)
			}
		}
	}

	plan := make([]deduction, 0, len(order))
	for _, id := range order {
		plan = append(plan, deduction{product: products[id], quantity: required[id]})
	}
	return plan
}

// unitPrice resolves a line's price: the cart's rung-up price when given, the
// catalog price otherwise
func unitPrice(line SaleLineInput, p entity.Product) decimal.Decimal {
	if line.UnitPrice != nil {
		return *line.UnitPrice
	}
	return p.SalePrice
}

// complementQty resolves a complement's quantity. Unspecified ice on a combo
// line means five units; unspecified anywhere else means none.
func complementQty(c ComplementInput, lineProduct entity.Product) int {
	if c.Quantity > 0 {
		return c.Quantity
	}
	if c.Type == enum.ComplementIce && strings.EqualFold(lineProduct.Category.Name, "combos") {
		return enum.DefaultComboIceQty
	}
	return 0
}

// buildItems prices each line and spreads the sale discount across main lines
// in proportion to their share of the gross. Complements become lines of their
// own, at their product's price and with no discount share.
func (s *SaleService) buildItems(sale *entity.Sale, lines []SaleLineInput, products map[uuid.UUID]entity.Product, gross, discount decimal.Decimal) []entity.SaleItem {
	items := make([]entity.SaleItem, 0, len(lines))
	for _, line := range lines {
		p := products[line.ProductID]
		price := unitPrice(line, p)
		lineGross := price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		lineDiscount := decimal.Zero
		if gross.IsPositive() && discount.IsPositive() {
			lineDiscount = lineGross.Div(gross).Mul(discount).Round(2)
		}
		lineTotal := lineGross.Sub(lineDiscount)
		if lineTotal.IsNegative() {
			lineTotal = decimal.Zero
		}
		items = append(items, entity.SaleItem{
			SaleID:    sale.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: price,
			Discount:  lineDiscount,
			Total:     lineTotal,
		})
		for _, c := range line.Complements {
			qty := complementQty(c, p)
			if qty == 0 {
				continue
			}
			cp := products[c.ProductID]
			items = append(items, entity.SaleItem{
				SaleID:    sale.ID,
				ProductID: c.ProductID,
				Quantity:  qty,
				UnitPrice: cp.SalePrice,
				Discount:  decimal.Zero,
				Total:     cp.SalePrice.Mul(decimal.NewFromInt(int64(qty))),
			})
		}
	}
	return items
}

// SettlePayment moves a pending sale to its real payment method, recomputing
// fee and net from the stored gross and discount. Settling a sale twice, or
// settling a sale that never was pending, is rejected.
func (s *SaleService) SettlePayment(ctx context.Context, saleID uuid.UUID, method enum.PaymentMethod) (*entity.Sale, error) {
	if !method.Valid() || method.IsPending() {
		return nil, apperror.NewInvalidInputError("Settlement requires a concrete payment method")
	}

	var settled *entity.Sale
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		sale, err := s.saleRepo.GetByID(ctx, saleID)
		if err != nil {
			return apperror.NewInternalError(err)
		}
		if sale == nil {
			return apperror.NewNotFoundError("Sale")
		}
		if !sale.Method.IsPending() {
			return apperror.NewInvalidStateError("Sale is not pending")
		}

		discounted := sale.Gross.Sub(sale.Discount)
		if discounted.IsNegative() {
			discounted = decimal.Zero
		}
		sale.Method = method
		sale.Fee = discounted.Mul(method.FeeRate()).Div(oneHundred).Round(2)
		sale.Net = discounted.Sub(sale.Fee)

		if err := s.saleRepo.Update(ctx, sale); err != nil {
			return apperror.NewInternalError(err)
		}
		settled = sale
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recomputeMonth(ctx, settled.SoldAt)
	return settled, nil
}

// GetSale returns a sale with its lines
func (s *SaleService) GetSale(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, apperror.NewInternalError(err)
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	return sale, nil
}

// ListSales returns sales filtered by method and date range
func (s *SaleService) ListSales(ctx context.Context, params *repository.SaleFilterParams) (*pagination.PaginatedResult[entity.Sale], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	sales, total, err := s.saleRepo.List(ctx, params)
	if err != nil {
		return nil, apperror.NewInternalError(err)
	}
	return pagination.NewPaginatedResult(sales, pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)), nil
}
