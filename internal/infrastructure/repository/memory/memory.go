// Package memory provides in-memory implementations of the domain
// repositories with snapshot-based transactions. It backs the service tests
// and keeps the same contract as the GORM implementations: all repository
// calls made with a transaction context commit or roll back as a unit.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Bochino693/Smart-Adega/internal/domain/entity"
	domainRepo "github.com/Bochino693/Smart-Adega/internal/domain/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type txKey struct{}

type state struct {
	categories        map[uuid.UUID]entity.Category
	products          map[uuid.UUID]entity.Product
	batches           map[uint]entity.Batch
	withdrawals       map[uint]entity.Withdrawal
	sales             map[uuid.UUID]entity.Sale
	saleItems         map[uint]entity.SaleItem
	expenses          map[uuid.UUID]entity.Expense
	expenseCategories map[uuid.UUID]entity.ExpenseCategory
	closings          map[uint]entity.MonthlyClosing
	users             map[uuid.UUID]entity.User

	nextBatchID      uint
	nextWithdrawalID uint
	nextSaleItemID   uint
	nextClosingID    uint
}

func newState() *state {
	return &state{
		categories:        map[uuid.UUID]entity.Category{},
		products:          map[uuid.UUID]entity.Product{},
		batches:           map[uint]entity.Batch{},
		withdrawals:       map[uint]entity.Withdrawal{},
		sales:             map[uuid.UUID]entity.Sale{},
		saleItems:         map[uint]entity.SaleItem{},
		expenses:          map[uuid.UUID]entity.Expense{},
		expenseCategories: map[uuid.UUID]entity.ExpenseCategory{},
		closings:          map[uint]entity.MonthlyClosing{},
		users:             map[uuid.UUID]entity.User{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.categories {
		c.categories[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.batches {
		c.batches[k] = v
	}
	for k, v := range s.withdrawals {
		c.withdrawals[k] = v
	}
	for k, v := range s.sales {
		c.sales[k] = v
	}
	for k, v := range s.saleItems {
		c.saleItems[k] = v
	}
	for k, v := range s.expenses {
		c.expenses[k] = v
	}
	for k, v := range s.expenseCategories {
		c.expenseCategories[k] = v
	}
	for k, v := range s.closings {
		c.closings[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	c.nextBatchID = s.nextBatchID
	c.nextWithdrawalID = s.nextWithdrawalID
	c.nextSaleItemID = s.nextSaleItemID
	c.nextClosingID = s.nextClosingID
	return c
}

// Store holds all in-memory tables behind one mutex. A transaction holds the
// mutex for its whole duration, so concurrent transactions serialize exactly
// like serializable database transactions would.
type Store struct {
	mu    sync.Mutex
	state *state
}

// NewStore creates an empty in-memory store
func NewStore() *Store {
	return &Store{state: newState()}
}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{}).(bool)
	return v
}

// WithinTransaction snapshots the state, runs fn holding the store mutex and
// restores the snapshot if fn fails. Re-entrant calls join the open transaction.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.state.clone()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.state = snap
		return err
	}
	return nil
}

// acquire locks the store for a single auto-committed call; inside a
// transaction the mutex is already held
func (s *Store) acquire(ctx context.Context) func() {
	if inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// Tx returns the store as a TxManager
func (s *Store) Tx() domainRepo.TxManager { return s }

// Products returns the product repository view of the store
func (s *Store) Products() domainRepo.ProductRepository { return &productRepo{s} }

// Categories returns the category repository view of the store
func (s *Store) Categories() domainRepo.CategoryRepository { return &categoryRepo{s} }

// Batches returns the batch repository view of the store
func (s *Store) Batches() domainRepo.BatchRepository { return &batchRepo{s} }

// Withdrawals returns the withdrawal repository view of the store
func (s *Store) Withdrawals() domainRepo.WithdrawalRepository { return &withdrawalRepo{s} }

// Sales returns the sale repository view of the store
func (s *Store) Sales() domainRepo.SaleRepository { return &saleRepo{s} }

// Expenses returns the expense repository view of the store
func (s *Store) Expenses() domainRepo.ExpenseRepository { return &expenseRepo{s} }

// ExpenseCategories returns the expense category repository view of the store
func (s *Store) ExpenseCategories() domainRepo.ExpenseCategoryRepository {
	return &expenseCategoryRepo{s}
}

// Closings returns the monthly closing repository view of the store
func (s *Store) Closings() domainRepo.ClosingRepository { return &closingRepo{s} }

// Users returns the user repository view of the store
func (s *Store) Users() domainRepo.UserRepository { return &userRepo{s} }

func pageSlice[T any](items []T, page, perPage int) []T {
	start := (page - 1) * perPage
	if start >= len(items) {
		return []T{}
	}
	end := start + perPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// --- products ---

type productRepo struct{ s *Store }

func (r *productRepo) Create(ctx context.Context, product *entity.Product) error {
	defer r.s.acquire(ctx)()
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt
	r.s.state.products[product.ID] = *product
	return nil
}

func (r *productRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	defer r.s.acquire(ctx)()
	p, ok := r.s.state.products[id]
	if !ok {
		return nil, nil
	}
	if cat, ok := r.s.state.categories[p.CategoryID]; ok {
		p.Category = cat
	}
	return &p, nil
}

func (r *productRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	defer r.s.acquire(ctx)()
	products := make([]entity.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.s.state.products[id]; ok {
			if cat, ok := r.s.state.categories[p.CategoryID]; ok {
				p.Category = cat
			}
			products = append(products, p)
		}
	}
	return products, nil
}

func (r *productRepo) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	defer r.s.acquire(ctx)()
	for _, p := range r.s.state.products {
		if p.Code != nil && *p.Code == code {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *productRepo) Update(ctx context.Context, product *entity.Product) error {
	defer r.s.acquire(ctx)()
	product.UpdatedAt = time.Now()
	r.s.state.products[product.ID] = *product
	return nil
}

func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) error {
	defer r.s.acquire(ctx)()
	delete(r.s.state.products, id)
	return nil
}

func (r *productRepo) List(ctx context.Context, params *domainRepo.ProductFilterParams) ([]entity.Product, int64, error) {
	defer r.s.acquire(ctx)()
	var products []entity.Product
	for _, p := range r.s.state.products {
		if params.Search != "" {
			needle := strings.ToLower(params.Search)
			code := ""
			if p.Code != nil {
				code = strings.ToLower(*p.Code)
			}
			if !strings.Contains(strings.ToLower(p.Name), needle) && !strings.Contains(code, needle) {
				continue
			}
		}
		if params.CategoryID != nil && p.CategoryID != *params.CategoryID {
			continue
		}
		if cat, ok := r.s.state.categories[p.CategoryID]; ok {
			p.Category = cat
		}
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].Name < products[j].Name })
	total := int64(len(products))
	params.Pagination.Validate()
	return pageSlice(products, params.Pagination.Page, params.Pagination.PerPage), total, nil
}

func (r *productRepo) ListWithStock(ctx context.Context, maxStock int) ([]domainRepo.ProductStock, error) {
	defer r.s.acquire(ctx)()
	totals := map[uuid.UUID]int{}
	for _, b := range r.s.state.batches {
		totals[b.ProductID] += b.Quantity
	}
	var result []domainRepo.ProductStock
	for _, p := range r.s.state.products {
		total := totals[p.ID]
		if maxStock >= 0 && total > maxStock {
			continue
		}
		if cat, ok := r.s.state.categories[p.CategoryID]; ok {
			p.Category = cat
		}
		result = append(result, domainRepo.ProductStock{Product: p, TotalStock: total})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Product.Name < result[j].Product.Name })
	return result, nil
}

// --- categories ---

type categoryRepo struct{ s *Store }

func (r *categoryRepo) Create(ctx context.Context, category *entity.Category) error {
	defer r.s.acquire(ctx)()
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	category.CreatedAt = time.Now()
	r.s.state.categories[category.ID] = *category
	return nil
}

func (r *categoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	defer r.s.acquire(ctx)()
	c, ok := r.s.state.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *categoryRepo) GetByName(ctx context.Context, name string) (*entity.Category, error) {
	defer r.s.acquire(ctx)()
	for _, c := range r.s.state.categories {
		if strings.EqualFold(c.Name, name) {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *categoryRepo) Update(ctx context.Context, category *entity.Category) error {
	defer r.s.acquire(ctx)()
	r.s.state.categories[category.ID] = *category
	return nil
}

func (r *categoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	defer r.s.acquire(ctx)()
	delete(r.s.state.categories, id)
	return nil
}

func (r *categoryRepo) List(ctx context.Context) ([]entity.Category, error) {
	defer r.s.acquire(ctx)()
	var categories []entity.Category
	for _, c := range r.s.state.categories {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

// --- batches ---

type batchRepo struct{ s *Store }

func (r *batchRepo) Create(ctx context.Context, batch *entity.Batch) error {
	defer r.s.acquire(ctx)()
	r.s.state.nextBatchID++
	batch.ID = r.s.state.nextBatchID
	batch.CreatedAt = time.Now()
	batch.UpdatedAt = batch.CreatedAt
	r.s.state.batches[batch.ID] = *batch
	return nil
}

func (r *batchRepo) ListByProduct(ctx context.Context, productID uuid.UUID) ([]entity.Batch, error) {
	defer r.s.acquire(ctx)()
	var batches []entity.Batch
	for _, b := range r.s.state.batches {
		if b.ProductID == productID {
			batches = append(batches, b)
		}
	}
	sort.Slice(batches, func(i, j int) bool {
		if batches[i].Lot != batches[j].Lot {
			return batches[i].Lot < batches[j].Lot
		}
		return batches[i].ID < batches[j].ID
	})
	return batches, nil
}

func (r *batchRepo) UpdateQuantity(ctx context.Context, id uint, quantity int) error {
	defer r.s.acquire(ctx)()
	if b, ok := r.s.state.batches[id]; ok {
		b.Quantity = quantity
		b.UpdatedAt = time.Now()
		r.s.state.batches[id] = b
	}
	return nil
}

func (r *batchRepo) UpdateLot(ctx context.Context, id uint, lot int) error {
	defer r.s.acquire(ctx)()
	if b, ok := r.s.state.batches[id]; ok {
		b.Lot = lot
		r.s.state.batches[id] = b
	}
	return nil
}

func (r *batchRepo) Delete(ctx context.Context, id uint) error {
	defer r.s.acquire(ctx)()
	delete(r.s.state.batches, id)
	return nil
}

func (r *batchRepo) List(ctx context.Context, params *domainRepo.BatchFilterParams) ([]entity.Batch, int64, error) {
	defer r.s.acquire(ctx)()
	var batches []entity.Batch
	for _, b := range r.s.state.batches {
		if params.ProductID != nil && b.ProductID != *params.ProductID {
			continue
		}
		p, ok := r.s.state.products[b.ProductID]
		if ok {
			if cat, ok := r.s.state.categories[p.CategoryID]; ok {
				p.Category = cat
			}
			b.Product = p
		}
		if params.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(params.Search)) {
			continue
		}
		batches = append(batches, b)
	}
	sort.Slice(batches, func(i, j int) bool {
		if batches[i].ProductID != batches[j].ProductID {
			return batches[i].Product.Name < batches[j].Product.Name
		}
		return batches[i].Lot < batches[j].Lot
	})
	total := int64(len(batches))
	params.Pagination.Validate()
	return pageSlice(batches, params.Pagination.Page, params.Pagination.PerPage), total, nil
}

// --- withdrawals ---

type withdrawalRepo struct{ s *Store }

func (r *withdrawalRepo) GetForDay(ctx context.Context, productID uuid.UUID, day time.Time) (*entity.Withdrawal, error) {
	defer r.s.acquire(ctx)()
	target := entity.DayOf(day)
	for _, w := range r.s.state.withdrawals {
		if w.ProductID == productID && w.Day.Equal(target) {
			return &w, nil
		}
	}
	return nil, nil
}

func (r *withdrawalRepo) Create(ctx context.Context, w *entity.Withdrawal) error {
	defer r.s.acquire(ctx)()
	r.s.state.nextWithdrawalID++
	w.ID = r.s.state.nextWithdrawalID
	w.Day = entity.DayOf(w.Day)
	w.CreatedAt = time.Now()
	r.s.state.withdrawals[w.ID] = *w
	return nil
}

func (r *withdrawalRepo) AddQuantity(ctx context.Context, id uint, delta int) error {
	defer r.s.acquire(ctx)()
	if w, ok := r.s.state.withdrawals[id]; ok {
		w.Quantity += delta
		w.UpdatedAt = time.Now()
		r.s.state.withdrawals[id] = w
	}
	return nil
}

func (r *withdrawalRepo) List(ctx context.Context, params *domainRepo.WithdrawalFilterParams) ([]entity.Withdrawal, int64, error) {
	defer r.s.acquire(ctx)()
	var withdrawals []entity.Withdrawal
	for _, w := range r.s.state.withdrawals {
		if params.ProductID != nil && w.ProductID != *params.ProductID {
			continue
		}
		if params.From != nil && w.Day.Before(entity.DayOf(*params.From)) {
			continue
		}
		if params.To != nil && w.Day.After(entity.DayOf(*params.To)) {
			continue
		}
		withdrawals = append(withdrawals, w)
	}
	sort.Slice(withdrawals, func(i, j int) bool {
		if !withdrawals[i].Day.Equal(withdrawals[j].Day) {
			return withdrawals[i].Day.After(withdrawals[j].Day)
		}
		return withdrawals[i].ProductName < withdrawals[j].ProductName
	})
	total := int64(len(withdrawals))
	params.Pagination.Validate()
	return pageSlice(withdrawals, params.Pagination.Page, params.Pagination.PerPage), total, nil
}

// --- sales ---

type saleRepo struct{ s *Store }

func (r *saleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	defer r.s.acquire(ctx)()
	if sale.ID == uuid.Nil {
		sale.ID = uuid.New()
	}
	sale.CreatedAt = time.Now()
	stored := *sale
	stored.Items = nil
	r.s.state.sales[sale.ID] = stored
	return nil
}

func (r *saleRepo) CreateItems(ctx context.Context, items []entity.SaleItem) error {
	defer r.s.acquire(ctx)()
	for i := range items {
		r.s.state.nextSaleItemID++
		items[i].ID = r.s.state.nextSaleItemID
		r.s.state.saleItems[items[i].ID] = items[i]
	}
	return nil
}

func (r *saleRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	defer r.s.acquire(ctx)()
	sale, ok := r.s.state.sales[id]
	if !ok {
		return nil, nil
	}
	return &sale, nil
}

func (r *saleRepo) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	defer r.s.acquire(ctx)()
	sale, ok := r.s.state.sales[id]
	if !ok {
		return nil, nil
	}
	sale.Items = r.itemsOf(id)
	return &sale, nil
}

func (r *saleRepo) itemsOf(saleID uuid.UUID) []entity.SaleItem {
	var items []entity.SaleItem
	for _, item := range r.s.state.saleItems {
		if item.SaleID == saleID {
			if p, ok := r.s.state.products[item.ProductID]; ok {
				item.Product = p
			}
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

func (r *saleRepo) Update(ctx context.Context, sale *entity.Sale) error {
	defer r.s.acquire(ctx)()
	sale.UpdatedAt = time.Now()
	stored := *sale
	stored.Items = nil
	r.s.state.sales[sale.ID] = stored
	return nil
}

func (r *saleRepo) List(ctx context.Context, params *domainRepo.SaleFilterParams) ([]entity.Sale, int64, error) {
	defer r.s.acquire(ctx)()
	var sales []entity.Sale
	for _, sale := range r.s.state.sales {
		if params.Method != nil && sale.Method != *params.Method {
			continue
		}
		if params.From != nil && sale.SoldAt.Before(*params.From) {
			continue
		}
		if params.To != nil && !sale.SoldAt.Before(*params.To) {
			continue
		}
		sale.Items = r.itemsOf(sale.ID)
		sales = append(sales, sale)
	}
	sort.Slice(sales, func(i, j int) bool { return sales[i].SoldAt.After(sales[j].SoldAt) })
	total := int64(len(sales))
	params.Pagination.Validate()
	return pageSlice(sales, params.Pagination.Page, params.Pagination.PerPage), total, nil
}

func (r *saleRepo) ListByPeriod(ctx context.Context, month, year int) ([]entity.Sale, error) {
	defer r.s.acquire(ctx)()
	var sales []entity.Sale
	for _, sale := range r.s.state.sales {
		if int(sale.SoldAt.Month()) == month && sale.SoldAt.Year() == year {
			sales = append(sales, sale)
		}
	}
	return sales, nil
}

func (r *saleRepo) ListItemsByPeriod(ctx context.Context, month, year int) ([]entity.SaleItem, error) {
	defer r.s.acquire(ctx)()
	var items []entity.SaleItem
	for _, item := range r.s.state.saleItems {
		sale, ok := r.s.state.sales[item.SaleID]
		if !ok || int(sale.SoldAt.Month()) != month || sale.SoldAt.Year() != year {
			continue
		}
		if p, ok := r.s.state.products[item.ProductID]; ok {
			item.Product = p
		}
		items = append(items, item)
	}
	return items, nil
}

// --- expenses ---

type expenseRepo struct{ s *Store }

func (r *expenseRepo) Create(ctx context.Context, expense *entity.Expense) error {
	defer r.s.acquire(ctx)()
	if expense.ID == uuid.Nil {
		expense.ID = uuid.New()
	}
	expense.CreatedAt = time.Now()
	r.s.state.expenses[expense.ID] = *expense
	return nil
}

func (r *expenseRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Expense, error) {
	defer r.s.acquire(ctx)()
	e, ok := r.s.state.expenses[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (r *expenseRepo) Update(ctx context.Context, expense *entity.Expense) error {
	defer r.s.acquire(ctx)()
	expense.UpdatedAt = time.Now()
	r.s.state.expenses[expense.ID] = *expense
	return nil
}

func (r *expenseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	defer r.s.acquire(ctx)()
	delete(r.s.state.expenses, id)
	return nil
}

func (r *expenseRepo) List(ctx context.Context, params *domainRepo.ExpenseFilterParams) ([]entity.Expense, int64, error) {
	defer r.s.acquire(ctx)()
	var expenses []entity.Expense
	for _, e := range r.s.state.expenses {
		if params.CategoryID != nil && (e.CategoryID == nil || *e.CategoryID != *params.CategoryID) {
			continue
		}
		if params.Month != nil && params.Year != nil {
			if int(e.Date.Month()) != *params.Month || e.Date.Year() != *params.Year {
				continue
			}
		}
		expenses = append(expenses, e)
	}
	sort.Slice(expenses, func(i, j int) bool { return expenses[i].Date.After(expenses[j].Date) })
	total := int64(len(expenses))
	params.Pagination.Validate()
	return pageSlice(expenses, params.Pagination.Page, params.Pagination.PerPage), total, nil
}

func (r *expenseRepo) SumByPeriod(ctx context.Context, month, year int) (decimal.Decimal, error) {
	defer r.s.acquire(ctx)()
	sum := decimal.Zero
	for _, e := range r.s.state.expenses {
		if int(e.Date.Month()) == month && e.Date.Year() == year {
			sum = sum.Add(e.Amount)
		}
	}
	return sum, nil
}

// --- expense categories ---

type expenseCategoryRepo struct{ s *Store }

func (r *expenseCategoryRepo) Create(ctx context.Context, category *entity.ExpenseCategory) error {
	defer r.s.acquire(ctx)()
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	category.CreatedAt = time.Now()
	r.s.state.expenseCategories[category.ID] = *category
	return nil
}

func (r *expenseCategoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.ExpenseCategory, error) {
	defer r.s.acquire(ctx)()
	c, ok := r.s.state.expenseCategories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *expenseCategoryRepo) GetByName(ctx context.Context, name string) (*entity.ExpenseCategory, error) {
	defer r.s.acquire(ctx)()
	for _, c := range r.s.state.expenseCategories {
		if strings.EqualFold(c.Name, name) {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *expenseCategoryRepo) List(ctx context.Context) ([]entity.ExpenseCategory, error) {
	defer r.s.acquire(ctx)()
	var categories []entity.ExpenseCategory
	for _, c := range r.s.state.expenseCategories {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

func (r *expenseCategoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	defer r.s.acquire(ctx)()
	delete(r.s.state.expenseCategories, id)
	return nil
}

// --- monthly closings ---

type closingRepo struct{ s *Store }

func (r *closingRepo) GetByPeriod(ctx context.Context, month, year int) (*entity.MonthlyClosing, error) {
	defer r.s.acquire(ctx)()
	for _, c := range r.s.state.closings {
		if c.Month == month && c.Year == year {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *closingRepo) Create(ctx context.Context, closing *entity.MonthlyClosing) error {
	defer r.s.acquire(ctx)()
	r.s.state.nextClosingID++
	closing.ID = r.s.state.nextClosingID
	closing.CreatedAt = time.Now()
	r.s.state.closings[closing.ID] = *closing
	return nil
}

func (r *closingRepo) Update(ctx context.Context, closing *entity.MonthlyClosing) error {
	defer r.s.acquire(ctx)()
	closing.UpdatedAt = time.Now()
	r.s.state.closings[closing.ID] = *closing
	return nil
}

func (r *closingRepo) List(ctx context.Context) ([]entity.MonthlyClosing, error) {
	defer r.s.acquire(ctx)()
	var closings []entity.MonthlyClosing
	for _, c := range r.s.state.closings {
		closings = append(closings, c)
	}
	sort.Slice(closings, func(i, j int) bool {
		if closings[i].Year != closings[j].Year {
			return closings[i].Year > closings[j].Year
		}
		return closings[i].Month > closings[j].Month
	})
	return closings, nil
}

// --- users ---

type userRepo struct{ s *Store }

func (r *userRepo) Create(ctx context.Context, user *entity.User) error {
	defer r.s.acquire(ctx)()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	r.s.state.users[user.ID] = *user
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	defer r.s.acquire(ctx)()
	u, ok := r.s.state.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	defer r.s.acquire(ctx)()
	for _, u := range r.s.state.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *userRepo) List(ctx context.Context) ([]entity.User, error) {
	defer r.s.acquire(ctx)()
	var users []entity.User
	for _, u := range r.s.state.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}
