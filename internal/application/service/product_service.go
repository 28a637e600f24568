package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Bochino693/Smart-Adega/internal/domain/entity"
	"github.com/Bochino693/Smart-Adega/internal/domain/repository"
	"github.com/Bochino693/Smart-Adega/pkg/apperror"
	"github.com/Bochino693/Smart-Adega/pkg/pagination"
)

// ProductService handles catalog operations
type ProductService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

// NewProductService creates a new product service
func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

// ProductInput represents product create and update input
type ProductInput struct {
	CategoryID    uuid.UUID
	Code          *string
	Name          string
	SalePrice     decimal.Decimal
	SupplierPrice decimal.Decimal
}

func (s *ProductService) validateInput(ctx context.Context, input *ProductInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return apperror.NewInvalidInputError("Name is required")
	}
	if input.SalePrice.IsNegative() || input.SupplierPrice.IsNegative() {
		return apperror.NewInvalidInputError("Prices cannot be negative")
	}
	category, err := s.categoryRepo.GetByID(ctx, input.CategoryID)
	if err != nil {
		return apperror.NewInternalError(err)
	}
	if category == nil {
		return apperror.NewNotFoundError("Category")
	}
	return nil
}

// CreateProduct creates a new catalog product. The potential gain column is
// derived from the two prices and refreshed on every price change.
func (s *ProductService) CreateProduct(ctx context.Context, input *ProductInput) (*entity.Product, error) {
	if err := s.validateInput(ctx, input); err != nil {
		return nil, err
	}
	if input.Code != nil && *input.Code != "" {
		existing, err := s.productRepo.GetByCode(ctx, *input.Code)
		if err != nil {
			return nil, apperror.NewInternalError(err)
		}
		if existing != nil {
			return nil, apperror.NewInvalidStateError("Product code already exists")
		}
	}

	product := &entity.Product{
		CategoryID:    input.CategoryID,
		Code:          input.Code,
		Name:          strings.TrimSpace(input.Name),
		SalePrice:     input.SalePrice.Round(2),
		SupplierPrice: input.SupplierPrice.Round(2),
	}
	product.RecalcPotentialGain()

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, apperror.NewInternalError(err)
	}
	return product, nil
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NewInternalError(err)
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// UpdateProduct rewrites a product's catalog data
func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, input *ProductInput) (*entity.Product, error) {
	if err := s.validateInput(ctx, input); err != nil {
		return nil, err
	}
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NewInternalError(err)
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	if input.Code != nil && *input.Code != "" {
		existing, err := s.productRepo.GetByCode(ctx, *input.Code)
		if err != nil {
			return nil, apperror.NewInternalError(err)
		}
		if existing != nil && existing.ID != id {
			return nil, apperror.NewInvalidStateError("Product code already exists")
		}
	}

	product.CategoryID = input.CategoryID
	product.Code = input.Code
	product.Name = strings.TrimSpace(input.Name)
	product.SalePrice = input.SalePrice.Round(2)
	product.SupplierPrice = input.SupplierPrice.Round(2)
	product.RecalcPotentialGain()

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, apperror.NewInternalError(err)
	}
	return product, nil
}

// DeleteProduct soft-deletes a product; its sale lines and withdrawal history
// keep their snapshots
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return apperror.NewInternalError(err)
	}
	if product == nil {
		return apperror.NewNotFoundError("Product")
	}
	return s.productRepo.Delete(ctx, id)
}

// ListProducts returns products filtered by search text and category
func (s *ProductService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	products, total, err := s.productRepo.List(ctx, params)
	if err != nil {
		return nil, apperror.NewInternalError(err)
	}
	return pagination.NewPaginatedResult(products, pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)), nil
}

// CreateCategory creates a product category, rejecting duplicate names
// case-insensitively
func (s *ProductService) CreateCategory(ctx context.Context, name string) (*entity.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.NewInvalidInputError("Name is required")
	}
	existing, err := s.categoryRepo.GetByName(ctx, name)
	if err != nil {
		return nil, apperror.NewInternalError(err)
	}
	if existing != nil {
		return nil, apperror.NewInvalidStateError("Category already exists")
	}
	category := &entity.Category{Name: name}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, apperror.NewInternalError(err)
	}
	return category, nil
}

// ListCategories returns all product categories
func (s *ProductService) ListCategories(ctx context.Context) ([]entity.Category, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, apperror.NewInternalError(err)
	}
	return categories, nil
}

// DeleteCategory removes a product category
func (s *ProductService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return apperror.NewInternalError(err)
	}
	if category == nil {
		return apperror.NewNotFoundError("Category")
	}
	return s.categoryRepo.Delete(ctx, id)
}
