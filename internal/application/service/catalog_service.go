package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/mateusallves/doceria-api/internal/domain/entity"
	"github.com/mateusallves/doceria-api/internal/domain/repository"
	"github.com/mateusallves/doceria-api/pkg/apperror"
	"github.com/mateusallves/doceria-api/pkg/pagination"
)

// CatalogService handles products, kits and categories
type CatalogService struct {
	productRepo  repository.ProductRepository
	kitRepo      repository.KitRepository
	categoryRepo repository.CategoryRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	productRepo repository.ProductRepository,
	kitRepo repository.KitRepository,
	categoryRepo repository.CategoryRepository,
) *CatalogService {
	return &CatalogService{
		productRepo:  productRepo,
		kitRepo:      kitRepo,
		categoryRepo: categoryRepo,
	}
}

// ProductInput represents the create/update product input
type ProductInput struct {
	Name        string     `json:"name" binding:"required"`
	Description *string    `json:"description"`
	Price       float64    `json:"price" binding:"required,gt=0"`
	CategoryID  *uuid.UUID `json:"category_id"`
}

// KitInput represents the create/update kit input
type KitInput struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	Price       float64 `json:"price" binding:"required,gt=0"`
}

// CategoryInput represents the create/update category input
type CategoryInput struct {
	Name string `json:"name" binding:"required"`
}

// CreateProduct creates a new product
func (s *CatalogService) CreateProduct(ctx context.Context, input *ProductInput) (*entity.Product, error) {
	existing, err := s.productRepo.GetByName(ctx, input.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("A product with this name already exists")
	}

	if input.CategoryID != nil {
		category, err := s.categoryRepo.GetByID(ctx, *input.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, apperror.NewNotFoundError("Category")
		}
	}

	product := &entity.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       toCents(input.Price),
		CategoryID:  input.CategoryID,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetProduct retrieves a product by ID
func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// UpdateProduct replaces a product's editable fields
func (s *CatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, input *ProductInput) (*entity.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != product.Name {
		existing, err := s.productRepo.GetByName(ctx, input.Name)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperror.NewConflictError("A product with this name already exists")
		}
	}

	if input.CategoryID != nil {
		category, err := s.categoryRepo.GetByID(ctx, *input.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, apperror.NewNotFoundError("Category")
		}
	}

	product.Name = input.Name
	product.Description = input.Description
	product.Price = toCents(input.Price)
	product.CategoryID = input.CategoryID
	product.Category = nil

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a product. Existing order items keep their snapshot.
func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetProduct(ctx, id); err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, id)
}

// ListProducts lists products with optional category filter and name search
func (s *CatalogService) ListProducts(ctx context.Context, params *pagination.PaginationParams, categoryID *uuid.UUID, search string) (*pagination.PaginatedResult[entity.Product], error) {
	if params == nil {
		params = pagination.DefaultPagination()
	}
	params.Validate()

	products, total, err := s.productRepo.List(ctx, params, categoryID, search)
	if err != nil {
		return nil, err
	}

	return pagination.NewPaginatedResult(
		products,
		pagination.NewPagination(params.Page, params.PerPage, total),
	), nil
}

// CreateKit creates a new kit
func (s *CatalogService) CreateKit(ctx context.Context, input *KitInput) (*entity.Kit, error) {
	kit := &entity.Kit{
		Name:        input.Name,
		Description: input.Description,
		Price:       toCents(input.Price),
	}
	if err := s.kitRepo.Create(ctx, kit); err != nil {
		return nil, err
	}
	return kit, nil
}

// GetKit retrieves a kit by ID
func (s *CatalogService) GetKit(ctx context.Context, id uuid.UUID) (*entity.Kit, error) {
	kit, err := s.kitRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if kit == nil {
		return nil, apperror.NewNotFoundError("Kit")
	}
	return kit, nil
}

// UpdateKit replaces a kit's editable fields
func (s *CatalogService) UpdateKit(ctx context.Context, id uuid.UUID, input *KitInput) (*entity.Kit, error) {
	kit, err := s.GetKit(ctx, id)
	if err != nil {
		return nil, err
	}

	kit.Name = input.Name
	kit.Description = input.Description
	kit.Price = toCents(input.Price)

	if err := s.kitRepo.Update(ctx, kit); err != nil {
		return nil, err
	}
	return kit, nil
}

// DeleteKit removes a kit. Existing order items keep their snapshot.
func (s *CatalogService) DeleteKit(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetKit(ctx, id); err != nil {
		return err
	}
	return s.kitRepo.Delete(ctx, id)
}

// ListKits lists kits with pagination
func (s *CatalogService) ListKits(ctx context.Context, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Kit], error) {
	if params == nil {
		params = pagination.DefaultPagination()
	}
	params.Validate()

	kits, total, err := s.kitRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	return pagination.NewPaginatedResult(
		kits,
		pagination.NewPagination(params.Page, params.PerPage, total),
	), nil
}

// CreateCategory creates a new category
func (s *CatalogService) CreateCategory(ctx context.Context, input *CategoryInput) (*entity.Category, error) {
	existing, err := s.categoryRepo.GetByName(ctx, input.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("A category with this name already exists")
	}

	category := &entity.Category{Name: input.Name}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// GetCategory retrieves a category by ID
func (s *CatalogService) GetCategory(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperror.NewNotFoundError("Category")
	}
	return category, nil
}

// UpdateCategory replaces a category's editable fields
func (s *CatalogService) UpdateCategory(ctx context.Context, id uuid.UUID, input *CategoryInput) (*entity.Category, error) {
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != category.Name {
		existing, err := s.categoryRepo.GetByName(ctx, input.Name)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperror.NewConflictError("A category with this name already exists")
		}
	}

	category.Name = input.Name

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes a category; its products keep a dangling-free nil
// category reference
func (s *CatalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetCategory(ctx, id); err != nil {
		return err
	}
	return s.categoryRepo.Delete(ctx, id)
}

// ListCategories lists all categories
func (s *CatalogService) ListCategories(ctx context.Context) ([]entity.Category, error) {
	return s.categoryRepo.List(ctx)
}
