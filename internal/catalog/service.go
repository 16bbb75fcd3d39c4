package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	dbpkg "github.com/willowrootwellness/willowroot-backend/pkg/db"
	"github.com/willowrootwellness/willowroot-backend/pkg/db/models"
	pkgerrors "github.com/willowrootwellness/willowroot-backend/pkg/errors"
	"github.com/willowrootwellness/willowroot-backend/pkg/logger"
	"github.com/willowrootwellness/willowroot-backend/pkg/pagination"
)

// Service exposes catalog browse and admin product management operations.
type Service interface {
	ListProducts(ctx context.Context, input ListInput) (*ListResult, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	GetProductBySlug(ctx context.Context, slug string) (*ProductDTO, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeactivateProduct(ctx context.Context, productID uuid.UUID) error
}

type service struct {
	repo *Repository
	logg *logger.Logger
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

// ListProducts returns one cursor page of the storefront catalog.
func (s *service) ListProducts(ctx context.Context, input ListInput) (*ListResult, error) {
	if input.Filters.Category != nil && !input.Filters.Category.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid category %q", *input.Filters.Category)
	}
	if input.Filters.PriceMin != nil && *input.Filters.PriceMin < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price_min cannot be negative")
	}
	if input.Filters.PriceMin != nil && input.Filters.PriceMax != nil && *input.Filters.PriceMax < *input.Filters.PriceMin {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price_max cannot be below price_min")
	}

	rows, err := s.repo.List(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}

	limit := pagination.NormalizeLimit(input.Pagination.Limit)
	result := &ListResult{Products: make([]ProductDTO, 0, len(rows))}
	for i := range rows {
		if i >= limit {
			cursor := pagination.EncodeCursor(pagination.Cursor{
				CreatedAt: rows[limit-1].CreatedAt,
				ID:        rows[limit-1].ID,
			})
			result.NextCursor = &cursor
			break
		}
		result.Products = append(result.Products, *NewProductDTO(&rows[i]))
	}
	return result, nil
}

// GetProduct loads one product by id.
func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
	}
	return NewProductDTO(row), nil
}

// GetProductBySlug loads one active product by its storefront slug.
func (s *service) GetProductBySlug(ctx context.Context, slug string) (*ProductDTO, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}
	row, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
	}
	return NewProductDTO(row), nil
}

// CreateProduct inserts a new catalog product.
func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	if err := validateProductFields(input.Slug, input.Name, input.Category, input.Price, input.StockQuantity); err != nil {
		return nil, err
	}

	row := &models.Product{
		ID:            uuid.New(),
		Slug:          strings.TrimSpace(input.Slug),
		Name:          strings.TrimSpace(input.Name),
		Description:   input.Description,
		Category:      input.Category,
		Price:         input.Price,
		StockQuantity: input.StockQuantity,
		IsActive:      input.IsActive,
		IsFeatured:    input.IsFeatured,
		ImageURL:      input.ImageURL,
	}
	created, err := s.repo.Create(ctx, row)
	if err != nil {
		if dbpkg.IsUniqueViolation(err, "products_slug_key") {
			return nil, pkgerrors.Newf(pkgerrors.CodeConflict, "a product with slug %q already exists", row.Slug)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{"product_id": created.ID.String(), "slug": created.Slug})
	s.logg.Info(logCtx, "product created")
	return NewProductDTO(created), nil
}

// UpdateProduct applies the provided mutations to an existing product.
func (s *service) UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	row, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
	}

	if input.Slug != nil {
		row.Slug = strings.TrimSpace(*input.Slug)
	}
	if input.Name != nil {
		row.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		row.Description = input.Description
	}
	if input.Category != nil {
		row.Category = *input.Category
	}
	if input.Price != nil {
		row.Price = *input.Price
	}
	if input.StockQuantity != nil {
		row.StockQuantity = *input.StockQuantity
	}
	if input.IsActive != nil {
		row.IsActive = *input.IsActive
	}
	if input.IsFeatured != nil {
		row.IsFeatured = *input.IsFeatured
	}
	if input.ImageURL != nil {
		row.ImageURL = input.ImageURL
	}

	if err := validateProductFields(row.Slug, row.Name, row.Category, row.Price, row.StockQuantity); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, row)
	if err != nil {
		if dbpkg.IsUniqueViolation(err, "products_slug_key") {
			return nil, pkgerrors.Newf(pkgerrors.CodeConflict, "a product with slug %q already exists", row.Slug)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
	}
	return NewProductDTO(updated), nil
}

// DeactivateProduct removes the product from the storefront without deleting
// order history that references it.
func (s *service) DeactivateProduct(ctx context.Context, productID uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
	}
	if err := s.repo.Deactivate(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: deactivate product")
	}
	logCtx := s.logg.WithField(ctx, "product_id", productID.String())
	s.logg.Info(logCtx, "product deactivated")
	return nil
}

func validateProductFields(slug, name string, category interface{ IsValid() bool }, price float64, stock int) error {
	if strings.TrimSpace(slug) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}
	if strings.TrimSpace(name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if !category.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid category")
	}
	if price < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if stock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock_quantity cannot be negative")
	}
	return nil
}
