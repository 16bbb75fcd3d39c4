package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/willowrootwellness/willowroot-backend/pkg/db/models"
	"github.com/willowrootwellness/willowroot-backend/pkg/enums"
	"github.com/willowrootwellness/willowroot-backend/pkg/pagination"
)

// ProductDTO is the public shape of a catalog product.
type ProductDTO struct {
	ID            uuid.UUID             `json:"id"`
	Slug          string                `json:"slug"`
	Name          string                `json:"name"`
	Description   *string               `json:"description,omitempty"`
	Category      enums.ProductCategory `json:"category"`
	Price         float64               `json:"price"`
	StockQuantity int                   `json:"stock_quantity"`
	IsActive      bool                  `json:"is_active"`
	IsFeatured    bool                  `json:"is_featured"`
	ImageURL      *string               `json:"image_url,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// NewProductDTO maps a product row to its public shape.
func NewProductDTO(row *models.Product) *ProductDTO {
	return &ProductDTO{
		ID:            row.ID,
		Slug:          row.Slug,
		Name:          row.Name,
		Description:   row.Description,
		Category:      row.Category,
		Price:         row.Price,
		StockQuantity: row.StockQuantity,
		IsActive:      row.IsActive,
		IsFeatured:    row.IsFeatured,
		ImageURL:      row.ImageURL,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}

// ListFilters describe the supported filter knobs for the browse endpoint.
type ListFilters struct {
	Category *enums.ProductCategory `json:"category,omitempty"`
	PriceMin *float64               `json:"price_min,omitempty"`
	PriceMax *float64               `json:"price_max,omitempty"`
	Featured *bool                  `json:"featured,omitempty"`
	InStock  *bool                  `json:"in_stock,omitempty"`
	Query    string                 `json:"q,omitempty"`
}

// ListInput captures the inputs needed to paginate/filter the catalog.
type ListInput struct {
	Filters         ListFilters
	Pagination      pagination.Params
	IncludeInactive bool
}

// ListResult is one page of products plus the cursor for the next.
type ListResult struct {
	Products   []ProductDTO `json:"products"`
	NextCursor *string      `json:"next_cursor,omitempty"`
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Slug          string
	Name          string
	Description   *string
	Category      enums.ProductCategory
	Price         float64
	StockQuantity int
	IsActive      bool
	IsFeatured    bool
	ImageURL      *string
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Slug          *string
	Name          *string
	Description   *string
	Category      *enums.ProductCategory
	Price         *float64
	StockQuantity *int
	IsActive      *bool
	IsFeatured    *bool
	ImageURL      *string
}
