package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/willowrootwellness/willowroot-backend/pkg/enums"
)

// Product is a shelf item in the apothecary catalog. Price is the
// authoritative unit price; checkout never trusts a client-supplied figure.
type Product struct {
	ID            uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	Slug          string                `gorm:"column:slug;not null;uniqueIndex"`
	Name          string                `gorm:"column:name;not null"`
	Description   *string               `gorm:"column:description"`
	Category      enums.ProductCategory `gorm:"column:category;not null"`
	Price         float64               `gorm:"column:price;type:numeric(10,2);not null"`
	StockQuantity int                   `gorm:"column:stock_quantity;not null;default:0;check:stock_quantity >= 0"`
	IsActive      bool                  `gorm:"column:is_active;not null;default:true"`
	IsFeatured    bool                  `gorm:"column:is_featured;not null;default:false"`
	ImageURL      *string               `gorm:"column:image_url"`
	CreatedAt     time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
