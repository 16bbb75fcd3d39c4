package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/willowrootwellness/willowroot-backend/pkg/enums"
	"github.com/willowrootwellness/willowroot-backend/pkg/types"
)

// Order is the persisted checkout result. All monetary columns are computed
// server-side; the order number comes from a database sequence so this layer
// never generates it.
type Order struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	UserID          uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index"`
	OrderNumber     int64             `gorm:"column:order_number;not null;uniqueIndex"`
	Status          enums.OrderStatus `gorm:"column:status;not null;default:'pending'"`
	Subtotal        float64           `gorm:"column:subtotal;type:numeric(10,2);not null"`
	ShippingFee     float64           `gorm:"column:shipping_fee;type:numeric(10,2);not null"`
	Tax             float64           `gorm:"column:tax;type:numeric(10,2);not null"`
	Total           float64           `gorm:"column:total;type:numeric(10,2);not null"`
	ShippingAddress *types.Address    `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	Items           []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem is one purchased line. Exactly one of ProductID/CompoundID is
// set; the snapshot columns freeze what was sold at the moment of purchase.
type OrderItem struct {
	ID               uuid.UUID               `gorm:"column:id;type:uuid;primaryKey"`
	OrderID          uuid.UUID               `gorm:"column:order_id;type:uuid;not null;index"`
	Type             enums.OrderItemType     `gorm:"column:type;not null"`
	ProductID        *uuid.UUID              `gorm:"column:product_id;type:uuid"`
	CompoundID       *uuid.UUID              `gorm:"column:compound_id;type:uuid"`
	Quantity         int                     `gorm:"column:quantity;not null"`
	Price            float64                 `gorm:"column:price;type:numeric(10,2);not null"`
	ProductSnapshot  *types.ProductSnapshot  `gorm:"column:product_snapshot;type:jsonb;serializer:json"`
	CompoundSnapshot *types.CompoundSnapshot `gorm:"column:compound_snapshot;type:jsonb;serializer:json"`
	CreatedAt        time.Time               `gorm:"column:created_at;autoCreateTime"`
}
