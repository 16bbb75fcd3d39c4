package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/willowrootwellness/willowroot-backend/pkg/db/models"
	"github.com/willowrootwellness/willowroot-backend/pkg/enums"
	"github.com/willowrootwellness/willowroot-backend/pkg/types"
)

// LineItemInput is one cart line. Exactly one of ProductID/CompoundID must be
// set. Price is the client's display price and is advisory only: checkout
// recomputes everything from stored catalog prices.
type LineItemInput struct {
	ProductID  *uuid.UUID `json:"product_id,omitempty"`
	CompoundID *uuid.UUID `json:"compound_id,omitempty"`
	Quantity   int        `json:"quantity"`
	Price      float64    `json:"price"`
}

// CreateOrderInput is the checkout request. The monetary fields mirror what
// the storefront displayed; they never override the server-computed totals.
type CreateOrderInput struct {
	Items           []LineItemInput `json:"items"`
	ShippingAddress types.Address   `json:"shipping_address"`
	Subtotal        float64         `json:"subtotal"`
	ShippingFee     float64         `json:"shipping_fee"`
	Tax             float64         `json:"tax"`
	Total           float64         `json:"total"`
}

// OrderItemDTO is the public shape of one purchased line.
type OrderItemDTO struct {
	ID               uuid.UUID               `json:"id"`
	Type             enums.OrderItemType     `json:"type"`
	ProductID        *uuid.UUID              `json:"product_id,omitempty"`
	CompoundID       *uuid.UUID              `json:"compound_id,omitempty"`
	Quantity         int                     `json:"quantity"`
	Price            float64                 `json:"price"`
	ProductSnapshot  *types.ProductSnapshot  `json:"product_snapshot,omitempty"`
	CompoundSnapshot *types.CompoundSnapshot `json:"compound_snapshot,omitempty"`
}

// OrderDTO is the public shape of a persisted order.
type OrderDTO struct {
	ID              uuid.UUID         `json:"id"`
	OrderNumber     int64             `json:"order_number"`
	Status          enums.OrderStatus `json:"status"`
	Subtotal        float64           `json:"subtotal"`
	ShippingFee     float64           `json:"shipping_fee"`
	Tax             float64           `json:"tax"`
	Total           float64           `json:"total"`
	ShippingAddress *types.Address    `json:"shipping_address,omitempty"`
	Items           []OrderItemDTO    `json:"items"`
	CreatedAt       time.Time         `json:"created_at"`
}

// NewOrderDTO maps an order row and its items to the public shape.
func NewOrderDTO(row *models.Order) *OrderDTO {
	items := make([]OrderItemDTO, 0, len(row.Items))
	for i := range row.Items {
		item := &row.Items[i]
		items = append(items, OrderItemDTO{
			ID:               item.ID,
			Type:             item.Type,
			ProductID:        item.ProductID,
			CompoundID:       item.CompoundID,
			Quantity:         item.Quantity,
			Price:            item.Price,
			ProductSnapshot:  item.ProductSnapshot,
			CompoundSnapshot: item.CompoundSnapshot,
		})
	}
	return &OrderDTO{
		ID:              row.ID,
		OrderNumber:     row.OrderNumber,
		Status:          row.Status,
		Subtotal:        row.Subtotal,
		ShippingFee:     row.ShippingFee,
		Tax:             row.Tax,
		Total:           row.Total,
		ShippingAddress: row.ShippingAddress,
		Items:           items,
		CreatedAt:       row.CreatedAt,
	}
}
