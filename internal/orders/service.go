package orders

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	compound "github.com/willowrootwellness/willowroot-backend/internal/compounds"
	"github.com/willowrootwellness/willowroot-backend/pkg/config"
	"github.com/willowrootwellness/willowroot-backend/pkg/db"
	"github.com/willowrootwellness/willowroot-backend/pkg/db/models"
	"github.com/willowrootwellness/willowroot-backend/pkg/enums"
	pkgerrors "github.com/willowrootwellness/willowroot-backend/pkg/errors"
	"github.com/willowrootwellness/willowroot-backend/pkg/logger"
	"github.com/willowrootwellness/willowroot-backend/pkg/metrics"
	"github.com/willowrootwellness/willowroot-backend/pkg/outbox"
	"github.com/willowrootwellness/willowroot-backend/pkg/outbox/payloads"
	"github.com/willowrootwellness/willowroot-backend/pkg/pagination"
	"github.com/willowrootwellness/willowroot-backend/pkg/types"
)

// defaultBottleVolumeML sizes a compound line's dispensation when the
// snapshot carries no bottle volume.
const defaultBottleVolumeML = 100

// productGate is the slice of the catalog checkout needs.
type productGate interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error)
	DecrementStock(ctx context.Context, id uuid.UUID, quantity int) (int64, error)
}

// compoundSource resolves compounds and dispenses batch volume for them.
type compoundSource interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Compound, error)
	Allocate(ctx context.Context, tx *gorm.DB, req compound.AllocationRequest) (compound.AllocationResult, error)
}

// Service runs checkout and order management.
type Service interface {
	CreateOrder(ctx context.Context, userID uuid.UUID, email string, input CreateOrderInput) (*OrderDTO, error)
	GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error)
	ListOrders(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ListResult, error)
	CancelOrder(ctx context.Context, userID uuid.UUID, email string, orderID uuid.UUID) (*OrderDTO, error)
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) (*OrderDTO, error)
}

// ListResult is one page of orders.
type ListResult struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor *string    `json:"next_cursor,omitempty"`
}

type service struct {
	client    *db.Client
	repo      *Repository
	products  productGate
	compounds compoundSource
	events    *outbox.Service
	checkout  *metrics.CheckoutMetrics
	cfg       config.CheckoutConfig
	logg      *logger.Logger
}

// NewService constructs an order service instance.
func NewService(
	client *db.Client,
	repo *Repository,
	products productGate,
	compounds compoundSource,
	events *outbox.Service,
	checkout *metrics.CheckoutMetrics,
	cfg config.CheckoutConfig,
	logg *logger.Logger,
) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("db client required")
	}
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product gate required")
	}
	if compounds == nil {
		return nil, fmt.Errorf("compound source required")
	}
	if events == nil {
		return nil, fmt.Errorf("outbox service required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		client:    client,
		repo:      repo,
		products:  products,
		compounds: compounds,
		events:    events,
		checkout:  checkout,
		cfg:       cfg,
		logg:      logg,
	}, nil
}

// validatedLine is a cart line after resolution against stored truth.
type validatedLine struct {
	input    LineItemInput
	product  *models.Product
	compound *models.Compound
	price    float64
}

// CreateOrder runs the checkout pipeline: resolve and validate every line
// against stored catalog truth, recompute money server-side, persist the
// order and its items with a compensating delete if the items fail, then
// decrement stock and dispense batch volume. Stock and dispensation problems
// after the order committed are logged, never surfaced: checkout availability
// wins over inventory bookkeeping.
func (s *service) CreateOrder(ctx context.Context, userID uuid.UUID, email string, input CreateOrderInput) (*OrderDTO, error) {
	started := time.Now()
	ctx = s.logg.WithUserID(ctx, userID.String())

	dto, err := s.createOrder(ctx, userID, email, input)

	outcome := "success"
	if err != nil {
		outcome = "failure"
		if appErr := pkgerrors.As(err); appErr != nil {
			s.checkout.IncOrderFailed(string(appErr.Code()))
		} else {
			s.checkout.IncOrderFailed("unknown")
		}
	}
	s.checkout.ObserveCheckout(outcome, time.Since(started))
	return dto, err
}

func (s *service) createOrder(ctx context.Context, userID uuid.UUID, email string, input CreateOrderInput) (*OrderDTO, error) {
	if err := input.ShippingAddress.Validate(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid shipping address")
	}

	lines := usableLines(input.Items)

	validated, err := s.resolveLines(ctx, userID, lines)
	if err != nil {
		return nil, err
	}
	if len(validated) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no valid items to order")
	}

	priced := make([]pricedLine, 0, len(validated))
	for _, line := range validated {
		priced = append(priced, pricedLine{UnitPrice: line.price, Quantity: line.input.Quantity})
	}
	totals := computeTotals(s.cfg, priced)
	if totalsDisagree(totals.Total, input.Total) {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"client_total": input.Total,
			"server_total": totals.Total,
		})
		s.logg.Warn(logCtx, "client order total disagrees with server computation")
	}

	address := input.ShippingAddress.Normalized()
	row := &models.Order{
		ID:              uuid.New(),
		UserID:          userID,
		Status:          enums.OrderStatusPending,
		Subtotal:        totals.Subtotal,
		ShippingFee:     totals.ShippingFee,
		Tax:             totals.Tax,
		Total:           totals.Total,
		ShippingAddress: &address,
	}
	if _, err := s.repo.Create(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to create order")
	}
	ctx = s.logg.WithOrderID(ctx, row.ID.String())

	items := buildItems(row.ID, validated)
	if err := s.repo.InsertItems(ctx, items); err != nil {
		// compensating delete: the header must not survive without its lines
		s.checkout.IncRollback("order_items")
		if delErr := s.repo.Delete(ctx, row.ID); delErr != nil {
			s.logg.Error(ctx, "compensating order delete failed", delErr)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to create order items")
	}
	row.Items = items

	s.settleInventory(ctx, row, validated)
	s.emitOrderCreated(ctx, row, userID, email)

	s.checkout.IncOrderCreated(itemKind(validated))
	s.logg.Info(ctx, "order created")
	return NewOrderDTO(row), nil
}

// resolveLines batch-fetches the referenced products and compounds and
// validates every line against stored truth. No writes happen here.
func (s *service) resolveLines(ctx context.Context, userID uuid.UUID, lines []LineItemInput) ([]validatedLine, error) {
	productIDs := make([]uuid.UUID, 0, len(lines))
	compoundIDs := make([]uuid.UUID, 0, len(lines))
	seenProducts := make(map[uuid.UUID]bool)
	seenCompounds := make(map[uuid.UUID]bool)
	for _, line := range lines {
		if line.ProductID != nil && !seenProducts[*line.ProductID] {
			seenProducts[*line.ProductID] = true
			productIDs = append(productIDs, *line.ProductID)
		}
		if line.CompoundID != nil && !seenCompounds[*line.CompoundID] {
			seenCompounds[*line.CompoundID] = true
			compoundIDs = append(compoundIDs, *line.CompoundID)
		}
	}

	products, err := s.products.FindByIDs(ctx, productIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to fetch products")
	}
	if len(products) != len(productIDs) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "some products not found or inactive")
	}

	var compounds map[uuid.UUID]models.Compound
	if len(compoundIDs) > 0 {
		compounds, err = s.compounds.FindByIDs(ctx, compoundIDs)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to fetch compounds")
		}
	}

	validated := make([]validatedLine, 0, len(lines))
	for _, line := range lines {
		switch {
		case line.ProductID != nil:
			product := products[*line.ProductID]
			if !product.IsActive {
				return nil, pkgerrors.Newf(pkgerrors.CodeStateConflict, "%s is no longer available", product.Name)
			}
			if product.StockQuantity < line.Quantity {
				return nil, pkgerrors.Newf(
					pkgerrors.CodeStateConflict,
					"insufficient stock for %s (available %d, requested %d)",
					product.Name, product.StockQuantity, line.Quantity,
				)
			}
			validated = append(validated, validatedLine{input: line, product: &product, price: product.Price})
		case line.CompoundID != nil:
			row, ok := compounds[*line.CompoundID]
			if !ok {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "compound not found")
			}
			if row.OwnerUserID != userID {
				return nil, pkgerrors.New(pkgerrors.CodeForbidden, "compound not available for this account")
			}
			if row.Price == nil || *row.Price <= 0 || math.IsInf(*row.Price, 0) || math.IsNaN(*row.Price) {
				return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "compound price unavailable, please resave the blend")
			}
			validated = append(validated, validatedLine{input: line, compound: &row, price: *row.Price})
		}
	}
	return validated, nil
}

// settleInventory runs the post-commit bookkeeping: conditional stock
// decrements for product lines and FIFO batch dispensation for compound
// lines. Every failure here is soft; the order already exists.
func (s *service) settleInventory(ctx context.Context, row *models.Order, validated []validatedLine) {
	var soft error

	for _, line := range validated {
		if line.product == nil {
			continue
		}
		updated, err := s.products.DecrementStock(ctx, line.product.ID, line.input.Quantity)
		logCtx := s.logg.WithField(ctx, "product_id", line.product.ID.String())
		if err != nil {
			soft = multierr.Append(soft, fmt.Errorf("product %s: decrement: %w", line.product.ID, err))
			s.logg.Error(logCtx, "stock decrement failed", err)
			continue
		}
		if updated == 0 {
			s.checkout.IncStockDecrementMiss()
			soft = multierr.Append(soft, fmt.Errorf("product %s: stock changed underneath the order", line.product.ID))
			s.logg.Warn(logCtx, "stock changed underneath the order, decrement skipped")
		}
	}

	for _, line := range validated {
		if line.compound == nil {
			continue
		}
		bottle := line.compound.BottleVolumeML
		if bottle <= 0 {
			bottle = defaultBottleVolumeML
		}
		required := bottle * float64(line.input.Quantity)

		var result compound.AllocationResult
		err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
			var txErr error
			result, txErr = s.compounds.Allocate(ctx, tx, compound.AllocationRequest{
				CompoundID: line.compound.ID,
				OrderID:    row.ID,
				UserID:     row.UserID,
				VolumeML:   required,
			})
			return txErr
		})
		logCtx := s.logg.WithField(ctx, "compound_id", line.compound.ID.String())
		if err != nil {
			soft = multierr.Append(soft, fmt.Errorf("compound %s: dispensation: %w", line.compound.ID, err))
			s.logg.Error(logCtx, "batch dispensation failed", err)
			continue
		}
		if result.ShortfallML > 0 {
			s.checkout.IncDispensationShortfall()
			soft = multierr.Append(soft, fmt.Errorf("compound %s: short %.2fml", line.compound.ID, result.ShortfallML))
			shortCtx := s.logg.WithFields(logCtx, map[string]any{
				"required_ml":  required,
				"allocated_ml": result.AllocatedML,
			})
			s.logg.Warn(shortCtx, "insufficient batch volume, order under-allocated")
		}
	}

	if soft != nil {
		s.logg.Warn(s.logg.WithField(ctx, "soft_failures", soft.Error()), "order settled with inventory soft failures")
	}
}

func (s *service) emitOrderCreated(ctx context.Context, row *models.Order, userID uuid.UUID, email string) {
	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   row.ID,
			Actor:         &outbox.ActorRef{UserID: userID.String()},
			Data: payloads.OrderCreatedEvent{
				OrderID:     row.ID,
				OrderNumber: row.OrderNumber,
				UserID:      userID,
				Email:       email,
				Total:       row.Total,
				ItemCount:   len(row.Items),
			},
			Version: 1,
		})
	})
	if err != nil {
		// confirmation email is fire-and-forget; the order stands
		s.logg.Error(ctx, "order created event not queued", err)
	}
}

func (s *service) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error) {
	row, err := s.loadOwned(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	return NewOrderDTO(row), nil
}

func (s *service) ListOrders(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ListResult, error) {
	rows, err := s.repo.ListByUser(ctx, userID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list orders")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	result := &ListResult{Orders: make([]OrderDTO, 0, len(rows))}
	for i := range rows {
		if i >= limit {
			cursor := pagination.EncodeCursor(pagination.Cursor{
				CreatedAt: rows[limit-1].CreatedAt,
				ID:        rows[limit-1].ID,
			})
			result.NextCursor = &cursor
			break
		}
		result.Orders = append(result.Orders, *NewOrderDTO(&rows[i]))
	}
	return result, nil
}

// CancelOrder cancels a pending order. Stock and dispensations are left
// as written; reconciliation is a back-office concern.
func (s *service) CancelOrder(ctx context.Context, userID uuid.UUID, email string, orderID uuid.UUID) (*OrderDTO, error) {
	row, err := s.loadOwned(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if !row.Status.CanTransitionTo(enums.OrderStatusCancelled) {
		return nil, pkgerrors.Newf(pkgerrors.CodeStateConflict, "a %s order cannot be cancelled", row.Status)
	}

	err = s.client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).UpdateStatus(ctx, row.ID, enums.OrderStatusCancelled); err != nil {
			return err
		}
		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCancelled,
			AggregateType: enums.AggregateOrder,
			AggregateID:   row.ID,
			Actor:         &outbox.ActorRef{UserID: userID.String()},
			Data: payloads.OrderCancelledEvent{
				OrderID:     row.ID,
				OrderNumber: row.OrderNumber,
				UserID:      userID,
				Email:       email,
				CancelledAt: time.Now().UTC(),
			},
			Version: 1,
		})
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: cancel order")
	}

	row.Status = enums.OrderStatusCancelled
	s.logg.Info(s.logg.WithOrderID(ctx, row.ID.String()), "order cancelled")
	return NewOrderDTO(row), nil
}

// UpdateOrderStatus advances an order along its lifecycle on behalf of the
// back office. The transition table rejects anything else.
func (s *service) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) (*OrderDTO, error) {
	row, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find order")
	}
	if !row.Status.CanTransitionTo(status) {
		return nil, pkgerrors.Newf(pkgerrors.CodeStateConflict, "a %s order cannot move to %s", row.Status, status)
	}
	if err := s.repo.UpdateStatus(ctx, row.ID, status); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update order status")
	}

	row.Status = status
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"order_id": row.ID.String(),
		"status":   status,
	}), "order status updated")
	return NewOrderDTO(row), nil
}

func (s *service) loadOwned(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	row, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find order")
	}
	if row.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return row, nil
}

// usableLines drops lines that reference nothing or carry a non-positive
// quantity. Lines naming both a product and a compound are ambiguous and
// dropped too.
func usableLines(items []LineItemInput) []LineItemInput {
	out := make([]LineItemInput, 0, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		hasProduct := item.ProductID != nil
		hasCompound := item.CompoundID != nil
		if hasProduct == hasCompound {
			continue
		}
		out = append(out, item)
	}
	return out
}

// buildItems freezes line snapshots so later catalog edits cannot rewrite
// what was sold.
func buildItems(orderID uuid.UUID, validated []validatedLine) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(validated))
	for _, line := range validated {
		item := models.OrderItem{
			ID:       uuid.New(),
			OrderID:  orderID,
			Quantity: line.input.Quantity,
			Price:    line.price,
		}
		if line.product != nil {
			item.Type = enums.OrderItemTypeProduct
			item.ProductID = &line.product.ID
			item.ProductSnapshot = &types.ProductSnapshot{
				Name:     line.product.Name,
				Price:    line.product.Price,
				Category: line.product.Category.String(),
				ImageURL: line.product.ImageURL,
			}
		} else {
			item.Type = enums.OrderItemTypeCompound
			item.CompoundID = &line.compound.ID
			item.CompoundSnapshot = &types.CompoundSnapshot{
				Name:               line.compound.Name,
				Price:              line.price,
				Tier:               line.compound.Tier.String(),
				Type:               line.compound.Type.String(),
				Formula:            line.compound.Formula,
				BottleVolumeML:     line.compound.BottleVolumeML,
				SourceBookingID:    line.compound.SourceBookingID,
				SourceAssessmentID: line.compound.SourceAssessmentID,
			}
		}
		items = append(items, item)
	}
	return items
}

// itemKind labels the order for metrics by what it contained.
func itemKind(validated []validatedLine) string {
	hasProduct, hasCompound := false, false
	for _, line := range validated {
		if line.product != nil {
			hasProduct = true
		} else {
			hasCompound = true
		}
	}
	switch {
	case hasProduct && hasCompound:
		return "mixed"
	case hasCompound:
		return "compound"
	default:
		return "product"
	}
}
