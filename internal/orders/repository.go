package orders

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/willowrootwellness/willowroot-backend/pkg/db/models"
	"github.com/willowrootwellness/willowroot-backend/pkg/enums"
	"github.com/willowrootwellness/willowroot-backend/pkg/pagination"
)

// Repository persists orders and their line items.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// fallbackOrderNumber feeds order numbers on dialects without sequences.
// Starts where the postgres sequence does.
var fallbackOrderNumber atomic.Int64

func init() {
	fallbackOrderNumber.Store(10000)
}

// Create inserts the order header row, drawing the order number from the
// database sequence on postgres. sqlite, used in tests, has no sequences so
// the repository counts for itself.
func (r *Repository) Create(ctx context.Context, row *models.Order) (*models.Order, error) {
	if row.OrderNumber == 0 {
		number, err := r.nextOrderNumber(ctx)
		if err != nil {
			return nil, err
		}
		row.OrderNumber = number
	}
	if err := r.db.WithContext(ctx).Omit("Items").Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *Repository) nextOrderNumber(ctx context.Context) (int64, error) {
	if r.db.Dialector.Name() == "postgres" {
		var number int64
		err := r.db.WithContext(ctx).Raw("SELECT nextval('order_number_seq')").Scan(&number).Error
		return number, err
	}
	return fallbackOrderNumber.Add(1), nil
}

// InsertItems writes all line items in one batch.
func (r *Repository) InsertItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

// Delete removes an order header. Used only as the compensating action when
// line-item insertion fails after the header committed.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Order{}, "id = ?", id).Error
}

// FindByID loads one order with its items.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var row models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&row, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ListByUser returns the user's orders newest-first with cursor pagination.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Order, error) {
	query := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID)

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Order
	err = query.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).Error
	return rows, err
}

// UpdateStatus moves an order to a new lifecycle status.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status).Error
}
