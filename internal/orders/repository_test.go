package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/willowrootwellness/willowroot-backend/pkg/db/models"
	"github.com/willowrootwellness/willowroot-backend/pkg/enums"
	"github.com/willowrootwellness/willowroot-backend/pkg/pagination"
	"github.com/willowrootwellness/willowroot-backend/pkg/types"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:orders_repo_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, conn.AutoMigrate(
		&models.Order{},
		&models.OrderItem{},
	))
	return conn
}

func seedOrder(t *testing.T, repo *Repository, userID uuid.UUID, createdAt time.Time) *models.Order {
	t.Helper()

	row := &models.Order{
		ID:       uuid.New(),
		UserID:   userID,
		Status:   enums.OrderStatusPending,
		Subtotal: 24.50,
		Tax:      1.96,
		Total:    32.45,
		ShippingAddress: &types.Address{
			Line1:      "12 Hawthorn Lane",
			City:       "Asheville",
			State:      "NC",
			PostalCode: "28801",
			Country:    "US",
		},
	}
	row.ShippingFee = 5.99
	_, err := repo.Create(context.Background(), row)
	require.NoError(t, err)

	if !createdAt.IsZero() {
		require.NoError(t, repo.db.Model(&models.Order{}).
			Where("id = ?", row.ID).
			Update("created_at", createdAt).Error)
		row.CreatedAt = createdAt
	}
	return row
}

func TestRepositoryCreateAssignsSequentialOrderNumbers(t *testing.T) {
	t.Parallel()
	conn := setupOrdersTestDB(t)
	repo := NewRepository(conn)

	first := seedOrder(t, repo, uuid.New(), time.Time{})
	second := seedOrder(t, repo, uuid.New(), time.Time{})

	require.NotZero(t, first.OrderNumber)
	assert.Greater(t, second.OrderNumber, first.OrderNumber)
}

func TestRepositoryFindByIDPreloadsItems(t *testing.T) {
	t.Parallel()
	conn := setupOrdersTestDB(t)
	repo := NewRepository(conn)

	userID := uuid.New()
	row := seedOrder(t, repo, userID, time.Time{})
	productID := uuid.New()

	require.NoError(t, repo.InsertItems(context.Background(), []models.OrderItem{
		{
			ID:        uuid.New(),
			OrderID:   row.ID,
			Type:      enums.OrderItemTypeProduct,
			ProductID: &productID,
			Quantity:  2,
			Price:     12.25,
		},
	}))

	found, err := repo.FindByID(context.Background(), row.ID)
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	assert.Equal(t, row.ID, found.Items[0].OrderID)
	assert.Equal(t, 2, found.Items[0].Quantity)
}

func TestRepositoryDeleteCompensatesHeader(t *testing.T) {
	t.Parallel()
	conn := setupOrdersTestDB(t)
	repo := NewRepository(conn)

	row := seedOrder(t, repo, uuid.New(), time.Time{})
	require.NoError(t, repo.Delete(context.Background(), row.ID))

	_, err := repo.FindByID(context.Background(), row.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryListByUserPaginatesNewestFirst(t *testing.T) {
	t.Parallel()
	conn := setupOrdersTestDB(t)
	repo := NewRepository(conn)

	userID := uuid.New()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	var seeded []*models.Order
	for i := 0; i < 3; i++ {
		seeded = append(seeded, seedOrder(t, repo, userID, base.Add(time.Duration(i)*time.Hour)))
	}
	// another customer's order must not leak into the page
	seedOrder(t, repo, uuid.New(), base)

	rows, err := repo.ListByUser(context.Background(), userID, pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 2)
	assert.Equal(t, seeded[2].ID, rows[0].ID)
	assert.Equal(t, seeded[1].ID, rows[1].ID)
	for _, row := range rows {
		assert.Equal(t, userID, row.UserID)
	}
}

func TestRepositoryUpdateStatus(t *testing.T) {
	t.Parallel()
	conn := setupOrdersTestDB(t)
	repo := NewRepository(conn)

	row := seedOrder(t, repo, uuid.New(), time.Time{})
	require.NoError(t, repo.UpdateStatus(context.Background(), row.ID, enums.OrderStatusCancelled))

	found, err := repo.FindByID(context.Background(), row.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCancelled, found.Status)
}
