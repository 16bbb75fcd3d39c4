package models

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/willowrootwellness/willowroot-backend/pkg/enums"
)

// The repository tests and the sqlite dev mode build their schema through
// AutoMigrate, so every model's column tags must translate to DDL sqlite can
// parse. Postgres-only expressions belong in the goose migrations instead.
func TestModelsAutoMigrateOnSQLite(t *testing.T) {
	t.Parallel()

	dsn := "file:models_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	err = conn.AutoMigrate(
		&Product{},
		&Compound{},
		&CompoundBatch{},
		&CompoundDispensation{},
		&Order{},
		&OrderItem{},
		&Review{},
		&WellnessAssessment{},
		&WellnessPackage{},
		&PackageEnrolment{},
		&Booking{},
		&OutboxEvent{},
	)
	if err != nil {
		t.Fatalf("migrate full model set: %v", err)
	}

	// a round trip proves the tables are actually usable, not just created
	row := Order{
		ID:       uuid.New(),
		UserID:   uuid.New(),
		Status:   enums.OrderStatusPending,
		Subtotal: 10,
		Tax:      0.80,
		Total:    16.79,
	}
	row.OrderNumber = 10001
	row.ShippingFee = 5.99
	if err := conn.Create(&row).Error; err != nil {
		t.Fatalf("insert order: %v", err)
	}
	var found Order
	if err := conn.First(&found, "id = ?", row.ID).Error; err != nil {
		t.Fatalf("read order back: %v", err)
	}
	if found.OrderNumber != 10001 {
		t.Fatalf("unexpected order number %d", found.OrderNumber)
	}
}
