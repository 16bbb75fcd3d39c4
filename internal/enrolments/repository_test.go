package enrolments

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/willowrootwellness/willowroot-backend/pkg/db/models"
	"github.com/willowrootwellness/willowroot-backend/pkg/enums"
	"github.com/willowrootwellness/willowroot-backend/pkg/types"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:enrolment_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.WellnessPackage{}, &models.PackageEnrolment{}); err != nil {
		t.Fatalf("migrate enrolment tables: %v", err)
	}
	return db
}

func seedEnrolment(t *testing.T, db *gorm.DB, userID uuid.UUID, credits types.SessionCredits) *models.PackageEnrolment {
	t.Helper()
	row := &models.PackageEnrolment{
		ID:             uuid.New(),
		UserID:         userID,
		PackageID:      uuid.New(),
		Status:         enums.EnrolmentStatusActive,
		SessionCredits: credits,
		ExpiresAt:      time.Now().Add(30 * 24 * time.Hour),
	}
	if err := db.Create(row).Error; err != nil {
		t.Fatalf("seed enrolment: %v", err)
	}
	return row
}

func TestRewriteLedgerBumpsVersion(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	row := seedEnrolment(t, db, uuid.New(), types.SessionCredits{
		enums.SessionFollowUp: {Included: 4, Used: 0},
	})

	credits := row.SessionCredits.Clone()
	credits[enums.SessionFollowUp] = types.CreditEntry{Included: 4, Used: 1}

	updated, err := repo.RewriteLedger(ctx, row.ID, credits, row.Version)
	if err != nil {
		t.Fatalf("rewrite ledger: %v", err)
	}
	if updated != 1 {
		t.Fatalf("expected one row updated, got %d", updated)
	}

	reloaded, err := repo.FindEnrolment(ctx, row.ID)
	if err != nil {
		t.Fatalf("reload enrolment: %v", err)
	}
	if reloaded.Version != row.Version+1 {
		t.Fatalf("expected version %d, got %d", row.Version+1, reloaded.Version)
	}
	if got := reloaded.SessionCredits[enums.SessionFollowUp].Used; got != 1 {
		t.Fatalf("expected 1 used credit, got %d", got)
	}
}

func TestRewriteLedgerRejectsStaleVersion(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	row := seedEnrolment(t, db, uuid.New(), types.SessionCredits{
		enums.SessionFollowUp: {Included: 2, Used: 0},
	})

	first := row.SessionCredits.Clone()
	first[enums.SessionFollowUp] = types.CreditEntry{Included: 2, Used: 1}
	if updated, err := repo.RewriteLedger(ctx, row.ID, first, row.Version); err != nil || updated != 1 {
		t.Fatalf("first rewrite: updated=%d err=%v", updated, err)
	}

	// a second writer still holding the original version must be turned away
	stale := row.SessionCredits.Clone()
	stale[enums.SessionFollowUp] = types.CreditEntry{Included: 2, Used: 1}
	updated, err := repo.RewriteLedger(ctx, row.ID, stale, row.Version)
	if err != nil {
		t.Fatalf("stale rewrite: %v", err)
	}
	if updated != 0 {
		t.Fatalf("expected stale rewrite to update no rows, got %d", updated)
	}

	reloaded, err := repo.FindEnrolment(ctx, row.ID)
	if err != nil {
		t.Fatalf("reload enrolment: %v", err)
	}
	if got := reloaded.SessionCredits[enums.SessionFollowUp].Used; got != 1 {
		t.Fatalf("stale write must not land: expected 1 used, got %d", got)
	}
}

func TestFindPackageSkipsInactive(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	inactive := &models.WellnessPackage{
		ID:    uuid.New(),
		Name:  "Retired Reset",
		Price: 299,
		SessionCredits: types.SessionCredits{
			enums.SessionInitialConsult: {Included: 1},
		},
		DurationDays: 90,
		IsActive:     false,
	}
	if err := db.Create(inactive).Error; err != nil {
		t.Fatalf("seed package: %v", err)
	}

	if _, err := repo.FindPackage(ctx, inactive.ID); err == nil {
		t.Fatal("expected inactive package to be invisible")
	}
}
