package enrolments

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/willowrootwellness/willowroot-backend/pkg/db/models"
	"github.com/willowrootwellness/willowroot-backend/pkg/enums"
	pkgerrors "github.com/willowrootwellness/willowroot-backend/pkg/errors"
	"github.com/willowrootwellness/willowroot-backend/pkg/logger"
	"github.com/willowrootwellness/willowroot-backend/pkg/types"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc, err := NewService(NewRepository(db), logger.New(logger.Options{ServiceName: "test", Output: io.Discard}))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, db
}

func seedPackage(t *testing.T, db *gorm.DB, credits types.SessionCredits) *models.WellnessPackage {
	t.Helper()
	pkg := &models.WellnessPackage{
		ID:             uuid.New(),
		Name:           "Gut Restoration",
		Price:          449,
		SessionCredits: credits,
		DurationDays:   90,
		IsActive:       true,
	}
	if err := db.Create(pkg).Error; err != nil {
		t.Fatalf("seed package: %v", err)
	}
	return pkg
}

func TestEnrolCopiesCreditGrant(t *testing.T) {
	t.Parallel()

	svc, db := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()
	pkg := seedPackage(t, db, types.SessionCredits{
		enums.SessionInitialConsult: {Included: 1},
		enums.SessionFollowUp:       {Included: 4},
	})

	dto, err := svc.Enrol(ctx, userID, pkg.ID)
	if err != nil {
		t.Fatalf("enrol: %v", err)
	}
	if dto.Status != enums.EnrolmentStatusActive {
		t.Fatalf("expected active enrolment, got %s", dto.Status)
	}
	if got := dto.SessionCredits[enums.SessionFollowUp].Included; got != 4 {
		t.Fatalf("expected 4 follow-up credits, got %d", got)
	}
	if dto.ExpiresAt.Before(time.Now().AddDate(0, 0, 89)) {
		t.Fatalf("expiry should be ~90 days out, got %s", dto.ExpiresAt)
	}
}

func TestConsumeSessionCreditBurnsOne(t *testing.T) {
	t.Parallel()

	svc, db := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()
	row := seedEnrolment(t, db, userID, types.SessionCredits{
		enums.SessionFollowUp: {Included: 2, Used: 0},
	})

	if err := svc.ConsumeSessionCredit(ctx, userID, row.ID, enums.SessionFollowUp); err != nil {
		t.Fatalf("consume: %v", err)
	}

	dto, err := svc.GetEnrolment(ctx, userID, row.ID)
	if err != nil {
		t.Fatalf("get enrolment: %v", err)
	}
	if got := dto.SessionCredits[enums.SessionFollowUp].Used; got != 1 {
		t.Fatalf("expected 1 used credit, got %d", got)
	}
}

func TestConsumeSessionCreditExhaustionLeavesLedgerUntouched(t *testing.T) {
	t.Parallel()

	svc, db := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()
	row := seedEnrolment(t, db, userID, types.SessionCredits{
		enums.SessionCompoundReview: {Included: 1, Used: 0},
	})

	if err := svc.ConsumeSessionCredit(ctx, userID, row.ID, enums.SessionCompoundReview); err != nil {
		t.Fatalf("first consume: %v", err)
	}

	err := svc.ConsumeSessionCredit(ctx, userID, row.ID, enums.SessionCompoundReview)
	if err == nil {
		t.Fatal("expected exhaustion to fail")
	}
	if !strings.Contains(err.Error(), "No credits remaining for this session type") {
		t.Fatalf("unexpected error: %v", err)
	}
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}

	dto, err := svc.GetEnrolment(ctx, userID, row.ID)
	if err != nil {
		t.Fatalf("get enrolment: %v", err)
	}
	if got := dto.SessionCredits[enums.SessionCompoundReview].Used; got != 1 {
		t.Fatalf("failed consume must not move the ledger: got %d used", got)
	}
}

func TestConsumeSessionCreditMissingTypeCountsAsNone(t *testing.T) {
	t.Parallel()

	svc, db := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()
	row := seedEnrolment(t, db, userID, types.SessionCredits{
		enums.SessionFollowUp: {Included: 4},
	})

	err := svc.ConsumeSessionCredit(ctx, userID, row.ID, enums.SessionInitialConsult)
	if err == nil || !strings.Contains(err.Error(), "No credits remaining") {
		t.Fatalf("expected no-credits error, got %v", err)
	}
}

func TestConsumeSessionCreditExpiredEnrolment(t *testing.T) {
	t.Parallel()

	svc, db := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()
	row := seedEnrolment(t, db, userID, types.SessionCredits{
		enums.SessionFollowUp: {Included: 4},
	})
	if err := db.Model(&models.PackageEnrolment{}).
		Where("id = ?", row.ID).
		Update("expires_at", time.Now().Add(-time.Hour)).Error; err != nil {
		t.Fatalf("backdate expiry: %v", err)
	}

	err := svc.ConsumeSessionCredit(ctx, userID, row.ID, enums.SessionFollowUp)
	if err == nil || !strings.Contains(err.Error(), "has expired") {
		t.Fatalf("expected expiry error, got %v", err)
	}
}

func TestConsumeSessionCreditInactiveEnrolment(t *testing.T) {
	t.Parallel()

	svc, db := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()
	row := seedEnrolment(t, db, userID, types.SessionCredits{
		enums.SessionFollowUp: {Included: 4},
	})
	if err := db.Model(&models.PackageEnrolment{}).
		Where("id = ?", row.ID).
		Update("status", enums.EnrolmentStatusCancelled).Error; err != nil {
		t.Fatalf("cancel enrolment: %v", err)
	}

	err := svc.ConsumeSessionCredit(ctx, userID, row.ID, enums.SessionFollowUp)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestConsumeSessionCreditHidesForeignEnrolment(t *testing.T) {
	t.Parallel()

	svc, db := newTestService(t)
	ctx := context.Background()
	row := seedEnrolment(t, db, uuid.New(), types.SessionCredits{
		enums.SessionFollowUp: {Included: 4},
	})

	err := svc.ConsumeSessionCredit(ctx, uuid.New(), row.ID, enums.SessionFollowUp)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("foreign enrolment should read as not found, got %v", err)
	}
}

func TestReleaseSessionCreditReturnsOne(t *testing.T) {
	t.Parallel()

	svc, db := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()
	row := seedEnrolment(t, db, userID, types.SessionCredits{
		enums.SessionFollowUp: {Included: 4, Used: 2},
	})

	svc.ReleaseSessionCredit(ctx, row.ID, enums.SessionFollowUp)

	dto, err := svc.GetEnrolment(ctx, userID, row.ID)
	if err != nil {
		t.Fatalf("get enrolment: %v", err)
	}
	if got := dto.SessionCredits[enums.SessionFollowUp].Used; got != 1 {
		t.Fatalf("expected 1 used after release, got %d", got)
	}
}

func TestReleaseSessionCreditFloorsAtZero(t *testing.T) {
	t.Parallel()

	svc, db := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()
	row := seedEnrolment(t, db, userID, types.SessionCredits{
		enums.SessionFollowUp: {Included: 4, Used: 0},
	})

	svc.ReleaseSessionCredit(ctx, row.ID, enums.SessionFollowUp)
	svc.ReleaseSessionCredit(ctx, row.ID, enums.SessionInitialConsult)

	dto, err := svc.GetEnrolment(ctx, userID, row.ID)
	if err != nil {
		t.Fatalf("get enrolment: %v", err)
	}
	if got := dto.SessionCredits[enums.SessionFollowUp].Used; got != 0 {
		t.Fatalf("release on empty ledger must be a no-op, got %d used", got)
	}
}

func TestReleaseSessionCreditMissingEnrolmentIsSilent(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	// must not panic or error the caller
	svc.ReleaseSessionCredit(context.Background(), uuid.New(), enums.SessionFollowUp)
}
