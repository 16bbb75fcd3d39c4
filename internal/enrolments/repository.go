package enrolments

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/willowrootwellness/willowroot-backend/pkg/db/models"
	"github.com/willowrootwellness/willowroot-backend/pkg/enums"
	"github.com/willowrootwellness/willowroot-backend/pkg/types"
)

// Repository persists wellness packages and enrolments.
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

// FindPackage loads one active wellness package.
func (r *Repository) FindPackage(ctx context.Context, id uuid.UUID) (*models.WellnessPackage, error) {
	var row models.WellnessPackage
	err := r.db.WithContext(ctx).
		First(&row, "id = ? AND is_active = ?", id, true).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ListPackages returns all active packages cheapest-first.
func (r *Repository) ListPackages(ctx context.Context) ([]models.WellnessPackage, error) {
	var rows []models.WellnessPackage
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("price ASC").
		Find(&rows).Error
	return rows, err
}

// FindEnrolment loads one enrolment.
func (r *Repository) FindEnrolment(ctx context.Context, id uuid.UUID) (*models.PackageEnrolment, error) {
	var row models.PackageEnrolment
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// ListByUser returns the user's enrolments newest-first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.PackageEnrolment, error) {
	var rows []models.PackageEnrolment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// CreateEnrolment inserts an enrolment row.
func (r *Repository) CreateEnrolment(ctx context.Context, row *models.PackageEnrolment) (*models.PackageEnrolment, error) {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// RewriteLedger replaces the whole credit ledger, guarded by the row version
// the caller read. Returns the number of rows updated: zero means another
// writer rewrote the ledger first and the caller must re-read and retry.
func (r *Repository) RewriteLedger(ctx context.Context, id uuid.UUID, credits types.SessionCredits, expectedVersion int64) (int64, error) {
	encoded, err := json.Marshal(credits)
	if err != nil {
		return 0, err
	}
	result := r.db.WithContext(ctx).
		Model(&models.PackageEnrolment{}).
		Where("id = ? AND version = ?", id, expectedVersion).
		Updates(map[string]any{
			"session_credits": string(encoded),
			"version":         gorm.Expr("version + 1"),
			"updated_at":      time.Now().UTC(),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// UpdateStatus moves an enrolment to a new lifecycle status.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.EnrolmentStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.PackageEnrolment{}).
		Where("id = ?", id).
		Update("status", status).Error
}
