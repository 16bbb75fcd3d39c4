package assessment

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/willowrootwellness/willowroot-backend/pkg/db/models"
)

// Repository persists scored assessments.
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

// Create inserts the assessment row.
func (r *Repository) Create(ctx context.Context, row *models.WellnessAssessment) (*models.WellnessAssessment, error) {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// FindByID loads a single assessment.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.WellnessAssessment, error) {
	var row models.WellnessAssessment
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// ListByUser returns the user's assessments newest-first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.WellnessAssessment, error) {
	var rows []models.WellnessAssessment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}
