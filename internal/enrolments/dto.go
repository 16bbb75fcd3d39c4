package enrolments

import (
	"time"

	"github.com/google/uuid"

	"github.com/willowrootwellness/willowroot-backend/pkg/db/models"
	"github.com/willowrootwellness/willowroot-backend/pkg/enums"
	"github.com/willowrootwellness/willowroot-backend/pkg/types"
)

// PackageDTO is the public shape of a wellness package.
type PackageDTO struct {
	ID             uuid.UUID            `json:"id"`
	Name           string               `json:"name"`
	Description    *string              `json:"description,omitempty"`
	Price          float64              `json:"price"`
	SessionCredits types.SessionCredits `json:"session_credits"`
	DurationDays   int                  `json:"duration_days"`
}

// NewPackageDTO maps a package row to its public shape.
func NewPackageDTO(row *models.WellnessPackage) *PackageDTO {
	return &PackageDTO{
		ID:             row.ID,
		Name:           row.Name,
		Description:    row.Description,
		Price:          row.Price,
		SessionCredits: row.SessionCredits,
		DurationDays:   row.DurationDays,
	}
}

// EnrolmentDTO is the public shape of a package enrolment and its ledger.
type EnrolmentDTO struct {
	ID             uuid.UUID             `json:"id"`
	PackageID      uuid.UUID             `json:"package_id"`
	Status         enums.EnrolmentStatus `json:"status"`
	SessionCredits types.SessionCredits  `json:"session_credits"`
	ExpiresAt      time.Time             `json:"expires_at"`
	CreatedAt      time.Time             `json:"created_at"`
}

// NewEnrolmentDTO maps an enrolment row to its public shape.
func NewEnrolmentDTO(row *models.PackageEnrolment) *EnrolmentDTO {
	return &EnrolmentDTO{
		ID:             row.ID,
		PackageID:      row.PackageID,
		Status:         row.Status,
		SessionCredits: row.SessionCredits,
		ExpiresAt:      row.ExpiresAt,
		CreatedAt:      row.CreatedAt,
	}
}
