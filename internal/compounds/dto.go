package compounds

import (
	"time"

	"github.com/google/uuid"

	"github.com/willowrootwellness/willowroot-backend/pkg/db/models"
	"github.com/willowrootwellness/willowroot-backend/pkg/enums"
	"github.com/willowrootwellness/willowroot-backend/pkg/types"
)

// CompoundDTO is the public shape of a saved blend.
type CompoundDTO struct {
	ID                 uuid.UUID          `json:"id"`
	Name               string             `json:"name"`
	Tier               enums.CompoundTier `json:"tier"`
	Type               enums.CompoundType `json:"type"`
	Formula            types.Formula      `json:"formula"`
	Price              *float64           `json:"price,omitempty"`
	BottleVolumeML     float64            `json:"bottle_volume_ml"`
	SourceBookingID    *uuid.UUID         `json:"source_booking_id,omitempty"`
	SourceAssessmentID *uuid.UUID         `json:"source_assessment_id,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// NewCompoundDTO maps a compound row to its public shape.
func NewCompoundDTO(row *models.Compound) *CompoundDTO {
	return &CompoundDTO{
		ID:                 row.ID,
		Name:               row.Name,
		Tier:               row.Tier,
		Type:               row.Type,
		Formula:            row.Formula,
		Price:              row.Price,
		BottleVolumeML:     row.BottleVolumeML,
		SourceBookingID:    row.SourceBookingID,
		SourceAssessmentID: row.SourceAssessmentID,
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
	}
}

// SaveCompoundInput is the validated payload to create or resave a blend.
type SaveCompoundInput struct {
	Name               string
	Tier               enums.CompoundTier
	Type               enums.CompoundType
	Formula            types.Formula
	BottleVolumeML     float64
	SourceBookingID    *uuid.UUID
	SourceAssessmentID *uuid.UUID
}

// BatchDTO is the admin-facing shape of a prepared batch, including how much
// volume remains dispensable.
type BatchDTO struct {
	ID            uuid.UUID         `json:"id"`
	CompoundID    uuid.UUID         `json:"compound_id"`
	TotalVolumeML float64           `json:"total_volume_ml"`
	DispensedML   float64           `json:"dispensed_ml"`
	AvailableML   float64           `json:"available_ml"`
	Status        enums.BatchStatus `json:"status"`
	PreparedAt    time.Time         `json:"prepared_at"`
	Notes         *string           `json:"notes,omitempty"`
}

// RegisterBatchInput records a newly prepared batch.
type RegisterBatchInput struct {
	CompoundID    uuid.UUID
	TotalVolumeML float64
	PreparedAt    *time.Time
	Notes         *string
}
