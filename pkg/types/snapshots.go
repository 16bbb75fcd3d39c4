package types

import (
	"github.com/google/uuid"
)

// ProductSnapshot freezes a product's public-facing fields on an order line
// item at purchase time, immune to later catalog edits.
type ProductSnapshot struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category,omitempty"`
	ImageURL *string `json:"image_url,omitempty"`
}

// CompoundSnapshot freezes a compound's composition and provenance at
// purchase time. BottleVolumeML drives batch dispensation volume.
type CompoundSnapshot struct {
	Name               string     `json:"name"`
	Price              float64    `json:"price"`
	Tier               string     `json:"tier,omitempty"`
	Type               string     `json:"type,omitempty"`
	Formula            Formula    `json:"formula,omitempty"`
	BottleVolumeML     float64    `json:"bottle_volume_ml,omitempty"`
	SourceBookingID    *uuid.UUID `json:"source_booking_id,omitempty"`
	SourceAssessmentID *uuid.UUID `json:"source_assessment_id,omitempty"`
}
