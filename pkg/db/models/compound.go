package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/willowrootwellness/willowroot-backend/pkg/enums"
	"github.com/willowrootwellness/willowroot-backend/pkg/types"
)

// Compound is a custom-blended tincture formula owned by a single account.
// Price is computed when the blend is saved; a compound whose price never
// materialized cannot be checked out until it is resaved.
type Compound struct {
	ID                 uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	OwnerUserID        uuid.UUID          `gorm:"column:owner_user_id;type:uuid;not null;index"`
	Name               string             `gorm:"column:name;not null"`
	Tier               enums.CompoundTier `gorm:"column:tier;not null"`
	Type               enums.CompoundType `gorm:"column:type;not null"`
	Formula            types.Formula      `gorm:"column:formula;type:jsonb;serializer:json"`
	Price              *float64           `gorm:"column:price;type:numeric(10,2)"`
	BottleVolumeML     float64            `gorm:"column:bottle_volume_ml;not null;default:100"`
	SourceBookingID    *uuid.UUID         `gorm:"column:source_booking_id;type:uuid"`
	SourceAssessmentID *uuid.UUID         `gorm:"column:source_assessment_id;type:uuid"`
	CreatedAt          time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// CompoundBatch is a physically prepared volume of one compound. Batches are
// drained oldest-first; discarded batches are never dispensed from.
type CompoundBatch struct {
	ID            uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	CompoundID    uuid.UUID         `gorm:"column:compound_id;type:uuid;not null;index"`
	TotalVolumeML float64           `gorm:"column:total_volume_ml;not null"`
	Status        enums.BatchStatus `gorm:"column:status;not null;default:'active'"`
	PreparedAt    time.Time         `gorm:"column:prepared_at;not null"`
	Notes         *string           `gorm:"column:notes"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// CompoundDispensation records how much of which batch went to which order.
// Append-only; rows are never mutated or deleted by the order pipeline.
type CompoundDispensation struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	BatchID   uuid.UUID `gorm:"column:batch_id;type:uuid;not null;index"`
	OrderID   uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null"`
	VolumeML  float64   `gorm:"column:volume_ml;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
