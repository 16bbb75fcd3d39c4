package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/willowrootwellness/willowroot-backend/pkg/enums"
	"github.com/willowrootwellness/willowroot-backend/pkg/types"
)

// WellnessPackage is a purchasable bundle of practitioner sessions.
type WellnessPackage struct {
	ID             uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	Name           string               `gorm:"column:name;not null"`
	Description    *string              `gorm:"column:description"`
	Price          float64              `gorm:"column:price;type:numeric(10,2);not null"`
	SessionCredits types.SessionCredits `gorm:"column:session_credits;type:jsonb;serializer:json"`
	DurationDays   int                  `gorm:"column:duration_days;not null;default:90"`
	IsActive       bool                 `gorm:"column:is_active;not null;default:true"`
	CreatedAt      time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

// PackageEnrolment binds a user to a wellness package and carries the credit
// ledger. Version backs the optimistic guard on ledger rewrites.
type PackageEnrolment struct {
	ID             uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	UserID         uuid.UUID             `gorm:"column:user_id;type:uuid;not null;index"`
	PackageID      uuid.UUID             `gorm:"column:package_id;type:uuid;not null"`
	Status         enums.EnrolmentStatus `gorm:"column:status;not null;default:'active'"`
	SessionCredits types.SessionCredits  `gorm:"column:session_credits;type:jsonb;serializer:json"`
	Version        int64                 `gorm:"column:version;not null;default:0"`
	ExpiresAt      time.Time             `gorm:"column:expires_at;not null"`
	CreatedAt      time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
