package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/willowrootwellness/willowroot-backend/pkg/enums"
)

// Booking is a confirmed practitioner session. EnrolmentID is set when the
// session was paid for with a wellness-package credit.
type Booking struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	UserID          uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	SessionType     enums.SessionType   `gorm:"column:session_type;not null"`
	Status          enums.BookingStatus `gorm:"column:status;not null;default:'confirmed'"`
	ScheduledAt     time.Time           `gorm:"column:scheduled_at;not null"`
	DurationMinutes int                 `gorm:"column:duration_minutes;not null"`
	EnrolmentID     *uuid.UUID          `gorm:"column:enrolment_id;type:uuid"`
	Notes           *string             `gorm:"column:notes"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
