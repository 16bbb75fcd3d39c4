package bookings

import (
	"time"

	"github.com/google/uuid"

	"github.com/willowrootwellness/willowroot-backend/pkg/db/models"
	"github.com/willowrootwellness/willowroot-backend/pkg/enums"
)

// CreateBookingInput is the checkout-side request for a session slot.
type CreateBookingInput struct {
	SessionType enums.SessionType `json:"session_type"`
	ScheduledAt time.Time         `json:"scheduled_at"`
	EnrolmentID *uuid.UUID        `json:"enrolment_id,omitempty"`
	Notes       *string           `json:"notes,omitempty"`
}

// BookingDTO is the public shape of a booking.
type BookingDTO struct {
	ID              uuid.UUID           `json:"id"`
	SessionType     enums.SessionType   `json:"session_type"`
	Status          enums.BookingStatus `json:"status"`
	ScheduledAt     time.Time           `json:"scheduled_at"`
	DurationMinutes int                 `json:"duration_minutes"`
	EnrolmentID     *uuid.UUID          `json:"enrolment_id,omitempty"`
	Notes           *string             `json:"notes,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
}

// NewBookingDTO maps a booking row to its public shape.
func NewBookingDTO(row *models.Booking) *BookingDTO {
	return &BookingDTO{
		ID:              row.ID,
		SessionType:     row.SessionType,
		Status:          row.Status,
		ScheduledAt:     row.ScheduledAt,
		DurationMinutes: row.DurationMinutes,
		EnrolmentID:     row.EnrolmentID,
		Notes:           row.Notes,
		CreatedAt:       row.CreatedAt,
	}
}
