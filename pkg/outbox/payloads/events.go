package payloads

import (
	"time"

	"github.com/google/uuid"

	"github.com/willowrootwellness/willowroot-backend/pkg/enums"
)

// OrderCreatedEvent signals a completed checkout.
type OrderCreatedEvent struct {
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber int64     `json:"order_number"`
	UserID      uuid.UUID `json:"user_id"`
	Email       string    `json:"email,omitempty"`
	Total       float64   `json:"total"`
	ItemCount   int       `json:"item_count"`
}

// OrderCancelledEvent is emitted when a pending order is cancelled.
type OrderCancelledEvent struct {
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber int64     `json:"order_number"`
	UserID      uuid.UUID `json:"user_id"`
	Email       string    `json:"email,omitempty"`
	CancelledAt time.Time `json:"cancelled_at"`
	Reason      string    `json:"reason,omitempty"`
}

// BookingConfirmedEvent tells downstream systems a session was booked.
type BookingConfirmedEvent struct {
	BookingID   uuid.UUID         `json:"booking_id"`
	UserID      uuid.UUID         `json:"user_id"`
	Email       string            `json:"email,omitempty"`
	SessionType enums.SessionType `json:"session_type"`
	ScheduledAt time.Time         `json:"scheduled_at"`
	EnrolmentID *uuid.UUID        `json:"enrolment_id,omitempty"`
}

// BookingCancelledEvent reports a cancelled session and whether a package
// credit was returned.
type BookingCancelledEvent struct {
	BookingID      uuid.UUID         `json:"booking_id"`
	UserID         uuid.UUID         `json:"user_id"`
	Email          string            `json:"email,omitempty"`
	SessionType    enums.SessionType `json:"session_type"`
	CancelledAt    time.Time         `json:"cancelled_at"`
	CreditReturned bool              `json:"credit_returned"`
}
