package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/willowrootwellness/willowroot-backend/pkg/db"
	"github.com/willowrootwellness/willowroot-backend/pkg/db/models"
	"github.com/willowrootwellness/willowroot-backend/pkg/enums"
	pkgerrors "github.com/willowrootwellness/willowroot-backend/pkg/errors"
	"github.com/willowrootwellness/willowroot-backend/pkg/logger"
	"github.com/willowrootwellness/willowroot-backend/pkg/outbox"
	"github.com/willowrootwellness/willowroot-backend/pkg/outbox/payloads"
	"github.com/willowrootwellness/willowroot-backend/pkg/scheduling"
)

// creditLedger is the slice of the enrolment service bookings need.
type creditLedger interface {
	ConsumeSessionCredit(ctx context.Context, userID, enrolmentID uuid.UUID, sessionType enums.SessionType) error
	ReleaseSessionCredit(ctx context.Context, enrolmentID uuid.UUID, sessionType enums.SessionType)
}

// Service books and cancels practitioner sessions.
type Service interface {
	CreateBooking(ctx context.Context, userID uuid.UUID, email string, input CreateBookingInput) (*BookingDTO, error)
	GetBooking(ctx context.Context, userID, bookingID uuid.UUID) (*BookingDTO, error)
	ListBookings(ctx context.Context, userID uuid.UUID) ([]BookingDTO, error)
	CancelBooking(ctx context.Context, userID uuid.UUID, email string, bookingID uuid.UUID) (*BookingDTO, error)
}

type service struct {
	client   *db.Client
	repo     *Repository
	credits  creditLedger
	calendar scheduling.Client
	events   *outbox.Service
	logg     *logger.Logger
}

// NewService constructs a booking service instance.
func NewService(
	client *db.Client,
	repo *Repository,
	credits creditLedger,
	calendar scheduling.Client,
	events *outbox.Service,
	logg *logger.Logger,
) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("db client required")
	}
	if repo == nil {
		return nil, fmt.Errorf("booking repository required")
	}
	if credits == nil {
		return nil, fmt.Errorf("credit ledger required")
	}
	if calendar == nil {
		return nil, fmt.Errorf("scheduling client required")
	}
	if events == nil {
		return nil, fmt.Errorf("outbox service required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		client:   client,
		repo:     repo,
		credits:  credits,
		calendar: calendar,
		events:   events,
		logg:     logg,
	}, nil
}

// CreateBooking checks the practitioner calendar, burns a package credit when
// the session is enrolment-funded, and confirms the slot. The credit is
// consumed before the insert so an exhausted ledger never produces a booking.
func (s *service) CreateBooking(ctx context.Context, userID uuid.UUID, email string, input CreateBookingInput) (*BookingDTO, error) {
	if !input.SessionType.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid session type %q", input.SessionType)
	}
	if input.ScheduledAt.Before(time.Now()) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bookings must be scheduled in the future")
	}

	duration := input.SessionType.DurationMinutes()
	slot, err := s.calendar.CheckSlot(ctx, scheduling.SlotRequest{
		SessionType:     input.SessionType,
		ScheduledAt:     input.ScheduledAt,
		DurationMinutes: duration,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "scheduling: check slot")
	}
	if !slot.Available {
		reason := slot.Reason
		if reason == "" {
			reason = "the requested slot is not available"
		}
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, reason)
	}

	if input.EnrolmentID != nil {
		if err := s.credits.ConsumeSessionCredit(ctx, userID, *input.EnrolmentID, input.SessionType); err != nil {
			return nil, err
		}
	}

	row := &models.Booking{
		ID:              uuid.New(),
		UserID:          userID,
		SessionType:     input.SessionType,
		Status:          enums.BookingStatusConfirmed,
		ScheduledAt:     input.ScheduledAt,
		DurationMinutes: duration,
		EnrolmentID:     input.EnrolmentID,
		Notes:           input.Notes,
	}

	err = s.client.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.WithTx(tx).Create(ctx, row); err != nil {
			return err
		}
		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventBookingConfirmed,
			AggregateType: enums.AggregateBooking,
			AggregateID:   row.ID,
			Actor:         &outbox.ActorRef{UserID: userID.String()},
			Data: payloads.BookingConfirmedEvent{
				BookingID:   row.ID,
				UserID:      userID,
				Email:       email,
				SessionType: row.SessionType,
				ScheduledAt: row.ScheduledAt,
				EnrolmentID: row.EnrolmentID,
			},
			Version: 1,
		})
	})
	if err != nil {
		// undo the credit burn so the ledger matches reality
		if input.EnrolmentID != nil {
			s.credits.ReleaseSessionCredit(ctx, *input.EnrolmentID, input.SessionType)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert booking")
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"booking_id":   row.ID.String(),
		"session_type": row.SessionType.String(),
	})
	s.logg.Info(logCtx, "booking confirmed")
	return NewBookingDTO(row), nil
}

func (s *service) GetBooking(ctx context.Context, userID, bookingID uuid.UUID) (*BookingDTO, error) {
	row, err := s.loadOwned(ctx, userID, bookingID)
	if err != nil {
		return nil, err
	}
	return NewBookingDTO(row), nil
}

func (s *service) ListBookings(ctx context.Context, userID uuid.UUID) ([]BookingDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list bookings")
	}
	out := make([]BookingDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *NewBookingDTO(&rows[i]))
	}
	return out, nil
}

// CancelBooking moves a confirmed booking to cancelled, returns the package
// credit when one funded it, and frees the calendar slot. Credit return and
// slot release are best-effort: the cancellation itself never rolls back on
// their account.
func (s *service) CancelBooking(ctx context.Context, userID uuid.UUID, email string, bookingID uuid.UUID) (*BookingDTO, error) {
	row, err := s.loadOwned(ctx, userID, bookingID)
	if err != nil {
		return nil, err
	}
	if row.Status != enums.BookingStatusConfirmed {
		return nil, pkgerrors.Newf(pkgerrors.CodeStateConflict, "booking is already %s", row.Status)
	}

	creditReturned := row.EnrolmentID != nil
	err = s.client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).UpdateStatus(ctx, row.ID, enums.BookingStatusCancelled); err != nil {
			return err
		}
		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventBookingCancelled,
			AggregateType: enums.AggregateBooking,
			AggregateID:   row.ID,
			Actor:         &outbox.ActorRef{UserID: userID.String()},
			Data: payloads.BookingCancelledEvent{
				BookingID:      row.ID,
				UserID:         userID,
				Email:          email,
				SessionType:    row.SessionType,
				CancelledAt:    time.Now().UTC(),
				CreditReturned: creditReturned,
			},
			Version: 1,
		})
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: cancel booking")
	}

	if row.EnrolmentID != nil {
		s.credits.ReleaseSessionCredit(ctx, *row.EnrolmentID, row.SessionType)
	}
	if err := s.calendar.ReleaseSlot(ctx, row.ID); err != nil {
		s.logg.Error(ctx, "scheduling: release slot", err)
	}

	row.Status = enums.BookingStatusCancelled
	logCtx := s.logg.WithField(ctx, "booking_id", row.ID.String())
	s.logg.Info(logCtx, "booking cancelled")
	return NewBookingDTO(row), nil
}

func (s *service) loadOwned(ctx context.Context, userID, bookingID uuid.UUID) (*models.Booking, error) {
	row, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find booking")
	}
	if row.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
	}
	return row, nil
}
