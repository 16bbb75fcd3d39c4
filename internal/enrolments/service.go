package enrolments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/willowrootwellness/willowroot-backend/pkg/db/models"
	"github.com/willowrootwellness/willowroot-backend/pkg/enums"
	pkgerrors "github.com/willowrootwellness/willowroot-backend/pkg/errors"
	"github.com/willowrootwellness/willowroot-backend/pkg/logger"
)

// ledgerRetries bounds the re-read loop when the version guard rejects a
// rewrite. Contention on a single enrolment is rare, so a small budget is
// enough before surfacing the conflict.
const ledgerRetries = 3

// Service exposes package enrolment and the session credit ledger.
type Service interface {
	ListPackages(ctx context.Context) ([]PackageDTO, error)
	Enrol(ctx context.Context, userID, packageID uuid.UUID) (*EnrolmentDTO, error)
	GetEnrolment(ctx context.Context, userID, enrolmentID uuid.UUID) (*EnrolmentDTO, error)
	ListEnrolments(ctx context.Context, userID uuid.UUID) ([]EnrolmentDTO, error)

	// ConsumeSessionCredit burns one credit of the given session type. It is
	// the gate bookings pass through before a slot is committed.
	ConsumeSessionCredit(ctx context.Context, userID, enrolmentID uuid.UUID, sessionType enums.SessionType) error

	// ReleaseSessionCredit returns one credit after a cancellation. It never
	// fails the caller: a missing enrolment or a persistence error is logged
	// and swallowed so cancellation itself cannot be blocked by the ledger.
	ReleaseSessionCredit(ctx context.Context, enrolmentID uuid.UUID, sessionType enums.SessionType)
}

type service struct {
	repo *Repository
	logg *logger.Logger
}

// NewService constructs an enrolment service instance.
func NewService(repo *Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("enrolment repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) ListPackages(ctx context.Context) ([]PackageDTO, error) {
	rows, err := s.repo.ListPackages(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list packages")
	}
	out := make([]PackageDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *NewPackageDTO(&rows[i]))
	}
	return out, nil
}

// Enrol opens a new enrolment with the package's credit grant copied into the
// ledger and the expiry clock started from now.
func (s *service) Enrol(ctx context.Context, userID, packageID uuid.UUID) (*EnrolmentDTO, error) {
	pkg, err := s.repo.FindPackage(ctx, packageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "package not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find package")
	}
	if len(pkg.SessionCredits) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "package has no session credits configured")
	}

	row := &models.PackageEnrolment{
		ID:             uuid.New(),
		UserID:         userID,
		PackageID:      pkg.ID,
		Status:         enums.EnrolmentStatusActive,
		SessionCredits: pkg.SessionCredits.Clone(),
		ExpiresAt:      time.Now().UTC().AddDate(0, 0, pkg.DurationDays),
	}
	created, err := s.repo.CreateEnrolment(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert enrolment")
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"enrolment_id": created.ID.String(),
		"package_id":   pkg.ID.String(),
	})
	s.logg.Info(logCtx, "package enrolment created")
	return NewEnrolmentDTO(created), nil
}

func (s *service) GetEnrolment(ctx context.Context, userID, enrolmentID uuid.UUID) (*EnrolmentDTO, error) {
	row, err := s.loadOwned(ctx, userID, enrolmentID)
	if err != nil {
		return nil, err
	}
	return NewEnrolmentDTO(row), nil
}

func (s *service) ListEnrolments(ctx context.Context, userID uuid.UUID) ([]EnrolmentDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list enrolments")
	}
	out := make([]EnrolmentDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *NewEnrolmentDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) ConsumeSessionCredit(ctx context.Context, userID, enrolmentID uuid.UUID, sessionType enums.SessionType) error {
	if !sessionType.IsValid() {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "invalid session type %q", sessionType)
	}

	for attempt := 0; attempt < ledgerRetries; attempt++ {
		row, err := s.loadOwned(ctx, userID, enrolmentID)
		if err != nil {
			return err
		}
		if row.Status != enums.EnrolmentStatusActive {
			return pkgerrors.Newf(pkgerrors.CodeStateConflict, "enrolment is %s", row.Status)
		}
		if time.Now().After(row.ExpiresAt) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "enrolment has expired")
		}

		entry, ok := row.SessionCredits[sessionType]
		if !ok || entry.Remaining() == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "No credits remaining for this session type")
		}

		credits := row.SessionCredits.Clone()
		entry.Used++
		credits[sessionType] = entry

		updated, err := s.repo.RewriteLedger(ctx, row.ID, credits, row.Version)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: rewrite credit ledger")
		}
		if updated > 0 {
			logCtx := s.logg.WithFields(ctx, map[string]any{
				"enrolment_id": row.ID.String(),
				"session_type": sessionType.String(),
				"remaining":    entry.Remaining(),
			})
			s.logg.Info(logCtx, "session credit consumed")
			return nil
		}
		// version moved under us; re-read and try again
	}
	return pkgerrors.New(pkgerrors.CodeStateConflict, "credit ledger changed concurrently, please retry")
}

func (s *service) ReleaseSessionCredit(ctx context.Context, enrolmentID uuid.UUID, sessionType enums.SessionType) {
	for attempt := 0; attempt < ledgerRetries; attempt++ {
		row, err := s.repo.FindEnrolment(ctx, enrolmentID)
		if err != nil {
			s.logg.Error(ctx, "release credit: load enrolment", err)
			return
		}

		entry, ok := row.SessionCredits[sessionType]
		if !ok || entry.Used == 0 {
			// nothing was consumed; releasing is a no-op
			return
		}

		credits := row.SessionCredits.Clone()
		entry.Used--
		credits[sessionType] = entry

		updated, err := s.repo.RewriteLedger(ctx, row.ID, credits, row.Version)
		if err != nil {
			s.logg.Error(ctx, "release credit: rewrite ledger", err)
			return
		}
		if updated > 0 {
			logCtx := s.logg.WithFields(ctx, map[string]any{
				"enrolment_id": row.ID.String(),
				"session_type": sessionType.String(),
			})
			s.logg.Info(logCtx, "session credit released")
			return
		}
	}
	s.logg.Warn(ctx, "release credit: ledger kept moving, giving up")
}

func (s *service) loadOwned(ctx context.Context, userID, enrolmentID uuid.UUID) (*models.PackageEnrolment, error) {
	row, err := s.repo.FindEnrolment(ctx, enrolmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "enrolment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find enrolment")
	}
	if row.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "enrolment not found")
	}
	return row, nil
}
