package compounds

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/willowrootwellness/willowroot-backend/pkg/db/models"
	"github.com/willowrootwellness/willowroot-backend/pkg/enums"
	pkgerrors "github.com/willowrootwellness/willowroot-backend/pkg/errors"
	"github.com/willowrootwellness/willowroot-backend/pkg/logger"
)

const defaultBottleVolumeML = 100

// Service exposes blend management plus the admin batch operations.
type Service interface {
	SaveCompound(ctx context.Context, ownerID uuid.UUID, input SaveCompoundInput) (*CompoundDTO, error)
	ResaveCompound(ctx context.Context, ownerID, compoundID uuid.UUID, input SaveCompoundInput) (*CompoundDTO, error)
	GetCompound(ctx context.Context, ownerID, compoundID uuid.UUID) (*CompoundDTO, error)
	ListCompounds(ctx context.Context, ownerID uuid.UUID) ([]CompoundDTO, error)
	RegisterBatch(ctx context.Context, input RegisterBatchInput) (*BatchDTO, error)
	DiscardBatch(ctx context.Context, batchID uuid.UUID) error
	ListBatches(ctx context.Context, compoundID uuid.UUID) ([]BatchDTO, error)
}

type service struct {
	repo *Repository
	logg *logger.Logger
}

// NewService constructs a compound service instance.
func NewService(repo *Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("compound repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

// SaveCompound validates the formula, prices the blend, and persists it. The
// computed price is what checkout later treats as authoritative.
func (s *service) SaveCompound(ctx context.Context, ownerID uuid.UUID, input SaveCompoundInput) (*CompoundDTO, error) {
	row, err := s.buildRow(ownerID, input)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert compound")
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"compound_id": created.ID.String(),
		"tier":        created.Tier.String(),
	})
	s.logg.Info(logCtx, "compound saved")
	return NewCompoundDTO(created), nil
}

// ResaveCompound revalidates and reprices an existing blend. This is the
// recovery path for compounds whose stored price never materialized.
func (s *service) ResaveCompound(ctx context.Context, ownerID, compoundID uuid.UUID, input SaveCompoundInput) (*CompoundDTO, error) {
	existing, err := s.repo.FindByID(ctx, compoundID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "compound not found")
	}
	if existing.OwnerUserID != ownerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "compound not available for this account")
	}

	row, err := s.buildRow(ownerID, input)
	if err != nil {
		return nil, err
	}
	row.ID = existing.ID
	row.CreatedAt = existing.CreatedAt

	updated, err := s.repo.Update(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update compound")
	}
	return NewCompoundDTO(updated), nil
}

// GetCompound loads one blend owned by the caller.
func (s *service) GetCompound(ctx context.Context, ownerID, compoundID uuid.UUID) (*CompoundDTO, error) {
	row, err := s.repo.FindByID(ctx, compoundID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "compound not found")
	}
	if row.OwnerUserID != ownerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "compound not available for this account")
	}
	return NewCompoundDTO(row), nil
}

// ListCompounds returns the caller's blends newest-first.
func (s *service) ListCompounds(ctx context.Context, ownerID uuid.UUID) ([]CompoundDTO, error) {
	rows, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list compounds")
	}
	dtos := make([]CompoundDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *NewCompoundDTO(&rows[i]))
	}
	return dtos, nil
}

// RegisterBatch records a freshly prepared batch for dispensation.
func (s *service) RegisterBatch(ctx context.Context, input RegisterBatchInput) (*BatchDTO, error) {
	if input.TotalVolumeML <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "total_volume_ml must be positive")
	}
	if _, err := s.repo.FindByID(ctx, input.CompoundID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "compound not found")
	}

	preparedAt := time.Now()
	if input.PreparedAt != nil {
		preparedAt = *input.PreparedAt
	}
	row := &models.CompoundBatch{
		ID:            uuid.New(),
		CompoundID:    input.CompoundID,
		TotalVolumeML: input.TotalVolumeML,
		Status:        enums.BatchStatusActive,
		PreparedAt:    preparedAt,
		Notes:         input.Notes,
	}
	created, err := s.repo.CreateBatch(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert batch")
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"batch_id":    created.ID.String(),
		"compound_id": created.CompoundID.String(),
		"volume_ml":   created.TotalVolumeML,
	})
	s.logg.Info(logCtx, "compound batch registered")
	return s.batchDTO(ctx, created)
}

// DiscardBatch removes a batch from the dispensable pool. Existing
// dispensations against it stay on the ledger.
func (s *service) DiscardBatch(ctx context.Context, batchID uuid.UUID) error {
	if _, err := s.repo.FindBatch(ctx, batchID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "batch not found")
	}
	if err := s.repo.DiscardBatch(ctx, batchID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: discard batch")
	}
	return nil
}

// ListBatches returns every batch for a compound with its remaining volume.
func (s *service) ListBatches(ctx context.Context, compoundID uuid.UUID) ([]BatchDTO, error) {
	rows, err := s.repo.ListBatches(ctx, compoundID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list batches")
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	dispensed, err := s.repo.DispensedVolumeByBatch(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: sum dispensations")
	}

	dtos := make([]BatchDTO, 0, len(rows))
	for i := range rows {
		row := &rows[i]
		used := dispensed[row.ID]
		dtos = append(dtos, BatchDTO{
			ID:            row.ID,
			CompoundID:    row.CompoundID,
			TotalVolumeML: row.TotalVolumeML,
			DispensedML:   used,
			AvailableML:   row.TotalVolumeML - used,
			Status:        row.Status,
			PreparedAt:    row.PreparedAt,
			Notes:         row.Notes,
		})
	}
	return dtos, nil
}

func (s *service) buildRow(ownerID uuid.UUID, input SaveCompoundInput) (*models.Compound, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if !input.Tier.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid tier %q", input.Tier)
	}
	if !input.Type.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid compound type %q", input.Type)
	}
	if err := input.Formula.Validate(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid formula")
	}

	volume := input.BottleVolumeML
	if volume <= 0 {
		volume = defaultBottleVolumeML
	}

	price, ok := ComputePrice(input.Tier, input.Type, volume)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unable to price the blend")
	}

	return &models.Compound{
		ID:                 uuid.New(),
		OwnerUserID:        ownerID,
		Name:               strings.TrimSpace(input.Name),
		Tier:               input.Tier,
		Type:               input.Type,
		Formula:            input.Formula,
		Price:              &price,
		BottleVolumeML:     volume,
		SourceBookingID:    input.SourceBookingID,
		SourceAssessmentID: input.SourceAssessmentID,
	}, nil
}

func (s *service) batchDTO(ctx context.Context, row *models.CompoundBatch) (*BatchDTO, error) {
	dispensed, err := s.repo.DispensedVolumeByBatch(ctx, []uuid.UUID{row.ID})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: sum dispensations")
	}
	used := dispensed[row.ID]
	return &BatchDTO{
		ID:            row.ID,
		CompoundID:    row.CompoundID,
		TotalVolumeML: row.TotalVolumeML,
		DispensedML:   used,
		AvailableML:   row.TotalVolumeML - used,
		Status:        row.Status,
		PreparedAt:    row.PreparedAt,
		Notes:         row.Notes,
	}, nil
}
