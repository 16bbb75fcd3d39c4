package compounds

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/willowrootwellness/willowroot-backend/pkg/db/models"
	pkgerrors "github.com/willowrootwellness/willowroot-backend/pkg/errors"
)

// AllocationRequest asks for volume to fulfil one compound order line.
type AllocationRequest struct {
	CompoundID uuid.UUID
	OrderID    uuid.UUID
	UserID     uuid.UUID
	VolumeML   float64
}

// AllocationResult reports how the FIFO walk went. AllocatedML may fall short
// of the request; callers decide whether a shortfall is fatal.
type AllocationResult struct {
	AllocatedML float64
	ShortfallML float64
	BatchCount  int
}

// Allocator dispenses batch volume for compound order lines.
type Allocator interface {
	Allocate(ctx context.Context, tx *gorm.DB, req AllocationRequest) (AllocationResult, error)
}

// Allocate walks the compound's active batches oldest-first and appends
// dispensation rows until the requested volume is covered or the batches run
// dry. Must run inside the caller's transaction so the postgres row locks
// hold for the whole walk.
func (r *Repository) Allocate(ctx context.Context, tx *gorm.DB, req AllocationRequest) (AllocationResult, error) {
	if tx == nil {
		return AllocationResult{}, pkgerrors.New(pkgerrors.CodeInternal, "transaction required")
	}
	if req.VolumeML <= 0 {
		return AllocationResult{}, pkgerrors.New(pkgerrors.CodeValidation, "allocation volume must be positive")
	}

	txRepo := r.WithTx(tx)

	batches, err := txRepo.ActiveBatchesFIFO(ctx, req.CompoundID)
	if err != nil {
		return AllocationResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load compound batches")
	}

	batchIDs := make([]uuid.UUID, 0, len(batches))
	for _, batch := range batches {
		batchIDs = append(batchIDs, batch.ID)
	}
	dispensed, err := txRepo.DispensedVolumeByBatch(ctx, batchIDs)
	if err != nil {
		return AllocationResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: sum batch dispensations")
	}

	result := AllocationResult{}
	remaining := req.VolumeML
	for _, batch := range batches {
		if remaining <= 0 {
			break
		}
		available := batch.TotalVolumeML - dispensed[batch.ID]
		if available <= 0 {
			continue
		}
		allocate := available
		if remaining < allocate {
			allocate = remaining
		}
		row := &models.CompoundDispensation{
			ID:       uuid.New(),
			BatchID:  batch.ID,
			OrderID:  req.OrderID,
			UserID:   req.UserID,
			VolumeML: allocate,
		}
		if err := txRepo.CreateDispensation(ctx, row); err != nil {
			return result, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert dispensation")
		}
		result.AllocatedML += allocate
		result.BatchCount++
		remaining -= allocate
	}

	if remaining > 0 {
		result.ShortfallML = remaining
	}
	return result, nil
}
