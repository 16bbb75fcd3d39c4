package compounds

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/willowrootwellness/willowroot-backend/pkg/db/models"
	"github.com/willowrootwellness/willowroot-backend/pkg/enums"
)

// Repository wires together compound, batch, and dispensation persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads one compound.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Compound, error) {
	var row models.Compound
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// FindByIDs batch-loads compounds keyed by id.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Compound, error) {
	result := make(map[uuid.UUID]models.Compound, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var rows []models.Compound
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.ID] = row
	}
	return result, nil
}

// ListByOwner returns the user's blends newest-first.
func (r *Repository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Compound, error) {
	var rows []models.Compound
	err := r.db.WithContext(ctx).
		Where("owner_user_id = ?", ownerID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// Create inserts a compound row.
func (r *Repository) Create(ctx context.Context, row *models.Compound) (*models.Compound, error) {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// Update persists the full compound row.
func (r *Repository) Update(ctx context.Context, row *models.Compound) (*models.Compound, error) {
	if err := r.db.WithContext(ctx).Save(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// CreateBatch registers a prepared batch.
func (r *Repository) CreateBatch(ctx context.Context, row *models.CompoundBatch) (*models.CompoundBatch, error) {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// FindBatch loads one batch.
func (r *Repository) FindBatch(ctx context.Context, id uuid.UUID) (*models.CompoundBatch, error) {
	var row models.CompoundBatch
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// DiscardBatch marks a batch unusable for future dispensations.
func (r *Repository) DiscardBatch(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.CompoundBatch{}).
		Where("id = ?", id).
		Update("status", enums.BatchStatusDiscarded).Error
}

// ActiveBatchesFIFO loads the compound's non-discarded batches oldest-first,
// taking row locks on postgres so concurrent allocations serialize. sqlite,
// used in tests, serializes writers on its own.
func (r *Repository) ActiveBatchesFIFO(ctx context.Context, compoundID uuid.UUID) ([]models.CompoundBatch, error) {
	query := r.db.WithContext(ctx)
	if r.db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var rows []models.CompoundBatch
	err := query.
		Where("compound_id = ? AND status = ?", compoundID, enums.BatchStatusActive).
		Order("prepared_at ASC").
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

// DispensedVolumeByBatch sums allocated volume for each of the given batches.
func (r *Repository) DispensedVolumeByBatch(ctx context.Context, batchIDs []uuid.UUID) (map[uuid.UUID]float64, error) {
	result := make(map[uuid.UUID]float64, len(batchIDs))
	if len(batchIDs) == 0 {
		return result, nil
	}
	type sumRow struct {
		BatchID uuid.UUID
		Total   float64
	}
	var sums []sumRow
	err := r.db.WithContext(ctx).
		Model(&models.CompoundDispensation{}).
		Select("batch_id, COALESCE(SUM(volume_ml), 0) AS total").
		Where("batch_id IN ?", batchIDs).
		Group("batch_id").
		Scan(&sums).Error
	if err != nil {
		return nil, err
	}
	for _, sum := range sums {
		result[sum.BatchID] = sum.Total
	}
	return result, nil
}

// CreateDispensation appends one allocation ledger row.
func (r *Repository) CreateDispensation(ctx context.Context, row *models.CompoundDispensation) error {
	return r.db.WithContext(ctx).Create(row).Error
}

// ListBatches returns all batches for a compound, oldest-first.
func (r *Repository) ListBatches(ctx context.Context, compoundID uuid.UUID) ([]models.CompoundBatch, error) {
	var rows []models.CompoundBatch
	err := r.db.WithContext(ctx).
		Where("compound_id = ?", compoundID).
		Order("prepared_at ASC").
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

// ListDispensationsByOrder returns the allocation ledger rows for one order.
func (r *Repository) ListDispensationsByOrder(ctx context.Context, orderID uuid.UUID) ([]models.CompoundDispensation, error) {
	var rows []models.CompoundDispensation
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}
