package equipmentrepo

import (
	"context"
	"errors"
	"time"

	"stockledger/internal/adapters/out/postgres/dberrors"
	"stockledger/internal/core/domain/model/equipment"
	"stockledger/internal/core/domain/model/kernel"
	"stockledger/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormEquipmentRepository implements EquipmentRepository using GORM.
type GormEquipmentRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormEquipmentRepository creates a new GORM equipment repository.
func NewGormEquipmentRepository(db *gorm.DB, tracker aggregateTracker) *GormEquipmentRepository {
	return &GormEquipmentRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new equipment to the database.
func (r *GormEquipmentRepository) Add(ctx context.Context, aggregate *equipment.Equipment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if dberrors.IsDuplicate(err) {
			return errs.NewObjectAlreadyExistsErrorWithCause("equipment", aggregate.ID().String(), err)
		}
		return dberrors.Wrap("add equipment", err)
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an equipment by ID within a tenant.
func (r *GormEquipmentRepository) Get(ctx context.Context, tenantID kernel.UUID, id kernel.UUID) (*equipment.Equipment, error) {
	if err := errors.Join(tenantID.Validate(), id.Validate()); err != nil {
		return nil, err
	}

	var dto EquipmentDTO
	err := r.db.WithContext(ctx).
		First(&dto, "tenant_id = ? AND id = ?", tenantID.Bytes(), id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("equipment", id.String())
		}
		return nil, dberrors.Wrap("get equipment", err)
	}

	return toDomain(dto)
}

// ApplyDelta shifts the counters with a single conditional UPDATE. The WHERE
// clause carries the bounds, so the row is left untouched when the result
// would be out of range, and concurrent writers serialize on the row lock.
// The bounds are evaluated in 64-bit arithmetic so a sum past the integer
// column is rejected rather than raised as an overflow.
func (r *GormEquipmentRepository) ApplyDelta(
	ctx context.Context,
	tenantID kernel.UUID,
	id kernel.UUID,
	delta equipment.CounterDelta,
) (*equipment.Equipment, error) {
	if err := errors.Join(tenantID.Validate(), id.Validate()); err != nil {
		return nil, err
	}

	result := r.db.WithContext(ctx).
		Model(&EquipmentDTO{}).
		Where("tenant_id = ? AND id = ?", tenantID.Bytes(), id.Bytes()).
		Where("CAST(total_qty AS BIGINT) + ? BETWEEN 0 AND ?", delta.Total, equipment.MaxQty).
		Where("CAST(rented_qty AS BIGINT) + ? >= 0", delta.Rented).
		Where("CAST(rented_qty AS BIGINT) + ? <= CAST(total_qty AS BIGINT) + ?", delta.Rented, delta.Total).
		Updates(map[string]any{
			"total_qty":  gorm.Expr("total_qty + ?", delta.Total),
			"rented_qty": gorm.Expr("rented_qty + ?", delta.Rented),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		if dberrors.IsCheckViolation(result.Error) {
			return nil, errs.NewInvariantViolationError(id.String(), 0, 0, "counter constraint rejected the update")
		}
		if dberrors.IsOutOfRange(result.Error) {
			return nil, errs.NewInvariantViolationError(id.String(), 0, 0, "counter exceeds the column range")
		}
		return nil, dberrors.Wrap("apply counter delta", result.Error)
	}

	current, err := r.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if result.RowsAffected == 0 {
		return nil, rejectedDelta(current, delta)
	}

	r.tracker.TrackAggregate(current.ID(), current)
	return current, nil
}

// List returns all equipment ordered by identifier.
func (r *GormEquipmentRepository) List(ctx context.Context) ([]*equipment.Equipment, error) {
	var dtos []EquipmentDTO
	if err := r.db.WithContext(ctx).Order("id").Find(&dtos).Error; err != nil {
		return nil, dberrors.Wrap("list equipment", err)
	}

	items := make([]*equipment.Equipment, 0, len(dtos))
	for _, dto := range dtos {
		e, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}

	return items, nil
}

// rejectedDelta explains why the conditional update matched no row although
// the equipment exists.
func rejectedDelta(current *equipment.Equipment, delta equipment.CounterDelta) error {
	err := equipment.CheckBounds(
		current.ID().String(),
		current.TotalQty()+delta.Total,
		current.RentedQty()+delta.Rented,
	)
	if err != nil {
		return err
	}
	return errs.NewInvariantViolationError(
		current.ID().String(), current.TotalQty(), current.RentedQty(), "counters changed concurrently")
}
