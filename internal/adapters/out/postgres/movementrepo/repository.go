package movementrepo

import (
	"context"
	"errors"
	"iter"

	"stockledger/internal/adapters/out/postgres/dberrors"
	"stockledger/internal/core/domain/model/kernel"
	"stockledger/internal/core/domain/model/movement"
	"stockledger/internal/pkg/errs"

	"gorm.io/gorm"
)

// DefaultPageSize is the number of rows fetched per round trip by ListHistory.
const DefaultPageSize = 100

// GormMovementRepository implements MovementRepository using GORM.
// Records are only ever inserted.
type GormMovementRepository struct {
	db       *gorm.DB
	tracker  aggregateTracker
	pageSize int
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormMovementRepository creates a new GORM movement repository.
// A non-positive pageSize falls back to DefaultPageSize.
func NewGormMovementRepository(db *gorm.DB, tracker aggregateTracker, pageSize int) *GormMovementRepository {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &GormMovementRepository{
		db:       db,
		tracker:  tracker,
		pageSize: pageSize,
	}
}

// Append inserts a ledger record.
func (r *GormMovementRepository) Append(ctx context.Context, record *movement.Movement) (kernel.UUID, error) {
	if err := record.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	dto := fromDomain(record)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		switch {
		case dberrors.IsForeignKeyViolation(err):
			return kernel.UUID{}, errs.NewObjectNotFoundErrorWithCause("equipment", record.EquipmentID().String(), err)
		case dberrors.IsDuplicate(err):
			return kernel.UUID{}, errs.NewObjectAlreadyExistsErrorWithCause("movement", record.ID().String(), err)
		default:
			return kernel.UUID{}, dberrors.Wrap("append movement", err)
		}
	}

	r.tracker.TrackAggregate(record.ID(), record)
	return record.ID(), nil
}

// ListHistory pages through the ledger of an equipment, newest first, using
// the sequence of the last row seen as the cursor.
func (r *GormMovementRepository) ListHistory(
	ctx context.Context,
	tenantID kernel.UUID,
	equipmentID kernel.UUID,
) iter.Seq2[*movement.Movement, error] {
	return func(yield func(*movement.Movement, error) bool) {
		if err := errors.Join(tenantID.Validate(), equipmentID.Validate()); err != nil {
			yield(nil, err)
			return
		}

		var cursor *int64
		for {
			page, err := r.page(ctx, tenantID, equipmentID, cursor)
			if err != nil {
				yield(nil, err)
				return
			}

			for _, dto := range page {
				record, err := toDomain(dto)
				if err != nil {
					yield(nil, err)
					return
				}
				if !yield(record, nil) {
					return
				}
			}

			if len(page) < r.pageSize {
				return
			}
			last := page[len(page)-1].Seq
			cursor = &last
		}
	}
}

func (r *GormMovementRepository) page(
	ctx context.Context,
	tenantID kernel.UUID,
	equipmentID kernel.UUID,
	before *int64,
) ([]MovementDTO, error) {
	query := r.db.WithContext(ctx).
		Where("tenant_id = ? AND equipment_id = ?", tenantID.Bytes(), equipmentID.Bytes())
	if before != nil {
		query = query.Where("seq < ?", *before)
	}

	var page []MovementDTO
	if err := query.Order("seq DESC").Limit(r.pageSize).Find(&page).Error; err != nil {
		return nil, dberrors.Wrap("list movement history", err)
	}
	return page, nil
}
