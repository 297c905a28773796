package unitrepo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"stockledger/internal/adapters/out/postgres/dberrors"
	"stockledger/internal/core/domain/model/kernel"
	"stockledger/internal/core/domain/model/unit"
	"stockledger/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormUnitRepository implements UnitRepository using GORM.
type GormUnitRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormUnitRepository creates a new GORM unit repository.
func NewGormUnitRepository(db *gorm.DB, tracker aggregateTracker) *GormUnitRepository {
	return &GormUnitRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new unit. A taken code yields ObjectAlreadyExistsError and an
// unknown equipment ObjectNotFoundError.
func (r *GormUnitRepository) Add(ctx context.Context, aggregate *unit.Unit) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		switch {
		case dberrors.IsDuplicate(err):
			return errs.NewObjectAlreadyExistsErrorWithCause("code", aggregate.Code(), err)
		case dberrors.IsForeignKeyViolation(err):
			return errs.NewObjectNotFoundErrorWithCause("equipment", aggregate.EquipmentID().String(), err)
		default:
			return dberrors.Wrap("add unit", err)
		}
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a unit by ID within a tenant.
func (r *GormUnitRepository) Get(ctx context.Context, tenantID kernel.UUID, id kernel.UUID) (*unit.Unit, error) {
	return r.get(r.db.WithContext(ctx), tenantID, id)
}

// GetForUpdate retrieves a unit with SELECT ... FOR UPDATE.
func (r *GormUnitRepository) GetForUpdate(ctx context.Context, tenantID kernel.UUID, id kernel.UUID) (*unit.Unit, error) {
	return r.get(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), tenantID, id)
}

func (r *GormUnitRepository) get(db *gorm.DB, tenantID kernel.UUID, id kernel.UUID) (*unit.Unit, error) {
	if err := errors.Join(tenantID.Validate(), id.Validate()); err != nil {
		return nil, err
	}

	var dto UnitDTO
	if err := db.First(&dto, "tenant_id = ? AND id = ?", tenantID.Bytes(), id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("unit", id.String())
		}
		return nil, dberrors.Wrap("get unit", err)
	}

	return toDomain(dto)
}

// UpdateStatus writes the unit's status as a compare-and-set on expected.
func (r *GormUnitRepository) UpdateStatus(ctx context.Context, aggregate *unit.Unit, expected unit.Status) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&UnitDTO{}).
		Where("tenant_id = ? AND id = ? AND status = ?",
			aggregate.TenantID().Bytes(), aggregate.ID().Bytes(), expected.String()).
		Updates(map[string]any{
			"status":     aggregate.Status().String(),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return dberrors.Wrap("update unit status", result.Error)
	}

	if result.RowsAffected == 0 {
		stored, err := r.Get(ctx, aggregate.TenantID(), aggregate.ID())
		if err != nil {
			return err
		}
		return errs.NewInvalidTransitionError(
			aggregate.ID().String(), stored.Status().String(), "transition to "+aggregate.Status().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// LastCode returns the "<prefix>-<digits>" code of the tenant with the greatest
// numeric suffix, so EQP-10000 follows EQP-9999. Codes under the prefix whose
// suffix is not purely numeric never take part.
func (r *GormUnitRepository) LastCode(ctx context.Context, tenantID kernel.UUID, prefix string) (string, error) {
	if err := tenantID.Validate(); err != nil {
		return "", err
	}
	if err := unit.ValidatePrefix(prefix); err != nil {
		return "", err
	}

	suffixStart := len(prefix) + 2
	numeric, args := numericSuffixFilter(r.db, prefix)

	var codes []string
	err := r.db.WithContext(ctx).
		Model(&UnitDTO{}).
		Where("tenant_id = ? AND code LIKE ?", tenantID.Bytes(), unit.CodePattern(prefix)).
		Where(numeric, args...).
		Order(fmt.Sprintf("CAST(SUBSTR(code, %d) AS NUMERIC) DESC", suffixStart)).
		Order("LENGTH(code) DESC").
		Limit(1).
		Pluck("code", &codes).Error
	if err != nil {
		return "", dberrors.Wrap("find last unit code", err)
	}

	if len(codes) == 0 {
		return "", nil
	}
	return codes[0], nil
}

// numericSuffixFilter matches codes made of prefix, a dash and digits only.
// PostgreSQL uses a regular expression, SQLite a pair of GLOB patterns.
func numericSuffixFilter(db *gorm.DB, prefix string) (string, []any) {
	if db.Dialector.Name() == "postgres" {
		return "code ~ ?", []any{"^" + regexp.QuoteMeta(prefix) + "-[0-9]+$"}
	}
	return "code GLOB ? AND code NOT GLOB ?", []any{prefix + "-[0-9]*", prefix + "-*[^0-9]*"}
}

// ListByEquipment returns the units of an equipment ordered by code.
func (r *GormUnitRepository) ListByEquipment(
	ctx context.Context,
	tenantID kernel.UUID,
	equipmentID kernel.UUID,
) ([]*unit.Unit, error) {
	if err := errors.Join(tenantID.Validate(), equipmentID.Validate()); err != nil {
		return nil, err
	}

	var dtos []UnitDTO
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND equipment_id = ?", tenantID.Bytes(), equipmentID.Bytes()).
		Order("code").
		Find(&dtos).Error
	if err != nil {
		return nil, dberrors.Wrap("list units", err)
	}

	units := make([]*unit.Unit, 0, len(dtos))
	for _, dto := range dtos {
		u, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		units = append(units, u)
	}

	return units, nil
}
