package ports

import (
	"context"

	"stockledger/internal/core/domain/model/kernel"
	"stockledger/internal/core/domain/model/unit"
)

// UnitRepository defines the persistence contract for individually tracked units.
type UnitRepository interface {
	// Add persists a newly registered unit.
	// Returns ObjectAlreadyExistsError when the code is taken within the tenant.
	Add(ctx context.Context, aggregate *unit.Unit) error

	// Get retrieves a unit scoped by tenant.
	Get(ctx context.Context, tenantID kernel.UUID, id kernel.UUID) (*unit.Unit, error)

	// GetForUpdate retrieves a unit and locks its row until the surrounding
	// transaction ends, so concurrent transitions of the same unit serialize.
	GetForUpdate(ctx context.Context, tenantID kernel.UUID, id kernel.UUID) (*unit.Unit, error)

	// UpdateStatus stores the unit's current status, provided the stored status
	// still equals expected. Returns InvalidTransitionError otherwise.
	UpdateStatus(ctx context.Context, aggregate *unit.Unit, expected unit.Status) error

	// LastCode returns the "<prefix>-<digits>" code with the greatest numeric
	// suffix within the tenant. Returns "" when none exists.
	LastCode(ctx context.Context, tenantID kernel.UUID, prefix string) (string, error)

	// ListByEquipment returns every unit of an equipment ordered by code.
	ListByEquipment(ctx context.Context, tenantID kernel.UUID, equipmentID kernel.UUID) ([]*unit.Unit, error)
}
