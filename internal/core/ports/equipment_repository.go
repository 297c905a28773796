// Package ports defines the persistence contracts of the stock ledger.
// These interfaces establish contracts between the domain layer and infrastructure,
// enabling dependency inversion and testability.
package ports

import (
	"context"

	"stockledger/internal/core/domain/model/equipment"
	"stockledger/internal/core/domain/model/kernel"
)

// EquipmentRepository defines the persistence contract for the equipment catalog aggregate.
// Every lookup is scoped by tenant. An equipment of another tenant is reported as not found.
type EquipmentRepository interface {
	// Add persists a new catalog entry.
	Add(ctx context.Context, aggregate *equipment.Equipment) error

	// Get retrieves an equipment with its current counters.
	// Returns ObjectNotFoundError when it does not exist within the tenant.
	Get(ctx context.Context, tenantID kernel.UUID, id kernel.UUID) (*equipment.Equipment, error)

	// ApplyDelta changes the stored counters by delta in a single atomic statement
	// relative to the stored values, never by writing back values computed in memory.
	// Concurrent callers in different transactions therefore never lose an update.
	//
	// Returns the equipment as stored after the change, ObjectNotFoundError when it
	// does not exist, or InvariantViolationError when the result would leave
	// 0 <= rentedQty <= totalQty. Nothing is written on error.
	ApplyDelta(ctx context.Context, tenantID kernel.UUID, id kernel.UUID, delta equipment.CounterDelta) (*equipment.Equipment, error)

	// List returns every equipment of every tenant ordered by identifier.
	// Used by background reconciliation.
	List(ctx context.Context) ([]*equipment.Equipment, error)
}
