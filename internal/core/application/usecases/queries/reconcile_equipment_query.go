package queries

import (
	"errors"

	"stockledger/internal/core/domain/model/kernel"
	"stockledger/internal/pkg/guard"
)

var (
	ErrReconcileEquipmentQueryIsNotConstructed = errors.New(
		"ReconcileEquipmentQuery must be created via NewReconcileEquipmentQuery constructor",
	)
)

// ReconcileEquipmentQuery compares the stored counters and unit statuses of an
// equipment with the state rebuilt from its ledger. It never repairs anything.
type ReconcileEquipmentQuery struct {
	tenantID    kernel.UUID
	equipmentID kernel.UUID

	guard guard.ConstructorGuard
}

func NewReconcileEquipmentQuery(tenantID kernel.UUID, equipmentID kernel.UUID) (ReconcileEquipmentQuery, error) {
	if err := validateScope(tenantID, equipmentID); err != nil {
		return ReconcileEquipmentQuery{}, err
	}
	return ReconcileEquipmentQuery{
		tenantID:    tenantID,
		equipmentID: equipmentID,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (q ReconcileEquipmentQuery) Validate() error {
	return q.guard.Validate(ErrReconcileEquipmentQueryIsNotConstructed)
}

func (q ReconcileEquipmentQuery) TenantID() kernel.UUID {
	return q.tenantID
}

func (q ReconcileEquipmentQuery) EquipmentID() kernel.UUID {
	return q.equipmentID
}
