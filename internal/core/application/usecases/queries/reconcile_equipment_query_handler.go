package queries

import (
	"context"

	"stockledger/internal/core/domain/services"
	"stockledger/internal/core/ports"
)

// ReconcileEquipmentQueryHandler reads the equipment, its units and its whole
// history inside one transaction and hands them to the LedgerReconciler.
//
// The factory should open repeatable-read, read-only transactions so the three
// reads see the same snapshot while adjustments keep committing.
type ReconcileEquipmentQueryHandler struct {
	snapshots  ports.UnitOfWorkFactory
	reconciler services.LedgerReconciler
}

func NewReconcileEquipmentQueryHandler(
	snapshots ports.UnitOfWorkFactory,
	reconciler services.LedgerReconciler,
) ReconcileEquipmentQueryHandler {
	return ReconcileEquipmentQueryHandler{
		snapshots:  snapshots,
		reconciler: reconciler,
	}
}

func (h ReconcileEquipmentQueryHandler) Handle(
	ctx context.Context,
	query ReconcileEquipmentQuery,
) (*services.ReconciliationReport, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	uow := h.snapshots.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() { _ = uow.Rollback(ctx) }()

	eq, err := uow.EquipmentRepository().Get(ctx, query.TenantID(), query.EquipmentID())
	if err != nil {
		return nil, err
	}

	units, err := uow.UnitRepository().ListByEquipment(ctx, query.TenantID(), query.EquipmentID())
	if err != nil {
		return nil, err
	}

	history := uow.MovementRepository().ListHistory(ctx, query.TenantID(), query.EquipmentID())

	return h.reconciler.Reconcile(eq, units, history)
}
