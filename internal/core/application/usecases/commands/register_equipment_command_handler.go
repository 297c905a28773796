package commands

import (
	"context"

	"stockledger/internal/core/domain/model/equipment"
	"stockledger/internal/core/domain/model/kernel"
	"stockledger/internal/pkg/errs"
)

// RegisterEquipmentCommandHandler persists new catalog entries with both
// counters at zero. Stock is added afterwards through movements.
type RegisterEquipmentCommandHandler struct {
	uowFactory EquipmentUoWFactory
}

func NewRegisterEquipmentCommandHandler(uowFactory EquipmentUoWFactory) RegisterEquipmentCommandHandler {
	return RegisterEquipmentCommandHandler{uowFactory: uowFactory}
}

// Handle creates the equipment and returns it.
func (h RegisterEquipmentCommandHandler) Handle(ctx context.Context, command RegisterEquipmentCommand) (*equipment.Equipment, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	aggregate, err := equipment.NewEquipment(kernel.NewUUID(), command.TenantID(), command.Name())
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, errs.NewPersistenceError("begin transaction", err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.EquipmentRepository().Add(ctx, aggregate); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, errs.NewPersistenceError("commit transaction", err)
	}

	return aggregate, nil
}
