package commands

import (
	"context"
	"errors"

	"stockledger/internal/core/domain/model/equipment"
	"stockledger/internal/core/domain/model/kernel"
	"stockledger/internal/core/domain/model/movement"
	"stockledger/internal/core/domain/model/unit"
	"stockledger/internal/pkg/errs"
)

// AdjustStockCommandHandler is the single mutation entry point of the ledger.
// For one stock event it appends the movement, applies the counter delta and,
// when a unit is referenced, performs the unit transition, all in one
// transaction. Either all three effects are committed or none is.
//
// Example:
//
//	handler := NewAdjustStockCommandHandler(uowFactory, kernel.SystemClock, stockMetrics)
//	err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, errs.ErrInvalidTransition):
//	    // unit is not in the required prior state
//	case errors.Is(err, errs.ErrInvariantViolation):
//	    // counters would leave their bounds
//	case errors.Is(err, errs.ErrPersistence):
//	    // safe to retry the identical request
//	}
type AdjustStockCommandHandler struct {
	uowFactory StockUoWFactory
	clock      kernel.Clock
	recorder   StockRecorder
}

// NewAdjustStockCommandHandler creates the handler. A nil clock uses the system
// clock and a nil recorder discards outcomes.
func NewAdjustStockCommandHandler(uowFactory StockUoWFactory, clock kernel.Clock, recorder StockRecorder) AdjustStockCommandHandler {
	if clock == nil {
		clock = kernel.SystemClock
	}
	return AdjustStockCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
		recorder:   recorderOrNop(recorder),
	}
}

// Handle runs the stock event. Any failure rolls the whole transaction back.
func (h AdjustStockCommandHandler) Handle(ctx context.Context, command AdjustStockCommand) error {
	err := h.handle(ctx, command)
	if err != nil {
		h.recorder.AdjustRejected(RejectionReason(err))
	}
	return err
}

func (h AdjustStockCommandHandler) handle(ctx context.Context, command AdjustStockCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	record, err := movement.NewMovement(
		kernel.NewUUID(),
		command.TenantID(),
		command.EquipmentID(),
		command.Type(),
		command.Quantity(),
		command.ActorID(),
		h.clock(),
		command.Details(),
	)
	if err != nil {
		return err
	}

	delta, err := equipment.DeltaForMovement(record)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return errs.NewPersistenceError("begin transaction", err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	var target *unit.Unit
	if unitID := record.UnitID(); unitID != nil {
		target, err = h.lockUnit(ctx, uow, command, *unitID)
		if err != nil {
			return err
		}
	}

	if _, err = uow.MovementRepository().Append(ctx, record); err != nil {
		return err
	}

	if _, err = uow.EquipmentRepository().ApplyDelta(ctx, command.TenantID(), command.EquipmentID(), delta); err != nil {
		return err
	}

	if target != nil {
		prior := target.Status()
		if _, err = target.Transition(record.Type()); err != nil {
			return err
		}
		if err = uow.UnitRepository().UpdateStatus(ctx, target, prior); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return errs.NewPersistenceError("commit transaction", err)
	}

	recordCommitted(h.recorder, uow.TrackedAggregates())
	return nil
}

// lockUnit loads the referenced unit for update and checks it is an instance
// of the command's equipment within the command's tenant.
func (h AdjustStockCommandHandler) lockUnit(
	ctx context.Context,
	uow StockUoW,
	command AdjustStockCommand,
	unitID kernel.UUID,
) (*unit.Unit, error) {
	target, err := uow.UnitRepository().GetForUpdate(ctx, command.TenantID(), unitID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, errs.NewValueIsInvalidErrorWithCause("unitId", err)
	}
	if err != nil {
		return nil, err
	}

	if !target.BelongsTo(command.EquipmentID(), command.TenantID()) {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"unitId",
			errors.New("unit "+unitID.String()+" is not an instance of equipment "+command.EquipmentID().String()),
		)
	}

	return target, nil
}
