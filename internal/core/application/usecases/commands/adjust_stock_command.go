package commands

import (
	"errors"
	"strings"

	"stockledger/internal/core/domain/model/kernel"
	"stockledger/internal/core/domain/model/movement"
	"stockledger/internal/pkg/errs"
	"stockledger/internal/pkg/guard"
)

var ErrAdjustStockCommandIsNotConstructed = errors.New(
	"AdjustStockCommand must be created via NewAdjustStockCommand constructor",
)

// AdjustStockCommand requests one stock event: a single ledger record together
// with its counter effect and, when a unit is referenced, its status transition.
//
// Example:
//
//	cmd, err := NewAdjustStockCommand(tenantID, equipmentID, movement.RentalOut, 1, "clerk-7",
//	    movement.Details{UnitID: &unitID, LinkedRentalID: "R-1042"})
//	if err != nil {
//	    return err
//	}
//	err = handler.Handle(ctx, cmd)
type AdjustStockCommand struct {
	tenantID     kernel.UUID
	equipmentID  kernel.UUID
	movementType movement.Type
	quantity     int
	actorID      string
	details      movement.Details

	guard guard.ConstructorGuard
}

// NewAdjustStockCommand validates the required fields of a stock event.
//
// Returns:
//   - InvalidMovementTypeError when movementType is unknown
//   - validation errors for missing tenant, equipment, actor or a zero quantity
func NewAdjustStockCommand(
	tenantID kernel.UUID,
	equipmentID kernel.UUID,
	movementType movement.Type,
	quantity int,
	actorID string,
	details movement.Details,
) (AdjustStockCommand, error) {
	if err := movementType.Validate(); err != nil {
		return AdjustStockCommand{}, err
	}

	var validationErrs []error
	if err := tenantID.Validate(); err != nil {
		validationErrs = append(validationErrs, errs.NewValueIsRequiredErrorWithCause("tenantId", err))
	}
	if err := equipmentID.Validate(); err != nil {
		validationErrs = append(validationErrs, errs.NewValueIsRequiredErrorWithCause("equipmentId", err))
	}
	if quantity == 0 {
		validationErrs = append(validationErrs, errs.NewValueIsRequiredError("quantity"))
	}
	if strings.TrimSpace(actorID) == "" {
		validationErrs = append(validationErrs, errs.NewValueIsRequiredError("actorId"))
	}
	if details.UnitID != nil {
		if err := details.UnitID.Validate(); err != nil {
			validationErrs = append(validationErrs, errs.NewValueIsInvalidErrorWithCause("unitId", err))
		}
	}
	if err := errors.Join(validationErrs...); err != nil {
		return AdjustStockCommand{}, err
	}

	return AdjustStockCommand{
		tenantID:     tenantID,
		equipmentID:  equipmentID,
		movementType: movementType,
		quantity:     quantity,
		actorID:      actorID,
		details:      details,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c AdjustStockCommand) Validate() error {
	return c.guard.Validate(ErrAdjustStockCommandIsNotConstructed)
}

func (c AdjustStockCommand) TenantID() kernel.UUID {
	return c.tenantID
}

func (c AdjustStockCommand) EquipmentID() kernel.UUID {
	return c.equipmentID
}

func (c AdjustStockCommand) Type() movement.Type {
	return c.movementType
}

func (c AdjustStockCommand) Quantity() int {
	return c.quantity
}

func (c AdjustStockCommand) ActorID() string {
	return c.actorID
}

// UnitID returns the referenced unit, nil for aggregate-only movements.
func (c AdjustStockCommand) UnitID() *kernel.UUID {
	return c.details.UnitID
}

func (c AdjustStockCommand) Details() movement.Details {
	return c.details
}
