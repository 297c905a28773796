package commands

import (
	"errors"
	"strings"

	"stockledger/internal/core/domain/model/kernel"
	"stockledger/internal/core/domain/model/movement"
	"stockledger/internal/core/domain/model/unit"
	"stockledger/internal/pkg/errs"
	"stockledger/internal/pkg/guard"
)

var ErrCreateUnitCommandIsNotConstructed = errors.New(
	"CreateUnitCommand must be created via NewCreateUnitCommand constructor",
)

// DefaultActorID is recorded on movements whose caller did not identify itself.
const DefaultActorID = "system"

// CreateUnitCommand registers one physical unit of an equipment. When code is
// empty the next code under prefix is generated. An empty prefix means the
// handler's default prefix.
type CreateUnitCommand struct {
	tenantID       kernel.UUID
	equipmentID    kernel.UUID
	code           string
	prefix         string
	actorID        string
	initialBalance bool
	attributes     unit.Attributes

	guard guard.ConstructorGuard
}

// NewCreateUnitCommand validates a registration request.
//
// Parameters:
//   - tenantID, equipmentID: the owning catalog entry
//   - code: explicit unit code, empty to generate one
//   - prefix: namespace for generated codes, empty for the default
//   - actorID: who registers the unit, empty for DefaultActorID
//   - initialBalance: record the acquisition as INITIAL_BALANCE instead of PURCHASE
//   - attributes: serial number, notes and condition
func NewCreateUnitCommand(
	tenantID kernel.UUID,
	equipmentID kernel.UUID,
	code string,
	prefix string,
	actorID string,
	initialBalance bool,
	attributes unit.Attributes,
) (CreateUnitCommand, error) {
	code = strings.TrimSpace(code)
	prefix = strings.TrimSpace(prefix)
	if strings.TrimSpace(actorID) == "" {
		actorID = DefaultActorID
	}

	var validationErrs []error
	if err := tenantID.Validate(); err != nil {
		validationErrs = append(validationErrs, errs.NewValueIsRequiredErrorWithCause("tenantId", err))
	}
	if err := equipmentID.Validate(); err != nil {
		validationErrs = append(validationErrs, errs.NewValueIsRequiredErrorWithCause("equipmentId", err))
	}
	if code != "" {
		validationErrs = append(validationErrs, unit.ValidateCode(code))
	}
	if prefix != "" {
		validationErrs = append(validationErrs, unit.ValidatePrefix(prefix))
	}
	if err := errors.Join(validationErrs...); err != nil {
		return CreateUnitCommand{}, err
	}

	return CreateUnitCommand{
		tenantID:       tenantID,
		equipmentID:    equipmentID,
		code:           code,
		prefix:         prefix,
		actorID:        actorID,
		initialBalance: initialBalance,
		attributes:     attributes,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateUnitCommand) Validate() error {
	return c.guard.Validate(ErrCreateUnitCommandIsNotConstructed)
}

func (c CreateUnitCommand) TenantID() kernel.UUID {
	return c.tenantID
}

func (c CreateUnitCommand) EquipmentID() kernel.UUID {
	return c.equipmentID
}

// Code returns the explicit code, empty when one must be generated.
func (c CreateUnitCommand) Code() string {
	return c.code
}

func (c CreateUnitCommand) Prefix() string {
	return c.prefix
}

func (c CreateUnitCommand) ActorID() string {
	return c.actorID
}

func (c CreateUnitCommand) Attributes() unit.Attributes {
	return c.attributes
}

// AcquisitionType is the movement recorded for the new unit.
func (c CreateUnitCommand) AcquisitionType() movement.Type {
	if c.initialBalance {
		return movement.InitialBalance
	}
	return movement.Purchase
}
