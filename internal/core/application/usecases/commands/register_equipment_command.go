package commands

import (
	"errors"
	"strings"

	"stockledger/internal/core/domain/model/kernel"
	"stockledger/internal/pkg/errs"
	"stockledger/internal/pkg/guard"
)

var ErrRegisterEquipmentCommandIsNotConstructed = errors.New(
	"RegisterEquipmentCommand must be created via NewRegisterEquipmentCommand constructor",
)

// RegisterEquipmentCommand creates an empty catalog entry for a tenant.
type RegisterEquipmentCommand struct {
	tenantID kernel.UUID
	name     string

	guard guard.ConstructorGuard
}

// NewRegisterEquipmentCommand validates the catalog entry request.
func NewRegisterEquipmentCommand(tenantID kernel.UUID, name string) (RegisterEquipmentCommand, error) {
	var validationErrs []error
	if err := tenantID.Validate(); err != nil {
		validationErrs = append(validationErrs, errs.NewValueIsRequiredErrorWithCause("tenantId", err))
	}
	if strings.TrimSpace(name) == "" {
		validationErrs = append(validationErrs, errs.NewValueIsRequiredError("name"))
	}
	if err := errors.Join(validationErrs...); err != nil {
		return RegisterEquipmentCommand{}, err
	}

	return RegisterEquipmentCommand{
		tenantID: tenantID,
		name:     name,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c RegisterEquipmentCommand) Validate() error {
	return c.guard.Validate(ErrRegisterEquipmentCommandIsNotConstructed)
}

func (c RegisterEquipmentCommand) TenantID() kernel.UUID {
	return c.tenantID
}

func (c RegisterEquipmentCommand) Name() string {
	return c.name
}
