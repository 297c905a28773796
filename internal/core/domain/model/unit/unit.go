package unit

import (
	"errors"
	"strings"

	"stockledger/internal/core/domain/model/kernel"
	"stockledger/internal/core/domain/model/movement"
	"stockledger/internal/pkg/errs"
)

// ErrUnitIsNotConstructed is returned when a Unit was not created through NewUnit or RestoreUnit.
var ErrUnitIsNotConstructed = errors.New("Unit must be created via NewUnit constructor")

const maxTextLength = 1024

// Attributes holds the optional descriptive fields of a unit.
type Attributes struct {
	SerialNumber string
	Notes        string
	Condition    string
}

// Unit is one physical instance of an equipment class.
//
// Unit follows these invariants:
//   - Identifiers for unit, tenant and equipment are valid
//   - Code is present and unique per tenant (enforced by storage)
//   - Status only changes through Transition
type Unit struct {
	id          kernel.UUID
	tenantID    kernel.UUID
	equipmentID kernel.UUID
	code        string
	attributes  Attributes
	status      Status

	isConstructed bool
}

// NewUnit registers a unit in the AVAILABLE state.
func NewUnit(id kernel.UUID, tenantID kernel.UUID, equipmentID kernel.UUID, code string, attributes Attributes) (*Unit, error) {
	u := &Unit{
		status:        Available,
		isConstructed: true,
	}

	if err := errors.Join(
		u.setIDs(id, tenantID, equipmentID),
		u.setCode(code),
		u.setAttributes(attributes),
	); err != nil {
		return nil, err
	}

	return u, nil
}

// RestoreUnit rebuilds a unit from storage with its persisted status.
func RestoreUnit(
	id kernel.UUID,
	tenantID kernel.UUID,
	equipmentID kernel.UUID,
	code string,
	attributes Attributes,
	status Status,
) (*Unit, error) {
	u, err := NewUnit(id, tenantID, equipmentID, code, attributes)
	if err != nil {
		return nil, err
	}
	if err = status.Validate(); err != nil {
		return nil, err
	}
	u.status = status
	return u, nil
}

// Validate ensures the Unit was built through a constructor.
func (u *Unit) Validate() error {
	if u == nil || !u.isConstructed {
		return ErrUnitIsNotConstructed
	}
	return nil
}

// IsEqual compares two units by identifier.
func (u *Unit) IsEqual(other *Unit) bool {
	return other != nil && u.id.IsEqual(other.id)
}

func (u *Unit) ID() kernel.UUID {
	return u.id
}

func (u *Unit) TenantID() kernel.UUID {
	return u.tenantID
}

func (u *Unit) EquipmentID() kernel.UUID {
	return u.equipmentID
}

func (u *Unit) Code() string {
	return u.code
}

func (u *Unit) SerialNumber() string {
	return u.attributes.SerialNumber
}

func (u *Unit) Notes() string {
	return u.attributes.Notes
}

func (u *Unit) Condition() string {
	return u.attributes.Condition
}

func (u *Unit) Status() Status {
	return u.status
}

// BelongsTo reports whether the unit is an instance of equipmentID owned by tenantID.
func (u *Unit) BelongsTo(equipmentID kernel.UUID, tenantID kernel.UUID) bool {
	return u.equipmentID.IsEqual(equipmentID) && u.tenantID.IsEqual(tenantID)
}

// Transition moves the unit to the state required by movement type t.
//
// Returns:
//   - the new status on success
//   - InvalidMovementTypeError if t is unknown
//   - InvalidTransitionError if the current status is not the required prior state
func (u *Unit) Transition(t movement.Type) (Status, error) {
	if err := t.Validate(); err != nil {
		return u.status, err
	}

	next, ok := u.status.Transition(t)
	if !ok {
		return u.status, errs.NewInvalidTransitionError(u.id.String(), u.status.String(), t.String())
	}

	u.status = next
	return next, nil
}

func (u *Unit) setIDs(id kernel.UUID, tenantID kernel.UUID, equipmentID kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	if err := tenantID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("tenantId", err)
	}
	if err := equipmentID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("equipmentId", err)
	}
	u.id = id
	u.tenantID = tenantID
	u.equipmentID = equipmentID
	return nil
}

func (u *Unit) setCode(code string) error {
	code = strings.TrimSpace(code)
	if err := ValidateCode(code); err != nil {
		return err
	}
	u.code = code
	return nil
}

func (u *Unit) setAttributes(attributes Attributes) error {
	for name, value := range map[string]string{
		"serialNumber": attributes.SerialNumber,
		"notes":        attributes.Notes,
		"condition":    attributes.Condition,
	} {
		if len(value) > maxTextLength {
			return errs.NewValueIsOutOfRangeError(name+" length", len(value), 0, maxTextLength)
		}
	}
	u.attributes = attributes
	return nil
}
