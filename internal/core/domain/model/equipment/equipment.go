package equipment

import (
	"errors"
	"strings"

	"stockledger/internal/core/domain/model/kernel"
	"stockledger/internal/pkg/errs"
)

// ErrEquipmentIsNotConstructed is returned when an Equipment was not created through
// NewEquipment or RestoreEquipment.
var ErrEquipmentIsNotConstructed = errors.New("Equipment must be created via NewEquipment constructor")

const maxNameLength = 255

// Equipment is a catalog entry tracked in aggregate quantities.
//
// Equipment follows these invariants:
//   - Must have valid equipment and tenant identifiers
//   - Name is non-empty
//   - 0 <= rentedQty <= totalQty
type Equipment struct {
	id        kernel.UUID
	tenantID  kernel.UUID
	name      string
	totalQty  int
	rentedQty int

	isConstructed bool
}

// NewEquipment creates an empty catalog entry with both counters at zero.
//
// Example:
//
//	e, err := equipment.NewEquipment(kernel.NewUUID(), tenantID, "Scaffold tower 4m")
func NewEquipment(id kernel.UUID, tenantID kernel.UUID, name string) (*Equipment, error) {
	e := &Equipment{isConstructed: true}

	if err := errors.Join(
		e.setID(id, tenantID),
		e.setName(name),
	); err != nil {
		return nil, err
	}

	return e, nil
}

// RestoreEquipment rebuilds an Equipment from storage, including its counters.
// Counters outside their bounds are reported as an InvariantViolationError.
func RestoreEquipment(id kernel.UUID, tenantID kernel.UUID, name string, totalQty int, rentedQty int) (*Equipment, error) {
	e, err := NewEquipment(id, tenantID, name)
	if err != nil {
		return nil, err
	}

	if err = CheckBounds(id.String(), totalQty, rentedQty); err != nil {
		return nil, err
	}

	e.totalQty = totalQty
	e.rentedQty = rentedQty
	return e, nil
}

// Validate ensures the Equipment was built through a constructor.
func (e *Equipment) Validate() error {
	if e == nil || !e.isConstructed {
		return ErrEquipmentIsNotConstructed
	}
	return nil
}

// IsEqual compares two equipment entries by identifier.
func (e *Equipment) IsEqual(other *Equipment) bool {
	return other != nil && e.id.IsEqual(other.id)
}

func (e *Equipment) ID() kernel.UUID {
	return e.id
}

func (e *Equipment) TenantID() kernel.UUID {
	return e.tenantID
}

func (e *Equipment) Name() string {
	return e.name
}

func (e *Equipment) TotalQty() int {
	return e.totalQty
}

func (e *Equipment) RentedQty() int {
	return e.rentedQty
}

// AvailableQty is the number of owned units not currently rented out.
func (e *Equipment) AvailableQty() int {
	return e.totalQty - e.rentedQty
}

// Apply adds delta to the counters. When the result would break the bounds the
// counters stay as they were and an InvariantViolationError is returned.
//
// Persistence applies the same delta atomically in storage. Apply keeps the
// in-memory aggregate in step with it.
func (e *Equipment) Apply(delta CounterDelta) error {
	total := e.totalQty + delta.Total
	rented := e.rentedQty + delta.Rented

	if err := CheckBounds(e.id.String(), total, rented); err != nil {
		return err
	}

	e.totalQty = total
	e.rentedQty = rented
	return nil
}

// BelongsTo reports whether the equipment is owned by tenantID.
func (e *Equipment) BelongsTo(tenantID kernel.UUID) bool {
	return e.tenantID.IsEqual(tenantID)
}

func (e *Equipment) setID(id kernel.UUID, tenantID kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	if err := tenantID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("tenantId", err)
	}
	e.id = id
	e.tenantID = tenantID
	return nil
}

func (e *Equipment) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	if len(name) > maxNameLength {
		return errs.NewValueIsOutOfRangeError("name length", len(name), 1, maxNameLength)
	}
	e.name = name
	return nil
}
