package movement

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"stockledger/internal/core/domain/model/kernel"
	"stockledger/internal/pkg/errs"
)

// ErrMovementIsNotConstructed is returned when a Movement was not created through
// NewMovement or RestoreMovement.
var ErrMovementIsNotConstructed = errors.New("Movement must be created via NewMovement constructor")

const (
	maxActorIDLength = 255
	maxReasonLength  = 1024
)

// Details holds the optional attributes of a movement.
type Details struct {
	// UnitID references the physical unit the movement applies to, if any.
	UnitID *kernel.UUID

	// Reason is free text explaining the movement.
	Reason string

	// LinkedRentalID is the identifier of the rental that caused the movement.
	LinkedRentalID string

	// LinkedMaintenanceID is the identifier of the maintenance job that caused the movement.
	LinkedMaintenanceID string
}

// Movement is a single immutable entry of the stock ledger.
//
// Movement follows these invariants:
//   - ID, tenant and equipment are valid identifiers
//   - Type is one of AllTypes
//   - Quantity is non-zero and its sign and magnitude agree with Type
//   - ActorID is present
//   - OccurredAt is set
//
// A Movement exposes no mutating methods. It is written once by the ledger and
// read back unchanged.
type Movement struct {
	id                  kernel.UUID
	tenantID            kernel.UUID
	equipmentID         kernel.UUID
	unitID              *kernel.UUID
	movementType        Type
	quantity            int
	reason              string
	actorID             string
	linkedRentalID      string
	linkedMaintenanceID string
	occurredAt          time.Time

	isConstructed bool
}

// NewMovement creates a validated ledger entry.
//
// Parameters:
//   - id: identifier of the new movement
//   - tenantID, equipmentID: scope of the movement
//   - movementType: one of AllTypes
//   - quantity: signed quantity, see the package rules
//   - actorID: who triggered the movement
//   - occurredAt: when the movement happened
//   - details: optional unit reference, reason and links
//
// Returns:
//   - *Movement if every rule holds
//   - InvalidMovementTypeError if movementType is unknown
//   - validation errors joined with errors.Join for every other broken rule
//
// Example:
//
//	m, err := movement.NewMovement(
//	    kernel.NewUUID(), tenantID, equipmentID,
//	    movement.RentalOut, 1, "clerk-7", time.Now().UTC(),
//	    movement.Details{UnitID: &unitID, LinkedRentalID: "R-1042"},
//	)
func NewMovement(
	id kernel.UUID,
	tenantID kernel.UUID,
	equipmentID kernel.UUID,
	movementType Type,
	quantity int,
	actorID string,
	occurredAt time.Time,
	details Details,
) (*Movement, error) {
	if err := movementType.Validate(); err != nil {
		return nil, err
	}

	m := &Movement{
		movementType:        movementType,
		reason:              details.Reason,
		linkedRentalID:      details.LinkedRentalID,
		linkedMaintenanceID: details.LinkedMaintenanceID,
		isConstructed:       true,
	}

	if err := errors.Join(
		m.setID(id),
		m.setScope(tenantID, equipmentID),
		m.setUnitID(details.UnitID),
		m.setQuantity(quantity),
		m.setActorID(actorID),
		m.setOccurredAt(occurredAt),
		validateLength("reason", details.Reason, maxReasonLength),
		validateLength("linkedRentalId", details.LinkedRentalID, maxActorIDLength),
		validateLength("linkedMaintenanceId", details.LinkedMaintenanceID, maxActorIDLength),
	); err != nil {
		return nil, err
	}

	return m, nil
}

// RestoreMovement rebuilds a movement read from storage. The same rules as
// NewMovement apply so corrupted rows are reported instead of loaded.
func RestoreMovement(
	id kernel.UUID,
	tenantID kernel.UUID,
	equipmentID kernel.UUID,
	movementType Type,
	quantity int,
	actorID string,
	occurredAt time.Time,
	details Details,
) (*Movement, error) {
	return NewMovement(id, tenantID, equipmentID, movementType, quantity, actorID, occurredAt, details)
}

// Validate ensures the Movement was built through a constructor.
func (m *Movement) Validate() error {
	if m == nil || !m.isConstructed {
		return ErrMovementIsNotConstructed
	}
	return nil
}

// IsEqual compares two movements by identifier.
func (m *Movement) IsEqual(other *Movement) bool {
	return other != nil && m.id.IsEqual(other.id)
}

// ID returns the movement identifier.
func (m *Movement) ID() kernel.UUID {
	return m.id
}

// TenantID returns the owning tenant.
func (m *Movement) TenantID() kernel.UUID {
	return m.tenantID
}

// EquipmentID returns the equipment the movement applies to.
func (m *Movement) EquipmentID() kernel.UUID {
	return m.equipmentID
}

// UnitID returns the referenced unit or nil when the movement is aggregate-only.
func (m *Movement) UnitID() *kernel.UUID {
	if m.unitID == nil {
		return nil
	}
	id := *m.unitID
	return &id
}

// Type returns the movement type.
func (m *Movement) Type() Type {
	return m.movementType
}

// Quantity returns the signed quantity.
func (m *Movement) Quantity() int {
	return m.quantity
}

// Magnitude returns the absolute quantity.
func (m *Movement) Magnitude() int {
	if m.quantity < 0 {
		return -m.quantity
	}
	return m.quantity
}

// Reason returns the free-text reason, possibly empty.
func (m *Movement) Reason() string {
	return m.reason
}

// ActorID returns who triggered the movement.
func (m *Movement) ActorID() string {
	return m.actorID
}

// LinkedRentalID returns the rental reference, possibly empty.
func (m *Movement) LinkedRentalID() string {
	return m.linkedRentalID
}

// LinkedMaintenanceID returns the maintenance reference, possibly empty.
func (m *Movement) LinkedMaintenanceID() string {
	return m.linkedMaintenanceID
}

// OccurredAt returns the movement timestamp.
func (m *Movement) OccurredAt() time.Time {
	return m.occurredAt
}

func (m *Movement) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	m.id = id
	return nil
}

func (m *Movement) setScope(tenantID kernel.UUID, equipmentID kernel.UUID) error {
	if err := tenantID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("tenantId", err)
	}
	if err := equipmentID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("equipmentId", err)
	}
	m.tenantID = tenantID
	m.equipmentID = equipmentID
	return nil
}

func (m *Movement) setUnitID(unitID *kernel.UUID) error {
	if unitID == nil {
		return nil
	}
	if err := unitID.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("unitId", err)
	}
	if m.movementType == Correction {
		return errs.NewValueIsInvalidErrorWithCause(
			"unitId",
			fmt.Errorf("%s movements cannot reference a unit", Correction),
		)
	}
	id := *unitID
	m.unitID = &id
	return nil
}

// setQuantity must run after setUnitID because disposals of a single unit are
// restricted to exactly one.
func (m *Movement) setQuantity(quantity int) error {
	if quantity == 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity", errors.New("quantity must not be zero"))
	}
	// Counters are stored as 32-bit integers.
	if quantity > math.MaxInt32 || quantity < -math.MaxInt32 {
		return errs.NewValueIsOutOfRangeError("quantity", quantity, -math.MaxInt32, math.MaxInt32)
	}

	switch {
	case m.movementType.IsAcquisition() && quantity < 0:
		return errs.NewValueIsInvalidErrorWithCause(
			"quantity",
			fmt.Errorf("%s requires a positive quantity, got %d", m.movementType, quantity),
		)
	case m.movementType.IsDisposal() && quantity > 0:
		return errs.NewValueIsInvalidErrorWithCause(
			"quantity",
			fmt.Errorf("%s requires a negative quantity, got %d", m.movementType, quantity),
		)
	case m.movementType.IsDisposal() && m.unitID != nil && quantity != -1:
		return errs.NewValueIsOutOfRangeError("quantity", quantity, -1, -1)
	case m.movementType.IsUnitLevel() && quantity != 1 && quantity != -1:
		return errs.NewValueIsOutOfRangeError("quantity", quantity, -1, 1)
	}

	m.quantity = quantity
	return nil
}

func (m *Movement) setActorID(actorID string) error {
	if strings.TrimSpace(actorID) == "" {
		return errs.NewValueIsRequiredError("actorId")
	}
	if err := validateLength("actorId", actorID, maxActorIDLength); err != nil {
		return err
	}
	m.actorID = actorID
	return nil
}

func (m *Movement) setOccurredAt(occurredAt time.Time) error {
	if occurredAt.IsZero() {
		return errs.NewValueIsRequiredError("occurredAt")
	}
	m.occurredAt = occurredAt
	return nil
}

func validateLength(paramName string, value string, maxLength int) error {
	if len(value) > maxLength {
		return errs.NewValueIsOutOfRangeError(paramName+" length", len(value), 0, maxLength)
	}
	return nil
}
