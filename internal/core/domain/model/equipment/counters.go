package equipment

import (
	"math"

	"stockledger/internal/core/domain/model/movement"
	"stockledger/internal/pkg/errs"
)

// CounterDelta is the change a single movement makes to the equipment counters.
type CounterDelta struct {
	Total  int
	Rented int
}

// IsZero reports whether the delta leaves both counters unchanged.
func (d CounterDelta) IsZero() bool {
	return d.Total == 0 && d.Rented == 0
}

// Add returns the sum of two deltas.
func (d CounterDelta) Add(other CounterDelta) CounterDelta {
	return CounterDelta{Total: d.Total + other.Total, Rented: d.Rented + other.Rented}
}

// DeltaFor classifies a movement into its counter effect:
//
//	PURCHASE, INITIAL_BALANCE, CORRECTION  totalQty += quantity
//	RETIREMENT, LOSS                       totalQty += quantity (negative)
//	RENTAL_OUT                             rentedQty += |quantity|
//	RENTAL_IN                              rentedQty -= |quantity|
//	MAINTENANCE_OUT, MAINTENANCE_IN        no change
//
// Any other type fails with InvalidMovementTypeError.
func DeltaFor(t movement.Type, quantity int) (CounterDelta, error) {
	switch t {
	case movement.Purchase, movement.InitialBalance, movement.Correction:
		return CounterDelta{Total: quantity}, nil
	case movement.Retirement, movement.Loss:
		return CounterDelta{Total: quantity}, nil
	case movement.RentalOut:
		return CounterDelta{Rented: abs(quantity)}, nil
	case movement.RentalIn:
		return CounterDelta{Rented: -abs(quantity)}, nil
	case movement.MaintenanceOut, movement.MaintenanceIn:
		return CounterDelta{}, nil
	default:
		return CounterDelta{}, errs.NewInvalidMovementTypeError(string(t))
	}
}

// DeltaForMovement is DeltaFor applied to a ledger entry.
func DeltaForMovement(m *movement.Movement) (CounterDelta, error) {
	return DeltaFor(m.Type(), m.Quantity())
}

// MaxQty is the largest value a counter column holds.
const MaxQty = math.MaxInt32

// CheckBounds reports an InvariantViolationError when the counters leave
// 0 <= rentedQty <= totalQty <= MaxQty.
func CheckBounds(equipmentID string, totalQty int, rentedQty int) error {
	switch {
	case totalQty > MaxQty:
		return errs.NewInvariantViolationError(equipmentID, totalQty, rentedQty, "totalQty above maximum")
	case totalQty < 0:
		return errs.NewInvariantViolationError(equipmentID, totalQty, rentedQty, "totalQty below zero")
	case rentedQty < 0:
		return errs.NewInvariantViolationError(equipmentID, totalQty, rentedQty, "rentedQty below zero")
	case rentedQty > totalQty:
		return errs.NewInvariantViolationError(equipmentID, totalQty, rentedQty, "rentedQty above totalQty")
	}
	return nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
