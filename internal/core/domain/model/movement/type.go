package movement

import (
	"stockledger/internal/pkg/errs"
)

// Type identifies what kind of stock event a movement records.
//
// The set is closed. Code that branches on Type must handle every value
// returned by AllTypes and fail with an InvalidMovementTypeError otherwise.
type Type string

const (
	// Purchase adds newly bought stock.
	Purchase Type = "PURCHASE"

	// InitialBalance records stock that existed before the ledger was started.
	InitialBalance Type = "INITIAL_BALANCE"

	// Retirement removes stock that reached the end of its life.
	Retirement Type = "RETIREMENT"

	// Loss removes stock that went missing.
	Loss Type = "LOSS"

	// RentalOut checks a unit out to a customer.
	RentalOut Type = "RENTAL_OUT"

	// RentalIn returns a rented unit.
	RentalIn Type = "RENTAL_IN"

	// MaintenanceOut sends a unit to maintenance.
	MaintenanceOut Type = "MAINTENANCE_OUT"

	// MaintenanceIn releases a unit from maintenance.
	MaintenanceIn Type = "MAINTENANCE_IN"

	// Correction is a manual signed adjustment of the total quantity.
	Correction Type = "CORRECTION"
)

// AllTypes returns every valid movement type in declaration order.
func AllTypes() []Type {
	return []Type{
		Purchase,
		InitialBalance,
		Retirement,
		Loss,
		RentalOut,
		RentalIn,
		MaintenanceOut,
		MaintenanceIn,
		Correction,
	}
}

// ParseType converts an external string into a Type.
//
// Returns:
//   - the Type if s names one of AllTypes
//   - InvalidMovementTypeError otherwise
func ParseType(s string) (Type, error) {
	t := Type(s)
	if err := t.Validate(); err != nil {
		return "", err
	}
	return t, nil
}

// Validate reports whether t is one of AllTypes.
func (t Type) Validate() error {
	for _, known := range AllTypes() {
		if t == known {
			return nil
		}
	}
	return errs.NewInvalidMovementTypeError(string(t))
}

// String returns the wire name of the type.
func (t Type) String() string {
	return string(t)
}

// IsAcquisition reports whether t brings new stock into the catalog.
func (t Type) IsAcquisition() bool {
	return t == Purchase || t == InitialBalance
}

// IsDisposal reports whether t permanently removes stock.
func (t Type) IsDisposal() bool {
	return t == Retirement || t == Loss
}

// IsUnitLevel reports whether t always moves a single physical unit.
func (t Type) IsUnitLevel() bool {
	switch t {
	case RentalOut, RentalIn, MaintenanceOut, MaintenanceIn:
		return true
	case Purchase, InitialBalance, Retirement, Loss, Correction:
		return false
	}
	return false
}
