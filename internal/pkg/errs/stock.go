package errs

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidMovementType = errors.New("invalid movement type")
	ErrInvalidTransition   = errors.New("invalid unit transition")
	ErrInvariantViolation  = errors.New("stock invariant violation")
	ErrPersistence         = errors.New("persistence failure")
)

// InvalidMovementTypeError is raised for a movement type outside the counter
// classification table. It always aborts the surrounding transaction.
type InvalidMovementTypeError struct {
	Type string
}

func NewInvalidMovementTypeError(movementType string) *InvalidMovementTypeError {
	return &InvalidMovementTypeError{Type: movementType}
}

func (e *InvalidMovementTypeError) Error() string {
	return fmt.Sprintf("%s: %q", ErrInvalidMovementType, e.Type)
}

func (e *InvalidMovementTypeError) Unwrap() error {
	return ErrInvalidMovementType
}

// InvalidTransitionError is raised when a unit is not in the status the
// movement requires.
type InvalidTransitionError struct {
	UnitID       string
	From         string
	MovementType string
}

func NewInvalidTransitionError(unitID string, from string, movementType string) *InvalidTransitionError {
	return &InvalidTransitionError{UnitID: unitID, From: from, MovementType: movementType}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: unit %s in status %s cannot take %s", ErrInvalidTransition, e.UnitID, e.From, e.MovementType)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// InvariantViolationError is raised when applying a counter delta would leave
// 0 <= rentedQty <= totalQty.
type InvariantViolationError struct {
	EquipmentID string
	TotalQty    int
	RentedQty   int
	Reason      string
}

func NewInvariantViolationError(equipmentID string, totalQty int, rentedQty int, reason string) *InvariantViolationError {
	return &InvariantViolationError{EquipmentID: equipmentID, TotalQty: totalQty, RentedQty: rentedQty, Reason: reason}
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("%s: equipment %s: %s (totalQty=%d, rentedQty=%d)",
		ErrInvariantViolation, e.EquipmentID, e.Reason, e.TotalQty, e.RentedQty)
}

func (e *InvariantViolationError) Unwrap() error {
	return ErrInvariantViolation
}

// PersistenceError wraps a storage failure. Nothing from the failed unit of
// work is committed, so the identical request may be retried.
type PersistenceError struct {
	Operation string
	Cause     error
}

func NewPersistenceError(operation string, cause error) *PersistenceError {
	return &PersistenceError{Operation: operation, Cause: cause}
}

func (e *PersistenceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrPersistence, e.Operation, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrPersistence, e.Operation)
}

// Unwrap exposes both the sentinel and the driver error so callers can match
// either, e.g. context.DeadlineExceeded.
func (e *PersistenceError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrPersistence}
	}
	return []error{ErrPersistence, e.Cause}
}
