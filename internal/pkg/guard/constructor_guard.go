// Package guard provides ConstructorGuard, a marker embedded in commands, queries
// and entities so that zero values built outside their constructors are rejected.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when the caller passes a nil
// error and the guarded value was not built by its constructor.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard records whether a value went through its constructor.
//
// Example:
//
//	var ErrAdjustStockCommandIsNotConstructed = errors.New("AdjustStockCommand must be created via NewAdjustStockCommand")
//
//	type AdjustStockCommand struct {
//	    quantity int
//	    guard    guard.ConstructorGuard
//	}
//
//	func (c AdjustStockCommand) Validate() error {
//	    return c.guard.Validate(ErrAdjustStockCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard marked as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil)
// if the guard is a zero value, nil otherwise.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
