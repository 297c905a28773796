// Package errs provides standardized error types for the stock ledger.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// Generic error types:
//   - ValueIsRequiredError: a required value is missing
//   - ValueIsInvalidError: a value is malformed or not allowed
//   - ValueIsOutOfRangeError: a value falls outside its permitted bounds
//   - ObjectNotFoundError: an object cannot be found
//   - ObjectAlreadyExistsError: an object with the same identity already exists
//
// Stock ledger taxonomy:
//   - ErrValidation: umbrella sentinel matched by every value error above
//   - InvalidMovementTypeError: a movement type outside the classification table
//   - InvalidTransitionError: a unit is not in the state a movement requires
//   - InvariantViolationError: counters would leave their permitted bounds
//   - PersistenceError: the underlying storage failed
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method for error wrapping/unwrapping support
package errs
