package unit

import (
	"fmt"

	"stockledger/internal/core/domain/model/movement"
	"stockledger/internal/pkg/errs"
)

// Status is the lifecycle state of a unit.
type Status string

const (
	Available   Status = "AVAILABLE"
	Rented      Status = "RENTED"
	Maintenance Status = "MAINTENANCE"
	Retired     Status = "RETIRED"
	Lost        Status = "LOST"
)

// AllStatuses returns every valid status.
func AllStatuses() []Status {
	return []Status{Available, Rented, Maintenance, Retired, Lost}
}

// ParseStatus converts a stored or external string into a Status.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if err := status.Validate(); err != nil {
		return "", err
	}
	return status, nil
}

// Validate checks that s is one of AllStatuses.
func (s Status) Validate() error {
	for _, known := range AllStatuses() {
		if s == known {
			return nil
		}
	}
	return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid unit status", string(s)))
}

func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == Retired || s == Lost
}

// Transition returns the status a unit in s moves to when a movement of type t
// references it. ok is false when s is not the required prior state for t, or
// when t never applies to a unit (acquisitions and corrections).
func (s Status) Transition(t movement.Type) (next Status, ok bool) {
	switch t {
	case movement.RentalOut:
		return Rented, s == Available
	case movement.RentalIn:
		return Available, s == Rented
	case movement.MaintenanceOut:
		return Maintenance, s == Available
	case movement.MaintenanceIn:
		return Available, s == Maintenance
	case movement.Retirement:
		return Retired, s.Validate() == nil && !s.IsTerminal()
	case movement.Loss:
		return Lost, s.Validate() == nil && !s.IsTerminal()
	case movement.Purchase, movement.InitialBalance, movement.Correction:
		return s, false
	}
	return s, false
}

// StatusAfter returns the status implied by the most recent movement of type t
// that references a unit. Acquisitions imply AVAILABLE since they register the
// unit. ok is false for types that never reference a unit.
func StatusAfter(t movement.Type) (status Status, ok bool) {
	switch t {
	case movement.Purchase, movement.InitialBalance, movement.RentalIn, movement.MaintenanceIn:
		return Available, true
	case movement.RentalOut:
		return Rented, true
	case movement.MaintenanceOut:
		return Maintenance, true
	case movement.Retirement:
		return Retired, true
	case movement.Loss:
		return Lost, true
	case movement.Correction:
		return "", false
	}
	return "", false
}
