package commands

import (
	"errors"

	"stockledger/internal/core/domain/model/movement"
	"stockledger/internal/core/ports"
	"stockledger/internal/pkg/errs"
)

// StockRecorder receives the outcome of stock commands, typically to export metrics.
type StockRecorder interface {
	// MovementCommitted is called once per ledger record after its transaction commits.
	MovementCommitted(movementType string)

	// AdjustRejected is called when a stock adjustment fails.
	AdjustRejected(reason string)
}

type nopRecorder struct{}

func (nopRecorder) MovementCommitted(string) {}

func (nopRecorder) AdjustRejected(string) {}

func recorderOrNop(recorder StockRecorder) StockRecorder {
	if recorder == nil {
		return nopRecorder{}
	}
	return recorder
}

func recordCommitted(recorder StockRecorder, tracked []ports.TrackedAggregate) {
	for _, t := range tracked {
		if m, ok := t.Aggregate.(*movement.Movement); ok {
			recorder.MovementCommitted(m.Type().String())
		}
	}
}

// RejectionReason classifies a command error into a short label.
func RejectionReason(err error) string {
	switch {
	case errors.Is(err, errs.ErrInvalidMovementType):
		return "invalid_movement_type"
	case errors.Is(err, errs.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, errs.ErrInvariantViolation):
		return "invariant_violation"
	case errors.Is(err, errs.ErrObjectNotFound):
		return "not_found"
	case errors.Is(err, errs.ErrValidation):
		return "validation"
	case errors.Is(err, errs.ErrPersistence):
		return "persistence"
	default:
		return "unknown"
	}
}
