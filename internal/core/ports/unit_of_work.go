package ports

import (
	"context"

	"stockledger/internal/core/domain/model/kernel"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
// This ensures proper isolation between concurrent operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// TrackedAggregate is an aggregate written during a unit of work.
type TrackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// UnitOfWork represents a business transaction boundary.
// It provides transaction control and tracks aggregate changes.
// Client code must explicitly manage transaction lifecycle.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction.
	// Returns error if no active transaction or rollback fails.
	Rollback(ctx context.Context) error

	// EquipmentRepository returns a repository bound to the current transaction.
	EquipmentRepository() EquipmentRepository

	// UnitRepository returns a repository bound to the current transaction.
	UnitRepository() UnitRepository

	// MovementRepository returns a ledger bound to the current transaction.
	MovementRepository() MovementRepository

	// TrackedAggregates returns the aggregates written since Begin.
	TrackedAggregates() []TrackedAggregate
}
