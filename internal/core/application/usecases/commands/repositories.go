// Package commands contains business operations that modify stock state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"stockledger/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// EquipmentRepoFactory provides access to the equipment repository within a transaction.
	EquipmentRepoFactory interface {
		EquipmentRepository() ports.EquipmentRepository
	}

	// UnitRepoFactory provides access to the unit repository within a transaction.
	UnitRepoFactory interface {
		UnitRepository() ports.UnitRepository
	}

	// MovementRepoFactory provides access to the movement ledger within a transaction.
	MovementRepoFactory interface {
		MovementRepository() ports.MovementRepository
	}

	// AggregateTracker exposes the aggregates written within a transaction.
	AggregateTracker interface {
		TrackedAggregates() []ports.TrackedAggregate
	}

	// EquipmentUoW manages transactions for catalog-only operations.
	EquipmentUoW interface {
		TxManager
		EquipmentRepoFactory
	}

	// EquipmentUoWFactory creates new equipment unit of work instances.
	EquipmentUoWFactory interface {
		Create() EquipmentUoW
	}

	// StockUoW manages transactions that touch the ledger, the equipment counters
	// and unit statuses together.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   movementRepo := uow.MovementRepository()
	//   equipmentRepo := uow.EquipmentRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	StockUoW interface {
		TxManager
		EquipmentRepoFactory
		UnitRepoFactory
		MovementRepoFactory
		AggregateTracker
	}

	// StockUoWFactory creates new stock unit of work instances.
	StockUoWFactory interface {
		Create() StockUoW
	}
)
