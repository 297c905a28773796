// Package postgres provides the GORM-based implementation of the Unit of Work
// pattern for the stock ledger. A unit of work spans one database transaction
// in which the movement ledger, the equipment counters and unit statuses are
// written together, so a stock event is either recorded completely or not at all.
//
// Key Features:
//   - Transaction management across the equipment, unit and movement repositories
//   - Configurable isolation level and read-only snapshots
//   - Tracking of the aggregates written since Begin
//   - Repositories fall back to the base connection when no transaction is open
//
// Usage:
//
//	factory := NewGormUnitOfWorkFactory(db)
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	if _, err := uow.MovementRepository().Append(ctx, record); err != nil {
//	    return err
//	}
//	if _, err := uow.EquipmentRepository().ApplyDelta(ctx, tenantID, equipmentID, delta); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Concurrency Considerations:
//   - Each UnitOfWork instance holds its own transaction; never share one between goroutines
//   - Counter updates are atomic conditional statements, unit rows are locked with FOR UPDATE
//   - Under serializable isolation a conflicting commit fails and may be retried as a whole
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"stockledger/internal/adapters/out/postgres/equipmentrepo"
	"stockledger/internal/adapters/out/postgres/movementrepo"
	"stockledger/internal/adapters/out/postgres/unitrepo"
	"stockledger/internal/core/domain/model/kernel"
	"stockledger/internal/core/ports"

	"gorm.io/gorm"
)

// Option configures the transactions opened by a GormUnitOfWorkFactory.
type Option func(*GormUnitOfWorkFactory)

// WithIsolation sets the isolation level of every transaction.
func WithIsolation(level sql.IsolationLevel) Option {
	return func(f *GormUnitOfWorkFactory) {
		f.isolation = level
	}
}

// WithReadOnly opens read-only transactions. Used for consistent snapshots.
func WithReadOnly() Option {
	return func(f *GormUnitOfWorkFactory) {
		f.readOnly = true
	}
}

// WithHistoryPageSize sets how many ledger rows are fetched per round trip
// when history is iterated.
func WithHistoryPageSize(size int) Option {
	return func(f *GormUnitOfWorkFactory) {
		f.historyPageSize = size
	}
}

// ParseIsolation maps a configuration value to an isolation level.
// An empty value selects the database default (read committed on PostgreSQL).
func ParseIsolation(value string) (sql.IsolationLevel, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "default":
		return sql.LevelDefault, nil
	case "read_committed":
		return sql.LevelReadCommitted, nil
	case "repeatable_read":
		return sql.LevelRepeatableRead, nil
	case "serializable":
		return sql.LevelSerializable, nil
	default:
		return sql.LevelDefault, fmt.Errorf("unsupported transaction isolation %q", value)
	}
}

// GormUnitOfWorkFactory creates UnitOfWork instances using GORM database connections.
// Each business operation gets a fresh unit of work with its own transaction state.
//
// Example:
//
//	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
//	if err != nil {
//	    log.Fatal("failed to connect database")
//	}
//	writes := NewGormUnitOfWorkFactory(db, WithIsolation(sql.LevelReadCommitted))
//	snapshots := NewGormUnitOfWorkFactory(db, WithIsolation(sql.LevelRepeatableRead), WithReadOnly())
type GormUnitOfWorkFactory struct {
	db              *gorm.DB
	isolation       sql.IsolationLevel
	readOnly        bool
	historyPageSize int
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work instances.
func NewGormUnitOfWorkFactory(db *gorm.DB, opts ...Option) *GormUnitOfWorkFactory {
	f := &GormUnitOfWorkFactory{
		db:              db,
		historyPageSize: movementrepo.DefaultPageSize,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create produces a new UnitOfWork instance.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		txOptions:         f.txOptions(),
		historyPageSize:   f.historyPageSize,
		trackedAggregates: make([]ports.TrackedAggregate, 0),
	}
}

func (f *GormUnitOfWorkFactory) txOptions() *sql.TxOptions {
	if f.isolation == sql.LevelDefault && !f.readOnly {
		return nil
	}
	return &sql.TxOptions{Isolation: f.isolation, ReadOnly: f.readOnly}
}

// GormUnitOfWork coordinates one database transaction and tracks the
// aggregates written within it.
//
// Example usage:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return fmt.Errorf("failed to begin transaction: %w", err)
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	target, err := uow.UnitRepository().GetForUpdate(ctx, tenantID, unitID)
//	...
//	if err := uow.Commit(ctx); err != nil {
//	    return fmt.Errorf("failed to commit transaction: %w", err)
//	}
//
//	for _, tracked := range uow.TrackedAggregates() {
//	    recordMetrics(tracked.Aggregate)
//	}
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	txOptions         *sql.TxOptions
	historyPageSize   int
	trackedAggregates []ports.TrackedAggregate
}

// Begin initiates a new database transaction and clears the tracked aggregates.
// Calling Begin while a transaction is open is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	var tx *gorm.DB
	if uow.txOptions != nil {
		tx = uow.db.WithContext(ctx).Begin(uow.txOptions)
	} else {
		tx = uow.db.WithContext(ctx).Begin()
	}
	if tx.Error != nil {
		return tx.Error
	}

	uow.tx = tx
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return nil
}

// Commit finalizes all changes made within the current transaction.
// Returns gorm.ErrInvalidTransaction if no transaction is open.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback discards all changes made within the current transaction.
// Returns gorm.ErrInvalidTransaction if no transaction is open, which makes it
// safe to defer after a successful Commit.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

// EquipmentRepository provides access to equipment and its counters within
// the unit of work.
func (uow *GormUnitOfWork) EquipmentRepository() ports.EquipmentRepository {
	return equipmentrepo.NewGormEquipmentRepository(uow.conn(), uow)
}

// UnitRepository provides access to units within the unit of work.
func (uow *GormUnitOfWork) UnitRepository() ports.UnitRepository {
	return unitrepo.NewGormUnitRepository(uow.conn(), uow)
}

// MovementRepository provides access to the movement ledger within the unit of work.
func (uow *GormUnitOfWork) MovementRepository() ports.MovementRepository {
	return movementrepo.NewGormMovementRepository(uow.conn(), uow, uow.historyPageSize)
}

// TrackAggregate registers an aggregate as written within this unit of work.
// Called by the repositories.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, ports.TrackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

// TrackedAggregates returns a copy of the aggregates written since Begin.
func (uow *GormUnitOfWork) TrackedAggregates() []ports.TrackedAggregate {
	out := make([]ports.TrackedAggregate, len(uow.trackedAggregates))
	copy(out, uow.trackedAggregates)
	return out
}

// conn returns the open transaction, or the base connection outside one.
func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}
