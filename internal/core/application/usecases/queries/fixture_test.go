package queries_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "stockledger/internal/adapters/out/postgres"
	"stockledger/internal/adapters/out/postgres/dbtest"
	"stockledger/internal/core/domain/model/equipment"
	"stockledger/internal/core/domain/model/kernel"
	"stockledger/internal/core/domain/model/movement"
	"stockledger/internal/core/domain/model/unit"
	"stockledger/internal/core/ports"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ledgerFixture seeds a SQLite database through the real repositories.
type ledgerFixture struct {
	t        *testing.T
	db       *gorm.DB
	factory  ports.UnitOfWorkFactory
	tenantID kernel.UUID
	now      time.Time
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	db := dbtest.OpenSQLite(t)
	return &ledgerFixture{
		t:        t,
		db:       db,
		factory:  postgres_adapter.NewGormUnitOfWorkFactory(db, postgres_adapter.WithHistoryPageSize(2)),
		tenantID: kernel.NewUUID(),
		now:      time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC),
	}
}

func (f *ledgerFixture) addEquipment(name string) *equipment.Equipment {
	e, err := equipment.NewEquipment(kernel.NewUUID(), f.tenantID, name)
	require.NoError(f.t, err)
	require.NoError(f.t, f.factory.Create().EquipmentRepository().Add(context.Background(), e))
	return e
}

func (f *ledgerFixture) addUnit(e *equipment.Equipment, code string) *unit.Unit {
	u, err := unit.NewUnit(kernel.NewUUID(), f.tenantID, e.ID(), code, unit.Attributes{})
	require.NoError(f.t, err)
	require.NoError(f.t, f.factory.Create().UnitRepository().Add(context.Background(), u))
	return u
}

// record appends a movement and shifts the counters the way the stock
// coordinator does, so the stored state stays consistent with the ledger.
func (f *ledgerFixture) record(e *equipment.Equipment, t movement.Type, quantity int, unitID *kernel.UUID) *movement.Movement {
	ctx := context.Background()
	f.now = f.now.Add(time.Minute)

	m, err := movement.NewMovement(kernel.NewUUID(), f.tenantID, e.ID(), t, quantity, "clerk", f.now, movement.Details{UnitID: unitID})
	require.NoError(f.t, err)

	uow := f.factory.Create()
	_, err = uow.MovementRepository().Append(ctx, m)
	require.NoError(f.t, err)

	delta, err := equipment.DeltaForMovement(m)
	require.NoError(f.t, err)
	_, err = uow.EquipmentRepository().ApplyDelta(ctx, f.tenantID, e.ID(), delta)
	require.NoError(f.t, err)

	return m
}
