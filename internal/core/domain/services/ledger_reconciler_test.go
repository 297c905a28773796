package services_test

import (
	"errors"
	"iter"
	"slices"
	"testing"
	"time"

	"stockledger/internal/core/domain/model/equipment"
	"stockledger/internal/core/domain/model/kernel"
	"stockledger/internal/core/domain/model/movement"
	"stockledger/internal/core/domain/model/unit"
	"stockledger/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ledgerFixture struct {
	tenantID    kernel.UUID
	equipmentID kernel.UUID
	movements   []*movement.Movement
	clock       time.Time
}

func newLedgerFixture() *ledgerFixture {
	return &ledgerFixture{
		tenantID:    kernel.NewUUID(),
		equipmentID: kernel.NewUUID(),
		clock:       time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC),
	}
}

func (f *ledgerFixture) record(t *testing.T, typ movement.Type, quantity int, unitID *kernel.UUID) {
	t.Helper()
	f.clock = f.clock.Add(time.Minute)
	m, err := movement.NewMovement(kernel.NewUUID(), f.tenantID, f.equipmentID, typ, quantity, "tester", f.clock, movement.Details{
		UnitID: unitID,
	})
	require.NoError(t, err)
	f.movements = append(f.movements, m)
}

// newestFirst yields the recorded movements in reverse order of recording.
func (f *ledgerFixture) newestFirst() iter.Seq2[*movement.Movement, error] {
	return func(yield func(*movement.Movement, error) bool) {
		for _, m := range slices.Backward(f.movements) {
			if !yield(m, nil) {
				return
			}
		}
	}
}

func (f *ledgerFixture) unit(t *testing.T, code string, status unit.Status) *unit.Unit {
	t.Helper()
	u, err := unit.RestoreUnit(kernel.NewUUID(), f.tenantID, f.equipmentID, code, unit.Attributes{}, status)
	require.NoError(t, err)
	return u
}

func TestLedgerReconciler_Reconcile(t *testing.T) {
	reconciler := services.NewLedgerReconciler()

	t.Run("should agree with consistent state", func(t *testing.T) {
		f := newLedgerFixture()
		u1 := f.unit(t, "EQP-0001", unit.Available)
		u2 := f.unit(t, "EQP-0002", unit.Rented)
		u1ID, u2ID := u1.ID(), u2.ID()

		f.record(t, movement.Purchase, 1, &u1ID)
		f.record(t, movement.Purchase, 1, &u2ID)
		f.record(t, movement.InitialBalance, 3, nil)
		f.record(t, movement.RentalOut, 1, &u1ID)
		f.record(t, movement.RentalOut, 1, &u2ID)
		f.record(t, movement.RentalIn, 1, &u1ID)
		f.record(t, movement.Correction, -1, nil)

		eq, err := equipment.RestoreEquipment(f.equipmentID, f.tenantID, "Drill", 4, 1)
		require.NoError(t, err)

		report, err := reconciler.Reconcile(eq, []*unit.Unit{u1, u2}, f.newestFirst())

		require.NoError(t, err)
		assert.True(t, report.Consistent())
		assert.Equal(t, 4, report.DerivedTotal)
		assert.Equal(t, 1, report.DerivedRented)
		assert.Equal(t, 7, report.MovementsReplayed)
		assert.Empty(t, report.UnitMismatches)
	})

	t.Run("should report counter drift", func(t *testing.T) {
		f := newLedgerFixture()
		f.record(t, movement.Purchase, 5, nil)
		f.record(t, movement.Loss, -1, nil)

		eq, err := equipment.RestoreEquipment(f.equipmentID, f.tenantID, "Drill", 5, 0)
		require.NoError(t, err)

		report, err := reconciler.Reconcile(eq, nil, f.newestFirst())

		require.NoError(t, err)
		assert.False(t, report.Consistent())
		assert.Equal(t, 5, report.StoredTotal)
		assert.Equal(t, 4, report.DerivedTotal)
	})

	t.Run("should report unit status drift", func(t *testing.T) {
		f := newLedgerFixture()
		untouched := f.unit(t, "EQP-0001", unit.Maintenance)
		rented := f.unit(t, "EQP-0002", unit.Available)
		rentedID := rented.ID()
		f.record(t, movement.Purchase, 2, nil)
		f.record(t, movement.RentalOut, 1, &rentedID)

		eq, err := equipment.RestoreEquipment(f.equipmentID, f.tenantID, "Drill", 2, 1)
		require.NoError(t, err)

		report, err := reconciler.Reconcile(eq, []*unit.Unit{untouched, rented}, f.newestFirst())

		require.NoError(t, err)
		assert.False(t, report.Consistent())
		require.Len(t, report.UnitMismatches, 2)
		assert.Equal(t, services.UnitMismatch{
			UnitID: untouched.ID(), Code: "EQP-0001", Stored: unit.Maintenance, Derived: unit.Available,
		}, report.UnitMismatches[0])
		assert.Equal(t, unit.Rented, report.UnitMismatches[1].Derived)
	})

	t.Run("should propagate history errors", func(t *testing.T) {
		f := newLedgerFixture()
		eq, err := equipment.NewEquipment(f.equipmentID, f.tenantID, "Drill")
		require.NoError(t, err)
		boom := errors.New("connection reset")

		_, err = reconciler.Reconcile(eq, nil, func(yield func(*movement.Movement, error) bool) {
			yield(nil, boom)
		})

		require.ErrorIs(t, err, boom)
	})

	t.Run("should refuse movements of another equipment", func(t *testing.T) {
		f := newLedgerFixture()
		f.record(t, movement.Purchase, 1, nil)
		eq, err := equipment.NewEquipment(kernel.NewUUID(), f.tenantID, "Drill")
		require.NoError(t, err)

		_, err = reconciler.Reconcile(eq, nil, f.newestFirst())

		require.Error(t, err)
	})
}
