package commands_test

import (
	"context"
	"iter"

	"stockledger/internal/core/application/usecases/commands"
	"stockledger/internal/core/domain/model/equipment"
	"stockledger/internal/core/domain/model/kernel"
	"stockledger/internal/core/domain/model/movement"
	"stockledger/internal/core/domain/model/unit"
	"stockledger/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockEquipmentRepository struct{ mock.Mock }

func (m *MockEquipmentRepository) Add(ctx context.Context, e *equipment.Equipment) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEquipmentRepository) Get(ctx context.Context, tenantID kernel.UUID, id kernel.UUID) (*equipment.Equipment, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*equipment.Equipment), args.Error(1)
}

func (m *MockEquipmentRepository) ApplyDelta(
	ctx context.Context,
	tenantID kernel.UUID,
	id kernel.UUID,
	delta equipment.CounterDelta,
) (*equipment.Equipment, error) {
	args := m.Called(ctx, tenantID, id, delta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*equipment.Equipment), args.Error(1)
}

func (m *MockEquipmentRepository) List(ctx context.Context) ([]*equipment.Equipment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*equipment.Equipment), args.Error(1)
}

type MockUnitRepository struct{ mock.Mock }

func (m *MockUnitRepository) Add(ctx context.Context, u *unit.Unit) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUnitRepository) Get(ctx context.Context, tenantID kernel.UUID, id kernel.UUID) (*unit.Unit, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*unit.Unit), args.Error(1)
}

func (m *MockUnitRepository) GetForUpdate(ctx context.Context, tenantID kernel.UUID, id kernel.UUID) (*unit.Unit, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*unit.Unit), args.Error(1)
}

func (m *MockUnitRepository) UpdateStatus(ctx context.Context, u *unit.Unit, expected unit.Status) error {
	args := m.Called(ctx, u, expected)
	return args.Error(0)
}

func (m *MockUnitRepository) LastCode(ctx context.Context, tenantID kernel.UUID, prefix string) (string, error) {
	args := m.Called(ctx, tenantID, prefix)
	return args.String(0), args.Error(1)
}

func (m *MockUnitRepository) ListByEquipment(ctx context.Context, tenantID kernel.UUID, equipmentID kernel.UUID) ([]*unit.Unit, error) {
	args := m.Called(ctx, tenantID, equipmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*unit.Unit), args.Error(1)
}

type MockMovementRepository struct{ mock.Mock }

func (m *MockMovementRepository) Append(ctx context.Context, record *movement.Movement) (kernel.UUID, error) {
	args := m.Called(ctx, record)
	if args.Error(1) != nil {
		return kernel.UUID{}, args.Error(1)
	}
	return record.ID(), nil
}

func (m *MockMovementRepository) ListHistory(
	ctx context.Context,
	tenantID kernel.UUID,
	equipmentID kernel.UUID,
) iter.Seq2[*movement.Movement, error] {
	args := m.Called(ctx, tenantID, equipmentID)
	return args.Get(0).(iter.Seq2[*movement.Movement, error])
}

type MockStockUoW struct{ mock.Mock }

func (m *MockStockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockStockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockStockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockStockUoW) EquipmentRepository() ports.EquipmentRepository {
	args := m.Called()
	return args.Get(0).(ports.EquipmentRepository)
}

func (m *MockStockUoW) UnitRepository() ports.UnitRepository {
	args := m.Called()
	return args.Get(0).(ports.UnitRepository)
}

func (m *MockStockUoW) MovementRepository() ports.MovementRepository {
	args := m.Called()
	return args.Get(0).(ports.MovementRepository)
}

func (m *MockStockUoW) TrackedAggregates() []ports.TrackedAggregate {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]ports.TrackedAggregate)
}

type MockStockUoWFactory struct{ mock.Mock }

func (m *MockStockUoWFactory) Create() commands.StockUoW {
	args := m.Called()
	return args.Get(0).(commands.StockUoW)
}

type MockEquipmentUoW struct{ mock.Mock }

func (m *MockEquipmentUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockEquipmentUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockEquipmentUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockEquipmentUoW) EquipmentRepository() ports.EquipmentRepository {
	args := m.Called()
	return args.Get(0).(ports.EquipmentRepository)
}

type MockEquipmentUoWFactory struct{ mock.Mock }

func (m *MockEquipmentUoWFactory) Create() commands.EquipmentUoW {
	args := m.Called()
	return args.Get(0).(commands.EquipmentUoW)
}

type MockStockRecorder struct{ mock.Mock }

func (m *MockStockRecorder) MovementCommitted(movementType string) {
	m.Called(movementType)
}

func (m *MockStockRecorder) AdjustRejected(reason string) {
	m.Called(reason)
}
