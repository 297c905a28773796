package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	postgres_adapter "stockledger/internal/adapters/out/postgres"
	"stockledger/internal/adapters/out/postgres/dbtest"
	"stockledger/internal/core/domain/model/equipment"
	"stockledger/internal/core/domain/model/kernel"
	"stockledger/internal/core/domain/model/movement"
	"stockledger/internal/core/ports"
	"stockledger/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// UnitOfWorkIntegrationTestSuite verifies transaction handling of the GORM
// unit of work against a real PostgreSQL database.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	database *dbtest.Database
	factory  ports.UnitOfWorkFactory
	tenantID kernel.UUID
}

// SetupSuite starts PostgreSQL and applies the migrations.
func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	database, err := dbtest.StartPostgres(context.Background())
	suite.Require().NoError(err)
	suite.database = database
	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(database.DB)
}

// SetupTest ensures clean database state before each test.
func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.database.Truncate())
	suite.tenantID = kernel.NewUUID()
}

// TearDownSuite stops the container after all tests complete.
func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.database != nil {
		suite.Require().NoError(suite.database.Terminate(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWorkFactory_Create() {
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	suite.NotSame(uow1, uow2, "Factory should create separate instances")
	suite.NotNil(uow1.EquipmentRepository())
	suite.NotNil(uow1.UnitRepository())
	suite.NotNil(uow1.MovementRepository())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx), "Multiple begin calls should be safe")
	suite.Require().NoError(uow.Commit(ctx))

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Rollback(ctx))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionErrors() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Error(uow.Commit(ctx), "Commit without Begin should fail")
	suite.Error(uow.Rollback(ctx), "Rollback without Begin should fail")
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_CommitPersistsAllRepositories() {
	ctx := context.Background()
	e := suite.newEquipment()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.EquipmentRepository().Add(ctx, e))
	_, err := uow.MovementRepository().Append(ctx, suite.newMovement(e, movement.Purchase, 3))
	suite.Require().NoError(err)
	_, err = uow.EquipmentRepository().ApplyDelta(ctx, suite.tenantID, e.ID(), equipment.CounterDelta{Total: 3})
	suite.Require().NoError(err)
	suite.Require().NoError(uow.Commit(ctx))

	stored, err := suite.factory.Create().EquipmentRepository().Get(ctx, suite.tenantID, e.ID())
	suite.Require().NoError(err)
	suite.Equal(3, stored.TotalQty())
	suite.Equal(1, suite.countMovements(e))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RollbackDiscardsAllRepositories() {
	ctx := context.Background()
	e := suite.newEquipment()
	suite.Require().NoError(suite.factory.Create().EquipmentRepository().Add(ctx, e))

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	_, err := uow.MovementRepository().Append(ctx, suite.newMovement(e, movement.Purchase, 3))
	suite.Require().NoError(err)
	_, err = uow.EquipmentRepository().ApplyDelta(ctx, suite.tenantID, e.ID(), equipment.CounterDelta{Total: 3})
	suite.Require().NoError(err)
	suite.Require().NoError(uow.Rollback(ctx))

	stored, err := suite.factory.Create().EquipmentRepository().Get(ctx, suite.tenantID, e.ID())
	suite.Require().NoError(err)
	suite.Equal(0, stored.TotalQty())
	suite.Equal(0, suite.countMovements(e))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_AggregateTracking() {
	ctx := context.Background()
	e := suite.newEquipment()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.EquipmentRepository().Add(ctx, e))
	record := suite.newMovement(e, movement.Purchase, 1)
	_, err := uow.MovementRepository().Append(ctx, record)
	suite.Require().NoError(err)
	suite.Require().NoError(uow.Commit(ctx))

	tracked := uow.TrackedAggregates()
	suite.Require().Len(tracked, 2)
	suite.True(e.ID().IsEqual(tracked[0].ID))
	suite.Same(record, tracked[1].Aggregate)

	suite.Require().NoError(uow.Begin(ctx))
	suite.Empty(uow.TrackedAggregates(), "Begin should reset tracking")
	suite.Require().NoError(uow.Rollback(ctx))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RepositoryIsolation() {
	ctx := context.Background()
	e := suite.newEquipment()

	writer := suite.factory.Create()
	suite.Require().NoError(writer.Begin(ctx))
	suite.Require().NoError(writer.EquipmentRepository().Add(ctx, e))

	_, err := suite.factory.Create().EquipmentRepository().Get(ctx, suite.tenantID, e.ID())
	suite.Require().Error(err, "Uncommitted rows must not be visible outside the transaction")
	suite.ErrorIs(err, errs.ErrObjectNotFound)

	suite.Require().NoError(writer.Commit(ctx))

	_, err = suite.factory.Create().EquipmentRepository().Get(ctx, suite.tenantID, e.ID())
	suite.NoError(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_WithoutTransaction() {
	ctx := context.Background()
	e := suite.newEquipment()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.EquipmentRepository().Add(ctx, e))

	_, err := suite.factory.Create().EquipmentRepository().Get(ctx, suite.tenantID, e.ID())
	suite.NoError(err, "Writes without Begin go straight to the database")
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_ReadOnlySnapshotRejectsWrites() {
	ctx := context.Background()
	snapshots := postgres_adapter.NewGormUnitOfWorkFactory(
		suite.database.DB,
		postgres_adapter.WithIsolation(sql.LevelRepeatableRead),
		postgres_adapter.WithReadOnly(),
	)
	uow := snapshots.Create()

	suite.Require().NoError(uow.Begin(ctx))
	defer func() { _ = uow.Rollback(ctx) }()

	err := uow.EquipmentRepository().Add(ctx, suite.newEquipment())

	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrPersistence)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_SnapshotIgnoresLaterCommits() {
	ctx := context.Background()
	e := suite.newEquipment()
	suite.Require().NoError(suite.factory.Create().EquipmentRepository().Add(ctx, e))

	snapshot := postgres_adapter.NewGormUnitOfWorkFactory(
		suite.database.DB,
		postgres_adapter.WithIsolation(sql.LevelRepeatableRead),
		postgres_adapter.WithReadOnly(),
	).Create()
	suite.Require().NoError(snapshot.Begin(ctx))
	defer func() { _ = snapshot.Rollback(ctx) }()

	before, err := snapshot.EquipmentRepository().Get(ctx, suite.tenantID, e.ID())
	suite.Require().NoError(err)

	_, err = suite.factory.Create().EquipmentRepository().ApplyDelta(ctx, suite.tenantID, e.ID(), equipment.CounterDelta{Total: 4})
	suite.Require().NoError(err)

	after, err := snapshot.EquipmentRepository().Get(ctx, suite.tenantID, e.ID())
	suite.Require().NoError(err)
	suite.Equal(before.TotalQty(), after.TotalQty())
}

func (suite *UnitOfWorkIntegrationTestSuite) newEquipment() *equipment.Equipment {
	e, err := equipment.NewEquipment(kernel.NewUUID(), suite.tenantID, "Forklift")
	suite.Require().NoError(err)
	return e
}

func (suite *UnitOfWorkIntegrationTestSuite) newMovement(e *equipment.Equipment, t movement.Type, quantity int) *movement.Movement {
	record, err := movement.NewMovement(
		kernel.NewUUID(), suite.tenantID, e.ID(), t, quantity, "tester", time.Now().UTC(), movement.Details{})
	suite.Require().NoError(err)
	return record
}

func (suite *UnitOfWorkIntegrationTestSuite) countMovements(e *equipment.Equipment) int {
	count := 0
	for _, err := range suite.factory.Create().MovementRepository().ListHistory(context.Background(), suite.tenantID, e.ID()) {
		suite.Require().NoError(err)
		count++
	}
	return count
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}

func TestParseIsolation(t *testing.T) {
	tests := []struct {
		value string
		want  sql.IsolationLevel
	}{
		{value: "", want: sql.LevelDefault},
		{value: "read_committed", want: sql.LevelReadCommitted},
		{value: "REPEATABLE_READ", want: sql.LevelRepeatableRead},
		{value: " serializable ", want: sql.LevelSerializable},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := postgres_adapter.ParseIsolation(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := postgres_adapter.ParseIsolation("read_uncommitted")
	assert.Error(t, err)
}
