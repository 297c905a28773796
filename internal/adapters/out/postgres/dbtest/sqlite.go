package dbtest

import (
	"testing"

	"stockledger/internal/adapters/out/postgres/equipmentrepo"
	"stockledger/internal/adapters/out/postgres/movementrepo"
	"stockledger/internal/adapters/out/postgres/unitrepo"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenSQLite returns a private in-memory SQLite database with the ledger
// tables created from the repository DTOs. The database lives until the test ends.
func OpenSQLite(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := "file:stockledger_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "open sqlite")

	require.NoError(t, db.AutoMigrate(
		&equipmentrepo.EquipmentDTO{},
		&unitrepo.UnitDTO{},
		&movementrepo.MovementDTO{},
	), "migrate ledger tables")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}
