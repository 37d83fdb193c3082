package persistence

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/possync/backend/internal/infrastructure/persistence/models"
)

// newTestDB opens an in-memory sqlite database with the full schema. The
// pool is pinned to one connection so the in-memory database survives for
// the whole test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// touch overrides the audit timestamps on an already inserted row. GORM
// refreshes updated_at on every write, so watermark tests set it directly.
func touch(t *testing.T, db *gorm.DB, table string, at time.Time, query string, args ...any) {
	t.Helper()
	require.NoError(t, db.Table(table).Where(query, args...).
		UpdateColumn("updated_at", at).Error)
}
