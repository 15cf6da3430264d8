// Package testutil wires an in-memory database for package tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	dbconfig "bidnest/pkg/config"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

// SetupDB installs a fresh in-memory SQLite database as dbconfig.DB for the
// duration of the test.
func SetupDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:bidnest_test_%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection keeps the shared in-memory database alive and serialises writers
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, dbconfig.AutoMigrate(db))

	previous := dbconfig.DB
	dbconfig.DB = db
	t.Cleanup(func() {
		dbconfig.DB = previous
		sqlDB.Close()
	})
	return db
}
