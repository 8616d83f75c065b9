package service

import (
	"testing"

	"fitops/pkg/store/mysql"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestRepository wires the full repository set over in-memory sqlite
func newTestRepository(t *testing.T) *mysql.Repository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	repo := mysql.NewRepositoryWithDatastore(mysql.NewDatastoreWithDB(db))
	require.NoError(t, repo.Migrate())
	return repo
}

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }
