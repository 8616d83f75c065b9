package mysql

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestRepository wires the repository set over in-memory sqlite so the
// SQL paths run without a MySQL server
func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	repo := NewRepositoryWithDatastore(NewDatastoreWithDB(db))
	require.NoError(t, repo.Migrate())
	return repo
}
