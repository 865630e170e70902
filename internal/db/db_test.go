package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSqlitePath(t *testing.T) {
	assert.Equal(t, "./data/app.db", sqlitePath("./data/app.db?_pragma=foreign_keys(1)"))
	assert.Equal(t, "plain.db", sqlitePath("plain.db"))
}

func TestMigrationsUpAndDown(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "nested", "test.db") + "?_pragma=foreign_keys(1)"

	database, err := Init("sqlite", dsn)
	require.NoError(t, err)
	defer Close(database)

	require.NoError(t, RunMigrations(database.DB, "sqlite"))

	version, err := MigrationVersion(database.DB, "sqlite")
	require.NoError(t, err)
	assert.Equal(t, int64(4), version)

	var count int
	require.NoError(t, database.Get(&count, `SELECT COUNT(*) FROM public_goals`))
	assert.Zero(t, count)

	require.NoError(t, MigrateDown(database.DB, "sqlite"))
	version, err = MigrationVersion(database.DB, "sqlite")
	require.NoError(t, err)
	assert.Equal(t, int64(3), version)
}
