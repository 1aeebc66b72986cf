package database_test

import (
	"testing"

	"raffler/database"
	"raffler/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMigrationStatus(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}
	testDB := testutil.SetupTestDatabase(t)

	status, err := database.GetMigrationStatus(testDB.URL)
	require.NoError(t, err)
	assert.True(t, status.Applied)
	assert.False(t, status.Dirty)
	assert.Equal(t, uint(1), status.Version)
}

func TestNewMigrate_ReleasesConnectionOnBadSource(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}
	testDB := testutil.SetupTestDatabase(t)
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	m, err := database.NewMigrate(testDB.URL, database.MigrationsFS(), "no-such-dir")
	assert.Error(t, err)
	assert.Nil(t, m)
}
