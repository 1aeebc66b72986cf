package repository

import (
	"context"
	"testing"

	"raffler/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParticipantRepository_Create(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewParticipantRepository(testDB.DB)
	ctx := context.Background()

	t.Run("new participant", func(t *testing.T) {
		p, err := repo.Create(ctx, 100)
		require.NoError(t, err)
		require.NotNil(t, p)

		assert.Equal(t, int64(100), p.UserID)
		assert.Equal(t, 1, p.Priority)
		assert.False(t, p.JoinedWhen.IsZero())
	})

	t.Run("already registered returns nil", func(t *testing.T) {
		p, err := repo.Create(ctx, 100)
		require.NoError(t, err)
		assert.Nil(t, p)

		_, count, err := repo.GetTop(ctx, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}

func TestParticipantRepository_Priority(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewParticipantRepository(testDB.DB)
	ctx := context.Background()

	testutil.SeedParticipants(t, testDB, 1, 2, 3)

	t.Run("base priority", func(t *testing.T) {
		p, err := repo.GetByUserID(ctx, 1)
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, 1, p.Priority)
	})

	t.Run("referrals and redemptions each add one", func(t *testing.T) {
		testutil.SeedReferral(t, testDB, 1, 2)
		testutil.SeedReferral(t, testDB, 1, 3)
		code := testutil.SeedCode(t, testDB, "AAAAAAAA", -1)
		testutil.SeedRedemption(t, testDB, 1, code.ID)

		p, err := repo.GetByUserID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, 4, p.Priority)
	})

	t.Run("credit survives removal of referee and purge of code", func(t *testing.T) {
		removed, err := repo.Delete(ctx, 2)
		require.NoError(t, err)
		assert.True(t, removed)

		_, err = testDB.DB.Exec(ctx, `DELETE FROM redeemable_codes`)
		require.NoError(t, err)

		p, err := repo.GetByUserID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, 4, p.Priority)
	})

	t.Run("unknown user", func(t *testing.T) {
		p, err := repo.GetByUserID(ctx, 999)
		require.NoError(t, err)
		assert.Nil(t, p)
	})
}

func TestParticipantRepository_Ranking(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewParticipantRepository(testDB.DB)
	ctx := context.Background()

	// 30 joins first but 10 and 20 outrank it on priority
	testutil.SeedParticipants(t, testDB, 30, 10, 20)
	testutil.SeedReferral(t, testDB, 20, 500)
	testutil.SeedReferral(t, testDB, 10, 501)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)

	// 10 and 20 tie on priority 2; 10 joined earlier
	assert.Equal(t, int64(10), all[0].UserID)
	assert.Equal(t, int64(20), all[1].UserID)
	assert.Equal(t, int64(30), all[2].UserID)
	assert.Equal(t, 2, all[0].Priority)
	assert.Equal(t, 1, all[2].Priority)

	top, total, err := repo.GetTop(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, 3, total)
	assert.Equal(t, all[0].UserID, top[0].UserID)
	assert.Equal(t, all[1].UserID, top[1].UserID)
	assert.Equal(t, all[1].Priority, top[1].Priority)

	none, total, err := repo.GetTop(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
	assert.Equal(t, 3, total)
}

func TestParticipantRepository_DeleteAndExists(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewParticipantRepository(testDB.DB)
	ctx := context.Background()

	testutil.SeedParticipants(t, testDB, 7, 8)

	exists, err := repo.Exists(ctx, 7)
	require.NoError(t, err)
	assert.True(t, exists)

	removed, err := repo.Delete(ctx, 7)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Delete(ctx, 7)
	require.NoError(t, err)
	assert.False(t, removed)

	exists, err = repo.Exists(ctx, 7)
	require.NoError(t, err)
	assert.False(t, exists)

	deleted, err := repo.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}
