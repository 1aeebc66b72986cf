package repository

import (
	"context"
	"testing"
	"time"

	"raffler/models"
	"raffler/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRaffleRepository_Lifecycle(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewRaffleRepository(testDB.DB)
	ctx := context.Background()

	ongoing, err := repo.GetOngoing(ctx)
	require.NoError(t, err)
	assert.Nil(t, ongoing)

	raffle, err := repo.Create(ctx, "Spring", "Win a thing")
	require.NoError(t, err)
	require.NotNil(t, raffle)
	assert.True(t, raffle.IsOngoing())

	t.Run("second ongoing raffle is rejected by the index", func(t *testing.T) {
		_, err := repo.Create(ctx, "Summer", "")
		assert.Error(t, err)
	})

	ongoing, err = repo.GetOngoing(ctx)
	require.NoError(t, err)
	require.NotNil(t, ongoing)
	assert.Equal(t, raffle.ID, ongoing.ID)

	endedWhen := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
	ended, err := repo.MarkEnded(ctx, raffle.ID, endedWhen)
	require.NoError(t, err)
	assert.True(t, ended)

	ended, err = repo.MarkEnded(ctx, raffle.ID, endedWhen)
	require.NoError(t, err)
	assert.False(t, ended)

	stored, err := repo.GetByID(ctx, raffle.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.EndedWhen)
	assert.True(t, stored.EndedWhen.Equal(endedWhen))
	assert.False(t, stored.IsOngoing())

	next, err := repo.Create(ctx, "Summer", "")
	require.NoError(t, err)
	assert.Greater(t, next.ID, raffle.ID)
}

func TestRaffleWinnerRepository(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	raffleRepo := NewRaffleRepository(testDB.DB)
	repo := NewRaffleWinnerRepository(testDB.DB)
	ctx := context.Background()

	raffle, err := raffleRepo.Create(ctx, "Winners", "")
	require.NoError(t, err)

	first := testutil.CreateTestParticipant(11)
	first.Priority = 3
	second := testutil.CreateTestParticipant(12)

	require.NoError(t, repo.CreateBatch(ctx, testutil.CreateTestWinners(raffle.ID, first, second)))
	require.NoError(t, repo.CreateBatch(ctx, nil))

	winners, err := repo.GetByRaffleID(ctx, raffle.ID)
	require.NoError(t, err)
	require.Len(t, winners, 2)

	assert.Equal(t, int64(11), winners[0].UserID)
	assert.Equal(t, 0, winners[0].Position)
	assert.Equal(t, 3, winners[0].Priority)
	assert.Equal(t, int64(12), winners[1].UserID)
	assert.Equal(t, 1, winners[1].Position)

	empty, err := repo.GetByRaffleID(ctx, raffle.ID+1)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRaffleWinnerRepository_LargeBatch(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	raffleRepo := NewRaffleRepository(testDB.DB)
	repo := NewRaffleWinnerRepository(testDB.DB)
	ctx := context.Background()

	raffle, err := raffleRepo.Create(ctx, "Crowd", "")
	require.NoError(t, err)

	participants := make([]*models.Participant, 20000)
	for i := range participants {
		participants[i] = testutil.CreateTestParticipant(int64(i + 1))
	}
	require.NoError(t, repo.CreateBatch(ctx, testutil.CreateTestWinners(raffle.ID, participants...)))

	winners, err := repo.GetByRaffleID(ctx, raffle.ID)
	require.NoError(t, err)
	require.Len(t, winners, len(participants))
	assert.Equal(t, 19999, winners[19999].Position)
	assert.Equal(t, int64(20000), winners[19999].UserID)
	assert.Equal(t, 1, winners[19999].Priority)
}

func TestReferralRepository(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewReferralRepository(testDB.DB)
	ctx := context.Background()

	created, err := repo.Create(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, created)

	t.Run("referee credited once", func(t *testing.T) {
		created, err := repo.Create(ctx, 3, 2)
		require.NoError(t, err)
		assert.False(t, created)
	})

	_, err = repo.Create(ctx, 1, 5)
	require.NoError(t, err)

	referees, err := repo.GetReferees(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 5}, referees)

	referrer, err := repo.GetReferrer(ctx, 2)
	require.NoError(t, err)
	require.NotNil(t, referrer)
	assert.Equal(t, int64(1), *referrer)

	referrer, err = repo.GetReferrer(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, referrer)
}
