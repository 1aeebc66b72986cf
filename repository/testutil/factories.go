package testutil

import (
	"context"
	"testing"

	"raffler/models"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
)

// SeedParticipants registers the given users in order, each joining a
// microsecond after the previous one
func SeedParticipants(t *testing.T, td *TestDatabase, userIDs ...int64) {
	t.Helper()
	err := td.DB.WithTransaction(context.Background(), func(tx pgx.Tx) error {
		_, err := tx.Exec(context.Background(), `
			INSERT INTO participants (user_id, joined_when)
			SELECT id, statement_timestamp() + n * INTERVAL '1 microsecond'
			FROM unnest($1::bigint[]) WITH ORDINALITY AS seeded(id, n)
		`, userIDs)
		return err
	})
	require.NoError(t, err)
}

// SeedParticipantRange registers count users with IDs starting at first
func SeedParticipantRange(t *testing.T, td *TestDatabase, first int64, count int) {
	t.Helper()
	userIDs := make([]int64, count)
	for i := range userIDs {
		userIDs[i] = first + int64(i)
	}
	SeedParticipants(t, td, userIDs...)
}

// SeedReferral records a referral without going through registration
func SeedReferral(t *testing.T, td *TestDatabase, referrerID, refereeID int64) {
	t.Helper()
	_, err := td.DB.Exec(context.Background(),
		`INSERT INTO referrals (referrer_id, referee_id) VALUES ($1, $2)`, referrerID, refereeID)
	require.NoError(t, err)
}

// SeedCode inserts a code with the given remaining uses and returns it
func SeedCode(t *testing.T, td *TestDatabase, code string, remainingUses int) *models.RedeemableCode {
	t.Helper()
	c := &models.RedeemableCode{Code: code, RemainingUses: remainingUses}
	err := td.DB.QueryRow(context.Background(), `
		INSERT INTO redeemable_codes (code, remaining_uses)
		VALUES ($1, $2)
		RETURNING code_id, generated_when
	`, code, remainingUses).Scan(&c.ID, &c.GeneratedWhen)
	require.NoError(t, err)
	return c
}

// SeedRedemption records that userID redeemed codeID
func SeedRedemption(t *testing.T, td *TestDatabase, userID, codeID int64) {
	t.Helper()
	_, err := td.DB.Exec(context.Background(),
		`INSERT INTO used_codes (user_id, code_id) VALUES ($1, $2)`, userID, codeID)
	require.NoError(t, err)
}

// CreateTestParticipant creates an unsaved participant with base priority
func CreateTestParticipant(userID int64) *models.Participant {
	return &models.Participant{UserID: userID, Priority: 1}
}

// CreateTestWinners builds winners for a raffle from ranked participants
func CreateTestWinners(raffleID int64, participants ...*models.Participant) []*models.RaffleWinner {
	winners := make([]*models.RaffleWinner, len(participants))
	for i, p := range participants {
		winners[i] = &models.RaffleWinner{
			RaffleID: raffleID,
			UserID:   p.UserID,
			Position: i,
			Priority: p.Priority,
		}
	}
	return winners
}
