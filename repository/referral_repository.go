package repository

import (
	"context"
	"errors"
	"fmt"

	"raffler/database"

	"github.com/jackc/pgx/v5"
)

// ReferralRepository implements the ReferralRepository interface
type ReferralRepository struct {
	q queryable
}

// NewReferralRepository creates a new referral repository
func NewReferralRepository(db *database.DB) *ReferralRepository {
	return &ReferralRepository{q: db.Pool}
}

// newReferralRepositoryWithTx creates a new referral repository with a transaction
func newReferralRepositoryWithTx(tx queryable) *ReferralRepository {
	return &ReferralRepository{q: tx}
}

// Create records that referrerID referred refereeID. A user is credited to at
// most one referrer, so a second referral of the same referee is dropped.
func (r *ReferralRepository) Create(ctx context.Context, referrerID, refereeID int64) (bool, error) {
	query := `
		INSERT INTO referrals (referrer_id, referee_id)
		VALUES ($1, $2)
		ON CONFLICT (referee_id) DO NOTHING
	`
	tag, err := r.q.Exec(ctx, query, referrerID, refereeID)
	if err != nil {
		return false, fmt.Errorf("failed to create referral %d -> %d: %w", referrerID, refereeID, err)
	}
	return tag.RowsAffected() > 0, nil
}

// GetReferees returns the users referred by referrerID in referral order
func (r *ReferralRepository) GetReferees(ctx context.Context, referrerID int64) ([]int64, error) {
	rows, err := r.q.Query(ctx, `
		SELECT referee_id FROM referrals
		WHERE referrer_id = $1
		ORDER BY referred_when ASC, referee_id ASC
	`, referrerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query referees of %d: %w", referrerID, err)
	}

	referees, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("failed to collect referees of %d: %w", referrerID, err)
	}
	return referees, nil
}

// GetReferrer returns the user that referred refereeID, or nil
func (r *ReferralRepository) GetReferrer(ctx context.Context, refereeID int64) (*int64, error) {
	var referrerID int64
	err := r.q.QueryRow(ctx, `SELECT referrer_id FROM referrals WHERE referee_id = $1`, refereeID).Scan(&referrerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get referrer of %d: %w", refereeID, err)
	}
	return &referrerID, nil
}

// DeleteAll removes every referral
func (r *ReferralRepository) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM referrals`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete referrals: %w", err)
	}
	return tag.RowsAffected(), nil
}
