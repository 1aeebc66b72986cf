package repository

import (
	"context"
	"fmt"

	"raffler/database"
	"raffler/models"

	"github.com/jackc/pgx/v5"
)

// RaffleWinnerRepository implements the RaffleWinnerRepository interface
type RaffleWinnerRepository struct {
	q queryable
}

// NewRaffleWinnerRepository creates a new raffle winner repository
func NewRaffleWinnerRepository(db *database.DB) *RaffleWinnerRepository {
	return &RaffleWinnerRepository{q: db.Pool}
}

// newRaffleWinnerRepositoryWithTx creates a new raffle winner repository with a transaction
func newRaffleWinnerRepositoryWithTx(tx queryable) *RaffleWinnerRepository {
	return &RaffleWinnerRepository{q: tx}
}

// CreateBatch writes the winners of a raffle in a single statement.
// Columns are sent as arrays so the parameter count stays fixed at four.
func (r *RaffleWinnerRepository) CreateBatch(ctx context.Context, winners []*models.RaffleWinner) error {
	if len(winners) == 0 {
		return nil
	}

	raffleIDs := make([]int64, len(winners))
	userIDs := make([]int64, len(winners))
	positions := make([]int32, len(winners))
	priorities := make([]int32, len(winners))
	for i, w := range winners {
		raffleIDs[i] = w.RaffleID
		userIDs[i] = w.UserID
		positions[i] = int32(w.Position)
		priorities[i] = int32(w.Priority)
	}

	query := `
		INSERT INTO raffle_winners (raffle_id, user_id, position, priority)
		SELECT * FROM unnest($1::bigint[], $2::bigint[], $3::integer[], $4::integer[])
	`
	if _, err := r.q.Exec(ctx, query, raffleIDs, userIDs, positions, priorities); err != nil {
		return fmt.Errorf("failed to create %d raffle winners: %w", len(winners), err)
	}
	return nil
}

// GetByRaffleID returns the winners of a raffle ordered by position
func (r *RaffleWinnerRepository) GetByRaffleID(ctx context.Context, raffleID int64) ([]*models.RaffleWinner, error) {
	rows, err := r.q.Query(ctx, `
		SELECT raffle_id, user_id, position, priority
		FROM raffle_winners
		WHERE raffle_id = $1
		ORDER BY position ASC
	`, raffleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query winners of raffle %d: %w", raffleID, err)
	}

	winners, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.RaffleWinner, error) {
		var w models.RaffleWinner
		err := row.Scan(&w.RaffleID, &w.UserID, &w.Position, &w.Priority)
		return &w, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to collect winners of raffle %d: %w", raffleID, err)
	}
	return winners, nil
}
