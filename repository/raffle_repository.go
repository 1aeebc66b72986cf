package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"raffler/database"
	"raffler/models"

	"github.com/jackc/pgx/v5"
)

// RaffleRepository implements the RaffleRepository interface
type RaffleRepository struct {
	q queryable
}

// NewRaffleRepository creates a new raffle repository
func NewRaffleRepository(db *database.DB) *RaffleRepository {
	return &RaffleRepository{q: db.Pool}
}

// newRaffleRepositoryWithTx creates a new raffle repository with a transaction
func newRaffleRepositoryWithTx(tx queryable) *RaffleRepository {
	return &RaffleRepository{q: tx}
}

// Create inserts a new ongoing raffle
func (r *RaffleRepository) Create(ctx context.Context, name, description string) (*models.Raffle, error) {
	query := `
		INSERT INTO raffles (name, description)
		VALUES ($1, $2)
		RETURNING raffle_id, name, description, started_when, ended_when
	`

	var raffle models.Raffle
	err := r.q.QueryRow(ctx, query, name, description).Scan(
		&raffle.ID,
		&raffle.Name,
		&raffle.Description,
		&raffle.StartedWhen,
		&raffle.EndedWhen,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create raffle: %w", err)
	}

	return &raffle, nil
}

// GetByID retrieves a raffle by its ID
func (r *RaffleRepository) GetByID(ctx context.Context, id int64) (*models.Raffle, error) {
	return r.getOne(ctx, `
		SELECT raffle_id, name, description, started_when, ended_when
		FROM raffles
		WHERE raffle_id = $1
	`, id)
}

// GetOngoing returns the raffle that has not ended, or nil
func (r *RaffleRepository) GetOngoing(ctx context.Context) (*models.Raffle, error) {
	return r.getOne(ctx, `
		SELECT raffle_id, name, description, started_when, ended_when
		FROM raffles
		WHERE ended_when IS NULL
	`)
}

// GetOngoingForUpdate returns the ongoing raffle and locks its row
func (r *RaffleRepository) GetOngoingForUpdate(ctx context.Context) (*models.Raffle, error) {
	return r.getOne(ctx, `
		SELECT raffle_id, name, description, started_when, ended_when
		FROM raffles
		WHERE ended_when IS NULL
		FOR UPDATE
	`)
}

// MarkEnded ends an ongoing raffle. It returns false if the raffle had already ended.
func (r *RaffleRepository) MarkEnded(ctx context.Context, id int64, endedWhen time.Time) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE raffles
		SET ended_when = $2
		WHERE raffle_id = $1 AND ended_when IS NULL
	`, id, endedWhen)
	if err != nil {
		return false, fmt.Errorf("failed to end raffle %d: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *RaffleRepository) getOne(ctx context.Context, query string, args ...any) (*models.Raffle, error) {
	var raffle models.Raffle
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&raffle.ID,
		&raffle.Name,
		&raffle.Description,
		&raffle.StartedWhen,
		&raffle.EndedWhen,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get raffle: %w", err)
	}
	return &raffle, nil
}
