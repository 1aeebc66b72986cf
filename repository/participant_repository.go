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

// participantColumns selects a participant with its live priority: one base
// entry, one per distinct referee and one per distinct redeemed code.
const participantColumns = `
	p.user_id,
	p.joined_when,
	1 + (SELECT COUNT(DISTINCT r.referee_id) FROM referrals r WHERE r.referrer_id = p.user_id)
	  + (SELECT COUNT(DISTINCT u.code_id) FROM used_codes u WHERE u.user_id = p.user_id) AS priority
`

const participantRanking = `ORDER BY priority DESC, p.joined_when ASC, p.user_id ASC`

// ParticipantRepository implements the ParticipantRepository interface
type ParticipantRepository struct {
	q queryable
}

// NewParticipantRepository creates a new participant repository
func NewParticipantRepository(db *database.DB) *ParticipantRepository {
	return &ParticipantRepository{q: db.Pool}
}

// newParticipantRepositoryWithTx creates a new participant repository with a transaction
func newParticipantRepositoryWithTx(tx queryable) *ParticipantRepository {
	return &ParticipantRepository{q: tx}
}

// Create registers a user. It returns nil when the user is already registered.
func (r *ParticipantRepository) Create(ctx context.Context, userID int64) (*models.Participant, error) {
	query := `
		INSERT INTO participants (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING
		RETURNING user_id, joined_when
	`

	participant := models.Participant{Priority: 1}
	err := r.q.QueryRow(ctx, query, userID).Scan(&participant.UserID, &participant.JoinedWhen)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create participant %d: %w", userID, err)
	}

	return &participant, nil
}

// GetByUserID retrieves a participant with its live priority
func (r *ParticipantRepository) GetByUserID(ctx context.Context, userID int64) (*models.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants p WHERE p.user_id = $1`

	var participant models.Participant
	err := r.q.QueryRow(ctx, query, userID).Scan(
		&participant.UserID,
		&participant.JoinedWhen,
		&participant.Priority,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get participant %d: %w", userID, err)
	}

	return &participant, nil
}

// Exists reports whether the user is registered
func (r *ParticipantRepository) Exists(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM participants WHERE user_id = $1)`, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check participant %d: %w", userID, err)
	}
	return exists, nil
}

// ExistsForShare reports whether the user is registered and keeps the row
// from being deleted until the surrounding transaction ends
func (r *ParticipantRepository) ExistsForShare(ctx context.Context, userID int64) (bool, error) {
	var id int64
	err := r.q.QueryRow(ctx, `SELECT user_id FROM participants WHERE user_id = $1 FOR SHARE`, userID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to lock participant %d: %w", userID, err)
	}
	return true, nil
}

// GetAll returns every participant, ranked
func (r *ParticipantRepository) GetAll(ctx context.Context) ([]*models.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants p ` + participantRanking
	return r.queryParticipants(ctx, query)
}

// GetTop returns the highest ranked participants together with the total
// participant count, both read from the same statement snapshot
func (r *ParticipantRepository) GetTop(ctx context.Context, limit int) ([]*models.Participant, int, error) {
	if limit < 0 {
		limit = 0
	}

	query := `
		WITH total AS (SELECT COUNT(*) AS n FROM participants)
		SELECT top.user_id, top.joined_when, top.priority, total.n
		FROM total
		LEFT JOIN LATERAL (
			SELECT ` + participantColumns + ` FROM participants p ` + participantRanking + ` LIMIT $1
		) top ON true
		ORDER BY top.priority DESC, top.joined_when ASC, top.user_id ASC
	`
	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	participants := make([]*models.Participant, 0, limit)
	var total int
	for rows.Next() {
		var (
			userID     *int64
			joinedWhen *time.Time
			priority   *int
		)
		if err := rows.Scan(&userID, &joinedWhen, &priority, &total); err != nil {
			return nil, 0, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		// An empty page still yields one row carrying the total
		if userID == nil {
			continue
		}
		participants = append(participants, &models.Participant{
			UserID:     *userID,
			JoinedWhen: *joinedWhen,
			Priority:   *priority,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating leaderboard: %w", err)
	}

	return participants, total, nil
}

// Delete removes a participant. Referrals and redemptions are left intact.
func (r *ParticipantRepository) Delete(ctx context.Context, userID int64) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM participants WHERE user_id = $1`, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete participant %d: %w", userID, err)
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteAll removes every participant
func (r *ParticipantRepository) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM participants`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete participants: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *ParticipantRepository) queryParticipants(ctx context.Context, query string, args ...any) ([]*models.Participant, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants: %w", err)
	}
	defer rows.Close()

	participants := make([]*models.Participant, 0)
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.UserID, &p.JoinedWhen, &p.Priority); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating participants: %w", err)
	}

	return participants, nil
}
