package repository

import (
	"context"
	"errors"
	"fmt"

	"raffler/database"
	"raffler/models"
	"raffler/service"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation      = "23505"
	codeUniqueConstraint = "redeemable_codes_code_unique"
)

// CodeRepository implements the CodeRepository interface
type CodeRepository struct {
	q queryable
}

// NewCodeRepository creates a new code repository
func NewCodeRepository(db *database.DB) *CodeRepository {
	return &CodeRepository{q: db.Pool}
}

// newCodeRepositoryWithTx creates a new code repository with a transaction
func newCodeRepositoryWithTx(tx queryable) *CodeRepository {
	return &CodeRepository{q: tx}
}

// Create inserts a code. A code string that is already taken yields service.ErrCodeCollision.
func (r *CodeRepository) Create(ctx context.Context, code string, remainingUses int) (*models.RedeemableCode, error) {
	query := `
		INSERT INTO redeemable_codes (code, remaining_uses)
		VALUES ($1, $2)
		RETURNING code_id, code, remaining_uses, generated_when
	`

	var c models.RedeemableCode
	err := r.q.QueryRow(ctx, query, code, remainingUses).Scan(
		&c.ID,
		&c.Code,
		&c.RemainingUses,
		&c.GeneratedWhen,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == codeUniqueConstraint {
			return nil, fmt.Errorf("code %q: %w", code, service.ErrCodeCollision)
		}
		return nil, fmt.Errorf("failed to create code: %w", err)
	}

	return &c, nil
}

// GetByID retrieves a code by its ID
func (r *CodeRepository) GetByID(ctx context.Context, id int64) (*models.RedeemableCode, error) {
	return r.getOne(ctx, `
		SELECT code_id, code, remaining_uses, generated_when
		FROM redeemable_codes
		WHERE code_id = $1
	`, id)
}

// GetByIDForUpdate retrieves a code by its ID and locks the row
func (r *CodeRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.RedeemableCode, error) {
	return r.getOne(ctx, `
		SELECT code_id, code, remaining_uses, generated_when
		FROM redeemable_codes
		WHERE code_id = $1
		FOR UPDATE
	`, id)
}

// GetByCode retrieves a code by its string
func (r *CodeRepository) GetByCode(ctx context.Context, code string) (*models.RedeemableCode, error) {
	return r.getOne(ctx, `
		SELECT code_id, code, remaining_uses, generated_when
		FROM redeemable_codes
		WHERE code = $1
	`, code)
}

// DecrementUses consumes one use of a counted code. Unlimited codes never change.
func (r *CodeRepository) DecrementUses(ctx context.Context, id int64) error {
	_, err := r.q.Exec(ctx, `
		UPDATE redeemable_codes
		SET remaining_uses = remaining_uses - 1
		WHERE code_id = $1 AND remaining_uses > 0
	`, id)
	if err != nil {
		return fmt.Errorf("failed to decrement uses of code %d: %w", id, err)
	}
	return nil
}

// PurgeExhausted deletes codes with no uses left
func (r *CodeRepository) PurgeExhausted(ctx context.Context) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM redeemable_codes WHERE remaining_uses = 0`)
	if err != nil {
		return 0, fmt.Errorf("failed to purge exhausted codes: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Delete removes a code
func (r *CodeRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM redeemable_codes WHERE code_id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete code %d: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteAll removes every code
func (r *CodeRepository) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM redeemable_codes`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete codes: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *CodeRepository) getOne(ctx context.Context, query string, arg any) (*models.RedeemableCode, error) {
	var c models.RedeemableCode
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&c.ID,
		&c.Code,
		&c.RemainingUses,
		&c.GeneratedWhen,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get code %v: %w", arg, err)
	}
	return &c, nil
}
