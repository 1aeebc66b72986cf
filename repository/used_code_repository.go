package repository

import (
	"context"
	"fmt"

	"raffler/database"
)

// UsedCodeRepository implements the UsedCodeRepository interface
type UsedCodeRepository struct {
	q queryable
}

// NewUsedCodeRepository creates a new used code repository
func NewUsedCodeRepository(db *database.DB) *UsedCodeRepository {
	return &UsedCodeRepository{q: db.Pool}
}

// newUsedCodeRepositoryWithTx creates a new used code repository with a transaction
func newUsedCodeRepositoryWithTx(tx queryable) *UsedCodeRepository {
	return &UsedCodeRepository{q: tx}
}

// Create records a redemption. It returns false if the user already redeemed the code.
func (r *UsedCodeRepository) Create(ctx context.Context, userID, codeID int64) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		INSERT INTO used_codes (user_id, code_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, code_id) DO NOTHING
	`, userID, codeID)
	if err != nil {
		return false, fmt.Errorf("failed to record redemption of code %d by %d: %w", codeID, userID, err)
	}
	return tag.RowsAffected() > 0, nil
}

// Exists reports whether the user redeemed the code
func (r *UsedCodeRepository) Exists(ctx context.Context, userID, codeID int64) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM used_codes WHERE user_id = $1 AND code_id = $2)
	`, userID, codeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check redemption of code %d by %d: %w", codeID, userID, err)
	}
	return exists, nil
}

// DeleteAll removes every redemption record
func (r *UsedCodeRepository) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM used_codes`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete used codes: %w", err)
	}
	return tag.RowsAffected(), nil
}
