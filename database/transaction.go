package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// LedgerLockKey is the advisory lock key guarding the raffle ledger.
// Participant and code mutations hold it shared, raffle lifecycle changes hold it exclusively.
const LedgerLockKey int64 = 0x726166666C65 // "raffle"

// WithTransaction executes a function within a database transaction
// If the function returns an error, the transaction is rolled back
// Otherwise, the transaction is committed
func (db *DB) WithTransaction(ctx context.Context, fn func(tx pgx.Tx) error) (err error) {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && rbErr != pgx.ErrTxClosed {
				err = fmt.Errorf("rollback failed: %v, original error: %w", rbErr, err)
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// AcquireSharedLedgerLock takes the ledger lock in shared mode until the transaction ends
func AcquireSharedLedgerLock(ctx context.Context, tx pgx.Tx) error {
	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock_shared($1)", LedgerLockKey); err != nil {
		return fmt.Errorf("failed to acquire shared ledger lock: %w", err)
	}
	return nil
}

// AcquireExclusiveLedgerLock takes the ledger lock in exclusive mode until the transaction ends
func AcquireExclusiveLedgerLock(ctx context.Context, tx pgx.Tx) error {
	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", LedgerLockKey); err != nil {
		return fmt.Errorf("failed to acquire exclusive ledger lock: %w", err)
	}
	return nil
}
