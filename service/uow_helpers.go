package service

import (
	"context"
	"fmt"
)

// readOnly runs fn in a transaction that takes no ledger lock and is always rolled back
func readOnly(ctx context.Context, factory UnitOfWorkFactory, fn func(uow UnitOfWork) error) error {
	uow := factory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return fn(uow)
}
