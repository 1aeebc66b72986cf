package repository

import (
	"context"
	"errors"
	"fmt"

	"raffler/database"
	"raffler/events"
	"raffler/service"

	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"
)

// unitOfWork implements the UnitOfWork interface
type unitOfWork struct {
	db               *database.DB
	tx               pgx.Tx
	ctx              context.Context
	transactionalBus *events.TransactionalBus
	participantRepo  service.ParticipantRepository
	referralRepo     service.ReferralRepository
	codeRepo         service.CodeRepository
	usedCodeRepo     service.UsedCodeRepository
	raffleRepo       service.RaffleRepository
	raffleWinnerRepo service.RaffleWinnerRepository
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB, eventBus *events.Bus) service.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:       db,
		eventBus: eventBus,
	}
}

type unitOfWorkFactory struct {
	db       *database.DB
	eventBus *events.Bus
}

func (f *unitOfWorkFactory) Create() service.UnitOfWork {
	return &unitOfWork{
		db:               f.db,
		transactionalBus: events.NewTransactionalBus(f.eventBus),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	u.participantRepo = newParticipantRepositoryWithTx(tx)
	u.referralRepo = newReferralRepositoryWithTx(tx)
	u.codeRepo = newCodeRepositoryWithTx(tx)
	u.usedCodeRepo = newUsedCodeRepositoryWithTx(tx)
	u.raffleRepo = newRaffleRepositoryWithTx(tx)
	u.raffleWinnerRepo = newRaffleWinnerRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction and releases pending events
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	if err := u.tx.Commit(u.ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	if u.transactionalBus != nil {
		if err := u.transactionalBus.Flush(u.ctx); err != nil {
			log.WithError(err).Error("Failed to flush events after commit")
		}
	}

	return nil
}

// Rollback rolls back the transaction. It is a no-op after Commit.
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil

	if u.transactionalBus != nil {
		u.transactionalBus.Discard()
	}

	return nil
}

// LockShared takes the ledger lock in shared mode until the transaction ends
func (u *unitOfWork) LockShared() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to lock in")
	}
	return database.AcquireSharedLedgerLock(u.ctx, u.tx)
}

// LockExclusive takes the ledger lock in exclusive mode until the transaction ends
func (u *unitOfWork) LockExclusive() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to lock in")
	}
	return database.AcquireExclusiveLedgerLock(u.ctx, u.tx)
}

// ParticipantRepository returns the participant repository for this unit of work
func (u *unitOfWork) ParticipantRepository() service.ParticipantRepository {
	if u.participantRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.participantRepo
}

// ReferralRepository returns the referral repository for this unit of work
func (u *unitOfWork) ReferralRepository() service.ReferralRepository {
	if u.referralRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.referralRepo
}

// CodeRepository returns the code repository for this unit of work
func (u *unitOfWork) CodeRepository() service.CodeRepository {
	if u.codeRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.codeRepo
}

// UsedCodeRepository returns the used code repository for this unit of work
func (u *unitOfWork) UsedCodeRepository() service.UsedCodeRepository {
	if u.usedCodeRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.usedCodeRepo
}

// RaffleRepository returns the raffle repository for this unit of work
func (u *unitOfWork) RaffleRepository() service.RaffleRepository {
	if u.raffleRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.raffleRepo
}

// RaffleWinnerRepository returns the raffle winner repository for this unit of work
func (u *unitOfWork) RaffleWinnerRepository() service.RaffleWinnerRepository {
	if u.raffleWinnerRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.raffleWinnerRepo
}

// EventBus returns the transactional event bus for this unit of work
func (u *unitOfWork) EventBus() service.EventPublisher {
	if u.transactionalBus == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.transactionalBus
}
