package service

import (
	"context"
	"fmt"
	"time"

	"raffler/events"
	"raffler/models"

	log "github.com/sirupsen/logrus"
)

// raffleService implements the RaffleService interface
type raffleService struct {
	uowFactory UnitOfWorkFactory
	now        func() time.Time
}

// NewRaffleService creates a new raffle service
func NewRaffleService(uowFactory UnitOfWorkFactory) RaffleService {
	return &raffleService{
		uowFactory: uowFactory,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// CreateRaffle starts a raffle. If one is already running it is returned
// with RaffleCreationStatusOngoingExists and nothing is written.
func (s *raffleService) CreateRaffle(ctx context.Context, name, description string) (*models.RaffleCreationResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.LockExclusive(); err != nil {
		return nil, err
	}

	existing, err := uow.RaffleRepository().GetOngoing(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check ongoing raffle: %w", err)
	}
	if existing != nil {
		return &models.RaffleCreationResult{
			Status: models.RaffleCreationStatusOngoingExists,
			Raffle: existing,
		}, nil
	}

	raffle, err := uow.RaffleRepository().Create(ctx, name, description)
	if err != nil {
		return nil, err
	}

	uow.EventBus().Publish(events.RaffleCreatedEvent{
		RaffleID: raffle.ID,
		Name:     raffle.Name,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit raffle: %w", err)
	}

	log.WithFields(log.Fields{
		"raffleID": raffle.ID,
		"name":     raffle.Name,
	}).Info("Raffle started")

	return &models.RaffleCreationResult{
		Status: models.RaffleCreationStatusSuccess,
		Raffle: raffle,
	}, nil
}

// GetOngoingRaffle returns the running raffle, or nil
func (s *raffleService) GetOngoingRaffle(ctx context.Context) (*models.Raffle, error) {
	var raffle *models.Raffle
	err := readOnly(ctx, s.uowFactory, func(uow UnitOfWork) error {
		var err error
		raffle, err = uow.RaffleRepository().GetOngoing(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get ongoing raffle: %w", err)
	}
	return raffle, nil
}

// GetRaffle returns a raffle by ID, or nil
func (s *raffleService) GetRaffle(ctx context.Context, raffleID int64) (*models.Raffle, error) {
	var raffle *models.Raffle
	err := readOnly(ctx, s.uowFactory, func(uow UnitOfWork) error {
		var err error
		raffle, err = uow.RaffleRepository().GetByID(ctx, raffleID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get raffle %d: %w", raffleID, err)
	}
	return raffle, nil
}

// StopRaffle ends the running raffle. The ranked participants are snapshotted,
// the ledger is emptied, and the top numWinners are recorded and returned.
// Everything happens in one transaction that excludes every other mutation.
func (s *raffleService) StopRaffle(ctx context.Context, numWinners int) ([]*models.Participant, error) {
	if numWinners < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWinnerCount, numWinners)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.LockExclusive(); err != nil {
		return nil, err
	}

	raffle, err := uow.RaffleRepository().GetOngoingForUpdate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load ongoing raffle: %w", err)
	}
	if raffle == nil {
		return nil, ErrNoOngoingRaffle
	}

	snapshot, err := uow.ParticipantRepository().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot participants: %w", err)
	}
	ranked := RankParticipants(snapshot)

	if err := s.resetLedger(ctx, uow); err != nil {
		return nil, err
	}

	ended, err := uow.RaffleRepository().MarkEnded(ctx, raffle.ID, s.now())
	if err != nil {
		return nil, err
	}
	if !ended {
		return nil, ErrRaffleAlreadyStopped
	}

	winners := SelectWinners(ranked, numWinners)
	records := make([]*models.RaffleWinner, len(winners))
	infos := make([]events.RaffleWinnerInfo, len(winners))
	for i, w := range winners {
		records[i] = &models.RaffleWinner{
			RaffleID: raffle.ID,
			UserID:   w.UserID,
			Position: i,
			Priority: w.Priority,
		}
		infos[i] = events.RaffleWinnerInfo{
			UserID:   w.UserID,
			Position: i,
			Priority: w.Priority,
		}
	}

	if err := uow.RaffleWinnerRepository().CreateBatch(ctx, records); err != nil {
		return nil, err
	}

	uow.EventBus().Publish(events.RaffleStoppedEvent{
		RaffleID:          raffle.ID,
		Winners:           infos,
		TotalParticipants: len(ranked),
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit raffle stop: %w", err)
	}

	log.WithFields(log.Fields{
		"raffleID":     raffle.ID,
		"participants": len(ranked),
		"winners":      len(winners),
	}).Info("Raffle stopped")

	return winners, nil
}

// resetLedger empties every per-cycle table
func (s *raffleService) resetLedger(ctx context.Context, uow UnitOfWork) error {
	referrals, err := uow.ReferralRepository().DeleteAll(ctx)
	if err != nil {
		return err
	}
	usedCodes, err := uow.UsedCodeRepository().DeleteAll(ctx)
	if err != nil {
		return err
	}
	codes, err := uow.CodeRepository().DeleteAll(ctx)
	if err != nil {
		return err
	}
	participants, err := uow.ParticipantRepository().DeleteAll(ctx)
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"referrals":    referrals,
		"usedCodes":    usedCodes,
		"codes":        codes,
		"participants": participants,
	}).Debug("Ledger reset")
	return nil
}

// GetRaffleWinners returns the recorded winners of a raffle ordered by position
func (s *raffleService) GetRaffleWinners(ctx context.Context, raffleID int64) ([]*models.RaffleWinner, error) {
	var winners []*models.RaffleWinner
	err := readOnly(ctx, s.uowFactory, func(uow UnitOfWork) error {
		var err error
		winners, err = uow.RaffleWinnerRepository().GetByRaffleID(ctx, raffleID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get raffle winners: %w", err)
	}
	return winners, nil
}
