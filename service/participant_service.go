package service

import (
	"context"
	"fmt"

	"raffler/events"
	"raffler/models"

	log "github.com/sirupsen/logrus"
)

// participantService implements the ParticipantService interface
type participantService struct {
	uowFactory UnitOfWorkFactory
}

// NewParticipantService creates a new participant service
func NewParticipantService(uowFactory UnitOfWorkFactory) ParticipantService {
	return &participantService{
		uowFactory: uowFactory,
	}
}

// Register adds userID to the current raffle cycle. When referrerID names a
// participant other than the user, the referral is recorded in the same
// transaction; otherwise it is dropped without error.
func (s *participantService) Register(ctx context.Context, userID int64, referrerID *int64) (*models.RegistrationResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.LockShared(); err != nil {
		return nil, err
	}

	participant, err := uow.ParticipantRepository().Create(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to register participant: %w", err)
	}
	if participant == nil {
		return &models.RegistrationResult{Status: models.RegistrationStatusAlreadyRegistered}, nil
	}

	referred := false
	if referrerID != nil {
		referred, err = s.recordReferral(ctx, uow, *referrerID, userID)
		if err != nil {
			return nil, err
		}
	}

	event := events.ParticipantRegisteredEvent{UserID: userID}
	if referred {
		event.ReferrerID = referrerID
	}
	uow.EventBus().Publish(event)

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit registration: %w", err)
	}

	log.WithFields(log.Fields{
		"userID":   userID,
		"referred": referred,
	}).Info("Participant registered")

	// Referral and redemption history kept across a leave/rejoin counts again
	live, err := s.GetParticipant(ctx, userID)
	if err != nil {
		return nil, err
	}
	if live != nil {
		participant = live
	}

	return &models.RegistrationResult{
		Status:      models.RegistrationStatusRegistered,
		Participant: participant,
		Referred:    referred,
	}, nil
}

func (s *participantService) recordReferral(ctx context.Context, uow UnitOfWork, referrerID, refereeID int64) (bool, error) {
	if referrerID == refereeID {
		log.WithField("userID", refereeID).Debug("Dropping self referral")
		return false, nil
	}

	isParticipant, err := uow.ParticipantRepository().ExistsForShare(ctx, referrerID)
	if err != nil {
		return false, fmt.Errorf("failed to check referrer: %w", err)
	}
	if !isParticipant {
		log.WithFields(log.Fields{
			"referrerID": referrerID,
			"refereeID":  refereeID,
		}).Debug("Dropping referral from non-participant")
		return false, nil
	}

	created, err := uow.ReferralRepository().Create(ctx, referrerID, refereeID)
	if err != nil {
		return false, fmt.Errorf("failed to record referral: %w", err)
	}
	if !created {
		log.WithFields(log.Fields{
			"referrerID": referrerID,
			"refereeID":  refereeID,
		}).Debug("Referee already credited to a referrer")
	}
	return created, nil
}

// Remove deletes a participant. Referrals and redemptions stay on record.
func (s *participantService) Remove(ctx context.Context, userID int64) (bool, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.LockShared(); err != nil {
		return false, err
	}

	removed, err := uow.ParticipantRepository().Delete(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("failed to remove participant: %w", err)
	}
	if !removed {
		return false, nil
	}

	uow.EventBus().Publish(events.ParticipantRemovedEvent{UserID: userID})

	if err := uow.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit removal: %w", err)
	}

	log.WithField("userID", userID).Info("Participant removed")
	return true, nil
}

// IsParticipant reports whether the user is registered
func (s *participantService) IsParticipant(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := readOnly(ctx, s.uowFactory, func(uow UnitOfWork) error {
		var err error
		exists, err = uow.ParticipantRepository().Exists(ctx, userID)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("failed to check participant: %w", err)
	}
	return exists, nil
}

// GetParticipant returns the participant with its live priority, or nil
func (s *participantService) GetParticipant(ctx context.Context, userID int64) (*models.Participant, error) {
	var participant *models.Participant
	err := readOnly(ctx, s.uowFactory, func(uow UnitOfWork) error {
		var err error
		participant, err = uow.ParticipantRepository().GetByUserID(ctx, userID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	return participant, nil
}

// GetParticipants returns every participant, ranked
func (s *participantService) GetParticipants(ctx context.Context) ([]*models.Participant, error) {
	var participants []*models.Participant
	err := readOnly(ctx, s.uowFactory, func(uow UnitOfWork) error {
		var err error
		participants, err = uow.ParticipantRepository().GetAll(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	return RankParticipants(participants), nil
}

// GetReferees returns the users referred by userID
func (s *participantService) GetReferees(ctx context.Context, userID int64) ([]int64, error) {
	var referees []int64
	err := readOnly(ctx, s.uowFactory, func(uow UnitOfWork) error {
		var err error
		referees, err = uow.ReferralRepository().GetReferees(ctx, userID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get referees: %w", err)
	}
	return referees, nil
}

// GetReferrer returns the user that referred userID, if any
func (s *participantService) GetReferrer(ctx context.Context, userID int64) (*int64, error) {
	var referrer *int64
	err := readOnly(ctx, s.uowFactory, func(uow UnitOfWork) error {
		var err error
		referrer, err = uow.ReferralRepository().GetReferrer(ctx, userID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get referrer: %w", err)
	}
	return referrer, nil
}

// GetLeaderboard returns the top participants and the total participant count
func (s *participantService) GetLeaderboard(ctx context.Context, limit int) (*models.Leaderboard, error) {
	board := &models.Leaderboard{}
	err := readOnly(ctx, s.uowFactory, func(uow UnitOfWork) error {
		var err error
		board.Entries, board.TotalParticipants, err = uow.ParticipantRepository().GetTop(ctx, limit)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}
	board.Entries = RankParticipants(board.Entries)
	return board, nil
}
