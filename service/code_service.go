package service

import (
	"context"
	"errors"
	"fmt"

	"raffler/config"
	"raffler/events"
	"raffler/models"

	log "github.com/sirupsen/logrus"
)

// codeService implements the CodeService interface
type codeService struct {
	uowFactory UnitOfWorkFactory
	generate   CodeGenerator
	attempts   int
}

// NewCodeService creates a new code service drawing codes from crypto/rand
func NewCodeService(uowFactory UnitOfWorkFactory, cfg *config.Config) CodeService {
	return NewCodeServiceWithGenerator(uowFactory, cfg.CodeGenerationAttempts, RandomCode)
}

// NewCodeServiceWithGenerator creates a code service with a custom code source
func NewCodeServiceWithGenerator(uowFactory UnitOfWorkFactory, attempts int, generate CodeGenerator) CodeService {
	if attempts < 1 {
		attempts = 1
	}
	return &codeService{
		uowFactory: uowFactory,
		generate:   generate,
		attempts:   attempts,
	}
}

// GenerateCode creates a code with the given use policy. A collision with an
// existing code string is retried with a fresh candidate.
func (s *codeService) GenerateCode(ctx context.Context, policy models.CodeUsePolicy) (*models.RedeemableCode, error) {
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidUseCount, err)
	}

	var lastErr error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		candidate, err := s.generate()
		if err != nil {
			return nil, fmt.Errorf("failed to generate code: %w", err)
		}

		code, err := s.insertCode(ctx, candidate, policy)
		if err == nil {
			log.WithFields(log.Fields{
				"codeID":  code.ID,
				"policy":  policy.String(),
				"attempt": attempt,
			}).Info("Generated redeemable code")
			return code, nil
		}
		if !errors.Is(err, ErrCodeCollision) {
			return nil, err
		}

		log.WithFields(log.Fields{
			"attempt":     attempt,
			"maxAttempts": s.attempts,
		}).Warn("Generated code collided with an existing code")
		lastErr = err
	}

	return nil, fmt.Errorf("failed to generate a unique code after %d attempts: %w", s.attempts, lastErr)
}

func (s *codeService) insertCode(ctx context.Context, candidate string, policy models.CodeUsePolicy) (*models.RedeemableCode, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.LockShared(); err != nil {
		return nil, err
	}

	code, err := uow.CodeRepository().Create(ctx, candidate, policy.RemainingUses())
	if err != nil {
		return nil, err
	}

	uow.EventBus().Publish(events.CodeGeneratedEvent{
		CodeID:        code.ID,
		RemainingUses: code.RemainingUses,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit code: %w", err)
	}
	return code, nil
}

// ValidateCode looks a code string up. Only existence is checked.
func (s *codeService) ValidateCode(ctx context.Context, code string) (*models.CodeValidation, error) {
	found, err := s.GetCodeByName(ctx, code)
	if err != nil {
		return nil, err
	}
	if found == nil {
		return &models.CodeValidation{Valid: false, Reason: "code does not exist"}, nil
	}
	return &models.CodeValidation{Valid: true, CodeID: found.ID}, nil
}

// RedeemCode credits one redemption of codeID to userID. Checks run in the
// order user, code, prior redemption. A counted code reaching zero uses is
// deleted in the same transaction.
func (s *codeService) RedeemCode(ctx context.Context, userID, codeID int64) (models.RedeemResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.LockShared(); err != nil {
		return "", err
	}

	isParticipant, err := uow.ParticipantRepository().ExistsForShare(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to check participant: %w", err)
	}
	if !isParticipant {
		return models.RedeemResultNonExistingUser, nil
	}

	code, err := uow.CodeRepository().GetByIDForUpdate(ctx, codeID)
	if err != nil {
		return "", fmt.Errorf("failed to load code: %w", err)
	}
	if code == nil {
		return models.RedeemResultNonExistingCode, nil
	}

	recorded, err := uow.UsedCodeRepository().Create(ctx, userID, codeID)
	if err != nil {
		return "", fmt.Errorf("failed to record redemption: %w", err)
	}
	if !recorded {
		return models.RedeemResultAlreadyRedeemed, nil
	}

	if err := uow.CodeRepository().DecrementUses(ctx, codeID); err != nil {
		return "", err
	}
	if _, err := uow.CodeRepository().PurgeExhausted(ctx); err != nil {
		return "", err
	}

	purged := code.RemainingUses == 1
	uow.EventBus().Publish(events.CodeRedeemedEvent{
		UserID: userID,
		CodeID: codeID,
		Purged: purged,
	})

	if err := uow.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit redemption: %w", err)
	}

	log.WithFields(log.Fields{
		"userID": userID,
		"codeID": codeID,
		"purged": purged,
	}).Info("Code redeemed")

	return models.RedeemResultRedeemed, nil
}

// GetCodeByID returns a code by ID, or nil
func (s *codeService) GetCodeByID(ctx context.Context, codeID int64) (*models.RedeemableCode, error) {
	var code *models.RedeemableCode
	err := readOnly(ctx, s.uowFactory, func(uow UnitOfWork) error {
		var err error
		code, err = uow.CodeRepository().GetByID(ctx, codeID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get code: %w", err)
	}
	return code, nil
}

// GetCodeByName returns a code by its string, or nil
func (s *codeService) GetCodeByName(ctx context.Context, code string) (*models.RedeemableCode, error) {
	var found *models.RedeemableCode
	err := readOnly(ctx, s.uowFactory, func(uow UnitOfWork) error {
		var err error
		found, err = uow.CodeRepository().GetByCode(ctx, code)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get code: %w", err)
	}
	return found, nil
}

// HasRedeemed reports whether userID redeemed codeID, even if the code has since been purged
func (s *codeService) HasRedeemed(ctx context.Context, userID, codeID int64) (bool, error) {
	var redeemed bool
	err := readOnly(ctx, s.uowFactory, func(uow UnitOfWork) error {
		var err error
		redeemed, err = uow.UsedCodeRepository().Exists(ctx, userID, codeID)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("failed to check redemption: %w", err)
	}
	return redeemed, nil
}

// DeleteCode removes a code. Past redemptions keep their credit.
func (s *codeService) DeleteCode(ctx context.Context, codeID int64) (bool, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.LockShared(); err != nil {
		return false, err
	}

	deleted, err := uow.CodeRepository().Delete(ctx, codeID)
	if err != nil {
		return false, err
	}
	if !deleted {
		return false, nil
	}

	uow.EventBus().Publish(events.CodeDeletedEvent{CodeID: codeID})

	if err := uow.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit code deletion: %w", err)
	}

	log.WithField("codeID", codeID).Info("Code deleted")
	return true, nil
}
