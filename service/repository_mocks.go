package service

import (
	"context"
	"time"

	"raffler/events"
	"raffler/models"

	"github.com/stretchr/testify/mock"
)

// MockParticipantRepository is a mock implementation of ParticipantRepository
type MockParticipantRepository struct {
	mock.Mock
}

func (m *MockParticipantRepository) Create(ctx context.Context, userID int64) (*models.Participant, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Participant), args.Error(1)
}

func (m *MockParticipantRepository) GetByUserID(ctx context.Context, userID int64) (*models.Participant, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Participant), args.Error(1)
}

func (m *MockParticipantRepository) Exists(ctx context.Context, userID int64) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockParticipantRepository) ExistsForShare(ctx context.Context, userID int64) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockParticipantRepository) GetAll(ctx context.Context) ([]*models.Participant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Participant), args.Error(1)
}

func (m *MockParticipantRepository) GetTop(ctx context.Context, limit int) ([]*models.Participant, int, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.Participant), args.Int(1), args.Error(2)
}

func (m *MockParticipantRepository) Delete(ctx context.Context, userID int64) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockParticipantRepository) DeleteAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockReferralRepository is a mock implementation of ReferralRepository
type MockReferralRepository struct {
	mock.Mock
}

func (m *MockReferralRepository) Create(ctx context.Context, referrerID, refereeID int64) (bool, error) {
	args := m.Called(ctx, referrerID, refereeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockReferralRepository) GetReferees(ctx context.Context, referrerID int64) ([]int64, error) {
	args := m.Called(ctx, referrerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockReferralRepository) GetReferrer(ctx context.Context, refereeID int64) (*int64, error) {
	args := m.Called(ctx, refereeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*int64), args.Error(1)
}

func (m *MockReferralRepository) DeleteAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockCodeRepository is a mock implementation of CodeRepository
type MockCodeRepository struct {
	mock.Mock
}

func (m *MockCodeRepository) Create(ctx context.Context, code string, remainingUses int) (*models.RedeemableCode, error) {
	args := m.Called(ctx, code, remainingUses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RedeemableCode), args.Error(1)
}

func (m *MockCodeRepository) GetByID(ctx context.Context, id int64) (*models.RedeemableCode, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RedeemableCode), args.Error(1)
}

func (m *MockCodeRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.RedeemableCode, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RedeemableCode), args.Error(1)
}

func (m *MockCodeRepository) GetByCode(ctx context.Context, code string) (*models.RedeemableCode, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RedeemableCode), args.Error(1)
}

func (m *MockCodeRepository) DecrementUses(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCodeRepository) PurgeExhausted(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCodeRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCodeRepository) DeleteAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockUsedCodeRepository is a mock implementation of UsedCodeRepository
type MockUsedCodeRepository struct {
	mock.Mock
}

func (m *MockUsedCodeRepository) Create(ctx context.Context, userID, codeID int64) (bool, error) {
	args := m.Called(ctx, userID, codeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUsedCodeRepository) Exists(ctx context.Context, userID, codeID int64) (bool, error) {
	args := m.Called(ctx, userID, codeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUsedCodeRepository) DeleteAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockRaffleRepository is a mock implementation of RaffleRepository
type MockRaffleRepository struct {
	mock.Mock
}

func (m *MockRaffleRepository) Create(ctx context.Context, name, description string) (*models.Raffle, error) {
	args := m.Called(ctx, name, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Raffle), args.Error(1)
}

func (m *MockRaffleRepository) GetByID(ctx context.Context, id int64) (*models.Raffle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Raffle), args.Error(1)
}

func (m *MockRaffleRepository) GetOngoing(ctx context.Context) (*models.Raffle, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Raffle), args.Error(1)
}

func (m *MockRaffleRepository) GetOngoingForUpdate(ctx context.Context) (*models.Raffle, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Raffle), args.Error(1)
}

func (m *MockRaffleRepository) MarkEnded(ctx context.Context, id int64, endedWhen time.Time) (bool, error) {
	args := m.Called(ctx, id, endedWhen)
	return args.Bool(0), args.Error(1)
}

// MockRaffleWinnerRepository is a mock implementation of RaffleWinnerRepository
type MockRaffleWinnerRepository struct {
	mock.Mock
}

func (m *MockRaffleWinnerRepository) CreateBatch(ctx context.Context, winners []*models.RaffleWinner) error {
	args := m.Called(ctx, winners)
	return args.Error(0)
}

func (m *MockRaffleWinnerRepository) GetByRaffleID(ctx context.Context, raffleID int64) ([]*models.RaffleWinner, error) {
	args := m.Called(ctx, raffleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RaffleWinner), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// MockUnitOfWork is a mock implementation of UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
	participantRepo  ParticipantRepository
	referralRepo     ReferralRepository
	codeRepo         CodeRepository
	usedCodeRepo     UsedCodeRepository
	raffleRepo       RaffleRepository
	raffleWinnerRepo RaffleWinnerRepository
	eventBus         EventPublisher
}

// SetRepositories wires the repositories returned by the getters. Any argument may be nil.
func (m *MockUnitOfWork) SetRepositories(
	participantRepo ParticipantRepository,
	referralRepo ReferralRepository,
	codeRepo CodeRepository,
	usedCodeRepo UsedCodeRepository,
	raffleRepo RaffleRepository,
	raffleWinnerRepo RaffleWinnerRepository,
	eventBus EventPublisher,
) {
	m.participantRepo = participantRepo
	m.referralRepo = referralRepo
	m.codeRepo = codeRepo
	m.usedCodeRepo = usedCodeRepo
	m.raffleRepo = raffleRepo
	m.raffleWinnerRepo = raffleWinnerRepo
	m.eventBus = eventBus
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) LockShared() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) LockExclusive() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) ParticipantRepository() ParticipantRepository {
	return m.participantRepo
}

func (m *MockUnitOfWork) ReferralRepository() ReferralRepository {
	return m.referralRepo
}

func (m *MockUnitOfWork) CodeRepository() CodeRepository {
	return m.codeRepo
}

func (m *MockUnitOfWork) UsedCodeRepository() UsedCodeRepository {
	return m.usedCodeRepo
}

func (m *MockUnitOfWork) RaffleRepository() RaffleRepository {
	return m.raffleRepo
}

func (m *MockUnitOfWork) RaffleWinnerRepository() RaffleWinnerRepository {
	return m.raffleWinnerRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.eventBus
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
