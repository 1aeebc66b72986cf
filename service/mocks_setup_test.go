package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
)

type mockLedger struct {
	factory      *MockUnitOfWorkFactory
	uow          *MockUnitOfWork
	participants *MockParticipantRepository
	referrals    *MockReferralRepository
	codes        *MockCodeRepository
	usedCodes    *MockUsedCodeRepository
	raffles      *MockRaffleRepository
	winners      *MockRaffleWinnerRepository
	publisher    *MockEventPublisher
}

// newMockLedger wires a mock unit of work that begins and rolls back cleanly.
// Commit and lock expectations are left to each test.
func newMockLedger(ctx context.Context) *mockLedger {
	l := &mockLedger{
		factory:      new(MockUnitOfWorkFactory),
		uow:          new(MockUnitOfWork),
		participants: new(MockParticipantRepository),
		referrals:    new(MockReferralRepository),
		codes:        new(MockCodeRepository),
		usedCodes:    new(MockUsedCodeRepository),
		raffles:      new(MockRaffleRepository),
		winners:      new(MockRaffleWinnerRepository),
		publisher:    new(MockEventPublisher),
	}
	l.uow.SetRepositories(l.participants, l.referrals, l.codes, l.usedCodes, l.raffles, l.winners, l.publisher)

	l.factory.On("Create").Return(l.uow)
	l.uow.On("Begin", ctx).Return(nil)
	l.uow.On("Rollback").Return(nil)
	return l
}

func (l *mockLedger) expectCommit() {
	l.uow.On("Commit").Return(nil)
}

func (l *mockLedger) expectPublish() {
	l.publisher.On("Publish", mock.Anything).Return()
}

func (l *mockLedger) assertExpectations(t *testing.T) {
	t.Helper()
	l.factory.AssertExpectations(t)
	l.uow.AssertExpectations(t)
	l.participants.AssertExpectations(t)
	l.referrals.AssertExpectations(t)
	l.codes.AssertExpectations(t)
	l.usedCodes.AssertExpectations(t)
	l.raffles.AssertExpectations(t)
	l.winners.AssertExpectations(t)
	l.publisher.AssertExpectations(t)
}
