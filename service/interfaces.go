package service

import (
	"context"
	"time"

	"raffler/events"
	"raffler/models"
)

// ParticipantRepository defines the interface for participant data access
type ParticipantRepository interface {
	// Create inserts a participant, returning nil if the user is already registered
	Create(ctx context.Context, userID int64) (*models.Participant, error)

	// GetByUserID retrieves a participant with its live priority
	GetByUserID(ctx context.Context, userID int64) (*models.Participant, error)

	// Exists reports whether the user is a registered participant
	Exists(ctx context.Context, userID int64) (bool, error)

	// ExistsForShare is Exists holding a share lock on the row until the transaction ends
	ExistsForShare(ctx context.Context, userID int64) (bool, error)

	// GetAll returns every participant with its live priority, ranked
	GetAll(ctx context.Context) ([]*models.Participant, error)

	// GetTop returns the highest ranked participants and the total participant count
	GetTop(ctx context.Context, limit int) ([]*models.Participant, int, error)

	// Delete removes a participant, reporting whether a row was removed
	Delete(ctx context.Context, userID int64) (bool, error)

	// DeleteAll removes every participant
	DeleteAll(ctx context.Context) (int64, error)
}

// ReferralRepository defines the interface for the referral graph
type ReferralRepository interface {
	// Create records a referral, returning false if the referee already has a referrer
	Create(ctx context.Context, referrerID, refereeID int64) (bool, error)

	// GetReferees returns the users referred by referrerID
	GetReferees(ctx context.Context, referrerID int64) ([]int64, error)

	// GetReferrer returns the user that referred refereeID, if any
	GetReferrer(ctx context.Context, refereeID int64) (*int64, error)

	// DeleteAll removes every referral
	DeleteAll(ctx context.Context) (int64, error)
}

// CodeRepository defines the interface for redeemable code data access
type CodeRepository interface {
	// Create inserts a code; a taken code string yields ErrCodeCollision
	Create(ctx context.Context, code string, remainingUses int) (*models.RedeemableCode, error)

	// GetByID retrieves a code by its ID
	GetByID(ctx context.Context, id int64) (*models.RedeemableCode, error)

	// GetByIDForUpdate retrieves a code by ID with row lock for update
	GetByIDForUpdate(ctx context.Context, id int64) (*models.RedeemableCode, error)

	// GetByCode retrieves a code by its string
	GetByCode(ctx context.Context, code string) (*models.RedeemableCode, error)

	// DecrementUses consumes one use of a counted code; unlimited codes are untouched
	DecrementUses(ctx context.Context, id int64) error

	// PurgeExhausted deletes every code whose remaining uses reached zero
	PurgeExhausted(ctx context.Context) (int64, error)

	// Delete removes a code, reporting whether a row was removed
	Delete(ctx context.Context, id int64) (bool, error)

	// DeleteAll removes every code
	DeleteAll(ctx context.Context) (int64, error)
}

// UsedCodeRepository defines the interface for redemption records
type UsedCodeRepository interface {
	// Create records a redemption, returning false if the pair was already redeemed
	Create(ctx context.Context, userID, codeID int64) (bool, error)

	// Exists reports whether the user has redeemed the code
	Exists(ctx context.Context, userID, codeID int64) (bool, error)

	// DeleteAll removes every redemption record
	DeleteAll(ctx context.Context) (int64, error)
}

// RaffleRepository defines the interface for raffle data access
type RaffleRepository interface {
	// Create inserts a new ongoing raffle
	Create(ctx context.Context, name, description string) (*models.Raffle, error)

	// GetByID retrieves a raffle by its ID
	GetByID(ctx context.Context, id int64) (*models.Raffle, error)

	// GetOngoing returns the raffle with no end time, if any
	GetOngoing(ctx context.Context) (*models.Raffle, error)

	// GetOngoingForUpdate is GetOngoing with a row lock for update
	GetOngoingForUpdate(ctx context.Context) (*models.Raffle, error)

	// MarkEnded sets ended_when on an ongoing raffle, returning false if it was not ongoing
	MarkEnded(ctx context.Context, id int64, endedWhen time.Time) (bool, error)
}

// RaffleWinnerRepository defines the interface for the winners record
type RaffleWinnerRepository interface {
	// CreateBatch writes the winners of a raffle
	CreateBatch(ctx context.Context, winners []*models.RaffleWinner) error

	// GetByRaffleID returns the winners of a raffle ordered by position
	GetByRaffleID(ctx context.Context, raffleID int64) ([]*models.RaffleWinner, error)
}

// ParticipantService defines the interface for the participant registry
type ParticipantService interface {
	// Register adds a participant, crediting referrerID when it is a participant
	Register(ctx context.Context, userID int64, referrerID *int64) (*models.RegistrationResult, error)

	// Remove deletes a participant, keeping its referral and redemption history
	Remove(ctx context.Context, userID int64) (bool, error)

	// IsParticipant reports whether the user is registered
	IsParticipant(ctx context.Context, userID int64) (bool, error)

	// GetParticipant returns the participant with its live priority, or nil
	GetParticipant(ctx context.Context, userID int64) (*models.Participant, error)

	// GetParticipants returns every participant, ranked
	GetParticipants(ctx context.Context) ([]*models.Participant, error)

	// GetReferees returns the users referred by userID
	GetReferees(ctx context.Context, userID int64) ([]int64, error)

	// GetReferrer returns the user that referred userID, if any
	GetReferrer(ctx context.Context, userID int64) (*int64, error)

	// GetLeaderboard returns the top participants and the total participant count
	GetLeaderboard(ctx context.Context, limit int) (*models.Leaderboard, error)
}

// CodeService defines the interface for the redeemable code ledger
type CodeService interface {
	// GenerateCode creates a random code with the given use policy
	GenerateCode(ctx context.Context, policy models.CodeUsePolicy) (*models.RedeemableCode, error)

	// ValidateCode looks a code string up
	ValidateCode(ctx context.Context, code string) (*models.CodeValidation, error)

	// RedeemCode credits a redemption of codeID to userID
	RedeemCode(ctx context.Context, userID, codeID int64) (models.RedeemResult, error)

	// GetCodeByID returns a code by ID, or nil
	GetCodeByID(ctx context.Context, codeID int64) (*models.RedeemableCode, error)

	// GetCodeByName returns a code by its string, or nil
	GetCodeByName(ctx context.Context, code string) (*models.RedeemableCode, error)

	// HasRedeemed reports whether userID redeemed codeID
	HasRedeemed(ctx context.Context, userID, codeID int64) (bool, error)

	// DeleteCode removes a code, reporting whether it existed
	DeleteCode(ctx context.Context, codeID int64) (bool, error)
}

// RaffleService defines the interface for the raffle lifecycle
type RaffleService interface {
	// CreateRaffle starts a raffle unless one is already ongoing
	CreateRaffle(ctx context.Context, name, description string) (*models.RaffleCreationResult, error)

	// GetOngoingRaffle returns the ongoing raffle, or nil
	GetOngoingRaffle(ctx context.Context) (*models.Raffle, error)

	// GetRaffle returns a raffle by ID whether ongoing or ended, or nil
	GetRaffle(ctx context.Context, raffleID int64) (*models.Raffle, error)

	// StopRaffle ends the ongoing raffle, resets the ledger and returns the top numWinners participants
	StopRaffle(ctx context.Context, numWinners int) ([]*models.Participant, error)

	// GetRaffleWinners returns the recorded winners of a raffle
	GetRaffleWinners(ctx context.Context, raffleID int64) ([]*models.RaffleWinner, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// LockShared takes the ledger lock in shared mode for the rest of the transaction
	LockShared() error

	// LockExclusive takes the ledger lock in exclusive mode for the rest of the transaction
	LockExclusive() error

	// Repository getters
	ParticipantRepository() ParticipantRepository
	ReferralRepository() ReferralRepository
	CodeRepository() CodeRepository
	UsedCodeRepository() UsedCodeRepository
	RaffleRepository() RaffleRepository
	RaffleWinnerRepository() RaffleWinnerRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// Create creates a new UnitOfWork instance
	Create() UnitOfWork
}
