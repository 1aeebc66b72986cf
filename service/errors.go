package service

import "errors"

var (
	// ErrNoOngoingRaffle is returned when stopping while no raffle is running
	ErrNoOngoingRaffle = errors.New("no ongoing raffle")

	// ErrRaffleAlreadyStopped is returned when the raffle was ended by a concurrent stop
	ErrRaffleAlreadyStopped = errors.New("raffle was already stopped")

	// ErrCodeCollision is returned when a generated code string is already taken
	ErrCodeCollision = errors.New("generated code already exists")

	// ErrInvalidUseCount is returned for a code use policy that is neither positive nor unlimited
	ErrInvalidUseCount = errors.New("invalid code use count")

	// ErrInvalidWinnerCount is returned for a negative number of winners
	ErrInvalidWinnerCount = errors.New("number of winners cannot be negative")
)
