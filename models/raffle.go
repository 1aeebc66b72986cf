package models

import (
	"time"
)

// Raffle represents a timed campaign that ends by picking winners
type Raffle struct {
	ID          int64      `db:"raffle_id"`
	Name        string     `db:"name"`
	Description string     `db:"description"` // Opaque payload owned by the caller
	StartedWhen time.Time  `db:"started_when"`
	EndedWhen   *time.Time `db:"ended_when"` // NULL while the raffle is ongoing
}

// IsOngoing returns true if the raffle has not been stopped
func (r *Raffle) IsOngoing() bool {
	return r.EndedWhen == nil
}

// RaffleWinner is the denormalized record of a winner, written once at stop time
type RaffleWinner struct {
	RaffleID int64 `db:"raffle_id"`
	UserID   int64 `db:"user_id"`
	Position int   `db:"position"` // 0-based rank
	Priority int   `db:"priority"` // Priority at the moment the raffle was stopped
}

// RaffleCreationStatus represents the outcome of a raffle creation attempt
type RaffleCreationStatus string

const (
	RaffleCreationStatusSuccess       RaffleCreationStatus = "success"
	RaffleCreationStatusOngoingExists RaffleCreationStatus = "ongoing_exists"
)

// RaffleCreationResult carries the created raffle, or the one already running
type RaffleCreationResult struct {
	Status RaffleCreationStatus
	Raffle *Raffle
}
