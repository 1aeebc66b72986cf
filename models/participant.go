package models

import (
	"time"
)

// Participant represents a registered entrant in the current raffle cycle
type Participant struct {
	UserID     int64     `db:"user_id"`
	JoinedWhen time.Time `db:"joined_when"`
	Priority   int       `db:"-"` // Calculated field: 1 + referees + redeemed codes
}

// Referral records that ReferrerID invited RefereeID
type Referral struct {
	ReferrerID int64 `db:"referrer_id"`
	RefereeID  int64 `db:"referee_id"`
}

// RegistrationStatus represents the outcome of a registration attempt
type RegistrationStatus string

const (
	RegistrationStatusRegistered        RegistrationStatus = "registered"
	RegistrationStatusAlreadyRegistered RegistrationStatus = "already_registered"
)

// RegistrationResult is returned by a registration attempt
type RegistrationResult struct {
	Status      RegistrationStatus
	Participant *Participant // Set when Status is RegistrationStatusRegistered
	Referred    bool         // Whether a referral was recorded alongside the registration
}

// IsRegistered returns true if the attempt created a new participant
func (r *RegistrationResult) IsRegistered() bool {
	return r != nil && r.Status == RegistrationStatusRegistered
}

// Leaderboard is a ranked view over the current participants
type Leaderboard struct {
	Entries           []*Participant
	TotalParticipants int
}
