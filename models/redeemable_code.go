package models

import (
	"fmt"
	"time"
)

// UnlimitedUses is the remaining_uses sentinel of a code that never runs out
const UnlimitedUses = -1

// RedeemableCode represents a bonus code that grants priority when redeemed
type RedeemableCode struct {
	ID            int64     `db:"code_id"`
	Code          string    `db:"code"`
	RemainingUses int       `db:"remaining_uses"`
	GeneratedWhen time.Time `db:"generated_when"`
}

// IsUnlimited returns true if the code can be redeemed any number of times
func (c *RedeemableCode) IsUnlimited() bool {
	return c.RemainingUses == UnlimitedUses
}

// UsedCode records one successful redemption
type UsedCode struct {
	UserID   int64     `db:"user_id"`
	CodeID   int64     `db:"code_id"`
	UsedWhen time.Time `db:"used_when"`
}

// CodeUsePolicy describes how many times a generated code may be redeemed
type CodeUsePolicy struct {
	uses int
}

// UseOnce returns a policy for a single-use code
func UseOnce() CodeUsePolicy {
	return CodeUsePolicy{uses: 1}
}

// UseCounted returns a policy for a code redeemable n times
func UseCounted(n int) CodeUsePolicy {
	return CodeUsePolicy{uses: n}
}

// UseUnlimited returns a policy for a code that is never exhausted
func UseUnlimited() CodeUsePolicy {
	return CodeUsePolicy{uses: UnlimitedUses}
}

// RemainingUses is the initial remaining_uses value for the policy
func (p CodeUsePolicy) RemainingUses() int {
	return p.uses
}

// Validate checks the policy describes a positive count or the unlimited sentinel
func (p CodeUsePolicy) Validate() error {
	if p.uses == UnlimitedUses || p.uses > 0 {
		return nil
	}
	return fmt.Errorf("use count must be positive, got %d", p.uses)
}

func (p CodeUsePolicy) String() string {
	switch p.uses {
	case UnlimitedUses:
		return "unlimited"
	case 1:
		return "once"
	default:
		return fmt.Sprintf("%d uses", p.uses)
	}
}

// CodeValidation is the outcome of looking up a code string
type CodeValidation struct {
	Valid  bool
	CodeID int64  // Set when Valid
	Reason string // Set when not Valid
}

// RedeemResult represents the outcome of a redemption attempt
type RedeemResult string

const (
	RedeemResultRedeemed        RedeemResult = "redeemed"
	RedeemResultAlreadyRedeemed RedeemResult = "already_redeemed"
	RedeemResultNonExistingUser RedeemResult = "non_existing_user"
	RedeemResultNonExistingCode RedeemResult = "non_existing_code"
)
