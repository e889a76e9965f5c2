package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type MembershipType string

const (
	MembershipTypeStandard MembershipType = "standard"
	MembershipTypePremium  MembershipType = "premium"
	MembershipTypeStudent  MembershipType = "student"
)

// MaxBooks returns the open-loan ceiling for a membership tier.
func (t MembershipType) MaxBooks() int32 {
	switch t {
	case MembershipTypePremium:
		return 5
	case MembershipTypeStudent:
		return 2
	default:
		return 3
	}
}

func (t MembershipType) Valid() bool {
	switch t {
	case MembershipTypeStandard, MembershipTypePremium, MembershipTypeStudent:
		return true
	}
	return false
}

type MembershipStatus string

const (
	MembershipStatusActive    MembershipStatus = "active"
	MembershipStatusSuspended MembershipStatus = "suspended"
	MembershipStatusExpired   MembershipStatus = "expired"
)

type Patron struct {
	ID               int32            `json:"id"`
	MemberID         string           `json:"member_id"`
	Name             string           `json:"name"`
	Email            string           `json:"email"`
	Phone            string           `json:"phone"`
	Address          string           `json:"address"`
	MembershipType   MembershipType   `json:"membership_type"`
	MembershipStatus MembershipStatus `json:"membership_status"`
	// CurrentCheckouts and FinesDue are denormalized counters whose sole
	// writers are the circulation ledger procedures.
	CurrentCheckouts      int32           `json:"current_checkouts"`
	TotalCheckoutsHistory int32           `json:"total_checkouts_history"`
	FinesDue              decimal.Decimal `json:"fines_due"`
	JoinedOn              time.Time       `json:"joined_on"`
	UpdatedOn             time.Time       `json:"updated_on"`
}
