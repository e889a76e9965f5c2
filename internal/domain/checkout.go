package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type CheckoutStatus string

const (
	CheckoutStatusActive   CheckoutStatus = "active"
	CheckoutStatusOverdue  CheckoutStatus = "overdue"
	CheckoutStatusReturned CheckoutStatus = "returned"
	CheckoutStatusLost     CheckoutStatus = "lost"
)

type ReturnCondition string

const (
	ReturnConditionGood    ReturnCondition = "good"
	ReturnConditionWorn    ReturnCondition = "worn"
	ReturnConditionDamaged ReturnCondition = "damaged"
	ReturnConditionLost    ReturnCondition = "lost"
)

func (c ReturnCondition) Valid() bool {
	switch c {
	case ReturnConditionGood, ReturnConditionWorn, ReturnConditionDamaged, ReturnConditionLost:
		return true
	}
	return false
}

type DamageType string

const (
	DamageTypeWater   DamageType = "water"
	DamageTypeTorn    DamageType = "torn"
	DamageTypeSpine   DamageType = "spine"
	DamageTypeWriting DamageType = "writing"
	DamageTypeCover   DamageType = "cover"
)

type Checkout struct {
	ID       int32 `json:"id"`
	BookID   int32 `json:"book_id"`
	PatronID int32 `json:"patron_id"`
	// Display snapshot fields, copied from the book/patron rows at checkout
	// time and intentionally never re-synced.
	BookTitle        string          `json:"book_title"`
	BookISBN         string          `json:"book_isbn"`
	PatronName       string          `json:"patron_name"`
	PatronMemberID   string          `json:"patron_member_id"`
	CheckoutDate     time.Time       `json:"checkout_date"`
	DueDate          time.Time       `json:"due_date"`
	ReturnedDate     *time.Time      `json:"returned_date,omitempty"`
	Status           CheckoutStatus  `json:"status"`
	RenewalsCount    int32           `json:"renewals_count"`
	MaxRenewals      int32           `json:"max_renewals"`
	FineAccrued      decimal.Decimal `json:"fine_accrued"`
	ReturnCondition  ReturnCondition `json:"return_condition,omitempty"`
	CheckedOutBy     int32           `json:"checked_out_by"`
	ReturnReceivedBy *int32          `json:"return_received_by,omitempty"`
	IdempotencyKey   *string         `json:"idempotency_key,omitempty"`
	Notes            string          `json:"notes"`
	CreatedOn        time.Time       `json:"created_on"`
	UpdatedOn        time.Time       `json:"updated_on"`
}

// Open reports whether the loan still holds a copy.
func (c *Checkout) Open() bool {
	return c.Status == CheckoutStatusActive || c.Status == CheckoutStatusOverdue
}
