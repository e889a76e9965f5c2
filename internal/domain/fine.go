package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type FineTransactionType string

const (
	FineTransactionTypeOverdue FineTransactionType = "overdue"
	FineTransactionTypeDamage  FineTransactionType = "damage"
	FineTransactionTypeLost    FineTransactionType = "lost"
	FineTransactionTypePayment FineTransactionType = "payment"
)

// FineTransaction is one line in a patron's fine history. Amount is positive
// for charges and negative for payments; the patron's fines_due counter is
// the running sum, maintained by the same atomic procedures that write these
// rows.
type FineTransaction struct {
	ID          int32               `json:"id"`
	PatronID    int32               `json:"patron_id"`
	CheckoutID  *int32              `json:"checkout_id,omitempty"`
	Amount      decimal.Decimal     `json:"amount"`
	Type        FineTransactionType `json:"type"`
	RecordedBy  int32               `json:"recorded_by"`
	Description string              `json:"description"`
	CreatedOn   time.Time           `json:"created_on"`
}
