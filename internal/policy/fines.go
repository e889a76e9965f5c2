// Package policy holds the pure circulation rules: fine math and patron
// eligibility. Nothing here performs I/O; both the service layer and the
// ledger procedures call into it with whatever state they hold.
package policy

import (
	"time"

	"github.com/shopspring/decimal"

	"libris-backend/internal/domain"
)

const (
	// DefaultLoanPeriodDays is the loan length applied when the caller does
	// not supply a due date.
	DefaultLoanPeriodDays = 14

	// DefaultMaxRenewals is the per-checkout renewal ceiling.
	DefaultMaxRenewals = 2

	// DefaultLowStockThreshold is the availability low-water mark below
	// which a book is flagged low_stock.
	DefaultLowStockThreshold = 2
)

var (
	// DailyOverdueRate accrues per full day past the due date.
	DailyOverdueRate = decimal.RequireFromString("0.50")

	// OverdueFineCap bounds the overdue component (not the damage component).
	OverdueFineCap = decimal.RequireFromString("50.00")

	// LostBookFee is charged when an item comes back (or is written off) as
	// lost. A 25.00 "replacement cost" figure existed as a display-only
	// estimate; 50.00 is the amount the ledger has always charged.
	LostBookFee = decimal.RequireFromString("50.00")

	// FineBlockThreshold is the outstanding-fines ceiling past which a
	// patron may not borrow.
	FineBlockThreshold = decimal.RequireFromString("20.00")
)

var damageFees = map[domain.DamageType]decimal.Decimal{
	domain.DamageTypeWater:   decimal.RequireFromString("15.00"),
	domain.DamageTypeTorn:    decimal.RequireFromString("5.00"),
	domain.DamageTypeSpine:   decimal.RequireFromString("10.00"),
	domain.DamageTypeWriting: decimal.RequireFromString("3.00"),
	domain.DamageTypeCover:   decimal.RequireFromString("8.00"),
}

// OverdueFine returns the late fee for an item due at dueDate assessed at
// asOf: 0.50 per full day late, capped at 50.00, zero if not yet due.
func OverdueFine(dueDate, asOf time.Time) decimal.Decimal {
	if !asOf.After(dueDate) {
		return decimal.Zero
	}
	daysLate := int64(asOf.Sub(dueDate).Hours() / 24)
	if daysLate <= 0 {
		return decimal.Zero
	}
	fine := DailyOverdueRate.Mul(decimal.NewFromInt(daysLate))
	if fine.GreaterThan(OverdueFineCap) {
		return OverdueFineCap
	}
	return fine
}

// DamageFine returns the condition-based fee for a return. Lost items charge
// the flat lost fee regardless of damageTypes; damaged items sum the
// per-damage-type table, with unknown types contributing nothing.
func DamageFine(condition domain.ReturnCondition, damageTypes []domain.DamageType) decimal.Decimal {
	switch condition {
	case domain.ReturnConditionLost:
		return LostBookFee
	case domain.ReturnConditionDamaged:
		total := decimal.Zero
		for _, dt := range damageTypes {
			if fee, ok := damageFees[dt]; ok {
				total = total.Add(fee)
			}
		}
		return total
	default:
		return decimal.Zero
	}
}

// TotalReturnFine sums the overdue and damage components. Each component is
// computed independently; there is no combined cap.
func TotalReturnFine(dueDate, asOf time.Time, condition domain.ReturnCondition, damageTypes []domain.DamageType) decimal.Decimal {
	return OverdueFine(dueDate, asOf).Add(DamageFine(condition, damageTypes))
}
