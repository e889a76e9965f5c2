package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"libris-backend/internal/domain"
	"libris-backend/internal/logger"
	"libris-backend/internal/policy"
	"libris-backend/internal/repository"
)

// renewalRetries bounds the optimistic-concurrency retry loop on renewal.
const renewalRetries = 3

type circulationService struct {
	ledger       repository.CirculationLedger
	checkoutRepo repository.CheckoutRepository
	activityRepo repository.ActivityRepository
	loanPeriod   time.Duration
	maxRenewals  int32
}

func NewCirculationService(
	ledger repository.CirculationLedger,
	checkoutRepo repository.CheckoutRepository,
	activityRepo repository.ActivityRepository,
	loanPeriodDays int,
	maxRenewals int32,
) CirculationService {
	return &circulationService{
		ledger:       ledger,
		checkoutRepo: checkoutRepo,
		activityRepo: activityRepo,
		loanPeriod:   time.Duration(loanPeriodDays) * 24 * time.Hour,
		maxRenewals:  maxRenewals,
	}
}

func (s *circulationService) Checkout(ctx context.Context, patronID int32, bookIDs []int32, staffID int32, dueDate *time.Time, idempotencyKey string) (int32, error) {
	if len(bookIDs) == 0 {
		return 0, domain.NewValidationError("book_ids", "must not be empty")
	}
	if patronID <= 0 {
		return 0, domain.NewValidationError("patron_id", "must be a positive id")
	}
	for _, id := range bookIDs {
		if id <= 0 {
			return 0, domain.NewValidationError("book_ids", "must all be positive ids")
		}
	}
	if idempotencyKey != "" {
		if _, err := uuid.Parse(idempotencyKey); err != nil {
			return 0, domain.NewValidationError("idempotency_key", "must be a UUID")
		}
	}

	due := time.Now().Add(s.loanPeriod)
	if dueDate != nil {
		if dueDate.Before(time.Now()) {
			return 0, domain.NewValidationError("due_date", "must be in the future")
		}
		due = *dueDate
	}

	count, err := s.ledger.CheckoutBatch(ctx, repository.CheckoutBatchParams{
		PatronID:       patronID,
		BookIDs:        bookIDs,
		StaffID:        staffID,
		DueDate:        due,
		IdempotencyKey: idempotencyKey,
		MaxRenewals:    s.maxRenewals,
	})
	if err != nil {
		return 0, err
	}

	s.logActivity(ctx, domain.ActivityTypeCheckout, staffID,
		fmt.Sprintf("checked out %d book(s) to patron %d, due %s", count, patronID, due.Format("2006-01-02")))
	return count, nil
}

func (s *circulationService) ReturnBook(ctx context.Context, checkoutID, staffID int32, condition string, damageTypes []string, notes string) (decimal.Decimal, error) {
	cond := domain.ReturnCondition(condition)
	if !cond.Valid() {
		return decimal.Zero, domain.NewValidationError("condition", fmt.Sprintf("unknown condition %q", condition))
	}

	checkout, err := s.checkoutRepo.GetByID(ctx, checkoutID)
	if err != nil {
		return decimal.Zero, err
	}
	if !checkout.Open() {
		return decimal.Zero, domain.NewStateConflictError("checkout %d is already %s", checkoutID, checkout.Status)
	}

	types := make([]domain.DamageType, 0, len(damageTypes))
	for _, dt := range damageTypes {
		types = append(types, domain.DamageType(dt))
	}

	// The fine is computed from the row read just above; if "now" advances
	// past another day boundary before the commit the charge can be a day
	// stale. Accepted.
	now := time.Now()
	fine := policy.TotalReturnFine(checkout.DueDate, now, cond, types)

	err = s.ledger.ReturnCheckout(ctx, repository.ReturnParams{
		CheckoutID:  checkoutID,
		StaffID:     staffID,
		Condition:   cond,
		DamageTypes: types,
		FineAmount:  fine,
		ReturnedAt:  now,
		Notes:       notes,
	})
	if err != nil {
		return decimal.Zero, err
	}

	s.logActivity(ctx, domain.ActivityTypeReturn, staffID,
		fmt.Sprintf("%s returned %q (%s), fine %s", checkout.PatronName, checkout.BookTitle, cond, fine.StringFixed(2)))
	return fine, nil
}

func (s *circulationService) Renew(ctx context.Context, checkoutID, renewedBy int32) error {
	for attempt := 0; attempt < renewalRetries; attempt++ {
		checkout, err := s.checkoutRepo.GetByID(ctx, checkoutID)
		if err != nil {
			return err
		}
		switch checkout.Status {
		case domain.CheckoutStatusActive:
		case domain.CheckoutStatusOverdue:
			return domain.NewStateConflictError("checkout %d is overdue; overdue items must be returned, not renewed", checkoutID)
		default:
			return domain.NewStateConflictError("checkout %d is already %s", checkoutID, checkout.Status)
		}
		if checkout.RenewalsCount >= checkout.MaxRenewals {
			return domain.NewStateConflictError("checkout %d has used all %d renewals", checkoutID, checkout.MaxRenewals)
		}

		newDue := checkout.DueDate.Add(s.loanPeriod)
		err = s.ledger.RenewCheckout(ctx, checkoutID, checkout.RenewalsCount, newDue)
		if errors.Is(err, domain.ErrRenewalConflict) {
			continue
		}
		if err != nil {
			return err
		}

		s.logActivity(ctx, domain.ActivityTypeRenewal, renewedBy,
			fmt.Sprintf("renewed %q for %s, now due %s", checkout.BookTitle, checkout.PatronName, newDue.Format("2006-01-02")))
		return nil
	}
	return domain.NewStateConflictError("checkout %d was modified concurrently; renewal abandoned after %d attempts", checkoutID, renewalRetries)
}

func (s *circulationService) PayFine(ctx context.Context, patronID, staffID int32, amount decimal.Decimal) error {
	if !amount.GreaterThan(decimal.Zero) {
		return domain.NewValidationError("amount", "must be positive")
	}
	if err := s.ledger.RecordFinePayment(ctx, patronID, staffID, amount); err != nil {
		return err
	}
	s.logActivity(ctx, domain.ActivityTypeFinePayment, staffID,
		fmt.Sprintf("recorded fine payment of %s for patron %d", amount.StringFixed(2), patronID))
	return nil
}

func (s *circulationService) GetCheckout(ctx context.Context, id int32) (*domain.Checkout, error) {
	return s.checkoutRepo.GetByID(ctx, id)
}

func (s *circulationService) ListCheckouts(ctx context.Context, status string, bookID int32, page, pageSize int32) ([]domain.Checkout, int32, error) {
	return s.checkoutRepo.List(ctx, status, bookID, normalizePage(page), normalizePageSize(pageSize))
}

func (s *circulationService) ListPatronCheckouts(ctx context.Context, patronID int32, status string, page, pageSize int32) ([]domain.Checkout, int32, error) {
	return s.checkoutRepo.ListByPatron(ctx, patronID, status, normalizePage(page), normalizePageSize(pageSize))
}

// logActivity records the feed line for a completed mutation. The mutation
// has already committed, so a feed failure is logged and swallowed.
func (s *circulationService) logActivity(ctx context.Context, typ domain.ActivityType, actorID int32, message string) {
	entry := &domain.ActivityEntry{Type: typ, Message: message}
	if actorID != 0 {
		entry.ActorID = &actorID
	}
	if err := s.activityRepo.Create(ctx, entry); err != nil {
		logger.Warn("Failed to record activity", "type", typ, "error", err)
	}
}

func normalizePage(page int32) int32 {
	if page < 1 {
		return 1
	}
	return page
}

func normalizePageSize(pageSize int32) int32 {
	if pageSize < 1 || pageSize > 100 {
		return 20
	}
	return pageSize
}
