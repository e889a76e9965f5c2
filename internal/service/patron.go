package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"libris-backend/internal/domain"
	"libris-backend/internal/logger"
	"libris-backend/internal/repository"
)

// memberIDAttempts bounds the retry loop when a generated member id collides.
const memberIDAttempts = 5

type patronService struct {
	patronRepo   repository.PatronRepository
	fineRepo     repository.FineTransactionRepository
	activityRepo repository.ActivityRepository
}

func NewPatronService(
	patronRepo repository.PatronRepository,
	fineRepo repository.FineTransactionRepository,
	activityRepo repository.ActivityRepository,
) PatronService {
	return &patronService{patronRepo: patronRepo, fineRepo: fineRepo, activityRepo: activityRepo}
}

func (s *patronService) Register(ctx context.Context, patron *domain.Patron) error {
	if patron.Name == "" {
		return domain.NewValidationError("name", "must not be empty")
	}
	if patron.Email == "" {
		return domain.NewValidationError("email", "must not be empty")
	}
	if patron.MembershipType == "" {
		patron.MembershipType = domain.MembershipTypeStandard
	}
	if !patron.MembershipType.Valid() {
		return domain.NewValidationError("membership_type", fmt.Sprintf("unknown type %q", patron.MembershipType))
	}
	patron.MembershipStatus = domain.MembershipStatusActive

	var err error
	for attempt := 0; attempt < memberIDAttempts; attempt++ {
		patron.MemberID = newMemberID()
		err = s.patronRepo.Create(ctx, patron)
		var conflict *domain.StateConflictError
		if errors.As(err, &conflict) {
			continue
		}
		break
	}
	if err != nil {
		return err
	}

	s.logActivity(ctx, domain.ActivityTypeRegistration,
		fmt.Sprintf("registered new %s member %s (%s)", patron.MembershipType, patron.Name, patron.MemberID))
	return nil
}

func (s *patronService) GetPatron(ctx context.Context, id int32) (*domain.Patron, error) {
	return s.patronRepo.GetByID(ctx, id)
}

// UpdatePatron writes profile and membership fields only; counters and fines
// on the incoming struct are ignored. Patrons are never hard-deleted, so
// deactivation happens here via membership_status.
func (s *patronService) UpdatePatron(ctx context.Context, patron *domain.Patron) error {
	if patron.Name == "" {
		return domain.NewValidationError("name", "must not be empty")
	}
	if !patron.MembershipType.Valid() {
		return domain.NewValidationError("membership_type", fmt.Sprintf("unknown type %q", patron.MembershipType))
	}
	switch patron.MembershipStatus {
	case domain.MembershipStatusActive, domain.MembershipStatusSuspended, domain.MembershipStatusExpired:
	default:
		return domain.NewValidationError("membership_status", fmt.Sprintf("unknown status %q", patron.MembershipStatus))
	}
	return s.patronRepo.Update(ctx, patron)
}

func (s *patronService) ListPatrons(ctx context.Context, search string, page, pageSize int32) ([]domain.Patron, int32, error) {
	return s.patronRepo.List(ctx, search, normalizePage(page), normalizePageSize(pageSize))
}

func (s *patronService) ListFineTransactions(ctx context.Context, patronID int32, page, pageSize int32) ([]domain.FineTransaction, int32, error) {
	return s.fineRepo.ListByPatron(ctx, patronID, normalizePage(page), normalizePageSize(pageSize))
}

func (s *patronService) logActivity(ctx context.Context, typ domain.ActivityType, message string) {
	entry := &domain.ActivityEntry{Type: typ, Message: message}
	if err := s.activityRepo.Create(ctx, entry); err != nil {
		logger.Warn("Failed to record activity", "type", typ, "error", err)
	}
}

func newMemberID() string {
	return fmt.Sprintf("MEM-%d-%04d", time.Now().Year(), rand.IntN(10000))
}
