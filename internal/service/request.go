package service

import (
	"context"
	"fmt"
	"time"

	"libris-backend/internal/domain"
	"libris-backend/internal/logger"
	"libris-backend/internal/repository"
)

type requestService struct {
	requestRepo  repository.BorrowRequestRepository
	bookRepo     repository.BookRepository
	patronRepo   repository.PatronRepository
	activityRepo repository.ActivityRepository
	circulation  CirculationService
}

func NewRequestService(
	requestRepo repository.BorrowRequestRepository,
	bookRepo repository.BookRepository,
	patronRepo repository.PatronRepository,
	activityRepo repository.ActivityRepository,
	circulation CirculationService,
) RequestService {
	return &requestService{
		requestRepo:  requestRepo,
		bookRepo:     bookRepo,
		patronRepo:   patronRepo,
		activityRepo: activityRepo,
		circulation:  circulation,
	}
}

func (s *requestService) CreateRequest(ctx context.Context, patronID, bookID int32) (*domain.BorrowRequest, error) {
	patron, err := s.patronRepo.GetByID(ctx, patronID)
	if err != nil {
		return nil, err
	}
	book, err := s.bookRepo.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}

	req := &domain.BorrowRequest{
		BookID:        book.ID,
		PatronID:      patron.ID,
		RequesterName: patron.Name,
		BookTitle:     book.Title,
		RequestDate:   time.Now(),
		Status:        domain.RequestStatusPending,
	}
	if err := s.requestRepo.Create(ctx, req); err != nil {
		return nil, err
	}

	s.logActivity(ctx, domain.ActivityTypeRequest, nil,
		fmt.Sprintf("%s requested to borrow %q", patron.Name, book.Title))
	return req, nil
}

func (s *requestService) GetRequest(ctx context.Context, id int32) (*domain.BorrowRequest, error) {
	return s.requestRepo.GetByID(ctx, id)
}

func (s *requestService) ListRequests(ctx context.Context, status string, page, pageSize int32) ([]domain.BorrowRequest, int32, error) {
	return s.requestRepo.ListByStatus(ctx, status, normalizePage(page), normalizePageSize(pageSize))
}

// Approve runs the deliberate two-step: the checkout must commit first, and
// only then does the request flip to approved. A checkout failure (say the
// book ran out between request and approval) leaves the request pending and
// surfaces the typed error to the approving staff member.
func (s *requestService) Approve(ctx context.Context, requestID, staffID int32, notes string) error {
	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if req.Status != domain.RequestStatusPending {
		return domain.NewStateConflictError("borrow request %d is already %s", requestID, req.Status)
	}

	if _, err := s.circulation.Checkout(ctx, req.PatronID, []int32{req.BookID}, staffID, nil, ""); err != nil {
		return err
	}

	if err := s.requestRepo.Decide(ctx, requestID, domain.RequestStatusApproved, staffID, notes); err != nil {
		// The checkout committed but the status flip lost a race with a
		// concurrent decision. The loan stands; flag for staff follow-up.
		logger.Error("Approved checkout committed but request status flip failed",
			"request_id", requestID, "error", err)
		return err
	}

	s.logActivity(ctx, domain.ActivityTypeApproval, &staffID,
		fmt.Sprintf("approved borrow request by %s for %q", req.RequesterName, req.BookTitle))
	return nil
}

func (s *requestService) Deny(ctx context.Context, requestID, staffID int32, notes string) error {
	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if req.Status != domain.RequestStatusPending {
		return domain.NewStateConflictError("borrow request %d is already %s", requestID, req.Status)
	}

	if err := s.requestRepo.Decide(ctx, requestID, domain.RequestStatusDenied, staffID, notes); err != nil {
		return err
	}

	s.logActivity(ctx, domain.ActivityTypeDenial, &staffID,
		fmt.Sprintf("denied borrow request by %s for %q", req.RequesterName, req.BookTitle))
	return nil
}

func (s *requestService) logActivity(ctx context.Context, typ domain.ActivityType, actorID *int32, message string) {
	entry := &domain.ActivityEntry{Type: typ, Message: message, ActorID: actorID}
	if err := s.activityRepo.Create(ctx, entry); err != nil {
		logger.Warn("Failed to record activity", "type", typ, "error", err)
	}
}
