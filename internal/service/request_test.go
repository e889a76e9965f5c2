package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"libris-backend/internal/domain"
	"libris-backend/internal/repository"
	"libris-backend/internal/service"
)

func newRequestService() (service.RequestService, *MockRequestRepo, *MockBookRepo, *MockPatronRepo, *MockActivityRepo, *MockLedger, *MockCheckoutRepo) {
	requestRepo := new(MockRequestRepo)
	bookRepo := new(MockBookRepo)
	patronRepo := new(MockPatronRepo)
	activityRepo := new(MockActivityRepo)
	ledger := new(MockLedger)
	checkoutRepo := new(MockCheckoutRepo)
	circulation := service.NewCirculationService(ledger, checkoutRepo, activityRepo, 14, 2)
	svc := service.NewRequestService(requestRepo, bookRepo, patronRepo, activityRepo, circulation)
	return svc, requestRepo, bookRepo, patronRepo, activityRepo, ledger, checkoutRepo
}

func pendingRequest() *domain.BorrowRequest {
	return &domain.BorrowRequest{
		ID:            4,
		BookID:        10,
		PatronID:      1,
		RequesterName: "Paul",
		BookTitle:     "Dune",
		RequestDate:   time.Now().Add(-time.Hour),
		Status:        domain.RequestStatusPending,
	}
}

func TestRequestService_CreateRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		svc, requestRepo, bookRepo, patronRepo, activityRepo, _, _ := newRequestService()
		patronRepo.On("GetByID", ctx, int32(1)).Return(&domain.Patron{ID: 1, Name: "Paul"}, nil)
		bookRepo.On("GetByID", ctx, int32(10)).Return(&domain.Book{ID: 10, Title: "Dune"}, nil)
		requestRepo.On("Create", ctx, mock.AnythingOfType("*domain.BorrowRequest")).Return(nil)
		activityRepo.On("Create", ctx, mock.AnythingOfType("*domain.ActivityEntry")).Return(nil)

		req, err := svc.CreateRequest(ctx, 1, 10)
		assert.NoError(t, err)
		assert.Equal(t, domain.RequestStatusPending, req.Status)
		assert.Equal(t, "Paul", req.RequesterName)
		assert.Equal(t, "Dune", req.BookTitle)
	})

	t.Run("Unknown book", func(t *testing.T) {
		svc, requestRepo, bookRepo, patronRepo, _, _, _ := newRequestService()
		patronRepo.On("GetByID", ctx, int32(1)).Return(&domain.Patron{ID: 1, Name: "Paul"}, nil)
		bookRepo.On("GetByID", ctx, int32(99)).Return(nil, domain.NewNotFoundError("book", 99))

		_, err := svc.CreateRequest(ctx, 1, 99)
		var nfErr *domain.NotFoundError
		assert.ErrorAs(t, err, &nfErr)
		requestRepo.AssertNotCalled(t, "Create")
	})
}

func TestRequestService_Approve(t *testing.T) {
	ctx := context.Background()

	t.Run("Success checks out then flips status", func(t *testing.T) {
		svc, requestRepo, _, _, activityRepo, ledger, _ := newRequestService()
		requestRepo.On("GetByID", ctx, int32(4)).Return(pendingRequest(), nil)
		ledger.On("CheckoutBatch", ctx, mock.MatchedBy(func(p repository.CheckoutBatchParams) bool {
			return p.PatronID == 1 && len(p.BookIDs) == 1 && p.BookIDs[0] == 10 && p.StaffID == 9
		})).Return(int32(1), nil)
		requestRepo.On("Decide", ctx, int32(4), domain.RequestStatusApproved, int32(9), "ok").Return(nil)
		activityRepo.On("Create", ctx, mock.AnythingOfType("*domain.ActivityEntry")).Return(nil)

		assert.NoError(t, svc.Approve(ctx, 4, 9, "ok"))
		requestRepo.AssertExpectations(t)
		ledger.AssertExpectations(t)
	})

	t.Run("Checkout failure leaves the request pending", func(t *testing.T) {
		svc, requestRepo, _, _, _, ledger, _ := newRequestService()
		requestRepo.On("GetByID", ctx, int32(4)).Return(pendingRequest(), nil)
		ledger.On("CheckoutBatch", ctx, mock.AnythingOfType("repository.CheckoutBatchParams")).
			Return(int32(0), &domain.AvailabilityError{BookID: 10, Title: "Dune"})

		err := svc.Approve(ctx, 4, 9, "")
		var aErr *domain.AvailabilityError
		assert.ErrorAs(t, err, &aErr)
		requestRepo.AssertNotCalled(t, "Decide")
	})

	t.Run("Already decided", func(t *testing.T) {
		svc, requestRepo, _, _, _, ledger, _ := newRequestService()
		decided := pendingRequest()
		decided.Status = domain.RequestStatusDenied
		requestRepo.On("GetByID", ctx, int32(4)).Return(decided, nil)

		err := svc.Approve(ctx, 4, 9, "")
		var cErr *domain.StateConflictError
		assert.ErrorAs(t, err, &cErr)
		ledger.AssertNotCalled(t, "CheckoutBatch")
	})
}

func TestRequestService_Deny(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		svc, requestRepo, _, _, activityRepo, ledger, _ := newRequestService()
		requestRepo.On("GetByID", ctx, int32(4)).Return(pendingRequest(), nil)
		requestRepo.On("Decide", ctx, int32(4), domain.RequestStatusDenied, int32(9), "out of print").Return(nil)
		activityRepo.On("Create", ctx, mock.AnythingOfType("*domain.ActivityEntry")).Return(nil)

		assert.NoError(t, svc.Deny(ctx, 4, 9, "out of print"))
		ledger.AssertNotCalled(t, "CheckoutBatch")
	})

	t.Run("Already decided", func(t *testing.T) {
		svc, requestRepo, _, _, _, _, _ := newRequestService()
		decided := pendingRequest()
		decided.Status = domain.RequestStatusApproved
		requestRepo.On("GetByID", ctx, int32(4)).Return(decided, nil)

		err := svc.Deny(ctx, 4, 9, "")
		var cErr *domain.StateConflictError
		assert.ErrorAs(t, err, &cErr)
		requestRepo.AssertNotCalled(t, "Decide")
	})
}
