package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"libris-backend/internal/domain"
	"libris-backend/internal/service"
)

func newPatronService() (service.PatronService, *MockPatronRepo, *MockActivityRepo) {
	patronRepo := new(MockPatronRepo)
	fineRepo := new(MockFineRepo)
	activityRepo := new(MockActivityRepo)
	svc := service.NewPatronService(patronRepo, fineRepo, activityRepo)
	return svc, patronRepo, activityRepo
}

func TestPatronService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("Success assigns a member id and activates", func(t *testing.T) {
		svc, patronRepo, activityRepo := newPatronService()
		patronRepo.On("Create", ctx, mock.AnythingOfType("*domain.Patron")).Return(nil)
		activityRepo.On("Create", ctx, mock.AnythingOfType("*domain.ActivityEntry")).Return(nil)

		patron := &domain.Patron{Name: "Paul", Email: "paul@test.com"}
		assert.NoError(t, svc.Register(ctx, patron))
		assert.True(t, strings.HasPrefix(patron.MemberID, "MEM-"))
		assert.Equal(t, domain.MembershipTypeStandard, patron.MembershipType)
		assert.Equal(t, domain.MembershipStatusActive, patron.MembershipStatus)
	})

	t.Run("Member id collision is retried", func(t *testing.T) {
		svc, patronRepo, activityRepo := newPatronService()
		patronRepo.On("Create", ctx, mock.AnythingOfType("*domain.Patron")).
			Return(domain.NewStateConflictError("member id taken")).Once()
		patronRepo.On("Create", ctx, mock.AnythingOfType("*domain.Patron")).Return(nil).Once()
		activityRepo.On("Create", ctx, mock.AnythingOfType("*domain.ActivityEntry")).Return(nil)

		patron := &domain.Patron{Name: "Paul", Email: "paul@test.com"}
		assert.NoError(t, svc.Register(ctx, patron))
		patronRepo.AssertNumberOfCalls(t, "Create", 2)
	})

	t.Run("Missing email", func(t *testing.T) {
		svc, patronRepo, _ := newPatronService()
		err := svc.Register(ctx, &domain.Patron{Name: "Paul"})
		var vErr *domain.ValidationError
		assert.ErrorAs(t, err, &vErr)
		patronRepo.AssertNotCalled(t, "Create")
	})

	t.Run("Unknown membership type", func(t *testing.T) {
		svc, _, _ := newPatronService()
		err := svc.Register(ctx, &domain.Patron{Name: "Paul", Email: "p@test.com", MembershipType: "gold"})
		var vErr *domain.ValidationError
		assert.ErrorAs(t, err, &vErr)
	})
}

func TestPatronService_UpdatePatron(t *testing.T) {
	ctx := context.Background()

	t.Run("Suspension is a plain update", func(t *testing.T) {
		svc, patronRepo, _ := newPatronService()
		patron := &domain.Patron{
			ID:               1,
			Name:             "Paul",
			MembershipType:   domain.MembershipTypeStandard,
			MembershipStatus: domain.MembershipStatusSuspended,
		}
		patronRepo.On("Update", ctx, patron).Return(nil)

		assert.NoError(t, svc.UpdatePatron(ctx, patron))
		patronRepo.AssertExpectations(t)
	})

	t.Run("Unknown membership status", func(t *testing.T) {
		svc, patronRepo, _ := newPatronService()
		err := svc.UpdatePatron(ctx, &domain.Patron{
			ID:               1,
			Name:             "Paul",
			MembershipType:   domain.MembershipTypeStandard,
			MembershipStatus: "banned",
		})
		var vErr *domain.ValidationError
		assert.ErrorAs(t, err, &vErr)
		patronRepo.AssertNotCalled(t, "Update")
	})
}
