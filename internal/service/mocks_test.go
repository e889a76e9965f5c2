package service_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"libris-backend/internal/domain"
	"libris-backend/internal/repository"
)

// MockLedger
type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) CheckoutBatch(ctx context.Context, params repository.CheckoutBatchParams) (int32, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockLedger) ReturnCheckout(ctx context.Context, params repository.ReturnParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}
func (m *MockLedger) RenewCheckout(ctx context.Context, checkoutID, renewalsSeen int32, newDueDate time.Time) error {
	args := m.Called(ctx, checkoutID, renewalsSeen, newDueDate)
	return args.Error(0)
}
func (m *MockLedger) RecordFinePayment(ctx context.Context, patronID, staffID int32, amount decimal.Decimal) error {
	args := m.Called(ctx, patronID, staffID, amount)
	return args.Error(0)
}
func (m *MockLedger) ReconcilePatronCounters(ctx context.Context) (int32, error) {
	args := m.Called(ctx)
	return args.Get(0).(int32), args.Error(1)
}

// MockCheckoutRepo
type MockCheckoutRepo struct {
	mock.Mock
}

func (m *MockCheckoutRepo) GetByID(ctx context.Context, id int32) (*domain.Checkout, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Checkout), args.Error(1)
}
func (m *MockCheckoutRepo) ListByPatron(ctx context.Context, patronID int32, status string, page, pageSize int32) ([]domain.Checkout, int32, error) {
	args := m.Called(ctx, patronID, status, page, pageSize)
	return args.Get(0).([]domain.Checkout), args.Get(1).(int32), args.Error(2)
}
func (m *MockCheckoutRepo) List(ctx context.Context, status string, bookID int32, page, pageSize int32) ([]domain.Checkout, int32, error) {
	args := m.Called(ctx, status, bookID, page, pageSize)
	return args.Get(0).([]domain.Checkout), args.Get(1).(int32), args.Error(2)
}
func (m *MockCheckoutRepo) ListOverdue(ctx context.Context, asOf time.Time) ([]domain.Checkout, []domain.Patron, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).([]domain.Checkout), args.Get(1).([]domain.Patron), args.Error(2)
}

// MockBookRepo
type MockBookRepo struct {
	mock.Mock
}

func (m *MockBookRepo) Create(ctx context.Context, book *domain.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}
func (m *MockBookRepo) GetByID(ctx context.Context, id int32) (*domain.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Book), args.Error(1)
}
func (m *MockBookRepo) GetByISBN(ctx context.Context, isbn string) (*domain.Book, error) {
	args := m.Called(ctx, isbn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Book), args.Error(1)
}
func (m *MockBookRepo) Update(ctx context.Context, book *domain.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}
func (m *MockBookRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockBookRepo) List(ctx context.Context, search string, page, pageSize int32) ([]domain.Book, int32, error) {
	args := m.Called(ctx, search, page, pageSize)
	return args.Get(0).([]domain.Book), args.Get(1).(int32), args.Error(2)
}

// MockPatronRepo
type MockPatronRepo struct {
	mock.Mock
}

func (m *MockPatronRepo) Create(ctx context.Context, patron *domain.Patron) error {
	args := m.Called(ctx, patron)
	return args.Error(0)
}
func (m *MockPatronRepo) GetByID(ctx context.Context, id int32) (*domain.Patron, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Patron), args.Error(1)
}
func (m *MockPatronRepo) GetByMemberID(ctx context.Context, memberID string) (*domain.Patron, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Patron), args.Error(1)
}
func (m *MockPatronRepo) Update(ctx context.Context, patron *domain.Patron) error {
	args := m.Called(ctx, patron)
	return args.Error(0)
}
func (m *MockPatronRepo) List(ctx context.Context, search string, page, pageSize int32) ([]domain.Patron, int32, error) {
	args := m.Called(ctx, search, page, pageSize)
	return args.Get(0).([]domain.Patron), args.Get(1).(int32), args.Error(2)
}

// MockRequestRepo
type MockRequestRepo struct {
	mock.Mock
}

func (m *MockRequestRepo) Create(ctx context.Context, req *domain.BorrowRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}
func (m *MockRequestRepo) GetByID(ctx context.Context, id int32) (*domain.BorrowRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BorrowRequest), args.Error(1)
}
func (m *MockRequestRepo) Decide(ctx context.Context, id int32, status domain.RequestStatus, decidedBy int32, notes string) error {
	args := m.Called(ctx, id, status, decidedBy, notes)
	return args.Error(0)
}
func (m *MockRequestRepo) ListByStatus(ctx context.Context, status string, page, pageSize int32) ([]domain.BorrowRequest, int32, error) {
	args := m.Called(ctx, status, page, pageSize)
	return args.Get(0).([]domain.BorrowRequest), args.Get(1).(int32), args.Error(2)
}

// MockActivityRepo
type MockActivityRepo struct {
	mock.Mock
}

func (m *MockActivityRepo) Create(ctx context.Context, entry *domain.ActivityEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}
func (m *MockActivityRepo) ListRecent(ctx context.Context, limit int32) ([]domain.ActivityEntry, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.ActivityEntry), args.Error(1)
}

// MockFineRepo
type MockFineRepo struct {
	mock.Mock
}

func (m *MockFineRepo) ListByPatron(ctx context.Context, patronID int32, page, pageSize int32) ([]domain.FineTransaction, int32, error) {
	args := m.Called(ctx, patronID, page, pageSize)
	return args.Get(0).([]domain.FineTransaction), args.Get(1).(int32), args.Error(2)
}
