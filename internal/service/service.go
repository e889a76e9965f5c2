package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"libris-backend/internal/domain"
)

type CirculationService interface {
	// Checkout lends every book in bookIDs to the patron in one atomic
	// batch. A nil dueDate applies the default loan period. The returned
	// count equals len(bookIDs) on success.
	Checkout(ctx context.Context, patronID int32, bookIDs []int32, staffID int32, dueDate *time.Time, idempotencyKey string) (int32, error)
	// ReturnBook closes a checkout, charging the overdue and condition fines
	// computed at call time. Returns the amount charged.
	ReturnBook(ctx context.Context, checkoutID, staffID int32, condition string, damageTypes []string, notes string) (decimal.Decimal, error)
	// Renew extends an active checkout by the loan period if renewals
	// remain under the per-checkout ceiling.
	Renew(ctx context.Context, checkoutID, renewedBy int32) error
	// PayFine records a payment against a patron's outstanding fines.
	PayFine(ctx context.Context, patronID, staffID int32, amount decimal.Decimal) error

	GetCheckout(ctx context.Context, id int32) (*domain.Checkout, error)
	ListCheckouts(ctx context.Context, status string, bookID int32, page, pageSize int32) ([]domain.Checkout, int32, error)
	ListPatronCheckouts(ctx context.Context, patronID int32, status string, page, pageSize int32) ([]domain.Checkout, int32, error)
}

type RequestService interface {
	CreateRequest(ctx context.Context, patronID, bookID int32) (*domain.BorrowRequest, error)
	GetRequest(ctx context.Context, id int32) (*domain.BorrowRequest, error)
	ListRequests(ctx context.Context, status string, page, pageSize int32) ([]domain.BorrowRequest, int32, error)
	// Approve checks out the requested book and only then flips the request
	// to approved. If the checkout fails the request stays pending and the
	// failure surfaces to the approving staff member.
	Approve(ctx context.Context, requestID, staffID int32, notes string) error
	Deny(ctx context.Context, requestID, staffID int32, notes string) error
}

type BookService interface {
	AddBook(ctx context.Context, book *domain.Book) error
	GetBook(ctx context.Context, id int32) (*domain.Book, error)
	UpdateBook(ctx context.Context, book *domain.Book) error
	DeleteBook(ctx context.Context, id int32) error
	ListBooks(ctx context.Context, search string, page, pageSize int32) ([]domain.Book, int32, error)
}

type PatronService interface {
	Register(ctx context.Context, patron *domain.Patron) error
	GetPatron(ctx context.Context, id int32) (*domain.Patron, error)
	UpdatePatron(ctx context.Context, patron *domain.Patron) error
	ListPatrons(ctx context.Context, search string, page, pageSize int32) ([]domain.Patron, int32, error)
	ListFineTransactions(ctx context.Context, patronID int32, page, pageSize int32) ([]domain.FineTransaction, int32, error)
}

type ActivityService interface {
	RecentActivity(ctx context.Context, limit int32) ([]domain.ActivityEntry, error)
}

type EmailService interface {
	SendOverdueReminder(ctx context.Context, email, patronName, bookTitle string, dueDate time.Time, fineSoFar decimal.Decimal) error
}
