package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"libris-backend/internal/domain"
)

type BookRepository interface {
	Create(ctx context.Context, book *domain.Book) error
	GetByID(ctx context.Context, id int32) (*domain.Book, error)
	GetByISBN(ctx context.Context, isbn string) (*domain.Book, error)
	// Update writes descriptive fields only; copy counters and status belong
	// to the circulation ledger.
	Update(ctx context.Context, book *domain.Book) error
	Delete(ctx context.Context, id int32) error
	List(ctx context.Context, search string, page, pageSize int32) ([]domain.Book, int32, error)
}

type PatronRepository interface {
	Create(ctx context.Context, patron *domain.Patron) error
	GetByID(ctx context.Context, id int32) (*domain.Patron, error)
	GetByMemberID(ctx context.Context, memberID string) (*domain.Patron, error)
	// Update writes profile and membership fields only; loan counters and
	// fines belong to the circulation ledger.
	Update(ctx context.Context, patron *domain.Patron) error
	List(ctx context.Context, search string, page, pageSize int32) ([]domain.Patron, int32, error)
}

type CheckoutRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Checkout, error)
	ListByPatron(ctx context.Context, patronID int32, status string, page, pageSize int32) ([]domain.Checkout, int32, error)
	List(ctx context.Context, status string, bookID int32, page, pageSize int32) ([]domain.Checkout, int32, error)
	// ListOverdue returns open checkouts past their due date together with
	// the borrowing patron, for the reminder job.
	ListOverdue(ctx context.Context, asOf time.Time) ([]domain.Checkout, []domain.Patron, error)
}

type BorrowRequestRepository interface {
	Create(ctx context.Context, req *domain.BorrowRequest) error
	GetByID(ctx context.Context, id int32) (*domain.BorrowRequest, error)
	// Decide transitions a pending request to a terminal status. It guards on
	// status = pending and returns a StateConflictError when the row was
	// already decided.
	Decide(ctx context.Context, id int32, status domain.RequestStatus, decidedBy int32, notes string) error
	ListByStatus(ctx context.Context, status string, page, pageSize int32) ([]domain.BorrowRequest, int32, error)
}

type ActivityRepository interface {
	Create(ctx context.Context, entry *domain.ActivityEntry) error
	ListRecent(ctx context.Context, limit int32) ([]domain.ActivityEntry, error)
}

type FineTransactionRepository interface {
	ListByPatron(ctx context.Context, patronID int32, page, pageSize int32) ([]domain.FineTransaction, int32, error)
}

// CheckoutBatchParams carries one atomic multi-book checkout.
type CheckoutBatchParams struct {
	PatronID int32
	BookIDs  []int32
	StaffID  int32
	DueDate  time.Time
	// IdempotencyKey, when non-empty, dedupes retried requests: a replay of
	// an already committed batch fails with a StateConflictError instead of
	// double-committing loan counts.
	IdempotencyKey string
	MaxRenewals    int32
}

// ReturnParams carries one atomic return.
type ReturnParams struct {
	CheckoutID  int32
	StaffID     int32
	Condition   domain.ReturnCondition
	DamageTypes []domain.DamageType
	// FineAmount is computed by the caller from state read just before the
	// call; the accepted staleness is below day granularity.
	FineAmount decimal.Decimal
	ReturnedAt time.Time
	Notes      string
}

// CirculationLedger is the atomic mutation engine over books, patrons,
// checkouts and fine transactions. Every method runs as a single database
// transaction: all rows change or none do, and validation happens against
// current server-side state inside the transaction, never against
// client-cached reads.
type CirculationLedger interface {
	// CheckoutBatch validates patron eligibility and per-book availability
	// under row locks, then decrements availability, inserts checkout rows
	// and bumps the patron counters. Any failing constraint aborts the whole
	// batch with a typed error and zero state change.
	CheckoutBatch(ctx context.Context, params CheckoutBatchParams) (int32, error)

	// ReturnCheckout closes an open checkout, accrues the fine, restores
	// availability (a lost copy instead leaves the pool entirely) and
	// adjusts the patron counters.
	ReturnCheckout(ctx context.Context, params ReturnParams) error

	// RenewCheckout extends the due date and bumps the renewal count with a
	// compare-and-swap on the renewals count the caller read. A lost race
	// returns domain.ErrRenewalConflict.
	RenewCheckout(ctx context.Context, checkoutID, renewalsSeen int32, newDueDate time.Time) error

	// RecordFinePayment decrements a patron's outstanding fines, flooring at
	// zero, and writes the payment transaction.
	RecordFinePayment(ctx context.Context, patronID, staffID int32, amount decimal.Decimal) error

	// ReconcilePatronCounters recomputes current_checkouts and fines_due
	// from source rows and repairs drift. Operational tool, not a hot path.
	// Returns the number of patrons corrected.
	ReconcilePatronCounters(ctx context.Context) (int32, error)
}
