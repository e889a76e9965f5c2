package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"libris-backend/internal/domain"
	"libris-backend/internal/policy"
	"libris-backend/internal/repository"
)

// circulationLedger implements the atomic mutation engine. Each operation is
// one database transaction: patron and book rows are locked FOR UPDATE (books
// in ascending id order), constraints are re-validated against the locked
// state, and counter changes ride guarded UPDATEs so two concurrent checkouts
// can never both take the last copy.
type circulationLedger struct {
	db       *sql.DB
	lowStock int32
}

func NewCirculationLedger(db *sql.DB, lowStockThreshold int32) repository.CirculationLedger {
	return &circulationLedger{db: db, lowStock: lowStockThreshold}
}

func (l *circulationLedger) begin(ctx context.Context) (*sql.Tx, error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, &domain.BackendUnavailableError{Err: err}
	}
	return tx, nil
}

func (l *circulationLedger) CheckoutBatch(ctx context.Context, params repository.CheckoutBatchParams) (int32, error) {
	tx, err := l.begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	patron, err := lockPatron(ctx, tx, params.PatronID)
	if err != nil {
		return 0, err
	}

	// Replays carry the same patron, so checking behind the patron lock
	// serializes them against the batch that committed first. The unique
	// partial index on idempotency_key backstops anything that slips past.
	if params.IdempotencyKey != "" {
		var seen int32
		err := tx.QueryRowContext(ctx,
			`SELECT count(*) FROM checkouts WHERE idempotency_key = $1`, params.IdempotencyKey).Scan(&seen)
		if err != nil {
			return 0, fmt.Errorf("idempotency lookup: %w", err)
		}
		if seen > 0 {
			return 0, domain.NewStateConflictError("checkout with idempotency key %s was already committed", params.IdempotencyKey)
		}
	}

	// Every book in the batch counts against the loan ceiling; a failure on
	// any of them rolls the whole batch back.
	for i := range params.BookIDs {
		if err := policy.CanCheckout(patron, int32(i)); err != nil {
			return 0, err
		}
	}

	// Lock books in ascending id order so concurrent batches cannot deadlock.
	bookIDs := append([]int32(nil), params.BookIDs...)
	sort.Slice(bookIDs, func(i, j int) bool { return bookIDs[i] < bookIDs[j] })

	now := time.Now()
	for i, bookID := range bookIDs {
		var title, isbn string
		var available int32
		err := tx.QueryRowContext(ctx,
			`SELECT title, isbn, available_copies FROM books WHERE id = $1 FOR UPDATE`, bookID).
			Scan(&title, &isbn, &available)
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.NewNotFoundError("book", bookID)
		}
		if err != nil {
			return 0, fmt.Errorf("lock book %d: %w", bookID, err)
		}
		if available < 1 {
			return 0, &domain.AvailabilityError{BookID: bookID, Title: title}
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE books
			SET available_copies = available_copies - 1,
			    status = CASE WHEN available_copies - 1 <= 0 THEN 'unavailable'
			                  WHEN available_copies - 1 <= $2 THEN 'low_stock'
			                  ELSE 'available' END,
			    updated_on = $3
			WHERE id = $1 AND available_copies >= 1`,
			bookID, l.lowStock, now)
		if err != nil {
			return 0, fmt.Errorf("decrement availability for book %d: %w", bookID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		if n == 0 {
			return 0, &domain.AvailabilityError{BookID: bookID, Title: title}
		}

		// The key marks the batch, not each row: it goes on the first row
		// only, keeping the unique index happy for multi-book batches.
		var key any
		if params.IdempotencyKey != "" && i == 0 {
			key = params.IdempotencyKey
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO checkouts (book_id, patron_id, book_title, book_isbn, patron_name, patron_member_id,
			                       checkout_date, due_date, status, renewals_count, max_renewals, fine_accrued,
			                       checked_out_by, idempotency_key, notes, created_on, updated_on)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'active', 0, $9, 0, $10, $11, '', $7, $7)`,
			bookID, patron.ID, title, isbn, patron.Name, patron.MemberID,
			now, params.DueDate, params.MaxRenewals, params.StaffID, key)
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return 0, domain.NewStateConflictError("checkout with idempotency key %s was already committed", params.IdempotencyKey)
		}
		if err != nil {
			return 0, fmt.Errorf("insert checkout for book %d: %w", bookID, err)
		}
	}

	batch := int32(len(bookIDs))
	_, err = tx.ExecContext(ctx, `
		UPDATE patrons
		SET current_checkouts = current_checkouts + $2,
		    total_checkouts_history = total_checkouts_history + $2,
		    updated_on = $3
		WHERE id = $1`,
		patron.ID, batch, now)
	if err != nil {
		return 0, fmt.Errorf("bump patron counters: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, &domain.BackendUnavailableError{Err: err}
	}
	return batch, nil
}

func (l *circulationLedger) ReturnCheckout(ctx context.Context, params repository.ReturnParams) error {
	tx, err := l.begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var bookID, patronID int32
	var status domain.CheckoutStatus
	err = tx.QueryRowContext(ctx,
		`SELECT book_id, patron_id, status FROM checkouts WHERE id = $1 FOR UPDATE`, params.CheckoutID).
		Scan(&bookID, &patronID, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NewNotFoundError("checkout", params.CheckoutID)
	}
	if err != nil {
		return fmt.Errorf("lock checkout %d: %w", params.CheckoutID, err)
	}
	if status != domain.CheckoutStatusActive && status != domain.CheckoutStatusOverdue {
		return domain.NewStateConflictError("checkout %d is already %s", params.CheckoutID, status)
	}

	newStatus := domain.CheckoutStatusReturned
	if params.Condition == domain.ReturnConditionLost {
		newStatus = domain.CheckoutStatusLost
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE checkouts
		SET status = $2, returned_date = $3, fine_accrued = $4, return_condition = $5,
		    return_received_by = $6, notes = CASE WHEN $7 = '' THEN notes ELSE $7 END, updated_on = $3
		WHERE id = $1`,
		params.CheckoutID, newStatus, params.ReturnedAt, params.FineAmount, params.Condition,
		params.StaffID, params.Notes)
	if err != nil {
		return fmt.Errorf("close checkout %d: %w", params.CheckoutID, err)
	}

	if params.Condition == domain.ReturnConditionLost {
		// A lost copy leaves the pool: availability does not come back and
		// the total shrinks with it.
		_, err = tx.ExecContext(ctx, `
			UPDATE books
			SET total_copies = total_copies - 1,
			    status = CASE WHEN available_copies <= 0 THEN 'unavailable'
			                  WHEN available_copies <= $2 THEN 'low_stock'
			                  ELSE 'available' END,
			    updated_on = $3
			WHERE id = $1`,
			bookID, l.lowStock, params.ReturnedAt)
	} else {
		_, err = tx.ExecContext(ctx, `
			UPDATE books
			SET available_copies = available_copies + 1,
			    status = CASE WHEN available_copies + 1 <= 0 THEN 'unavailable'
			                  WHEN available_copies + 1 <= $2 THEN 'low_stock'
			                  ELSE 'available' END,
			    updated_on = $3
			WHERE id = $1`,
			bookID, l.lowStock, params.ReturnedAt)
	}
	if err != nil {
		return fmt.Errorf("restore availability for book %d: %w", bookID, err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE patrons
		SET current_checkouts = current_checkouts - 1,
		    fines_due = fines_due + $2,
		    updated_on = $3
		WHERE id = $1`,
		patronID, params.FineAmount, params.ReturnedAt)
	if err != nil {
		return fmt.Errorf("adjust patron counters: %w", err)
	}

	if params.FineAmount.GreaterThan(decimal.Zero) {
		txType := domain.FineTransactionTypeOverdue
		switch params.Condition {
		case domain.ReturnConditionLost:
			txType = domain.FineTransactionTypeLost
		case domain.ReturnConditionDamaged:
			txType = domain.FineTransactionTypeDamage
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO fine_transactions (patron_id, checkout_id, amount, type, recorded_by, description, created_on)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			patronID, params.CheckoutID, params.FineAmount, txType, params.StaffID,
			fmt.Sprintf("fine for checkout %d returned %s", params.CheckoutID, params.Condition),
			params.ReturnedAt)
		if err != nil {
			return fmt.Errorf("record fine: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return &domain.BackendUnavailableError{Err: err}
	}
	return nil
}

// RenewCheckout is a single compare-and-swap UPDATE: it only applies if the
// renewal count still matches what the caller read and the loan is still
// active. A zero-row result is a lost race, surfaced for the caller to retry.
func (l *circulationLedger) RenewCheckout(ctx context.Context, checkoutID, renewalsSeen int32, newDueDate time.Time) error {
	res, err := l.db.ExecContext(ctx, `
		UPDATE checkouts
		SET due_date = $2, renewals_count = renewals_count + 1, updated_on = $3
		WHERE id = $1 AND renewals_count = $4 AND status = 'active'`,
		checkoutID, newDueDate, time.Now(), renewalsSeen)
	if err != nil {
		return fmt.Errorf("renew checkout %d: %w", checkoutID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrRenewalConflict
	}
	return nil
}

func (l *circulationLedger) RecordFinePayment(ctx context.Context, patronID, staffID int32, amount decimal.Decimal) error {
	tx, err := l.begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var due decimal.Decimal
	err = tx.QueryRowContext(ctx, `SELECT fines_due FROM patrons WHERE id = $1 FOR UPDATE`, patronID).Scan(&due)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NewNotFoundError("patron", patronID)
	}
	if err != nil {
		return fmt.Errorf("lock patron %d: %w", patronID, err)
	}

	applied := amount
	if applied.GreaterThan(due) {
		applied = due
	}
	now := time.Now()
	_, err = tx.ExecContext(ctx,
		`UPDATE patrons SET fines_due = fines_due - $2, updated_on = $3 WHERE id = $1`,
		patronID, applied, now)
	if err != nil {
		return fmt.Errorf("apply payment: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO fine_transactions (patron_id, amount, type, recorded_by, description, created_on)
		VALUES ($1, $2, 'payment', $3, $4, $5)`,
		patronID, applied.Neg(), staffID,
		fmt.Sprintf("fine payment of %s", applied.StringFixed(2)), now)
	if err != nil {
		return fmt.Errorf("record payment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return &domain.BackendUnavailableError{Err: err}
	}
	return nil
}

// ReconcilePatronCounters rewrites the denormalized counters from source rows
// for every patron whose stored values drifted. It exists as an operational
// repair, not as part of any request path.
func (l *circulationLedger) ReconcilePatronCounters(ctx context.Context) (int32, error) {
	res, err := l.db.ExecContext(ctx, `
		UPDATE patrons p
		SET current_checkouts = sub.open_count,
		    fines_due = GREATEST(sub.fine_sum, 0),
		    updated_on = $1
		FROM (
			SELECT p2.id,
			       (SELECT count(*) FROM checkouts c
			        WHERE c.patron_id = p2.id AND c.status IN ('active', 'overdue')) AS open_count,
			       (SELECT COALESCE(sum(f.amount), 0) FROM fine_transactions f
			        WHERE f.patron_id = p2.id) AS fine_sum
			FROM patrons p2
		) sub
		WHERE p.id = sub.id
		  AND (p.current_checkouts <> sub.open_count OR p.fines_due <> GREATEST(sub.fine_sum, 0))`,
		time.Now())
	if err != nil {
		return 0, fmt.Errorf("reconcile patron counters: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int32(n), nil
}

func lockPatron(ctx context.Context, tx *sql.Tx, patronID int32) (*domain.Patron, error) {
	p := &domain.Patron{}
	err := tx.QueryRowContext(ctx,
		`SELECT `+patronColumns+` FROM patrons WHERE id = $1 FOR UPDATE`, patronID).
		Scan(&p.ID, &p.MemberID, &p.Name, &p.Email, &p.Phone, &p.Address, &p.MembershipType, &p.MembershipStatus,
			&p.CurrentCheckouts, &p.TotalCheckoutsHistory, &p.FinesDue, &p.JoinedOn, &p.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("patron", patronID)
	}
	if err != nil {
		return nil, fmt.Errorf("lock patron %d: %w", patronID, err)
	}
	return p, nil
}
