package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"libris-backend/internal/domain"
	"libris-backend/internal/repository"
)

const checkoutColumns = `id, book_id, patron_id, book_title, book_isbn, patron_name, patron_member_id, checkout_date, due_date, returned_date, status, renewals_count, max_renewals, fine_accrued, return_condition, checked_out_by, return_received_by, idempotency_key, notes, created_on, updated_on`

type checkoutRepository struct {
	db *sql.DB
}

func NewCheckoutRepository(db *sql.DB) repository.CheckoutRepository {
	return &checkoutRepository{db: db}
}

func scanCheckout(row interface{ Scan(...any) error }) (*domain.Checkout, error) {
	c := &domain.Checkout{}
	var condition sql.NullString
	err := row.Scan(&c.ID, &c.BookID, &c.PatronID, &c.BookTitle, &c.BookISBN, &c.PatronName, &c.PatronMemberID,
		&c.CheckoutDate, &c.DueDate, &c.ReturnedDate, &c.Status, &c.RenewalsCount, &c.MaxRenewals, &c.FineAccrued,
		&condition, &c.CheckedOutBy, &c.ReturnReceivedBy, &c.IdempotencyKey, &c.Notes, &c.CreatedOn, &c.UpdatedOn)
	if err != nil {
		return nil, err
	}
	if condition.Valid {
		c.ReturnCondition = domain.ReturnCondition(condition.String)
	}
	return c, nil
}

func (r *checkoutRepository) GetByID(ctx context.Context, id int32) (*domain.Checkout, error) {
	query := `SELECT ` + checkoutColumns + ` FROM checkouts WHERE id = $1`
	c, err := scanCheckout(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("checkout", id)
	}
	return c, err
}

func (r *checkoutRepository) ListByPatron(ctx context.Context, patronID int32, status string, page, pageSize int32) ([]domain.Checkout, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + checkoutColumns + ` FROM checkouts WHERE patron_id = $1`
	args := []any{patronID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}

	var count int32
	countQuery := `SELECT count(*) FROM (` + query + `) AS sub`
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY checkout_date DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, pageSize, offset)
	return r.query(ctx, query, count, args...)
}

func (r *checkoutRepository) List(ctx context.Context, status string, bookID int32, page, pageSize int32) ([]domain.Checkout, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + checkoutColumns + ` FROM checkouts WHERE 1=1`
	args := []any{}
	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if bookID != 0 {
		args = append(args, bookID)
		query += fmt.Sprintf(` AND book_id = $%d`, len(args))
	}

	var count int32
	countQuery := `SELECT count(*) FROM (` + query + `) AS sub`
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY checkout_date DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, pageSize, offset)
	return r.query(ctx, query, count, args...)
}

func (r *checkoutRepository) query(ctx context.Context, query string, count int32, args ...any) ([]domain.Checkout, int32, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var checkouts []domain.Checkout
	for rows.Next() {
		c, err := scanCheckout(rows)
		if err != nil {
			return nil, 0, err
		}
		checkouts = append(checkouts, *c)
	}
	return checkouts, count, rows.Err()
}

func (r *checkoutRepository) ListOverdue(ctx context.Context, asOf time.Time) ([]domain.Checkout, []domain.Patron, error) {
	query := `SELECT c.id, c.book_id, c.patron_id, c.book_title, c.book_isbn, c.patron_name, c.patron_member_id,
	                 c.checkout_date, c.due_date, c.returned_date, c.status, c.renewals_count, c.max_renewals,
	                 c.fine_accrued, c.return_condition, c.checked_out_by, c.return_received_by, c.idempotency_key,
	                 c.notes, c.created_on, c.updated_on,
	                 ` + prefixed(patronColumns, "p.") + `
	          FROM checkouts c
	          JOIN patrons p ON p.id = c.patron_id
	          WHERE c.status IN ('active', 'overdue') AND c.due_date < $1
	          ORDER BY c.due_date`
	rows, err := r.db.QueryContext(ctx, query, asOf)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var checkouts []domain.Checkout
	var patrons []domain.Patron
	for rows.Next() {
		c := domain.Checkout{}
		p := domain.Patron{}
		var condition sql.NullString
		err := rows.Scan(&c.ID, &c.BookID, &c.PatronID, &c.BookTitle, &c.BookISBN, &c.PatronName, &c.PatronMemberID,
			&c.CheckoutDate, &c.DueDate, &c.ReturnedDate, &c.Status, &c.RenewalsCount, &c.MaxRenewals, &c.FineAccrued,
			&condition, &c.CheckedOutBy, &c.ReturnReceivedBy, &c.IdempotencyKey, &c.Notes, &c.CreatedOn, &c.UpdatedOn,
			&p.ID, &p.MemberID, &p.Name, &p.Email, &p.Phone, &p.Address, &p.MembershipType, &p.MembershipStatus,
			&p.CurrentCheckouts, &p.TotalCheckoutsHistory, &p.FinesDue, &p.JoinedOn, &p.UpdatedOn)
		if err != nil {
			return nil, nil, err
		}
		if condition.Valid {
			c.ReturnCondition = domain.ReturnCondition(condition.String)
		}
		checkouts = append(checkouts, c)
		patrons = append(patrons, p)
	}
	return checkouts, patrons, rows.Err()
}
