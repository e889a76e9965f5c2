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

const requestColumns = `id, book_id, patron_id, requester_name, book_title, request_date, status, admin_notes, decided_by, decided_on, created_on, updated_on`

type borrowRequestRepository struct {
	db *sql.DB
}

func NewBorrowRequestRepository(db *sql.DB) repository.BorrowRequestRepository {
	return &borrowRequestRepository{db: db}
}

func scanRequest(row interface{ Scan(...any) error }) (*domain.BorrowRequest, error) {
	br := &domain.BorrowRequest{}
	err := row.Scan(&br.ID, &br.BookID, &br.PatronID, &br.RequesterName, &br.BookTitle, &br.RequestDate,
		&br.Status, &br.AdminNotes, &br.DecidedBy, &br.DecidedOn, &br.CreatedOn, &br.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return br, nil
}

func (r *borrowRequestRepository) Create(ctx context.Context, br *domain.BorrowRequest) error {
	query := `INSERT INTO borrow_requests (book_id, patron_id, requester_name, book_title, request_date, status, admin_notes, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query,
		br.BookID, br.PatronID, br.RequesterName, br.BookTitle, br.RequestDate, br.Status, br.AdminNotes, now, now).Scan(&br.ID)
}

func (r *borrowRequestRepository) GetByID(ctx context.Context, id int32) (*domain.BorrowRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM borrow_requests WHERE id = $1`
	br, err := scanRequest(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("borrow request", id)
	}
	return br, err
}

// Decide flips a pending request to a terminal status. The status guard in
// the WHERE clause makes the transition single-shot: a second decision on the
// same request affects zero rows and surfaces as a conflict.
func (r *borrowRequestRepository) Decide(ctx context.Context, id int32, status domain.RequestStatus, decidedBy int32, notes string) error {
	query := `UPDATE borrow_requests SET status=$1, admin_notes=$2, decided_by=$3, decided_on=$4, updated_on=$4
	          WHERE id=$5 AND status='pending'`
	res, err := r.db.ExecContext(ctx, query, status, notes, decidedBy, time.Now(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Distinguish a missing row from an already decided one.
		var current domain.RequestStatus
		err := r.db.QueryRowContext(ctx, `SELECT status FROM borrow_requests WHERE id = $1`, id).Scan(&current)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NewNotFoundError("borrow request", id)
		}
		if err != nil {
			return err
		}
		return domain.NewStateConflictError("borrow request %d is already %s", id, current)
	}
	return nil
}

func (r *borrowRequestRepository) ListByStatus(ctx context.Context, status string, page, pageSize int32) ([]domain.BorrowRequest, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + requestColumns + ` FROM borrow_requests`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}

	var count int32
	countQuery := `SELECT count(*) FROM (` + query + `) AS sub`
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY request_date DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var requests []domain.BorrowRequest
	for rows.Next() {
		br, err := scanRequest(rows)
		if err != nil {
			return nil, 0, err
		}
		requests = append(requests, *br)
	}
	return requests, count, rows.Err()
}
