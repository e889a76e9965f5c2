package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"libris-backend/internal/domain"
	"libris-backend/internal/repository"
)

const patronColumns = `id, member_id, name, email, phone, address, membership_type, membership_status, current_checkouts, total_checkouts_history, fines_due, joined_on, updated_on`

type patronRepository struct {
	db *sql.DB
}

func NewPatronRepository(db *sql.DB) repository.PatronRepository {
	return &patronRepository{db: db}
}

func scanPatron(row interface{ Scan(...any) error }) (*domain.Patron, error) {
	p := &domain.Patron{}
	err := row.Scan(&p.ID, &p.MemberID, &p.Name, &p.Email, &p.Phone, &p.Address, &p.MembershipType, &p.MembershipStatus, &p.CurrentCheckouts, &p.TotalCheckoutsHistory, &p.FinesDue, &p.JoinedOn, &p.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *patronRepository) Create(ctx context.Context, p *domain.Patron) error {
	query := `INSERT INTO patrons (member_id, name, email, phone, address, membership_type, membership_status, current_checkouts, total_checkouts_history, fines_due, joined_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, 0, 0, 0, $8, $9) RETURNING id`
	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		p.MemberID, p.Name, p.Email, p.Phone, p.Address, p.MembershipType, p.MembershipStatus, now, now).Scan(&p.ID)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return domain.NewStateConflictError("member id %s is already taken", p.MemberID)
	}
	return err
}

func (r *patronRepository) GetByID(ctx context.Context, id int32) (*domain.Patron, error) {
	query := `SELECT ` + patronColumns + ` FROM patrons WHERE id = $1`
	p, err := scanPatron(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("patron", id)
	}
	return p, err
}

func (r *patronRepository) GetByMemberID(ctx context.Context, memberID string) (*domain.Patron, error) {
	query := `SELECT ` + patronColumns + ` FROM patrons WHERE member_id = $1`
	p, err := scanPatron(r.db.QueryRowContext(ctx, query, memberID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("patron", memberID)
	}
	return p, err
}

// Update touches profile and membership fields only. Loan counters and fines
// are owned by the circulation ledger.
func (r *patronRepository) Update(ctx context.Context, p *domain.Patron) error {
	query := `UPDATE patrons SET name=$1, email=$2, phone=$3, address=$4, membership_type=$5, membership_status=$6, updated_on=$7 WHERE id=$8`
	res, err := r.db.ExecContext(ctx, query, p.Name, p.Email, p.Phone, p.Address, p.MembershipType, p.MembershipStatus, time.Now(), p.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NewNotFoundError("patron", p.ID)
	}
	return nil
}

func (r *patronRepository) List(ctx context.Context, search string, page, pageSize int32) ([]domain.Patron, int32, error) {
	offset := (page - 1) * pageSize
	where := ""
	args := []any{}
	if search != "" {
		where = ` WHERE name ILIKE $1 OR email ILIKE $1 OR member_id = $2`
		args = append(args, "%"+search+"%", search)
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM patrons`+where, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT `+patronColumns+` FROM patrons`+where+` ORDER BY name LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var patrons []domain.Patron
	for rows.Next() {
		p, err := scanPatron(rows)
		if err != nil {
			return nil, 0, err
		}
		patrons = append(patrons, *p)
	}
	return patrons, count, rows.Err()
}
