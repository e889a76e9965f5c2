package postgres

import (
	"context"
	"database/sql"

	"libris-backend/internal/domain"
	"libris-backend/internal/repository"
)

type fineTransactionRepository struct {
	db *sql.DB
}

func NewFineTransactionRepository(db *sql.DB) repository.FineTransactionRepository {
	return &fineTransactionRepository{db: db}
}

func (r *fineTransactionRepository) ListByPatron(ctx context.Context, patronID int32, page, pageSize int32) ([]domain.FineTransaction, int32, error) {
	offset := (page - 1) * pageSize

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM fine_transactions WHERE patron_id = $1`, patronID).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, patron_id, checkout_id, amount, type, recorded_by, description, created_on
	          FROM fine_transactions WHERE patron_id = $1 ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, patronID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var txs []domain.FineTransaction
	for rows.Next() {
		var t domain.FineTransaction
		if err := rows.Scan(&t.ID, &t.PatronID, &t.CheckoutID, &t.Amount, &t.Type, &t.RecordedBy, &t.Description, &t.CreatedOn); err != nil {
			return nil, 0, err
		}
		txs = append(txs, t)
	}
	return txs, count, rows.Err()
}
