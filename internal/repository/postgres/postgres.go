package postgres

import (
	"database/sql"
	"strings"

	_ "github.com/lib/pq"

	"libris-backend/internal/repository"
)

// prefixed qualifies a comma-separated column list with a table alias.
func prefixed(columns, prefix string) string {
	parts := strings.Split(columns, ", ")
	for i, p := range parts {
		parts[i] = prefix + p
	}
	return strings.Join(parts, ", ")
}

type Store struct {
	db *sql.DB
	repository.BookRepository
	repository.PatronRepository
	repository.CheckoutRepository
	repository.BorrowRequestRepository
	repository.ActivityRepository
	repository.FineTransactionRepository
	repository.CirculationLedger
}

func NewStore(db *sql.DB, lowStockThreshold int32) *Store {
	return &Store{
		db:                        db,
		BookRepository:            NewBookRepository(db),
		PatronRepository:          NewPatronRepository(db),
		CheckoutRepository:        NewCheckoutRepository(db),
		BorrowRequestRepository:   NewBorrowRequestRepository(db),
		ActivityRepository:        NewActivityRepository(db),
		FineTransactionRepository: NewFineTransactionRepository(db),
		CirculationLedger:         NewCirculationLedger(db, lowStockThreshold),
	}
}
