package postgres_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"libris-backend/internal/domain"
	"libris-backend/internal/repository/postgres"
)

func TestBorrowRequestRepository_Decide(t *testing.T) {
	ctx := context.Background()

	t.Run("Pending request flips once", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("error opening mock database: %v", err)
		}
		defer db.Close()
		repo := postgres.NewBorrowRequestRepository(db)

		mock.ExpectExec("UPDATE borrow_requests").
			WithArgs(domain.RequestStatusApproved, "ok", int32(9), sqlmock.AnyArg(), int32(4)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Decide(ctx, 4, domain.RequestStatusApproved, 9, "ok"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Already decided request conflicts", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("error opening mock database: %v", err)
		}
		defer db.Close()
		repo := postgres.NewBorrowRequestRepository(db)

		mock.ExpectExec("UPDATE borrow_requests").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT status FROM borrow_requests WHERE id = \\$1").
			WithArgs(int32(4)).
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("denied"))

		err = repo.Decide(ctx, 4, domain.RequestStatusApproved, 9, "")
		var cErr *domain.StateConflictError
		assert.ErrorAs(t, err, &cErr)
		assert.Contains(t, err.Error(), "already denied")
	})

	t.Run("Missing request", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("error opening mock database: %v", err)
		}
		defer db.Close()
		repo := postgres.NewBorrowRequestRepository(db)

		mock.ExpectExec("UPDATE borrow_requests").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT status FROM borrow_requests WHERE id = \\$1").
			WithArgs(int32(99)).
			WillReturnRows(sqlmock.NewRows([]string{"status"}))

		err = repo.Decide(ctx, 99, domain.RequestStatusDenied, 9, "")
		var nfErr *domain.NotFoundError
		assert.ErrorAs(t, err, &nfErr)
	})
}
