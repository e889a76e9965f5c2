package postgres_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"libris-backend/internal/domain"
	"libris-backend/internal/repository/postgres"
)

func TestPatronRepository_Create(t *testing.T) {
	ctx := context.Background()

	patron := &domain.Patron{
		MemberID:         "MEM-1001",
		Name:             "Paul",
		Email:            "paul@test.com",
		MembershipType:   domain.MembershipTypeStandard,
		MembershipStatus: domain.MembershipStatusActive,
	}

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("error opening mock database: %v", err)
		}
		defer db.Close()
		repo := postgres.NewPatronRepository(db)

		mock.ExpectQuery("INSERT INTO patrons").
			WithArgs(patron.MemberID, patron.Name, patron.Email, "", "", patron.MembershipType, patron.MembershipStatus, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

		err = repo.Create(ctx, patron)
		assert.NoError(t, err)
		assert.Equal(t, int32(1), patron.ID)
	})

	t.Run("Duplicate member id maps to a conflict", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("error opening mock database: %v", err)
		}
		defer db.Close()
		repo := postgres.NewPatronRepository(db)

		mock.ExpectQuery("INSERT INTO patrons").
			WillReturnError(&pq.Error{Code: "23505"})

		err = repo.Create(ctx, patron)
		var cErr *domain.StateConflictError
		assert.ErrorAs(t, err, &cErr)
	})
}

func TestPatronRepository_GetByMemberID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()
	repo := postgres.NewPatronRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM patrons WHERE member_id = \\$1").
		WithArgs("MEM-1001").
		WillReturnRows(activePatronRow(0, "0"))

	patron, err := repo.GetByMemberID(context.Background(), "MEM-1001")
	assert.NoError(t, err)
	assert.Equal(t, "Paul", patron.Name)
	assert.Equal(t, domain.MembershipStatusActive, patron.MembershipStatus)
}
