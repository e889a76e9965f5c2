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

const bookColumns = `id, isbn, title, author, publisher, published_year, category, description, cover_url, shelf_location, total_copies, available_copies, status, created_on, updated_on`

type bookRepository struct {
	db *sql.DB
}

func NewBookRepository(db *sql.DB) repository.BookRepository {
	return &bookRepository{db: db}
}

func scanBook(row interface{ Scan(...any) error }) (*domain.Book, error) {
	b := &domain.Book{}
	err := row.Scan(&b.ID, &b.ISBN, &b.Title, &b.Author, &b.Publisher, &b.PublishedYear, &b.Category, &b.Description, &b.CoverURL, &b.ShelfLocation, &b.TotalCopies, &b.AvailableCopies, &b.Status, &b.CreatedOn, &b.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *bookRepository) Create(ctx context.Context, b *domain.Book) error {
	query := `INSERT INTO books (isbn, title, author, publisher, published_year, category, description, cover_url, shelf_location, total_copies, available_copies, status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14) RETURNING id`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query,
		b.ISBN, b.Title, b.Author, b.Publisher, b.PublishedYear, b.Category, b.Description, b.CoverURL, b.ShelfLocation,
		b.TotalCopies, b.AvailableCopies, b.Status, now, now).Scan(&b.ID)
}

func (r *bookRepository) GetByID(ctx context.Context, id int32) (*domain.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE id = $1`
	b, err := scanBook(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("book", id)
	}
	return b, err
}

func (r *bookRepository) GetByISBN(ctx context.Context, isbn string) (*domain.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE isbn = $1`
	b, err := scanBook(r.db.QueryRowContext(ctx, query, isbn))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("book", isbn)
	}
	return b, err
}

// Update touches descriptive fields only. Copy counters and status are owned
// by the circulation ledger and are deliberately absent from the SET list.
func (r *bookRepository) Update(ctx context.Context, b *domain.Book) error {
	query := `UPDATE books SET isbn=$1, title=$2, author=$3, publisher=$4, published_year=$5, category=$6, description=$7, cover_url=$8, shelf_location=$9, updated_on=$10 WHERE id=$11`
	res, err := r.db.ExecContext(ctx, query, b.ISBN, b.Title, b.Author, b.Publisher, b.PublishedYear, b.Category, b.Description, b.CoverURL, b.ShelfLocation, time.Now(), b.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NewNotFoundError("book", b.ID)
	}
	return nil
}

func (r *bookRepository) Delete(ctx context.Context, id int32) error {
	var open int32
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM checkouts WHERE book_id = $1 AND status IN ('active', 'overdue')`, id).Scan(&open)
	if err != nil {
		return err
	}
	if open > 0 {
		return domain.NewStateConflictError("book %d has %d open checkouts", id, open)
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NewNotFoundError("book", id)
	}
	return nil
}

func (r *bookRepository) List(ctx context.Context, search string, page, pageSize int32) ([]domain.Book, int32, error) {
	offset := (page - 1) * pageSize
	where := ""
	args := []any{}
	if search != "" {
		where = ` WHERE title ILIKE $1 OR author ILIKE $1 OR isbn = $2`
		args = append(args, "%"+search+"%", search)
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM books`+where, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT `+bookColumns+` FROM books`+where+` ORDER BY title LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var books []domain.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, 0, err
		}
		books = append(books, *b)
	}
	return books, count, rows.Err()
}
