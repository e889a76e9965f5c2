package service

import (
	"context"
	"errors"
	"fmt"

	"libris-backend/internal/domain"
	"libris-backend/internal/logger"
	"libris-backend/internal/repository"
)

type bookService struct {
	bookRepo     repository.BookRepository
	activityRepo repository.ActivityRepository
	lowStock     int32
}

func NewBookService(bookRepo repository.BookRepository, activityRepo repository.ActivityRepository, lowStockThreshold int32) BookService {
	return &bookService{bookRepo: bookRepo, activityRepo: activityRepo, lowStock: lowStockThreshold}
}

func (s *bookService) AddBook(ctx context.Context, book *domain.Book) error {
	if book.ISBN == "" {
		return domain.NewValidationError("isbn", "must not be empty")
	}
	if book.Title == "" {
		return domain.NewValidationError("title", "must not be empty")
	}
	if book.TotalCopies < 1 {
		return domain.NewValidationError("total_copies", "must be at least 1")
	}

	existing, err := s.bookRepo.GetByISBN(ctx, book.ISBN)
	var nf *domain.NotFoundError
	if err != nil && !errors.As(err, &nf) {
		return err
	}
	if existing != nil {
		return domain.NewStateConflictError("book with ISBN %s already exists (id %d)", book.ISBN, existing.ID)
	}

	// New catalog entries start with every copy on the shelf.
	book.AvailableCopies = book.TotalCopies
	book.Status = domain.StatusFor(book.AvailableCopies, s.lowStock)
	if err := s.bookRepo.Create(ctx, book); err != nil {
		return err
	}

	s.logActivity(ctx, fmt.Sprintf("added %q to the catalog (%d copies)", book.Title, book.TotalCopies))
	return nil
}

func (s *bookService) GetBook(ctx context.Context, id int32) (*domain.Book, error) {
	return s.bookRepo.GetByID(ctx, id)
}

// UpdateBook writes descriptive fields only. Copy counters are owned by the
// circulation ledger; values supplied on the incoming struct are ignored.
func (s *bookService) UpdateBook(ctx context.Context, book *domain.Book) error {
	if book.Title == "" {
		return domain.NewValidationError("title", "must not be empty")
	}
	if err := s.bookRepo.Update(ctx, book); err != nil {
		return err
	}
	s.logActivity(ctx, fmt.Sprintf("updated catalog entry %q", book.Title))
	return nil
}

func (s *bookService) DeleteBook(ctx context.Context, id int32) error {
	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.bookRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logActivity(ctx, fmt.Sprintf("removed %q from the catalog", book.Title))
	return nil
}

func (s *bookService) ListBooks(ctx context.Context, search string, page, pageSize int32) ([]domain.Book, int32, error) {
	return s.bookRepo.List(ctx, search, normalizePage(page), normalizePageSize(pageSize))
}

func (s *bookService) logActivity(ctx context.Context, message string) {
	entry := &domain.ActivityEntry{Type: domain.ActivityTypeCatalogChange, Message: message}
	if err := s.activityRepo.Create(ctx, entry); err != nil {
		logger.Warn("Failed to record activity", "type", domain.ActivityTypeCatalogChange, "error", err)
	}
}
