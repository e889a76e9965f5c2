package http

import (
	"encoding/json"
	"net/http"

	"libris-backend/internal/domain"
	"libris-backend/internal/service"
)

type BookHandler struct {
	bookSvc service.BookService
}

func NewBookHandler(bookSvc service.BookService) *BookHandler {
	return &BookHandler{bookSvc: bookSvc}
}

type bookPayload struct {
	ISBN          string `json:"isbn"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	Publisher     string `json:"publisher"`
	PublishedYear int32  `json:"published_year"`
	Category      string `json:"category"`
	Description   string `json:"description"`
	CoverURL      string `json:"cover_url"`
	ShelfLocation string `json:"shelf_location"`
	TotalCopies   int32  `json:"total_copies"`
}

func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req bookPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.NewValidationError("body", "invalid JSON"))
		return
	}
	book := &domain.Book{
		ISBN:          req.ISBN,
		Title:         req.Title,
		Author:        req.Author,
		Publisher:     req.Publisher,
		PublishedYear: req.PublishedYear,
		Category:      req.Category,
		Description:   req.Description,
		CoverURL:      req.CoverURL,
		ShelfLocation: req.ShelfLocation,
		TotalCopies:   req.TotalCopies,
	}
	if err := h.bookSvc.AddBook(r.Context(), book); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, book)
}

func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	book, err := h.bookSvc.GetBook(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, book)
}

func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req bookPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.NewValidationError("body", "invalid JSON"))
		return
	}
	book := &domain.Book{
		ID:            id,
		ISBN:          req.ISBN,
		Title:         req.Title,
		Author:        req.Author,
		Publisher:     req.Publisher,
		PublishedYear: req.PublishedYear,
		Category:      req.Category,
		Description:   req.Description,
		CoverURL:      req.CoverURL,
		ShelfLocation: req.ShelfLocation,
	}
	if err := h.bookSvc.UpdateBook(r.Context(), book); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, book)
}

func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.bookSvc.DeleteBook(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := paging(r)
	books, total, err := h.bookSvc.ListBooks(r.Context(), r.URL.Query().Get("search"), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: books, Total: total})
}
