package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"libris-backend/internal/domain"
	"libris-backend/internal/service"
)

type CirculationHandler struct {
	circulationSvc service.CirculationService
}

func NewCirculationHandler(circulationSvc service.CirculationService) *CirculationHandler {
	return &CirculationHandler{circulationSvc: circulationSvc}
}

type checkoutRequest struct {
	PatronID int32   `json:"patron_id"`
	BookIDs  []int32 `json:"book_ids"`
	DueDate  string  `json:"due_date,omitempty"` // yyyy-mm-dd, optional
}

type checkoutResponse struct {
	Count int32 `json:"count"`
}

func (h *CirculationHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.NewValidationError("body", "invalid JSON"))
		return
	}

	var dueDate *time.Time
	if req.DueDate != "" {
		parsed, err := time.Parse("2006-01-02", req.DueDate)
		if err != nil {
			writeError(w, domain.NewValidationError("due_date", "must be yyyy-mm-dd"))
			return
		}
		dueDate = &parsed
	}

	staffID := ClaimsFromContext(r.Context()).UserID
	count, err := h.circulationSvc.Checkout(r.Context(), req.PatronID, req.BookIDs, staffID, dueDate, r.Header.Get("Idempotency-Key"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, checkoutResponse{Count: count})
}

type returnRequest struct {
	Condition   string   `json:"condition"`
	DamageTypes []string `json:"damage_types,omitempty"`
	Notes       string   `json:"notes,omitempty"`
}

type returnResponse struct {
	FineCharged decimal.Decimal `json:"fine_charged"`
}

func (h *CirculationHandler) Return(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req returnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.NewValidationError("body", "invalid JSON"))
		return
	}

	staffID := ClaimsFromContext(r.Context()).UserID
	fine, err := h.circulationSvc.ReturnBook(r.Context(), id, staffID, req.Condition, req.DamageTypes, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, returnResponse{FineCharged: fine})
}

func (h *CirculationHandler) Renew(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	renewedBy := ClaimsFromContext(r.Context()).UserID
	if err := h.circulationSvc.Renew(r.Context(), id, renewedBy); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type finePaymentRequest struct {
	PatronID int32           `json:"patron_id"`
	Amount   decimal.Decimal `json:"amount"`
}

func (h *CirculationHandler) PayFine(w http.ResponseWriter, r *http.Request) {
	var req finePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.NewValidationError("body", "invalid JSON"))
		return
	}
	staffID := ClaimsFromContext(r.Context()).UserID
	if err := h.circulationSvc.PayFine(r.Context(), req.PatronID, staffID, req.Amount); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CirculationHandler) GetCheckout(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	checkout, err := h.circulationSvc.GetCheckout(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, checkout)
}

type listResponse struct {
	Items any   `json:"items"`
	Total int32 `json:"total"`
}

func (h *CirculationHandler) ListCheckouts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	bookID, _ := strconv.ParseInt(q.Get("book_id"), 10, 32)
	page, pageSize := paging(r)
	checkouts, total, err := h.circulationSvc.ListCheckouts(r.Context(), q.Get("status"), int32(bookID), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: checkouts, Total: total})
}

func (h *CirculationHandler) ListPatronCheckouts(w http.ResponseWriter, r *http.Request) {
	patronID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	page, pageSize := paging(r)
	checkouts, total, err := h.circulationSvc.ListPatronCheckouts(r.Context(), patronID, r.URL.Query().Get("status"), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: checkouts, Total: total})
}

func pathID(r *http.Request, name string) (int32, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError(name, "must be a positive integer")
	}
	return int32(id), nil
}

func paging(r *http.Request) (int32, int32) {
	q := r.URL.Query()
	page, _ := strconv.ParseInt(q.Get("page"), 10, 32)
	pageSize, _ := strconv.ParseInt(q.Get("page_size"), 10, 32)
	return int32(page), int32(pageSize)
}
