package http

import (
	"encoding/json"
	"net/http"

	"libris-backend/internal/domain"
	"libris-backend/internal/service"
)

type PatronHandler struct {
	patronSvc service.PatronService
}

func NewPatronHandler(patronSvc service.PatronService) *PatronHandler {
	return &PatronHandler{patronSvc: patronSvc}
}

type patronPayload struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	Address          string `json:"address"`
	MembershipType   string `json:"membership_type"`
	MembershipStatus string `json:"membership_status,omitempty"`
}

func (h *PatronHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req patronPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.NewValidationError("body", "invalid JSON"))
		return
	}
	patron := &domain.Patron{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Address:        req.Address,
		MembershipType: domain.MembershipType(req.MembershipType),
	}
	if err := h.patronSvc.Register(r.Context(), patron); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, patron)
}

func (h *PatronHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	patron, err := h.patronSvc.GetPatron(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, patron)
}

func (h *PatronHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req patronPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.NewValidationError("body", "invalid JSON"))
		return
	}
	patron := &domain.Patron{
		ID:               id,
		Name:             req.Name,
		Email:            req.Email,
		Phone:            req.Phone,
		Address:          req.Address,
		MembershipType:   domain.MembershipType(req.MembershipType),
		MembershipStatus: domain.MembershipStatus(req.MembershipStatus),
	}
	if err := h.patronSvc.UpdatePatron(r.Context(), patron); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, patron)
}

func (h *PatronHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := paging(r)
	patrons, total, err := h.patronSvc.ListPatrons(r.Context(), r.URL.Query().Get("search"), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: patrons, Total: total})
}

func (h *PatronHandler) ListFines(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	page, pageSize := paging(r)
	txs, total, err := h.patronSvc.ListFineTransactions(r.Context(), id, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: txs, Total: total})
}
