package http

import (
	"context"
	"encoding/json"
	"net/http"

	"libris-backend/internal/domain"
	"libris-backend/internal/security"
	"libris-backend/internal/service"
)

type RequestHandler struct {
	requestSvc service.RequestService
}

func NewRequestHandler(requestSvc service.RequestService) *RequestHandler {
	return &RequestHandler{requestSvc: requestSvc}
}

type createRequestPayload struct {
	BookID int32 `json:"book_id"`
	// PatronID is honored for staff-assisted requests; patron tokens always
	// request for themselves.
	PatronID int32 `json:"patron_id,omitempty"`
}

func (h *RequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequestPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.NewValidationError("body", "invalid JSON"))
		return
	}

	claims := ClaimsFromContext(r.Context())
	patronID := req.PatronID
	if claims.Role != security.RoleStaff || patronID == 0 {
		patronID = claims.UserID
	}

	created, err := h.requestSvc.CreateRequest(r.Context(), patronID, req.BookID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *RequestHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	req, err := h.requestSvc.GetRequest(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (h *RequestHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := paging(r)
	requests, total, err := h.requestSvc.ListRequests(r.Context(), r.URL.Query().Get("status"), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: requests, Total: total})
}

type decisionPayload struct {
	Notes string `json:"notes,omitempty"`
}

func (h *RequestHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.requestSvc.Approve)
}

func (h *RequestHandler) Deny(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.requestSvc.Deny)
}

func (h *RequestHandler) decide(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, requestID, staffID int32, notes string) error) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req decisionPayload
	// Body is optional; notes default to empty.
	_ = json.NewDecoder(r.Body).Decode(&req)

	staffID := ClaimsFromContext(r.Context()).UserID
	if err := fn(r.Context(), id, staffID, req.Notes); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
