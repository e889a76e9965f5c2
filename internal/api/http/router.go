package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"libris-backend/internal/security"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Books       *BookHandler
	Patrons     *PatronHandler
	Circulation *CirculationHandler
	Requests    *RequestHandler
	Activity    *ActivityHandler
	Health      *HealthHandler
}

// NewRouter mounts the JSON API under /api/v1. Everything except the health
// probe requires a valid bearer token; mutating circulation and catalog
// routes additionally require the staff role.
func NewRouter(h Handlers, tm security.TokenManager) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", h.Health.Check).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(AuthMiddleware(tm))

	// Catalog.
	api.HandleFunc("/books", RequireStaff(h.Books.Create)).Methods(http.MethodPost)
	api.HandleFunc("/books", h.Books.List).Methods(http.MethodGet)
	api.HandleFunc("/books/{id}", h.Books.Get).Methods(http.MethodGet)
	api.HandleFunc("/books/{id}", RequireStaff(h.Books.Update)).Methods(http.MethodPut)
	api.HandleFunc("/books/{id}", RequireStaff(h.Books.Delete)).Methods(http.MethodDelete)

	// Patrons.
	api.HandleFunc("/patrons", RequireStaff(h.Patrons.Register)).Methods(http.MethodPost)
	api.HandleFunc("/patrons", RequireStaff(h.Patrons.List)).Methods(http.MethodGet)
	api.HandleFunc("/patrons/{id}", h.Patrons.Get).Methods(http.MethodGet)
	api.HandleFunc("/patrons/{id}", RequireStaff(h.Patrons.Update)).Methods(http.MethodPut)
	api.HandleFunc("/patrons/{id}/fines", h.Patrons.ListFines).Methods(http.MethodGet)
	api.HandleFunc("/patrons/{id}/checkouts", h.Circulation.ListPatronCheckouts).Methods(http.MethodGet)

	// Circulation.
	api.HandleFunc("/checkouts", RequireStaff(h.Circulation.Checkout)).Methods(http.MethodPost)
	api.HandleFunc("/checkouts", RequireStaff(h.Circulation.ListCheckouts)).Methods(http.MethodGet)
	api.HandleFunc("/checkouts/{id}", h.Circulation.GetCheckout).Methods(http.MethodGet)
	api.HandleFunc("/checkouts/{id}/return", RequireStaff(h.Circulation.Return)).Methods(http.MethodPost)
	api.HandleFunc("/checkouts/{id}/renew", h.Circulation.Renew).Methods(http.MethodPost)
	api.HandleFunc("/fines/payments", RequireStaff(h.Circulation.PayFine)).Methods(http.MethodPost)

	// Borrow requests.
	api.HandleFunc("/requests", h.Requests.Create).Methods(http.MethodPost)
	api.HandleFunc("/requests", RequireStaff(h.Requests.List)).Methods(http.MethodGet)
	api.HandleFunc("/requests/{id}", h.Requests.Get).Methods(http.MethodGet)
	api.HandleFunc("/requests/{id}/approve", RequireStaff(h.Requests.Approve)).Methods(http.MethodPost)
	api.HandleFunc("/requests/{id}/deny", RequireStaff(h.Requests.Deny)).Methods(http.MethodPost)

	// Activity feed.
	api.HandleFunc("/activity", RequireStaff(h.Activity.Recent)).Methods(http.MethodGet)

	return r
}
