package domain

import "time"

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusDenied   RequestStatus = "denied"
)

// BorrowRequest is a patron's pre-authorization ask for a specific book.
// Approval is terminal and must synchronously produce exactly one checkout;
// denial never touches book or patron state.
type BorrowRequest struct {
	ID       int32 `json:"id"`
	BookID   int32 `json:"book_id"`
	PatronID int32 `json:"patron_id"`
	// Display snapshots, written once at creation.
	RequesterName string        `json:"requester_name"`
	BookTitle     string        `json:"book_title"`
	RequestDate   time.Time     `json:"request_date"`
	Status        RequestStatus `json:"status"`
	AdminNotes    string        `json:"admin_notes"`
	DecidedBy     *int32        `json:"decided_by,omitempty"`
	DecidedOn     *time.Time    `json:"decided_on,omitempty"`
	CreatedOn     time.Time     `json:"created_on"`
	UpdatedOn     time.Time     `json:"updated_on"`
}
