package domain

import (
	"errors"
	"fmt"
)

// The operation errors below are the full failure taxonomy the circulation
// core surfaces. Callers inspect them with errors.As so the API layer can map
// each to a distinct status and message; they are never collapsed into a
// generic failure.

type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Msg)
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Msg)
}

func NewValidationError(field, msg string) error {
	return &ValidationError{Field: field, Msg: msg}
}

type NotFoundError struct {
	Entity string
	ID     any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Entity, e.ID)
}

func NewNotFoundError(entity string, id any) error {
	return &NotFoundError{Entity: entity, ID: id}
}

type EligibilityReason string

const (
	EligibilityBlockedByStatus EligibilityReason = "blocked_by_status"
	EligibilityBlockedByFines  EligibilityReason = "blocked_by_fines"
	EligibilityAtLoanLimit     EligibilityReason = "at_loan_limit"
)

type EligibilityError struct {
	PatronID int32
	Reason   EligibilityReason
	Detail   string
}

func (e *EligibilityError) Error() string {
	return fmt.Sprintf("patron %d not eligible (%s): %s", e.PatronID, e.Reason, e.Detail)
}

type AvailabilityError struct {
	BookID int32
	Title  string
}

func (e *AvailabilityError) Error() string {
	if e.Title != "" {
		return fmt.Sprintf("book %d (%s) has no available copies", e.BookID, e.Title)
	}
	return fmt.Sprintf("book %d has no available copies", e.BookID)
}

type StateConflictError struct {
	Msg string
}

func (e *StateConflictError) Error() string {
	return fmt.Sprintf("state conflict: %s", e.Msg)
}

func NewStateConflictError(format string, args ...any) error {
	return &StateConflictError{Msg: fmt.Sprintf(format, args...)}
}

type BackendUnavailableError struct {
	Err error
}

func (e *BackendUnavailableError) Error() string {
	return fmt.Sprintf("backend unavailable: %v", e.Err)
}

func (e *BackendUnavailableError) Unwrap() error { return e.Err }

// ErrRenewalConflict signals a lost optimistic-concurrency race on renewal.
// The service retries a bounded number of times before converting it to a
// StateConflictError.
var ErrRenewalConflict = errors.New("renewal conflict: checkout row changed concurrently")
