package policy

import (
	"fmt"

	"libris-backend/internal/domain"
)

// CanCheckout reports whether a patron may borrow one more item given
// booksInFlight items already claimed ahead of it (e.g. earlier books in the
// same batch). A nil return means allowed; otherwise the error is an
// *EligibilityError carrying the specific blocking reason so callers can
// render it.
func CanCheckout(p *domain.Patron, booksInFlight int32) error {
	if p.MembershipStatus != domain.MembershipStatusActive {
		return &domain.EligibilityError{
			PatronID: p.ID,
			Reason:   domain.EligibilityBlockedByStatus,
			Detail:   fmt.Sprintf("membership is %s", p.MembershipStatus),
		}
	}
	if p.FinesDue.GreaterThan(FineBlockThreshold) {
		return &domain.EligibilityError{
			PatronID: p.ID,
			Reason:   domain.EligibilityBlockedByFines,
			Detail:   fmt.Sprintf("outstanding fines %s exceed %s", p.FinesDue.StringFixed(2), FineBlockThreshold.StringFixed(2)),
		}
	}
	max := p.MembershipType.MaxBooks()
	if p.CurrentCheckouts+booksInFlight >= max {
		return &domain.EligibilityError{
			PatronID: p.ID,
			Reason:   domain.EligibilityAtLoanLimit,
			Detail:   fmt.Sprintf("%d open loans plus %d in flight is at the limit of %d", p.CurrentCheckouts, booksInFlight, max),
		}
	}
	return nil
}

// CanBorrowBook reports whether a book has a copy to lend.
func CanBorrowBook(b *domain.Book) error {
	if b.AvailableCopies < 1 {
		return &domain.AvailabilityError{BookID: b.ID, Title: b.Title}
	}
	return nil
}
