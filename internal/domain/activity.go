package domain

import "time"

type ActivityType string

const (
	ActivityTypeCheckout      ActivityType = "checkout"
	ActivityTypeReturn        ActivityType = "return"
	ActivityTypeRenewal       ActivityType = "renewal"
	ActivityTypeRequest       ActivityType = "request"
	ActivityTypeApproval      ActivityType = "approval"
	ActivityTypeDenial        ActivityType = "denial"
	ActivityTypeFinePayment   ActivityType = "fine_payment"
	ActivityTypeRegistration  ActivityType = "registration"
	ActivityTypeCatalogChange ActivityType = "catalog_change"
)

// ActivityEntry is one human-readable line in the recent-activity feed,
// emitted after each completed mutation.
type ActivityEntry struct {
	ID        int32        `json:"id"`
	Type      ActivityType `json:"type"`
	Message   string       `json:"message"`
	ActorID   *int32       `json:"actor_id,omitempty"`
	CreatedOn time.Time    `json:"created_on"`
}
