package models

import "time"

// ApprovalStatus represents the moderation state of a provider service
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// IsDecision reports whether the status is one an admin can set
func (s ApprovalStatus) IsDecision() bool {
	return s == ApprovalApproved || s == ApprovalRejected
}

// IsTerminal reports whether no further transition is allowed from s
func (s ApprovalStatus) IsTerminal() bool {
	return s == ApprovalApproved || s == ApprovalRejected
}

// CanTransitionTo reports whether moderation may move a row from s to next.
// pending -> approved | rejected; approved and rejected are terminal.
func (s ApprovalStatus) CanTransitionTo(next ApprovalStatus) bool {
	return s == ApprovalPending && next.IsDecision()
}

// ProviderService links a provider to a service they offer, gated by admin approval
type ProviderService struct {
	ID          int64          `json:"id" db:"id"`
	UserID      int64          `json:"userId" db:"user_id"`
	ServiceID   int64          `json:"serviceId" db:"service_id"`
	CountryID   NullInt64      `json:"countryId" db:"country_id"`
	CityID      NullInt64      `json:"cityId" db:"city_id"`
	PriceRange  NullString     `json:"priceRange" db:"price_range"`
	Description NullString     `json:"description" db:"description"`
	Status      ApprovalStatus `json:"status" db:"status"`
	CreatedAt   time.Time      `json:"createdAt" db:"created_at"`
}

// NewProviderService holds the fields a provider submits; status is always pending on insert
type NewProviderService struct {
	UserID      int64
	ServiceID   int64
	CountryID   *int64
	CityID      *int64
	PriceRange  string
	Description string
}

// PendingProviderService is a pending row joined with its service and provider
type PendingProviderService struct {
	ProviderService
	Service  Service `json:"service" db:"service"`
	Provider User    `json:"provider" db:"provider"`
}
