package models

import "time"

// BookingStatus represents the lifecycle state of a booking
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingAccepted  BookingStatus = "accepted"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:  {BookingAccepted, BookingCancelled},
	BookingAccepted: {BookingCompleted, BookingCancelled},
}

// Valid reports whether s is a known booking status
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingAccepted, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether the booking can no longer change
func (s BookingStatus) IsTerminal() bool {
	return s == BookingCompleted || s == BookingCancelled
}

// CanTransitionTo reports whether a booking may move from s to next
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Booking is a client's request for a provider to perform a service
type Booking struct {
	ID               int64         `json:"id" db:"id"`
	ClientID         int64         `json:"clientId" db:"client_id"`
	ProviderID       int64         `json:"providerId" db:"provider_id"`
	ServiceID        int64         `json:"serviceId" db:"service_id"`
	Status           BookingStatus `json:"status" db:"status"`
	ScheduledDate    NullTime      `json:"scheduledDate" db:"scheduled_date"`
	CommissionAmount NullFloat64   `json:"commissionAmount" db:"commission_amount"`
	CreatedAt        time.Time     `json:"createdAt" db:"created_at"`
}

// NewBooking holds the fields for inserting a booking; status is always pending on insert
type NewBooking struct {
	ClientID      int64
	ProviderID    int64
	ServiceID     int64
	ScheduledDate *time.Time
}

// BookingDetails is a booking joined with its service, provider and client
type BookingDetails struct {
	Booking
	Service  Service `json:"service" db:"service"`
	Provider User    `json:"provider" db:"provider"`
	Client   User    `json:"client" db:"client"`
}

// BookingFilter scopes a booking listing to a caller
type BookingFilter struct {
	ClientID   *int64
	ProviderID *int64
}
