package api

import "time"

// RegisterRequest creates an account. Role is coerced: only "provider" is honored.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50,username"`
	Password string `json:"password" binding:"required,min=6,max=128"`
	Role     string `json:"role,omitempty"`
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email,omitempty" binding:"omitempty,email"`
	Phone    string `json:"phone,omitempty" binding:"omitempty,phone"`
	Bio      string `json:"bio,omitempty" binding:"max=1000"`
	CityID   *int64 `json:"cityId,omitempty" binding:"omitempty,gt=0"`
	Language string `json:"language,omitempty" binding:"omitempty,oneof=en fr ar"`
}

// LoginRequest authenticates with username and password
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// CreateCountryRequest adds a country
type CreateCountryRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Code     string `json:"code" binding:"required,iso_code"`
	Currency string `json:"currency" binding:"required,len=3"`
	Flag     string `json:"flag,omitempty" binding:"max=255"`
}

// CreateCityRequest adds a city to a country
type CreateCityRequest struct {
	CountryID int64  `json:"countryId" binding:"required,gt=0"`
	Name      string `json:"name" binding:"required,max=100"`
}

// CreateServiceRequest adds a service category. CommissionRate defaults to 10.
type CreateServiceRequest struct {
	NameEn         string `json:"nameEn" binding:"required,max=100"`
	NameFr         string `json:"nameFr" binding:"required,max=100"`
	NameAr         string `json:"nameAr" binding:"required,max=100"`
	Icon           string `json:"icon" binding:"required,max=50"`
	Slug           string `json:"slug" binding:"required,max=50,slug"`
	CommissionRate *int   `json:"commissionRate,omitempty" binding:"omitempty,min=0,max=100"`
}

// RegisterServiceRequest is a provider offering a service. There is no status field:
// new provider services always start pending.
type RegisterServiceRequest struct {
	ServiceID   int64  `json:"serviceId" binding:"required,gt=0"`
	CountryID   *int64 `json:"countryId,omitempty" binding:"omitempty,gt=0"`
	CityID      *int64 `json:"cityId,omitempty" binding:"omitempty,gt=0"`
	PriceRange  string `json:"priceRange,omitempty" binding:"max=100"`
	Description string `json:"description,omitempty" binding:"max=2000"`
}

// ApprovalRequest is an admin moderation decision
type ApprovalRequest struct {
	Status string `json:"status" binding:"required,oneof=approved rejected"`
}

// CreateBookingRequest books a provider. The client is always the caller and the status always pending.
type CreateBookingRequest struct {
	ProviderID    int64      `json:"providerId" binding:"required,gt=0"`
	ServiceID     int64      `json:"serviceId" binding:"required,gt=0"`
	ScheduledDate *time.Time `json:"scheduledDate,omitempty"`
}

// UpdateBookingStatusRequest moves a booking along its lifecycle
type UpdateBookingStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=accepted completed cancelled"`
}

// ProviderQuery filters the provider listing
type ProviderQuery struct {
	CityID    *int64 `form:"cityId" binding:"omitempty,gt=0"`
	ServiceID *int64 `form:"serviceId" binding:"omitempty,gt=0"`
}

// MessageResponse is a plain acknowledgement
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// Error codes carried in ErrorResponse.Error
const (
	CodeValidation   = "validation_error"
	CodeUnauthorized = "unauthorized"
	CodeForbidden    = "forbidden"
	CodeNotFound     = "not_found"
	CodeConflict     = "conflict"
	CodeInternal     = "internal_error"
)
