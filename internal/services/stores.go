package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/servinear/marketplace-backend/internal/models"
)

// The store interfaces are satisfied by the database repositories and by the
// in-memory stores in internal/testutil.

// UserStore persists accounts
type UserStore interface {
	CreateUser(ctx context.Context, in models.NewUser) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetProvider(ctx context.Context, id int64) (*models.User, error)
	ListProviders(ctx context.Context, filter models.ProviderFilter) ([]models.User, error)
}

// SessionStore persists login sessions
type SessionStore interface {
	CreateSession(ctx context.Context, session *models.UserSession) error
	GetSession(ctx context.Context, id uuid.UUID) (*models.UserSession, error)
	TouchSession(ctx context.Context, id uuid.UUID, at time.Time) error
	RevokeSession(ctx context.Context, id uuid.UUID, at time.Time) error
	DeleteExpiredSessions(ctx context.Context, cutoff time.Time) (int64, error)
}

// LocationStore persists countries and cities
type LocationStore interface {
	ListCountries(ctx context.Context) ([]models.Country, error)
	GetCountryByID(ctx context.Context, id int64) (*models.Country, error)
	GetCountryByCode(ctx context.Context, code string) (*models.Country, error)
	CreateCountry(ctx context.Context, country models.Country) (*models.Country, error)
	ListCities(ctx context.Context, countryID int64) ([]models.City, error)
	GetCityByID(ctx context.Context, id int64) (*models.City, error)
	CreateCity(ctx context.Context, city models.City) (*models.City, error)
}

// ServiceCatalogStore persists service categories
type ServiceCatalogStore interface {
	ListServices(ctx context.Context) ([]models.Service, error)
	GetServiceByID(ctx context.Context, id int64) (*models.Service, error)
	GetServiceBySlug(ctx context.Context, slug string) (*models.Service, error)
	CreateService(ctx context.Context, service models.Service) (*models.Service, error)
}

// ProviderServiceStore persists provider service listings and their approval state
type ProviderServiceStore interface {
	CreateProviderService(ctx context.Context, in models.NewProviderService) (*models.ProviderService, error)
	GetProviderServiceByID(ctx context.Context, id int64) (*models.ProviderService, error)
	ListPending(ctx context.Context) ([]models.PendingProviderService, error)
	UpdateStatus(ctx context.Context, id int64, status models.ApprovalStatus, from *models.ApprovalStatus) (*models.ProviderService, error)
	ListApprovedByUsers(ctx context.Context, userIDs []int64) ([]models.ProviderService, error)
	HasApprovedService(ctx context.Context, userID, serviceID int64) (bool, error)
}

// BookingStore persists bookings
type BookingStore interface {
	CreateBooking(ctx context.Context, in models.NewBooking) (*models.Booking, error)
	GetBookingByID(ctx context.Context, id int64) (*models.Booking, error)
	UpdateStatus(ctx context.Context, id int64, from, to models.BookingStatus) (*models.Booking, error)
	ListBookingDetails(ctx context.Context, filter models.BookingFilter) ([]models.BookingDetails, error)
}

// AuditStore persists audit events
type AuditStore interface {
	InsertAuditLog(ctx context.Context, entry models.AuditLog) error
	DeleteAuditLogsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
