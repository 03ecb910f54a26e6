package client

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/servinear/marketplace-backend/internal/api"
	"github.com/servinear/marketplace-backend/internal/models"
)

// Cached list prefixes dropped by mutations
var (
	bookingsKey  = api.ListBookings.Path
	pendingKey   = api.ListPendingServices.Path
	providersKey = api.ListProviders.Path
	countriesKey = api.ListCountries.Path // also covers each country's cities
	servicesKey  = api.ListServices.Path
)

// Register creates an account and keeps its session
func (c *Client) Register(ctx context.Context, req api.RegisterRequest) (*models.User, error) {
	var user models.User
	if err := c.call(ctx, api.Register, nil, req, &user); err != nil {
		return nil, err
	}
	c.invalidate()
	return &user, nil
}

// Login authenticates and keeps the session cookie
func (c *Client) Login(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User
	if err := c.call(ctx, api.Login, nil, api.LoginRequest{Username: username, Password: password}, &user); err != nil {
		return nil, err
	}
	c.invalidate()
	return &user, nil
}

// Logout ends the current session
func (c *Client) Logout(ctx context.Context) error {
	if err := c.call(ctx, api.Logout, nil, nil, nil); err != nil {
		return err
	}
	c.invalidate()
	return nil
}

// Me returns the logged-in user
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.call(ctx, api.Me, nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Health returns nil when the server reports itself healthy
func (c *Client) Health(ctx context.Context) error {
	return c.call(ctx, api.HealthCheck, nil, nil, nil)
}

// Countries lists countries
func (c *Client) Countries(ctx context.Context) ([]models.Country, error) {
	var out []models.Country
	if err := c.list(ctx, api.ListCountries, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Cities lists the cities of a country
func (c *Client) Cities(ctx context.Context, countryID int64) ([]models.City, error) {
	var out []models.City
	if err := c.list(ctx, api.ListCities, api.Params{"countryId": countryID}, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Services lists service categories
func (c *Client) Services(ctx context.Context) ([]models.Service, error) {
	var out []models.Service
	if err := c.list(ctx, api.ListServices, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCountry adds a country (admin)
func (c *Client) CreateCountry(ctx context.Context, req api.CreateCountryRequest) (*models.Country, error) {
	var out models.Country
	if err := c.call(ctx, api.CreateCountry, nil, req, &out); err != nil {
		return nil, err
	}
	c.invalidate(countriesKey)
	return &out, nil
}

// CreateCity adds a city (admin)
func (c *Client) CreateCity(ctx context.Context, req api.CreateCityRequest) (*models.City, error) {
	var out models.City
	if err := c.call(ctx, api.CreateCity, nil, req, &out); err != nil {
		return nil, err
	}
	c.invalidate(countriesKey)
	return &out, nil
}

// CreateService adds a service category (admin)
func (c *Client) CreateService(ctx context.Context, req api.CreateServiceRequest) (*models.Service, error) {
	var out models.Service
	if err := c.call(ctx, api.CreateService, nil, req, &out); err != nil {
		return nil, err
	}
	c.invalidate(servicesKey)
	return &out, nil
}

// Providers lists providers with their approved services
func (c *Client) Providers(ctx context.Context, filter models.ProviderFilter) ([]models.Provider, error) {
	query := url.Values{}
	if filter.CityID != nil {
		query.Set("cityId", strconv.FormatInt(*filter.CityID, 10))
	}
	if filter.ServiceID != nil {
		query.Set("serviceId", strconv.FormatInt(*filter.ServiceID, 10))
	}

	var out []models.Provider
	if err := c.list(ctx, api.ListProviders, nil, query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Provider returns one provider, or nil when there is no such provider
func (c *Client) Provider(ctx context.Context, id int64) (*models.Provider, error) {
	var out models.Provider
	if err := c.call(ctx, api.GetProvider, api.Params{"id": id}, nil, &out); err != nil {
		if IsStatus(err, http.StatusNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

// RegisterService submits a service offer for approval (provider)
func (c *Client) RegisterService(ctx context.Context, req api.RegisterServiceRequest) (*models.ProviderService, error) {
	var out models.ProviderService
	if err := c.call(ctx, api.RegisterService, nil, req, &out); err != nil {
		return nil, err
	}
	c.invalidate(pendingKey)
	return &out, nil
}

// PendingServices lists provider services awaiting a decision (admin)
func (c *Client) PendingServices(ctx context.Context) ([]models.PendingProviderService, error) {
	var out []models.PendingProviderService
	if err := c.list(ctx, api.ListPendingServices, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetApproval approves or rejects a provider service (admin)
func (c *Client) SetApproval(ctx context.Context, id int64, status models.ApprovalStatus) (*models.ProviderService, error) {
	var out models.ProviderService
	req := api.ApprovalRequest{Status: string(status)}
	if err := c.call(ctx, api.SetServiceApproval, api.Params{"id": id}, req, &out); err != nil {
		return nil, err
	}
	c.invalidate(pendingKey, providersKey)
	return &out, nil
}

// CreateBooking books a provider as the logged-in user
func (c *Client) CreateBooking(ctx context.Context, req api.CreateBookingRequest) (*models.Booking, error) {
	var out models.Booking
	if err := c.call(ctx, api.CreateBooking, nil, req, &out); err != nil {
		return nil, err
	}
	c.invalidate(bookingsKey)
	return &out, nil
}

// Bookings lists the bookings visible to the logged-in user
func (c *Client) Bookings(ctx context.Context) ([]models.BookingDetails, error) {
	var out []models.BookingDetails
	if err := c.list(ctx, api.ListBookings, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateBookingStatus moves a booking along its lifecycle
func (c *Client) UpdateBookingStatus(ctx context.Context, id int64, status models.BookingStatus) (*models.Booking, error) {
	var out models.Booking
	req := api.UpdateBookingStatusRequest{Status: string(status)}
	if err := c.call(ctx, api.UpdateBookingStatus, api.Params{"id": id}, req, &out); err != nil {
		return nil, err
	}
	c.invalidate(bookingsKey)
	return &out, nil
}

// IsStatus reports whether err is an APIError with the given HTTP status
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}
