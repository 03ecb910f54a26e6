package services

import (
	"context"
	"errors"
	"time"

	"github.com/servinear/marketplace-backend/internal/api"
	"github.com/servinear/marketplace-backend/internal/database"
	"github.com/servinear/marketplace-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// BookingPolicy holds the optional business rules applied when booking
type BookingPolicy struct {
	RequireOfferedService bool // provider must hold an approved provider service for the service
	RejectPastDates       bool
}

// BookingService creates, lists and moves bookings through their lifecycle
type BookingService struct {
	bookings         BookingStore
	users            UserStore
	catalog          ServiceCatalogStore
	providerServices ProviderServiceStore
	policy           BookingPolicy
	logger           logrus.FieldLogger
	now              func() time.Time
}

// NewBookingService creates a new booking service
func NewBookingService(
	bookings BookingStore,
	users UserStore,
	catalog ServiceCatalogStore,
	providerServices ProviderServiceStore,
	policy BookingPolicy,
	logger logrus.FieldLogger,
) *BookingService {
	return &BookingService{
		bookings:         bookings,
		users:            users,
		catalog:          catalog,
		providerServices: providerServices,
		policy:           policy,
		logger:           logger,
		now:              time.Now,
	}
}

// Create books a provider for the caller. The booking always starts pending.
func (s *BookingService) Create(ctx context.Context, client *models.User, req api.CreateBookingRequest) (*models.Booking, error) {
	if !client.Role.Can(models.CapBook) {
		return nil, NewForbiddenError("Your role cannot create bookings")
	}

	if _, err := s.users.GetProvider(ctx, req.ProviderID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, NewNotFoundError("Provider not found")
		}
		return nil, NewInternalError("failed to load provider", err)
	}

	if _, err := s.catalog.GetServiceByID(ctx, req.ServiceID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, NewNotFoundError("Service not found")
		}
		return nil, NewInternalError("failed to load service", err)
	}

	if s.policy.RequireOfferedService {
		offered, err := s.providerServices.HasApprovedService(ctx, req.ProviderID, req.ServiceID)
		if err != nil {
			return nil, NewInternalError("failed to check provider services", err)
		}
		if !offered {
			return nil, NewValidationError("serviceId", "Provider does not offer this service")
		}
	}

	if s.policy.RejectPastDates && req.ScheduledDate != nil && req.ScheduledDate.Before(s.now()) {
		return nil, NewValidationError("scheduledDate", "Scheduled date must be in the future")
	}

	booking, err := s.bookings.CreateBooking(ctx, models.NewBooking{
		ClientID:      client.ID,
		ProviderID:    req.ProviderID,
		ServiceID:     req.ServiceID,
		ScheduledDate: req.ScheduledDate,
	})
	if err != nil {
		if errors.Is(err, database.ErrInvalidReference) {
			return nil, NewNotFoundError("Provider or service no longer exists")
		}
		return nil, NewInternalError("failed to create booking", err)
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id":  booking.ID,
		"client_id":   booking.ClientID,
		"provider_id": booking.ProviderID,
		"service_id":  booking.ServiceID,
	}).Info("Booking created")

	return booking, nil
}

// List returns the bookings visible to the caller: all for admins, received ones
// for providers, own ones for clients.
func (s *BookingService) List(ctx context.Context, caller *models.User) ([]models.BookingDetails, error) {
	var filter models.BookingFilter
	switch {
	case caller.Role.Can(models.CapViewAllBookings):
	case caller.Role == models.RoleProvider:
		filter.ProviderID = &caller.ID
	default:
		filter.ClientID = &caller.ID
	}

	rows, err := s.bookings.ListBookingDetails(ctx, filter)
	if err != nil {
		return nil, NewInternalError("failed to list bookings", err)
	}
	if rows == nil {
		rows = []models.BookingDetails{}
	}
	return rows, nil
}

// UpdateStatus moves a booking to next. The booking's provider may accept, complete
// or cancel; its client may cancel; admins may make any legal move.
func (s *BookingService) UpdateStatus(ctx context.Context, caller *models.User, id int64, next models.BookingStatus) (*models.Booking, error) {
	if !next.Valid() || next == models.BookingPending {
		return nil, NewValidationError("status", "status must be one of: accepted completed cancelled")
	}

	booking, err := s.bookings.GetBookingByID(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, NewNotFoundError("Booking not found")
		}
		return nil, NewInternalError("failed to load booking", err)
	}

	if !mayMoveBooking(caller, booking, next) {
		return nil, NewForbiddenError("You are not allowed to change this booking")
	}

	if booking.Status.IsTerminal() {
		return nil, NewConflictError("Booking is already " + string(booking.Status))
	}
	if !booking.Status.CanTransitionTo(next) {
		return nil, NewConflictError("Cannot move booking from " + string(booking.Status) + " to " + string(next))
	}

	updated, err := s.bookings.UpdateStatus(ctx, id, booking.Status, next)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, NewConflictError("Booking was modified concurrently")
		}
		return nil, NewInternalError("failed to update booking", err)
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id": id,
		"user_id":    caller.ID,
		"from":       booking.Status,
		"to":         next,
	}).Info("Booking status changed")

	return updated, nil
}

func mayMoveBooking(caller *models.User, booking *models.Booking, next models.BookingStatus) bool {
	switch {
	case caller.Role == models.RoleAdmin:
		return true
	case caller.ID == booking.ProviderID:
		return true
	case caller.ID == booking.ClientID:
		return next == models.BookingCancelled
	}
	return false
}
