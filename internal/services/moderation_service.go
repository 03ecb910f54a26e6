package services

import (
	"context"
	"errors"
	"strings"

	"github.com/servinear/marketplace-backend/internal/api"
	"github.com/servinear/marketplace-backend/internal/database"
	"github.com/servinear/marketplace-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// ModerationService runs the provider service approval workflow:
// pending -> approved | rejected.
type ModerationService struct {
	providerServices  ProviderServiceStore
	catalog           ServiceCatalogStore
	locations         LocationStore
	allowRetransition bool
	logger            logrus.FieldLogger
}

// NewModerationService creates a new moderation service. allowRetransition lets
// admins overwrite an approved or rejected decision.
func NewModerationService(
	providerServices ProviderServiceStore,
	catalog ServiceCatalogStore,
	locations LocationStore,
	allowRetransition bool,
	logger logrus.FieldLogger,
) *ModerationService {
	return &ModerationService{
		providerServices:  providerServices,
		catalog:           catalog,
		locations:         locations,
		allowRetransition: allowRetransition,
		logger:            logger,
	}
}

// RegisterService records that the provider offers a service. The row always starts pending.
func (s *ModerationService) RegisterService(ctx context.Context, provider *models.User, req api.RegisterServiceRequest) (*models.ProviderService, error) {
	if !provider.Role.Can(models.CapOfferServices) {
		return nil, NewForbiddenError("Only providers can register services")
	}

	if _, err := s.catalog.GetServiceByID(ctx, req.ServiceID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, NewNotFoundError("Service not found")
		}
		return nil, NewInternalError("failed to load service", err)
	}

	if req.CityID != nil {
		city, err := s.locations.GetCityByID(ctx, *req.CityID)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return nil, NewValidationError("cityId", "City does not exist")
			}
			return nil, NewInternalError("failed to load city", err)
		}
		if req.CountryID != nil && city.CountryID != *req.CountryID {
			return nil, NewValidationError("cityId", "City does not belong to the given country")
		}
	}

	ps, err := s.providerServices.CreateProviderService(ctx, models.NewProviderService{
		UserID:      provider.ID,
		ServiceID:   req.ServiceID,
		CountryID:   req.CountryID,
		CityID:      req.CityID,
		PriceRange:  strings.TrimSpace(req.PriceRange),
		Description: strings.TrimSpace(req.Description),
	})
	if err != nil {
		if errors.Is(err, database.ErrInvalidReference) {
			return nil, NewValidationError("countryId", "Country does not exist")
		}
		return nil, NewInternalError("failed to register provider service", err)
	}

	s.logger.WithFields(logrus.Fields{
		"provider_service_id": ps.ID,
		"provider_id":         provider.ID,
		"service_id":          ps.ServiceID,
	}).Info("Provider service submitted for approval")

	return ps, nil
}

// ListPending returns pending rows joined with their service and provider, newest first
func (s *ModerationService) ListPending(ctx context.Context) ([]models.PendingProviderService, error) {
	rows, err := s.providerServices.ListPending(ctx)
	if err != nil {
		return nil, NewInternalError("failed to list pending services", err)
	}
	if rows == nil {
		rows = []models.PendingProviderService{}
	}
	return rows, nil
}

// SetApproval records an admin decision. Setting a row to its current status is a
// no-op; moving an already decided row is a conflict unless retransition is allowed.
func (s *ModerationService) SetApproval(ctx context.Context, id int64, status models.ApprovalStatus, adminID int64) (*models.ProviderService, error) {
	if !status.IsDecision() {
		return nil, NewValidationError("status", "status must be one of: approved rejected")
	}

	current, err := s.providerServices.GetProviderServiceByID(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, NewNotFoundError("Provider service not found")
		}
		return nil, NewInternalError("failed to load provider service", err)
	}

	if current.Status == status {
		return current, nil
	}

	var from *models.ApprovalStatus
	if !s.allowRetransition {
		if current.Status.IsTerminal() {
			return nil, NewConflictError("Provider service has already been " + string(current.Status))
		}
		if !current.Status.CanTransitionTo(status) {
			return nil, NewConflictError("Cannot move provider service from " + string(current.Status) + " to " + string(status))
		}
		from = &current.Status
	}

	updated, err := s.providerServices.UpdateStatus(ctx, id, status, from)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			// Another admin decided first
			return nil, NewConflictError("Provider service was modified concurrently")
		}
		return nil, NewInternalError("failed to update provider service", err)
	}

	s.logger.WithFields(logrus.Fields{
		"provider_service_id": id,
		"admin_id":            adminID,
		"from":                current.Status,
		"to":                  status,
	}).Info("Provider service moderated")

	return updated, nil
}
