package services

import (
	"context"
	"errors"

	"github.com/servinear/marketplace-backend/internal/database"
	"github.com/servinear/marketplace-backend/internal/models"
)

// DiscoveryService serves the public provider listings. Only approved provider
// services are ever attached.
type DiscoveryService struct {
	users            UserStore
	providerServices ProviderServiceStore
}

// NewDiscoveryService creates a new discovery service
func NewDiscoveryService(users UserStore, providerServices ProviderServiceStore) *DiscoveryService {
	return &DiscoveryService{
		users:            users,
		providerServices: providerServices,
	}
}

// ListProviders returns providers ordered by id, each with their approved services
func (s *DiscoveryService) ListProviders(ctx context.Context, filter models.ProviderFilter) ([]models.Provider, error) {
	users, err := s.users.ListProviders(ctx, filter)
	if err != nil {
		return nil, NewInternalError("failed to list providers", err)
	}

	return s.attachServices(ctx, users)
}

// GetProvider returns one provider with their approved services
func (s *DiscoveryService) GetProvider(ctx context.Context, id int64) (*models.Provider, error) {
	user, err := s.users.GetProvider(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, NewNotFoundError("Provider not found")
		}
		return nil, NewInternalError("failed to load provider", err)
	}

	providers, err := s.attachServices(ctx, []models.User{*user})
	if err != nil {
		return nil, err
	}
	return &providers[0], nil
}

// attachServices loads the approved services of all users in one query
func (s *DiscoveryService) attachServices(ctx context.Context, users []models.User) ([]models.Provider, error) {
	providers := make([]models.Provider, 0, len(users))
	if len(users) == 0 {
		return providers, nil
	}

	ids := make([]int64, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}

	approved, err := s.providerServices.ListApprovedByUsers(ctx, ids)
	if err != nil {
		return nil, NewInternalError("failed to load provider services", err)
	}

	byUser := make(map[int64][]models.ProviderService, len(users))
	for _, ps := range approved {
		byUser[ps.UserID] = append(byUser[ps.UserID], ps)
	}

	for _, u := range users {
		services := byUser[u.ID]
		if services == nil {
			services = []models.ProviderService{}
		}
		providers = append(providers, models.Provider{User: u, ProvidedServices: services})
	}

	return providers, nil
}
