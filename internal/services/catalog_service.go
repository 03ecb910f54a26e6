package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/servinear/marketplace-backend/internal/api"
	"github.com/servinear/marketplace-backend/internal/cache"
	"github.com/servinear/marketplace-backend/internal/database"
	"github.com/servinear/marketplace-backend/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	countriesCacheKey = "catalog:countries"
	servicesCacheKey  = "catalog:services"
)

func citiesCacheKey(countryID int64) string {
	return fmt.Sprintf("catalog:cities:%d", countryID)
}

// CatalogService serves countries, cities and service categories. Lists are read
// through the cache; admin creates invalidate the affected keys.
type CatalogService struct {
	locations LocationStore
	services  ServiceCatalogStore
	cache     cache.Cache
	ttl       time.Duration
	logger    logrus.FieldLogger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	locations LocationStore,
	services ServiceCatalogStore,
	c cache.Cache,
	ttl time.Duration,
	logger logrus.FieldLogger,
) *CatalogService {
	if c == nil {
		c = cache.NewNoop()
	}
	return &CatalogService{
		locations: locations,
		services:  services,
		cache:     c,
		ttl:       ttl,
		logger:    logger,
	}
}

// ListCountries returns all countries ordered by name
func (s *CatalogService) ListCountries(ctx context.Context) ([]models.Country, error) {
	return readThrough(ctx, s, countriesCacheKey, s.locations.ListCountries)
}

// ListCities returns the cities of one country ordered by name
func (s *CatalogService) ListCities(ctx context.Context, countryID int64) ([]models.City, error) {
	return readThrough(ctx, s, citiesCacheKey(countryID), func(ctx context.Context) ([]models.City, error) {
		return s.locations.ListCities(ctx, countryID)
	})
}

// ListServices returns all service categories ordered by id
func (s *CatalogService) ListServices(ctx context.Context) ([]models.Service, error) {
	return readThrough(ctx, s, servicesCacheKey, s.services.ListServices)
}

// CreateCountry adds a country. Codes are stored upper case and must be unique.
func (s *CatalogService) CreateCountry(ctx context.Context, req api.CreateCountryRequest) (*models.Country, error) {
	country, err := s.locations.CreateCountry(ctx, models.Country{
		Name:     strings.TrimSpace(req.Name),
		Code:     strings.ToUpper(req.Code),
		Currency: strings.ToUpper(req.Currency),
		Flag:     models.NewNullString(req.Flag),
	})
	if err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, NewConflictError("Country code already exists")
		}
		return nil, NewInternalError("failed to create country", err)
	}

	s.invalidate(ctx, countriesCacheKey)
	return country, nil
}

// CreateCity adds a city to an existing country
func (s *CatalogService) CreateCity(ctx context.Context, req api.CreateCityRequest) (*models.City, error) {
	city, err := s.locations.CreateCity(ctx, models.City{
		CountryID: req.CountryID,
		Name:      strings.TrimSpace(req.Name),
	})
	if err != nil {
		if errors.Is(err, database.ErrInvalidReference) {
			return nil, NewNotFoundError("Country not found")
		}
		return nil, NewInternalError("failed to create city", err)
	}

	s.invalidate(ctx, citiesCacheKey(city.CountryID))
	return city, nil
}

// CreateService adds a service category. The commission rate defaults to 10 percent.
func (s *CatalogService) CreateService(ctx context.Context, req api.CreateServiceRequest) (*models.Service, error) {
	rate := models.DefaultCommissionRate
	if req.CommissionRate != nil {
		rate = *req.CommissionRate
	}

	service, err := s.services.CreateService(ctx, models.Service{
		NameEn:         req.NameEn,
		NameFr:         req.NameFr,
		NameAr:         req.NameAr,
		Icon:           req.Icon,
		Slug:           strings.ToLower(req.Slug),
		CommissionRate: rate,
	})
	if err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, NewConflictError("Service slug already exists")
		}
		return nil, NewInternalError("failed to create service", err)
	}

	s.invalidate(ctx, servicesCacheKey)
	return service, nil
}

func (s *CatalogService) invalidate(ctx context.Context, keys ...string) {
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.logger.WithError(err).WithField("keys", keys).Warn("Failed to invalidate catalog cache")
	}
}

// readThrough serves key from the cache, loading and storing it on a miss. Cache
// failures are logged and never fail the request.
func readThrough[T any](ctx context.Context, s *CatalogService, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	if raw, err := s.cache.Get(ctx, key); err == nil {
		var items []T
		if err := json.Unmarshal(raw, &items); err == nil {
			return items, nil
		}
		s.logger.WithField("key", key).Warn("Discarding undecodable cache entry")
	} else if !errors.Is(err, cache.ErrMiss) {
		s.logger.WithError(err).WithField("key", key).Warn("Catalog cache read failed")
	}

	items, err := load(ctx)
	if err != nil {
		return nil, NewInternalError("failed to load catalog", err)
	}
	if items == nil {
		items = []T{}
	}

	if raw, err := json.Marshal(items); err == nil {
		if err := s.cache.Set(ctx, key, raw, s.ttl); err != nil {
			s.logger.WithError(err).WithField("key", key).Warn("Catalog cache write failed")
		}
	}

	return items, nil
}
