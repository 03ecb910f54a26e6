package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/servinear/marketplace-backend/internal/database"
	"github.com/servinear/marketplace-backend/internal/models"
	"github.com/servinear/marketplace-backend/pkg/password"
	"github.com/sirupsen/logrus"
)

type seedCountry struct {
	country models.Country
	cities  []string
}

var seedCountries = []seedCountry{
	{
		country: models.Country{Name: "Saudi Arabia", Code: "SA", Currency: "SAR", Flag: models.NewNullString("🇸🇦")},
		cities:  []string{"Riyadh", "Jeddah", "Dammam", "Mecca", "Medina", "Khobar", "Taif"},
	},
	{
		country: models.Country{Name: "Jordan", Code: "JO", Currency: "JOD", Flag: models.NewNullString("🇯🇴")},
		cities:  []string{"Amman", "Irbid", "Zarqa", "Aqaba", "Salt", "Mafraq"},
	},
	{
		country: models.Country{Name: "Qatar", Code: "QA", Currency: "QAR", Flag: models.NewNullString("🇶🇦")},
		cities:  []string{"Doha", "Al Rayyan", "Al Khor", "Al Wakrah", "Umm Salal"},
	},
}

var seedServices = []models.Service{
	{NameEn: "Plumbing", NameFr: "Plomberie", NameAr: "سباكة", Icon: "Wrench", Slug: "plumbing", CommissionRate: models.DefaultCommissionRate},
	{NameEn: "Cleaning", NameFr: "Nettoyage", NameAr: "تنظيف", Icon: "Sparkles", Slug: "cleaning", CommissionRate: models.DefaultCommissionRate},
	{NameEn: "Electricity", NameFr: "Électricité", NameAr: "كهرباء", Icon: "Zap", Slug: "electricity", CommissionRate: models.DefaultCommissionRate},
}

// SeedService inserts the reference data a fresh deployment needs. Every entity
// is looked up first, so running it again changes nothing.
type SeedService struct {
	locations LocationStore
	catalog   ServiceCatalogStore
	users     UserStore
	hasher    *password.Hasher
	logger    logrus.FieldLogger
}

// NewSeedService creates a new seed service
func NewSeedService(
	locations LocationStore,
	catalog ServiceCatalogStore,
	users UserStore,
	hasher *password.Hasher,
	logger logrus.FieldLogger,
) *SeedService {
	return &SeedService{
		locations: locations,
		catalog:   catalog,
		users:     users,
		hasher:    hasher,
		logger:    logger,
	}
}

// Seed inserts countries with their cities, the base services and the admin
// account. An empty adminPassword skips the admin account.
func (s *SeedService) Seed(ctx context.Context, adminUsername, adminPassword string) error {
	if err := s.seedLocations(ctx); err != nil {
		return err
	}
	if err := s.seedServices(ctx); err != nil {
		return err
	}
	if adminPassword == "" {
		s.logger.Warn("SEED_ADMIN_PASSWORD not set, skipping admin account")
		return nil
	}
	return s.seedAdmin(ctx, adminUsername, adminPassword)
}

func (s *SeedService) seedLocations(ctx context.Context) error {
	for _, sc := range seedCountries {
		country, err := s.locations.GetCountryByCode(ctx, sc.country.Code)
		if errors.Is(err, database.ErrNotFound) {
			country, err = s.locations.CreateCountry(ctx, sc.country)
			if err != nil {
				return fmt.Errorf("failed to seed country %s: %w", sc.country.Code, err)
			}
			s.logger.WithField("code", country.Code).Info("Seeded country")
		} else if err != nil {
			return fmt.Errorf("failed to look up country %s: %w", sc.country.Code, err)
		}

		existing, err := s.locations.ListCities(ctx, country.ID)
		if err != nil {
			return fmt.Errorf("failed to list cities of %s: %w", country.Code, err)
		}
		have := make(map[string]bool, len(existing))
		for _, c := range existing {
			have[c.Name] = true
		}

		for _, name := range sc.cities {
			if have[name] {
				continue
			}
			if _, err := s.locations.CreateCity(ctx, models.City{CountryID: country.ID, Name: name}); err != nil {
				return fmt.Errorf("failed to seed city %s: %w", name, err)
			}
		}
	}
	return nil
}

func (s *SeedService) seedServices(ctx context.Context) error {
	for _, svc := range seedServices {
		_, err := s.catalog.GetServiceBySlug(ctx, svc.Slug)
		if err == nil {
			continue
		}
		if !errors.Is(err, database.ErrNotFound) {
			return fmt.Errorf("failed to look up service %s: %w", svc.Slug, err)
		}
		if _, err := s.catalog.CreateService(ctx, svc); err != nil {
			return fmt.Errorf("failed to seed service %s: %w", svc.Slug, err)
		}
		s.logger.WithField("slug", svc.Slug).Info("Seeded service")
	}
	return nil
}

func (s *SeedService) seedAdmin(ctx context.Context, username, plain string) error {
	_, err := s.users.GetUserByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return fmt.Errorf("failed to look up admin: %w", err)
	}

	hash, err := s.hasher.Hash(plain)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin, err := s.users.CreateUser(ctx, models.NewUser{
		Username:     username,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		Name:         "Administrator",
	})
	if err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":  admin.ID,
		"username": admin.Username,
	}).Info("Seeded admin account")
	return nil
}
