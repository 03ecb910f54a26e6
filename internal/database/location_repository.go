package database

import (
	"context"
	"fmt"

	"github.com/servinear/marketplace-backend/internal/models"
)

// LocationRepository handles country and city database operations
type LocationRepository struct {
	db DB
}

// NewLocationRepository creates a new location repository
func NewLocationRepository(db DB) *LocationRepository {
	return &LocationRepository{
		db: db,
	}
}

// ListCountries returns all countries ordered by name
func (r *LocationRepository) ListCountries(ctx context.Context) ([]models.Country, error) {
	countries := []models.Country{}

	query := `SELECT id, name, code, currency, flag FROM countries ORDER BY name, id`

	if err := r.db.SelectContext(ctx, &countries, query); err != nil {
		return nil, fmt.Errorf("failed to list countries: %w", err)
	}

	return countries, nil
}

// GetCountryByID retrieves a country by ID
func (r *LocationRepository) GetCountryByID(ctx context.Context, id int64) (*models.Country, error) {
	var country models.Country

	query := `SELECT id, name, code, currency, flag FROM countries WHERE id = $1`

	if err := r.db.GetContext(ctx, &country, query, id); err != nil {
		return nil, fmt.Errorf("failed to get country: %w", translateError(err))
	}

	return &country, nil
}

// GetCountryByCode retrieves a country by its ISO code
func (r *LocationRepository) GetCountryByCode(ctx context.Context, code string) (*models.Country, error) {
	var country models.Country

	query := `SELECT id, name, code, currency, flag FROM countries WHERE code = $1`

	if err := r.db.GetContext(ctx, &country, query, code); err != nil {
		return nil, fmt.Errorf("failed to get country by code: %w", translateError(err))
	}

	return &country, nil
}

// CreateCountry inserts a country. A taken code yields ErrDuplicate.
func (r *LocationRepository) CreateCountry(ctx context.Context, country models.Country) (*models.Country, error) {
	query := `
		INSERT INTO countries (name, code, currency, flag)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, code, currency, flag
	`

	var created models.Country
	err := r.db.GetContext(ctx, &created, query,
		country.Name,
		country.Code,
		country.Currency,
		country.Flag,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create country: %w", translateError(err))
	}

	return &created, nil
}

// ListCities returns the cities of a country ordered by name
func (r *LocationRepository) ListCities(ctx context.Context, countryID int64) ([]models.City, error) {
	cities := []models.City{}

	query := `
		SELECT id, country_id, name
		FROM cities
		WHERE country_id = $1
		ORDER BY name, id
	`

	if err := r.db.SelectContext(ctx, &cities, query, countryID); err != nil {
		return nil, fmt.Errorf("failed to list cities: %w", err)
	}

	return cities, nil
}

// GetCityByID retrieves a city by ID
func (r *LocationRepository) GetCityByID(ctx context.Context, id int64) (*models.City, error) {
	var city models.City

	query := `SELECT id, country_id, name FROM cities WHERE id = $1`

	if err := r.db.GetContext(ctx, &city, query, id); err != nil {
		return nil, fmt.Errorf("failed to get city: %w", translateError(err))
	}

	return &city, nil
}

// CreateCity inserts a city. An unknown country yields ErrInvalidReference.
func (r *LocationRepository) CreateCity(ctx context.Context, city models.City) (*models.City, error) {
	query := `
		INSERT INTO cities (country_id, name)
		VALUES ($1, $2)
		RETURNING id, country_id, name
	`

	var created models.City
	if err := r.db.GetContext(ctx, &created, query, city.CountryID, city.Name); err != nil {
		return nil, fmt.Errorf("failed to create city: %w", translateError(err))
	}

	return &created, nil
}
