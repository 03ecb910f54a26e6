package database

import (
	"context"
	"fmt"

	"github.com/servinear/marketplace-backend/internal/models"
)

const serviceColumns = `id, name_en, name_fr, name_ar, icon, slug, commission_rate`

// ServiceRepository handles service catalog database operations
type ServiceRepository struct {
	db DB
}

// NewServiceRepository creates a new service repository
func NewServiceRepository(db DB) *ServiceRepository {
	return &ServiceRepository{
		db: db,
	}
}

// ListServices returns the whole catalog ordered by id
func (r *ServiceRepository) ListServices(ctx context.Context) ([]models.Service, error) {
	services := []models.Service{}

	query := `SELECT ` + serviceColumns + ` FROM services ORDER BY id`

	if err := r.db.SelectContext(ctx, &services, query); err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}

	return services, nil
}

// GetServiceByID retrieves a service by ID
func (r *ServiceRepository) GetServiceByID(ctx context.Context, id int64) (*models.Service, error) {
	var service models.Service

	query := `SELECT ` + serviceColumns + ` FROM services WHERE id = $1`

	if err := r.db.GetContext(ctx, &service, query, id); err != nil {
		return nil, fmt.Errorf("failed to get service: %w", translateError(err))
	}

	return &service, nil
}

// GetServiceBySlug retrieves a service by slug
func (r *ServiceRepository) GetServiceBySlug(ctx context.Context, slug string) (*models.Service, error) {
	var service models.Service

	query := `SELECT ` + serviceColumns + ` FROM services WHERE slug = $1`

	if err := r.db.GetContext(ctx, &service, query, slug); err != nil {
		return nil, fmt.Errorf("failed to get service by slug: %w", translateError(err))
	}

	return &service, nil
}

// CreateService inserts a service. A taken slug yields ErrDuplicate.
func (r *ServiceRepository) CreateService(ctx context.Context, service models.Service) (*models.Service, error) {
	query := `
		INSERT INTO services (name_en, name_fr, name_ar, icon, slug, commission_rate)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + serviceColumns

	var created models.Service
	err := r.db.GetContext(ctx, &created, query,
		service.NameEn,
		service.NameFr,
		service.NameAr,
		service.Icon,
		service.Slug,
		service.CommissionRate,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create service: %w", translateError(err))
	}

	return &created, nil
}
