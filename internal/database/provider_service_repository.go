package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
	"github.com/servinear/marketplace-backend/internal/models"
)

const providerServiceColumns = `id, user_id, service_id, country_id, city_id,
	price_range, description, status, created_at`

// public user fields, password hash excluded
var joinedUserFields = []string{
	"id", "username", "role", "name", "email", "phone", "bio",
	"city_id", "language", "is_verified", "rating", "created_at",
}

var joinedServiceFields = []string{
	"id", "name_en", "name_fr", "name_ar", "icon", "slug", "commission_rate",
}

// nestedColumns renders "alias.col AS "prefix.col"" pairs so sqlx fills nested structs
func nestedColumns(alias, prefix string, fields []string) string {
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = fmt.Sprintf(`%s.%s AS "%s.%s"`, alias, f, prefix, f)
	}
	return strings.Join(cols, ", ")
}

// ProviderServiceRepository handles provider service database operations
type ProviderServiceRepository struct {
	db DB
}

// NewProviderServiceRepository creates a new provider service repository
func NewProviderServiceRepository(db DB) *ProviderServiceRepository {
	return &ProviderServiceRepository{
		db: db,
	}
}

// CreateProviderService inserts a provider service. Status is always pending.
func (r *ProviderServiceRepository) CreateProviderService(ctx context.Context, in models.NewProviderService) (*models.ProviderService, error) {
	query := `
		INSERT INTO provider_services (
			user_id, service_id, country_id, city_id, price_range, description, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + providerServiceColumns

	var ps models.ProviderService
	err := r.db.GetContext(ctx, &ps, query,
		in.UserID,
		in.ServiceID,
		models.NewNullInt64(in.CountryID),
		models.NewNullInt64(in.CityID),
		models.NewNullString(in.PriceRange),
		models.NewNullString(in.Description),
		models.ApprovalPending,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider service: %w", translateError(err))
	}

	return &ps, nil
}

// GetProviderServiceByID retrieves a provider service by ID
func (r *ProviderServiceRepository) GetProviderServiceByID(ctx context.Context, id int64) (*models.ProviderService, error) {
	var ps models.ProviderService

	query := `SELECT ` + providerServiceColumns + ` FROM provider_services WHERE id = $1`

	if err := r.db.GetContext(ctx, &ps, query, id); err != nil {
		return nil, fmt.Errorf("failed to get provider service: %w", translateError(err))
	}

	return &ps, nil
}

// ListPending returns pending provider services with their service and provider, newest first.
// Rows whose service or provider is missing are dropped by the inner joins.
func (r *ProviderServiceRepository) ListPending(ctx context.Context) ([]models.PendingProviderService, error) {
	query := `
		SELECT ps.id, ps.user_id, ps.service_id, ps.country_id, ps.city_id,
		       ps.price_range, ps.description, ps.status, ps.created_at,
		       ` + nestedColumns("s", "service", joinedServiceFields) + `,
		       ` + nestedColumns("u", "provider", joinedUserFields) + `
		FROM provider_services ps
		JOIN services s ON s.id = ps.service_id
		JOIN users u ON u.id = ps.user_id
		WHERE ps.status = $1
		ORDER BY ps.created_at DESC, ps.id DESC
	`

	rows := []models.PendingProviderService{}
	if err := r.db.SelectContext(ctx, &rows, query, models.ApprovalPending); err != nil {
		return nil, fmt.Errorf("failed to list pending provider services: %w", err)
	}

	return rows, nil
}

// UpdateStatus sets the status of a provider service. When from is non-nil the write only
// applies if the row still holds that status; a lost race then yields ErrNotFound.
func (r *ProviderServiceRepository) UpdateStatus(ctx context.Context, id int64, status models.ApprovalStatus, from *models.ApprovalStatus) (*models.ProviderService, error) {
	query := `UPDATE provider_services SET status = $1 WHERE id = $2`
	args := []interface{}{status, id}
	if from != nil {
		query += ` AND status = $3`
		args = append(args, *from)
	}
	query += ` RETURNING ` + providerServiceColumns

	var ps models.ProviderService
	if err := r.db.GetContext(ctx, &ps, query, args...); err != nil {
		return nil, fmt.Errorf("failed to update provider service status: %w", translateError(err))
	}

	return &ps, nil
}

// ListApprovedByUsers returns the approved provider services of the given users ordered by user and id
func (r *ProviderServiceRepository) ListApprovedByUsers(ctx context.Context, userIDs []int64) ([]models.ProviderService, error) {
	rows := []models.ProviderService{}
	if len(userIDs) == 0 {
		return rows, nil
	}

	query, args, err := dialect.From("provider_services").
		Select(
			"id", "user_id", "service_id", "country_id", "city_id",
			"price_range", "description", "status", "created_at",
		).
		Where(goqu.Ex{
			"user_id": userIDs,
			"status":  string(models.ApprovalApproved),
		}).
		Order(goqu.I("user_id").Asc(), goqu.I("id").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build provider services query: %w", err)
	}

	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list approved provider services: %w", err)
	}

	return rows, nil
}

// HasApprovedService reports whether the provider holds an approved listing for the service
func (r *ProviderServiceRepository) HasApprovedService(ctx context.Context, userID, serviceID int64) (bool, error) {
	var exists bool

	query := `
		SELECT EXISTS(
			SELECT 1 FROM provider_services
			WHERE user_id = $1 AND service_id = $2 AND status = $3
		)
	`

	if err := r.db.GetContext(ctx, &exists, query, userID, serviceID, models.ApprovalApproved); err != nil {
		return false, fmt.Errorf("failed to check provider service: %w", err)
	}

	return exists, nil
}
