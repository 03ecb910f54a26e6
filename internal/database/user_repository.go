package database

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // postgres dialect
	"github.com/servinear/marketplace-backend/internal/models"
)

// dialect builds the dynamic queries; static ones stay as plain SQL
var dialect = goqu.Dialect("postgres")

const userColumns = `id, username, password_hash, role, name, email, phone, bio,
	city_id, language, is_verified, rating, created_at`

var userColumnList = []interface{}{
	"id", "username", "password_hash", "role", "name", "email", "phone", "bio",
	"city_id", "language", "is_verified", "rating", "created_at",
}

// UserRepository handles user database operations
type UserRepository struct {
	db DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

// CreateUser inserts a user and returns the stored row. A taken username yields ErrDuplicate.
func (r *UserRepository) CreateUser(ctx context.Context, in models.NewUser) (*models.User, error) {
	language := in.Language
	if language == "" {
		language = "en"
	}

	query := `
		INSERT INTO users (
			username, password_hash, role, name, email, phone, bio, city_id, language
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + userColumns

	var user models.User
	err := r.db.GetContext(ctx, &user, query,
		in.Username,
		in.PasswordHash,
		in.Role,
		in.Name,
		models.NewNullString(in.Email),
		models.NewNullString(in.Phone),
		models.NewNullString(in.Bio),
		models.NewNullInt64(in.CityID),
		language,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", translateError(err))
	}

	return &user, nil
}

// GetUserByID retrieves a user by ID
func (r *UserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, fmt.Errorf("failed to get user by ID: %w", translateError(err))
	}

	return &user, nil
}

// GetUserByUsername retrieves a user by username
func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User

	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	if err := r.db.GetContext(ctx, &user, query, username); err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", translateError(err))
	}

	return &user, nil
}

// GetProvider retrieves a user that has the provider role
func (r *UserRepository) GetProvider(ctx context.Context, id int64) (*models.User, error) {
	var user models.User

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND role = $2`

	if err := r.db.GetContext(ctx, &user, query, id, models.RoleProvider); err != nil {
		return nil, fmt.Errorf("failed to get provider: %w", translateError(err))
	}

	return &user, nil
}

// ListProviders returns provider users ordered by id. A ServiceID filter keeps only
// providers holding an approved provider service for that service.
func (r *UserRepository) ListProviders(ctx context.Context, filter models.ProviderFilter) ([]models.User, error) {
	ds := dialect.From("users").
		Select(userColumnList...).
		Where(goqu.Ex{"role": string(models.RoleProvider)})

	if filter.CityID != nil {
		ds = ds.Where(goqu.Ex{"city_id": *filter.CityID})
	}

	if filter.ServiceID != nil {
		offered := dialect.From("provider_services").
			Select(goqu.L("1")).
			Where(
				goqu.I("provider_services.user_id").Eq(goqu.I("users.id")),
				goqu.I("provider_services.service_id").Eq(*filter.ServiceID),
				goqu.I("provider_services.status").Eq(string(models.ApprovalApproved)),
			)
		ds = ds.Where(goqu.L("EXISTS ?", offered))
	}

	query, args, err := ds.Order(goqu.I("id").Asc()).Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build provider query: %w", err)
	}

	users := []models.User{}
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list providers: %w", err)
	}

	return users, nil
}
