package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/servinear/marketplace-backend/internal/models"
)

const sessionColumns = `id, user_id, ip_address, user_agent, device_type,
	created_at, expires_at, last_activity_at, revoked_at`

// UserSessionRepository handles user session database operations
type UserSessionRepository struct {
	db DB
}

// NewUserSessionRepository creates a new user session repository
func NewUserSessionRepository(db DB) *UserSessionRepository {
	return &UserSessionRepository{
		db: db,
	}
}

// CreateSession stores a new login session
func (r *UserSessionRepository) CreateSession(ctx context.Context, session *models.UserSession) error {
	query := `
		INSERT INTO user_sessions (
			id, user_id, ip_address, user_agent, device_type,
			created_at, expires_at, last_activity_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		session.ID,
		session.UserID,
		session.IPAddress,
		session.UserAgent,
		session.DeviceType,
		session.CreatedAt,
		session.ExpiresAt,
		session.LastActivityAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", translateError(err))
	}

	return nil
}

// GetSession retrieves a session by ID regardless of state
func (r *UserSessionRepository) GetSession(ctx context.Context, id uuid.UUID) (*models.UserSession, error) {
	var session models.UserSession

	query := `SELECT ` + sessionColumns + ` FROM user_sessions WHERE id = $1`

	if err := r.db.GetContext(ctx, &session, query, id); err != nil {
		return nil, fmt.Errorf("failed to get session: %w", translateError(err))
	}

	return &session, nil
}

// TouchSession updates the last activity timestamp for a session
func (r *UserSessionRepository) TouchSession(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `UPDATE user_sessions SET last_activity_at = $1 WHERE id = $2`

	if _, err := r.db.ExecContext(ctx, query, at, id); err != nil {
		return fmt.Errorf("failed to update session activity: %w", err)
	}

	return nil
}

// RevokeSession marks a session as revoked (logout). Revoking twice is a no-op.
func (r *UserSessionRepository) RevokeSession(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `
		UPDATE user_sessions
		SET revoked_at = $1
		WHERE id = $2 AND revoked_at IS NULL
	`

	if _, err := r.db.ExecContext(ctx, query, at, id); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}

	return nil
}

// DeleteExpiredSessions removes sessions that expired or were revoked before the cutoff
func (r *UserSessionRepository) DeleteExpiredSessions(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		DELETE FROM user_sessions
		WHERE expires_at < $1 OR (revoked_at IS NOT NULL AND revoked_at < $1)
	`

	result, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}
