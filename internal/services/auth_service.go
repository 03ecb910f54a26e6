package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/servinear/marketplace-backend/internal/api"
	"github.com/servinear/marketplace-backend/internal/database"
	"github.com/servinear/marketplace-backend/internal/models"
	"github.com/servinear/marketplace-backend/internal/utils"
	"github.com/servinear/marketplace-backend/pkg/jwt"
	"github.com/servinear/marketplace-backend/pkg/password"
	"github.com/sirupsen/logrus"
)

const invalidCredentials = "Invalid username or password"

// touchInterval throttles last_activity_at writes for busy sessions
const touchInterval = time.Minute

// ClientInfo describes the caller's connection, recorded on the session row
type ClientInfo struct {
	IPAddress string
	UserAgent string
}

// SessionResult is returned by register and login
type SessionResult struct {
	User      *models.User
	SessionID uuid.UUID
	Token     string
	ExpiresAt time.Time
}

// Identity is the authenticated caller of a request
type Identity struct {
	User      *models.User
	SessionID uuid.UUID
}

// AuthService handles registration, login and session authentication
type AuthService struct {
	users      UserStore
	sessions   SessionStore
	hasher     *password.Hasher
	jwtService *jwt.Service
	logger     logrus.FieldLogger
	now        func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(
	users UserStore,
	sessions SessionStore,
	hasher *password.Hasher,
	jwtService *jwt.Service,
	logger logrus.FieldLogger,
) *AuthService {
	return &AuthService{
		users:      users,
		sessions:   sessions,
		hasher:     hasher,
		jwtService: jwtService,
		logger:     logger,
		now:        time.Now,
	}
}

// Register creates an account and opens a session for it. Only "provider" is honored
// as a requested role; everything else becomes client.
func (s *AuthService) Register(ctx context.Context, req api.RegisterRequest, info ClientInfo) (*SessionResult, error) {
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, NewInternalError("failed to hash password", err)
	}

	user, err := s.users.CreateUser(ctx, models.NewUser{
		Username:     strings.TrimSpace(req.Username),
		PasswordHash: hash,
		Role:         models.RegistrationRole(req.Role),
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Bio:          req.Bio,
		CityID:       req.CityID,
		Language:     req.Language,
	})
	switch {
	case errors.Is(err, database.ErrDuplicate):
		return nil, NewConflictError("Username already exists")
	case errors.Is(err, database.ErrInvalidReference):
		return nil, NewValidationError("cityId", "City does not exist")
	case err != nil:
		return nil, NewInternalError("failed to create user", err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"role":    user.Role,
	}).Info("User registered")

	return s.openSession(ctx, user, info)
}

// Login verifies credentials and opens a session. Unknown usernames and wrong
// passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, username, plain string, info ClientInfo) (*SessionResult, error) {
	user, err := s.users.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			// Equalize timing with the wrong-password path
			s.hasher.VerifyDummy(plain)
			return nil, NewUnauthorizedError(invalidCredentials)
		}
		return nil, NewInternalError("failed to load user", err)
	}

	if err := s.hasher.Verify(user.PasswordHash, plain); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return nil, NewUnauthorizedError(invalidCredentials)
		}
		return nil, NewInternalError("failed to verify password", err)
	}

	return s.openSession(ctx, user, info)
}

// Logout revokes the session. Revoking an already revoked session is not an error.
func (s *AuthService) Logout(ctx context.Context, sessionID uuid.UUID) error {
	if err := s.sessions.RevokeSession(ctx, sessionID, s.now()); err != nil {
		return NewInternalError("failed to revoke session", err)
	}
	return nil
}

// Authenticate resolves a session token to the current user. The role always comes
// from the stored user row, so role changes apply on the next request.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*Identity, error) {
	claims, err := s.jwtService.ValidateSessionToken(token)
	if err != nil {
		return nil, NewUnauthorizedError("Invalid or expired session")
	}

	session, err := s.sessions.GetSession(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, NewUnauthorizedError("Invalid or expired session")
		}
		return nil, NewInternalError("failed to load session", err)
	}

	now := s.now()
	if !session.IsActive(now) || session.UserID != claims.UserID {
		return nil, NewUnauthorizedError("Invalid or expired session")
	}

	user, err := s.users.GetUserByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, NewUnauthorizedError("Invalid or expired session")
		}
		return nil, NewInternalError("failed to load user", err)
	}

	if now.Sub(session.LastActivityAt) > touchInterval {
		if err := s.sessions.TouchSession(ctx, session.ID, now); err != nil {
			s.logger.WithError(err).WithField("session_id", session.ID).Warn("Failed to update session activity")
		}
	}

	return &Identity{User: user, SessionID: session.ID}, nil
}

// CleanupSessions deletes sessions that expired or were revoked before now
func (s *AuthService) CleanupSessions(ctx context.Context) (int64, error) {
	return s.sessions.DeleteExpiredSessions(ctx, s.now())
}

func (s *AuthService) openSession(ctx context.Context, user *models.User, info ClientInfo) (*SessionResult, error) {
	now := s.now()
	session := &models.UserSession{
		ID:             uuid.New(),
		UserID:         user.ID,
		IPAddress:      models.NewNullString(info.IPAddress),
		UserAgent:      models.NewNullString(info.UserAgent),
		DeviceType:     models.NewNullString(utils.DeviceType(info.UserAgent)),
		CreatedAt:      now,
		ExpiresAt:      now.Add(s.jwtService.Expiry()),
		LastActivityAt: now,
	}

	if err := s.sessions.CreateSession(ctx, session); err != nil {
		return nil, NewInternalError("failed to create session", err)
	}

	token, err := s.jwtService.GenerateSessionToken(session.ID, user.ID, session.ExpiresAt)
	if err != nil {
		return nil, NewInternalError("failed to sign session token", err)
	}

	return &SessionResult{
		User:      user,
		SessionID: session.ID,
		Token:     token,
		ExpiresAt: session.ExpiresAt,
	}, nil
}
