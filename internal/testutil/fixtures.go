package testutil

import (
	"context"
	"io"
	"testing"

	"github.com/servinear/marketplace-backend/internal/models"
	"github.com/servinear/marketplace-backend/pkg/password"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// TestPepper is the pepper used by NewHasher
const TestPepper = "test-pepper"

// NewLogger returns a logger that discards output
func NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// NewHasher returns a hasher at the minimum bcrypt cost so tests stay fast
func NewHasher(t *testing.T) *password.Hasher {
	t.Helper()
	h, err := password.NewHasher(TestPepper, bcrypt.MinCost)
	require.NoError(t, err)
	return h
}

// CreateUser inserts a user whose password is hashed with h
func CreateUser(t *testing.T, s *Store, h *password.Hasher, username, plain string, role models.Role) *models.User {
	t.Helper()
	hash, err := h.Hash(plain)
	require.NoError(t, err)
	user, err := s.Users.CreateUser(context.Background(), models.NewUser{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		Name:         username,
	})
	require.NoError(t, err)
	return user
}

// CreateService inserts a service category with the given slug
func CreateService(t *testing.T, s *Store, slug string) *models.Service {
	t.Helper()
	svc, err := s.Services.CreateService(context.Background(), models.Service{
		NameEn:         slug,
		NameFr:         slug,
		NameAr:         slug,
		Icon:           "Wrench",
		Slug:           slug,
		CommissionRate: models.DefaultCommissionRate,
	})
	require.NoError(t, err)
	return svc
}

// SetUserCity assigns a city to an existing user
func SetUserCity(s *Store, userID, cityID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user := s.users[userID]
	user.CityID = models.NewNullInt64(&cityID)
	s.users[userID] = user
}
