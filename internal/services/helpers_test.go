package services

import (
	"testing"
	"time"

	"github.com/servinear/marketplace-backend/internal/database"
	"github.com/servinear/marketplace-backend/internal/testutil"
	"github.com/servinear/marketplace-backend/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ UserStore            = (*database.UserRepository)(nil)
	_ SessionStore         = (*database.UserSessionRepository)(nil)
	_ LocationStore        = (*database.LocationRepository)(nil)
	_ ServiceCatalogStore  = (*database.ServiceRepository)(nil)
	_ ProviderServiceStore = (*database.ProviderServiceRepository)(nil)
	_ BookingStore         = (*database.BookingRepository)(nil)
	_ AuditStore           = (*database.AuditRepository)(nil)

	_ UserStore            = (*testutil.UserStore)(nil)
	_ SessionStore         = (*testutil.SessionStore)(nil)
	_ LocationStore        = (*testutil.LocationStore)(nil)
	_ ServiceCatalogStore  = (*testutil.ServiceStore)(nil)
	_ ProviderServiceStore = (*testutil.ProviderServiceStore)(nil)
	_ BookingStore         = (*testutil.BookingStore)(nil)
	_ AuditStore           = (*testutil.AuditStore)(nil)
)

const testSecret = "test-session-secret-at-least-32-characters"

func newTestAuthService(t *testing.T, store *testutil.Store) *AuthService {
	t.Helper()
	return NewAuthService(
		store.Users,
		store.Sessions,
		testutil.NewHasher(t),
		jwt.NewService(testSecret, time.Hour),
		testutil.NewLogger(),
	)
}

// requireKind asserts err is an AppError of the given kind
func requireKind(t *testing.T, err error, kind ErrorKind) *AppError {
	t.Helper()
	require.Error(t, err)
	appErr := AsAppError(err)
	assert.Equal(t, kind, appErr.Kind, "unexpected error: %v", err)
	return appErr
}

func int64Ptr(v int64) *int64 { return &v }
