package services

import (
	"context"
	"testing"
	"time"

	"github.com/servinear/marketplace-backend/internal/api"
	"github.com/servinear/marketplace-backend/internal/models"
	"github.com/servinear/marketplace-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testClient = ClientInfo{IPAddress: "203.0.113.7", UserAgent: "Mozilla/5.0 (X11; Linux x86_64) Firefox/120.0"}

func TestRegisterThenLogin(t *testing.T) {
	store := testutil.NewStore()
	svc := newTestAuthService(t, store)
	ctx := context.Background()

	reg, err := svc.Register(ctx, api.RegisterRequest{
		Username: "alice",
		Password: "wonderland",
		Name:     "Alice",
	}, testClient)
	require.NoError(t, err)
	assert.Equal(t, models.RoleClient, reg.User.Role)
	assert.NotEmpty(t, reg.Token)
	assert.NotEqual(t, "wonderland", reg.User.PasswordHash)

	login, err := svc.Login(ctx, "alice", "wonderland", testClient)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, login.User.ID)
	assert.NotEqual(t, reg.SessionID, login.SessionID)
}

func TestRegister_RoleCoercion(t *testing.T) {
	store := testutil.NewStore()
	svc := newTestAuthService(t, store)
	ctx := context.Background()

	tests := []struct {
		username  string
		requested string
		expected  models.Role
	}{
		{"provider1", "provider", models.RoleProvider},
		{"admin1", "admin", models.RoleClient},
		{"client1", "", models.RoleClient},
		{"other1", "superuser", models.RoleClient},
	}

	for _, tt := range tests {
		t.Run(tt.username, func(t *testing.T) {
			res, err := svc.Register(ctx, api.RegisterRequest{
				Username: tt.username,
				Password: "password",
				Role:     tt.requested,
				Name:     tt.username,
			}, testClient)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, res.User.Role)
		})
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	store := testutil.NewStore()
	svc := newTestAuthService(t, store)
	ctx := context.Background()

	req := api.RegisterRequest{Username: "alice", Password: "password", Name: "Alice"}
	_, err := svc.Register(ctx, req, testClient)
	require.NoError(t, err)

	_, err = svc.Register(ctx, req, testClient)
	requireKind(t, err, KindConflict)

	assert.Equal(t, 1, store.SessionCount())
}

func TestRegister_UnknownCity(t *testing.T) {
	svc := newTestAuthService(t, testutil.NewStore())

	_, err := svc.Register(context.Background(), api.RegisterRequest{
		Username: "alice",
		Password: "password",
		Name:     "Alice",
		CityID:   int64Ptr(99),
	}, testClient)
	appErr := requireKind(t, err, KindValidation)
	assert.Equal(t, "cityId", appErr.Field)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	store := testutil.NewStore()
	svc := newTestAuthService(t, store)
	ctx := context.Background()

	testutil.CreateUser(t, store, testutil.NewHasher(t), "bob", "correct", models.RoleProvider)

	_, wrongPassword := svc.Login(ctx, "bob", "incorrect", testClient)
	_, unknownUser := svc.Login(ctx, "nobody", "correct", testClient)

	a := requireKind(t, wrongPassword, KindUnauthorized)
	b := requireKind(t, unknownUser, KindUnauthorized)
	assert.Equal(t, a.Message, b.Message)
	assert.Equal(t, 0, store.SessionCount())
}

func TestAuthenticate(t *testing.T) {
	store := testutil.NewStore()
	svc := newTestAuthService(t, store)
	ctx := context.Background()

	res, err := svc.Register(ctx, api.RegisterRequest{Username: "alice", Password: "password", Name: "Alice"}, testClient)
	require.NoError(t, err)

	t.Run("Valid Token", func(t *testing.T) {
		identity, err := svc.Authenticate(ctx, res.Token)
		require.NoError(t, err)
		assert.Equal(t, res.User.ID, identity.User.ID)
		assert.Equal(t, res.SessionID, identity.SessionID)
	})

	t.Run("Garbage Token", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "not-a-token")
		requireKind(t, err, KindUnauthorized)
	})

	t.Run("Revoked Session", func(t *testing.T) {
		require.NoError(t, svc.Logout(ctx, res.SessionID))
		_, err := svc.Authenticate(ctx, res.Token)
		requireKind(t, err, KindUnauthorized)

		// Logging out twice is harmless
		assert.NoError(t, svc.Logout(ctx, res.SessionID))
	})
}

func TestAuthenticate_ExpiredSession(t *testing.T) {
	store := testutil.NewStore()
	svc := newTestAuthService(t, store)
	ctx := context.Background()

	res, err := svc.Register(ctx, api.RegisterRequest{Username: "alice", Password: "password", Name: "Alice"}, testClient)
	require.NoError(t, err)

	// The JWT is still valid, but the session row says expired
	svc.now = func() time.Time { return res.ExpiresAt.Add(time.Second) }
	_, err = svc.Authenticate(ctx, res.Token)
	requireKind(t, err, KindUnauthorized)

	deleted, err := svc.CleanupSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
	assert.Equal(t, 0, store.SessionCount())
}
