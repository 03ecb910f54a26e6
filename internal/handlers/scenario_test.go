package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/servinear/marketplace-backend/internal/api"
	"github.com/servinear/marketplace-backend/internal/models"
	"github.com/servinear/marketplace-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenario_ClientBooksProvider(t *testing.T) {
	env := newTestEnv(t)

	service := testutil.CreateService(t, env.store, "plumbing")
	provider := env.user(t, "provider", models.RoleProvider)
	require.Equal(t, int64(1), service.ID)
	require.Equal(t, int64(2), provider.ID)

	w := env.call(t, api.Register, nil, api.RegisterRequest{
		Username: "alice",
		Password: testPassword,
		Role:     "client",
		Name:     "Alice",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	alice := decode[models.User](t, w)
	assert.Equal(t, models.RoleClient, alice.Role)

	session := env.login(t, "alice")

	w = env.call(t, api.CreateBooking, nil,
		`{"providerId":2,"serviceId":1,"scheduledDate":"2025-01-01T10:00:00Z"}`, session)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = env.call(t, api.ListBookings, nil, nil, session)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	bookings := decode[[]models.BookingDetails](t, w)
	require.Len(t, bookings, 1)
	assert.Equal(t, models.BookingPending, bookings[0].Status)
	assert.Equal(t, alice.ID, bookings[0].ClientID)
	assert.Equal(t, provider.ID, bookings[0].ProviderID)
	assert.Equal(t, "plumbing", bookings[0].Service.Slug)
	assert.Equal(t, "alice", bookings[0].Client.Username)
	require.True(t, bookings[0].ScheduledDate.Valid)
	assert.True(t, bookings[0].ScheduledDate.Time.Equal(time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)))
}

func TestScenario_ProviderServiceApproval(t *testing.T) {
	env := newTestEnv(t)

	testutil.CreateService(t, env.store, "plumbing")
	testutil.CreateService(t, env.store, "cleaning")
	electricity := testutil.CreateService(t, env.store, "electricity")
	require.Equal(t, int64(3), electricity.ID)
	env.user(t, "admin", models.RoleAdmin)

	w := env.call(t, api.Register, nil, api.RegisterRequest{
		Username: "bob",
		Password: testPassword,
		Role:     "provider",
		Name:     "Bob",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	bob := decode[models.User](t, w)
	require.Equal(t, models.RoleProvider, bob.Role)
	bobSession := sessionCookie(t, w)

	w = env.call(t, api.RegisterService, nil, api.RegisterServiceRequest{ServiceID: 3, PriceRange: "50-100"}, bobSession)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	registered := decode[models.ProviderService](t, w)
	assert.Equal(t, models.ApprovalPending, registered.Status)

	// Not visible before approval
	w = env.do(t, http.MethodGet, "/api/providers?serviceId=3", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]models.Provider](t, w))

	adminSession := env.login(t, "admin")

	w = env.call(t, api.ListPendingServices, nil, nil, adminSession)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	pending := decode[[]models.PendingProviderService](t, w)
	require.Len(t, pending, 1)
	assert.Equal(t, registered.ID, pending[0].ID)
	assert.Equal(t, models.ApprovalPending, pending[0].Status)
	assert.Equal(t, "bob", pending[0].Provider.Username)
	assert.Equal(t, "electricity", pending[0].Service.Slug)

	w = env.call(t, api.SetServiceApproval, api.Params{"id": registered.ID},
		api.ApprovalRequest{Status: "approved"}, adminSession)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, models.ApprovalApproved, decode[models.ProviderService](t, w).Status)

	w = env.do(t, http.MethodGet, "/api/providers?serviceId=3", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	providers := decode[[]models.Provider](t, w)
	require.Len(t, providers, 1)
	assert.Equal(t, bob.ID, providers[0].ID)
	require.Len(t, providers[0].ProvidedServices, 1)
	assert.Equal(t, int64(3), providers[0].ProvidedServices[0].ServiceID)

	w = env.call(t, api.ListPendingServices, nil, nil, adminSession)
	assert.Empty(t, decode[[]models.PendingProviderService](t, w))
}
