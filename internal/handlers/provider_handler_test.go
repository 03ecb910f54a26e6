package handlers

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/servinear/marketplace-backend/internal/api"
	"github.com/servinear/marketplace-backend/internal/models"
	"github.com/servinear/marketplace-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// registerPending creates a pending provider service through the API
func registerPending(t *testing.T, env *testEnv, session *http.Cookie, serviceID int64) models.ProviderService {
	t.Helper()
	w := env.call(t, api.RegisterService, nil, api.RegisterServiceRequest{ServiceID: serviceID}, session)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[models.ProviderService](t, w)
}

func TestRegisterService_IgnoresSuppliedStatus(t *testing.T) {
	env := newTestEnv(t)
	service := testutil.CreateService(t, env.store, "plumbing")
	env.user(t, "jill", models.RoleProvider)
	session := env.login(t, "jill")

	body := fmt.Sprintf(`{"serviceId":%d,"status":"approved","description":"  pipes  "}`, service.ID)
	w := env.call(t, api.RegisterService, nil, body, session)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	ps := decode[models.ProviderService](t, w)
	assert.Equal(t, models.ApprovalPending, ps.Status)
	assert.Equal(t, "pipes", ps.Description.String)
}

func TestRegisterService_Errors(t *testing.T) {
	env := newTestEnv(t)
	env.user(t, "kate", models.RoleClient)
	env.user(t, "liam", models.RoleProvider)
	client := env.login(t, "kate")
	provider := env.login(t, "liam")

	t.Run("Client Forbidden", func(t *testing.T) {
		w := env.call(t, api.RegisterService, nil, api.RegisterServiceRequest{ServiceID: 1}, client)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Unknown Service", func(t *testing.T) {
		w := env.call(t, api.RegisterService, nil, api.RegisterServiceRequest{ServiceID: 404}, provider)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Missing Service ID", func(t *testing.T) {
		w := env.call(t, api.RegisterService, nil, `{}`, provider)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "serviceId", decodeError(t, w).Field)
	})
}

func TestSetApproval(t *testing.T) {
	env := newTestEnv(t)
	service := testutil.CreateService(t, env.store, "cleaning")
	env.user(t, "mia", models.RoleProvider)
	env.user(t, "admin", models.RoleAdmin)
	provider := env.login(t, "mia")
	admin := env.login(t, "admin")

	ps := registerPending(t, env, provider, service.ID)
	approval := func(id int64, status string, session *http.Cookie) int {
		return env.call(t, api.SetServiceApproval, api.Params{"id": id}, api.ApprovalRequest{Status: status}, session).Code
	}

	assert.Equal(t, http.StatusForbidden, approval(ps.ID, "approved", provider))
	assert.Equal(t, http.StatusNotFound, approval(9999, "approved", admin))

	w := env.call(t, api.SetServiceApproval, api.Params{"id": ps.ID}, api.ApprovalRequest{Status: "pending"}, admin)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "status", decodeError(t, w).Field)

	assert.Equal(t, http.StatusOK, approval(ps.ID, "rejected", admin))
	assert.Equal(t, http.StatusOK, approval(ps.ID, "rejected", admin), "same decision is idempotent")
	assert.Equal(t, http.StatusConflict, approval(ps.ID, "approved", admin))

	// Rejected rows stay hidden
	w = env.call(t, api.GetProvider, api.Params{"id": ps.UserID}, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[models.Provider](t, w).ProvidedServices)

	var decisions int
	for _, entry := range env.store.AuditLogs() {
		if entry.Action == "approval_decision" {
			decisions++
		}
	}
	assert.Equal(t, 2, decisions)
}

func TestSetApproval_RetransitionAllowed(t *testing.T) {
	env := newTestEnvWith(t, envOptions{allowRetransition: true})
	service := testutil.CreateService(t, env.store, "cleaning")
	env.user(t, "nia", models.RoleProvider)
	env.user(t, "admin", models.RoleAdmin)
	ps := registerPending(t, env, env.login(t, "nia"), service.ID)
	admin := env.login(t, "admin")

	for _, status := range []string{"rejected", "approved"} {
		w := env.call(t, api.SetServiceApproval, api.Params{"id": ps.ID}, api.ApprovalRequest{Status: status}, admin)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w := env.call(t, api.GetProvider, api.Params{"id": ps.UserID}, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[models.Provider](t, w).ProvidedServices, 1)
}

func TestListProviders_Filters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	country, err := env.store.Locations.CreateCountry(ctx, models.Country{Name: "Saudi Arabia", Code: "SA", Currency: "SAR"})
	require.NoError(t, err)
	riyadh, err := env.store.Locations.CreateCity(ctx, models.City{CountryID: country.ID, Name: "Riyadh"})
	require.NoError(t, err)
	jeddah, err := env.store.Locations.CreateCity(ctx, models.City{CountryID: country.ID, Name: "Jeddah"})
	require.NoError(t, err)

	plumbing := testutil.CreateService(t, env.store, "plumbing")
	oscar := env.user(t, "oscar", models.RoleProvider)
	pia := env.user(t, "pia", models.RoleProvider)
	env.user(t, "quinn", models.RoleClient)
	testutil.SetUserCity(env.store, oscar.ID, riyadh.ID)
	testutil.SetUserCity(env.store, pia.ID, jeddah.ID)

	ps, err := env.store.ProviderServices.CreateProviderService(ctx, models.NewProviderService{UserID: pia.ID, ServiceID: plumbing.ID})
	require.NoError(t, err)
	_, err = env.store.ProviderServices.UpdateStatus(ctx, ps.ID, models.ApprovalApproved, nil)
	require.NoError(t, err)

	ids := func(path string) []int64 {
		w := env.do(t, http.MethodGet, path, nil, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var out []int64
		for _, p := range decode[[]models.Provider](t, w) {
			out = append(out, p.ID)
		}
		return out
	}

	assert.Equal(t, []int64{oscar.ID, pia.ID}, ids("/api/providers"))
	assert.Equal(t, []int64{oscar.ID}, ids(fmt.Sprintf("/api/providers?cityId=%d", riyadh.ID)))
	assert.Equal(t, []int64{pia.ID}, ids(fmt.Sprintf("/api/providers?serviceId=%d", plumbing.ID)))
	assert.Empty(t, ids(fmt.Sprintf("/api/providers?cityId=%d&serviceId=%d", riyadh.ID, plumbing.ID)))

	w := env.do(t, http.MethodGet, "/api/providers?cityId=abc", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = env.do(t, http.MethodGet, "/api/providers?serviceId=0", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetProvider_NotFound(t *testing.T) {
	env := newTestEnv(t)
	client := env.user(t, "rita", models.RoleClient)

	w := env.call(t, api.GetProvider, api.Params{"id": client.ID}, nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, api.CodeNotFound, decodeError(t, w).Error)

	w = env.call(t, api.GetProvider, api.Params{"id": "x"}, nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
