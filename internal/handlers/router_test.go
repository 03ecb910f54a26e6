package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/servinear/marketplace-backend/internal/api"
	"github.com/servinear/marketplace-backend/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	t.Run("Healthy", func(t *testing.T) {
		env := newTestEnv(t)
		w := env.call(t, api.HealthCheck, nil, nil, nil)

		require.Equal(t, http.StatusOK, w.Code)
		body := decode[map[string]interface{}](t, w)
		assert.Equal(t, "healthy", body["status"])
		assert.Equal(t, "disabled", body["cache"])
	})

	t.Run("Database Down", func(t *testing.T) {
		env := newTestEnvWith(t, envOptions{dbErr: errDown})
		w := env.call(t, api.HealthCheck, nil, nil, nil)

		require.Equal(t, http.StatusServiceUnavailable, w.Code)
		body := decode[map[string]interface{}](t, w)
		assert.Equal(t, "unhealthy", body["status"])
		assert.Equal(t, "unhealthy", body["database"])
		assert.NotContains(t, w.Body.String(), "connection refused")
	})
}

func TestRouter_NoRoute(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodGet, "/api/nope", nil, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, api.CodeNotFound, decodeError(t, w).Error)
}

func TestRouter_RequestIDAndCORS(t *testing.T) {
	env := newTestEnv(t)

	w := env.call(t, api.ListServices, nil, nil, nil)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	req := httptest.NewRequest(http.MethodOptions, api.Login.Path, nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestRouter_InternalErrorsAreGeneric(t *testing.T) {
	env := newTestEnv(t)
	c, w := newContext()

	respondError(c, env.logger, errDown)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, api.CodeInternal, body.Error)
	assert.Equal(t, "Internal server error", body.Message)
}
