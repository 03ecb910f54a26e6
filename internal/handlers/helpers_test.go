package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/servinear/marketplace-backend/internal/api"
	"github.com/servinear/marketplace-backend/internal/config"
	"github.com/servinear/marketplace-backend/internal/models"
	"github.com/servinear/marketplace-backend/internal/services"
	"github.com/servinear/marketplace-backend/internal/testutil"
	"github.com/servinear/marketplace-backend/pkg/jwt"
	"github.com/servinear/marketplace-backend/pkg/password"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

const (
	testCookie   = "test_sid"
	testSecret   = "handler-test-secret-at-least-32-characters"
	testPassword = "secret123"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubPinger struct{ err error }

func (p stubPinger) PingContext(context.Context) error { return p.err }

type testEnv struct {
	store  *testutil.Store
	hasher *password.Hasher
	router *gin.Engine
	logger *logrus.Logger
}

type envOptions struct {
	policy            services.BookingPolicy
	allowRetransition bool
	dbErr             error
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWith(t, envOptions{})
}

func newTestEnvWith(t *testing.T, opts envOptions) *testEnv {
	t.Helper()

	store := testutil.NewStore()
	hasher := testutil.NewHasher(t)
	logger := testutil.NewLogger()

	deps := Dependencies{
		Auth:    services.NewAuthService(store.Users, store.Sessions, hasher, jwt.NewService(testSecret, time.Hour), logger),
		Catalog: services.NewCatalogService(store.Locations, store.Services, nil, time.Minute, logger),
		Moderation: services.NewModerationService(
			store.ProviderServices, store.Services, store.Locations, opts.allowRetransition, logger,
		),
		Discovery: services.NewDiscoveryService(store.Users, store.ProviderServices),
		Bookings: services.NewBookingService(
			store.Bookings, store.Users, store.Services, store.ProviderServices, opts.policy, logger,
		),
		Audit:  services.NewAuditService(store.Audit, true),
		DB:     stubPinger{err: opts.dbErr},
		Logger: logger,
	}

	router := NewRouter(deps, RouterConfig{
		CORS: config.CORSConfig{
			AllowedOrigins: []string{"http://localhost:5173"},
			AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", "Authorization"},
		},
		Cookie: CookieConfig{Name: testCookie},
	})

	return &testEnv{store: store, hasher: hasher, router: router, logger: logger}
}

// do sends a request with an optional JSON body and session cookie
func (e *testEnv) do(t *testing.T, method, path string, body interface{}, session *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		if raw, ok := body.(string); ok {
			reader = bytes.NewBufferString(raw)
		} else {
			payload, err := json.Marshal(body)
			require.NoError(t, err)
			reader = bytes.NewReader(payload)
		}
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:120.0) Gecko/20100101 Firefox/120.0")
	if session != nil {
		req.AddCookie(session)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// call is do for a contract endpoint
func (e *testEnv) call(t *testing.T, ep api.Endpoint, params api.Params, body interface{}, session *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	return e.do(t, ep.Method, ep.URL(params), body, session)
}

// user inserts an account directly into the store
func (e *testEnv) user(t *testing.T, username string, role models.Role) *models.User {
	t.Helper()
	return testutil.CreateUser(t, e.store, e.hasher, username, testPassword, role)
}

// login authenticates through the API and returns the session cookie
func (e *testEnv) login(t *testing.T, username string) *http.Cookie {
	t.Helper()
	w := e.call(t, api.Login, nil, api.LoginRequest{Username: username, Password: testPassword}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return sessionCookie(t, w)
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == testCookie && cookie.Value != "" {
			return cookie
		}
	}
	t.Fatalf("response did not set %s", testCookie)
	return nil
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) api.ErrorResponse {
	t.Helper()
	return decode[api.ErrorResponse](t, w)
}

var errDown = errors.New("connection refused")

// bearer calls an endpoint authenticating with an Authorization header instead of the cookie
func (e *testEnv) bearer(t *testing.T, ep api.Endpoint, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(ep.Method, ep.Path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// newContext returns a bare gin context for calling helpers directly
func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}
