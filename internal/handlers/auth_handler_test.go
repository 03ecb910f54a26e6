package handlers

import (
	"net/http"
	"testing"

	"github.com/servinear/marketplace-backend/internal/api"
	"github.com/servinear/marketplace-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	env := newTestEnv(t)

	w := env.call(t, api.Register, nil, api.RegisterRequest{
		Username: "carol",
		Password: testPassword,
		Role:     "admin",
		Name:     "Carol",
		Email:    "carol@example.com",
	}, nil)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	user := decode[models.User](t, w)
	assert.Equal(t, "carol", user.Username)
	assert.Equal(t, models.RoleClient, user.Role, "admin cannot be self-assigned")
	assert.Equal(t, "carol@example.com", user.Email.String)
	assert.NotContains(t, w.Body.String(), "password")

	cookie := sessionCookie(t, w)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)

	me := env.call(t, api.Me, nil, nil, cookie)
	require.Equal(t, http.StatusOK, me.Code)
	assert.Equal(t, user.ID, decode[models.User](t, me).ID)

	logs := env.store.AuditLogs()
	require.NotEmpty(t, logs)
	assert.Equal(t, "register", logs[len(logs)-1].Action)
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name  string
		body  interface{}
		field string
	}{
		{"Missing Username", api.RegisterRequest{Password: testPassword, Name: "X"}, "username"},
		{"Short Password", api.RegisterRequest{Username: "dave", Password: "123", Name: "X"}, "password"},
		{"Bad Username", api.RegisterRequest{Username: "da ve", Password: testPassword, Name: "X"}, "username"},
		{"Bad Email", api.RegisterRequest{Username: "dave", Password: testPassword, Name: "X", Email: "nope"}, "email"},
		{"Wrong Type", `{"username":"dave","password":"secret123","name":"X","cityId":"one"}`, "cityId"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			w := env.call(t, api.Register, nil, tt.body, nil)

			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			body := decodeError(t, w)
			assert.Equal(t, api.CodeValidation, body.Error)
			assert.Equal(t, tt.field, body.Field)
			assert.NotEmpty(t, body.Message)
		})
	}

	t.Run("Malformed JSON", func(t *testing.T) {
		env := newTestEnv(t)
		w := env.call(t, api.Register, nil, `{"username":`, nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid request body", decodeError(t, w).Message)
	})
}

func TestRegister_DuplicateUsername(t *testing.T) {
	env := newTestEnv(t)
	env.user(t, "erin", models.RoleClient)

	w := env.call(t, api.Register, nil, api.RegisterRequest{Username: "erin", Password: testPassword, Name: "Erin"}, nil)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, api.CodeConflict, decodeError(t, w).Error)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	env.user(t, "frank", models.RoleProvider)

	t.Run("Success", func(t *testing.T) {
		w := env.call(t, api.Login, nil, api.LoginRequest{Username: "frank", Password: testPassword}, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, models.RoleProvider, decode[models.User](t, w).Role)
		sessionCookie(t, w)
	})

	t.Run("Wrong Password And Unknown User Look Alike", func(t *testing.T) {
		wrong := env.call(t, api.Login, nil, api.LoginRequest{Username: "frank", Password: "nope-nope"}, nil)
		unknown := env.call(t, api.Login, nil, api.LoginRequest{Username: "ghost", Password: testPassword}, nil)

		assert.Equal(t, http.StatusUnauthorized, wrong.Code)
		assert.Equal(t, http.StatusUnauthorized, unknown.Code)
		assert.Equal(t, decodeError(t, wrong), decodeError(t, unknown))
		assert.Empty(t, wrong.Result().Cookies())
	})

	t.Run("Failures Are Audited", func(t *testing.T) {
		logs := env.store.AuditLogs()
		require.NotEmpty(t, logs)
		assert.Equal(t, "login_failed", logs[len(logs)-1].Action)
	})
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	env.user(t, "gina", models.RoleClient)
	session := env.login(t, "gina")

	w := env.call(t, api.Logout, nil, nil, session)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Logged out successfully", decode[api.MessageResponse](t, w).Message)

	var cleared bool
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == testCookie {
			cleared = cookie.MaxAge < 0
		}
	}
	assert.True(t, cleared)

	// The revoked session no longer authenticates
	w = env.call(t, api.Me, nil, nil, session)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMe_Unauthenticated(t *testing.T) {
	env := newTestEnv(t)

	w := env.call(t, api.Me, nil, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.call(t, api.Me, nil, nil, &http.Cookie{Name: testCookie, Value: "garbage"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMe_BearerToken(t *testing.T) {
	env := newTestEnv(t)
	env.user(t, "hank", models.RoleClient)
	session := env.login(t, "hank")

	w := env.bearer(t, api.Me, session.Value)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hank", decode[models.User](t, w).Username)
}
