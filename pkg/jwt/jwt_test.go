package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-session-secret-key-for-testing-purposes"

func TestNewService(t *testing.T) {
	service := NewService(testSecret, time.Hour)

	assert.NotNil(t, service)
	assert.Equal(t, testSecret, service.secret)
	assert.Equal(t, time.Hour, service.Expiry())
}

func TestGenerateSessionToken(t *testing.T) {
	service := NewService(testSecret, time.Hour)
	sessionID := uuid.New()

	token, err := service.GenerateSessionToken(sessionID, 42, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := service.ValidateSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, sessionID, claims.SessionID)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, SessionToken, claims.TokenType)
	assert.Equal(t, "42", claims.Subject)
}

func TestValidateSessionToken_WrongSecret(t *testing.T) {
	service := NewService(testSecret, time.Hour)
	other := NewService("a-completely-different-secret-value-1234", time.Hour)

	token, err := other.GenerateSessionToken(uuid.New(), 1, time.Now().Add(time.Hour))
	require.NoError(t, err)

	claims, err := service.ValidateSessionToken(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestValidateSessionToken_Expired(t *testing.T) {
	service := NewService(testSecret, time.Hour)

	token, err := service.GenerateSessionToken(uuid.New(), 1, time.Now().Add(-time.Minute))
	require.NoError(t, err)

	claims, err := service.ValidateSessionToken(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestValidateSessionToken_WrongType(t *testing.T) {
	service := NewService(testSecret, time.Hour)

	claims := Claims{
		SessionID: uuid.New(),
		UserID:    1,
		TokenType: "access",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			Issuer:    issuer,
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	parsed, err := service.ValidateSessionToken(token)
	assert.Error(t, err)
	assert.Nil(t, parsed)
	assert.Contains(t, err.Error(), "invalid token type")
}

func TestValidateSessionToken_RejectsNoneAlgorithm(t *testing.T) {
	service := NewService(testSecret, time.Hour)

	claims := Claims{
		SessionID: uuid.New(),
		UserID:    1,
		TokenType: SessionToken,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			Issuer:    issuer,
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	parsed, err := service.ValidateSessionToken(token)
	assert.Error(t, err)
	assert.Nil(t, parsed)
}
