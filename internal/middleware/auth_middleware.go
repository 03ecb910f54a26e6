package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/servinear/marketplace-backend/internal/api"
	"github.com/servinear/marketplace-backend/internal/models"
	"github.com/servinear/marketplace-backend/internal/services"
	"github.com/sirupsen/logrus"
)

// UserContextKey is the key used to store user information in Gin context
const UserContextKey = "user"

// UserContext represents the authenticated caller of the current request
type UserContext struct {
	User      *models.User
	SessionID uuid.UUID
}

// Authenticator resolves a session token to the current identity
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*services.Identity, error)
}

// SessionToken returns the session token from the cookie, falling back to an
// "Authorization: Bearer" header for non-browser clients.
func SessionToken(c *gin.Context, cookieName string) string {
	if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
		return cookie
	}

	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// AuthMiddleware requires a valid session and stores the caller in the context.
// The user row is loaded on every request, so the role is always current.
func AuthMiddleware(auth Authenticator, cookieName string, logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := SessionToken(c, cookieName)
		if token == "" {
			abortUnauthorized(c, "Authentication required")
			return
		}

		identity, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			appErr := services.AsAppError(err)
			if appErr.Kind == services.KindUnauthorized {
				logger.WithFields(logrus.Fields{
					"path": c.Request.URL.Path,
					"ip":   c.ClientIP(),
				}).Warn("AUTH FAILED: invalid session")
				abortUnauthorized(c, appErr.Message)
				return
			}

			logger.WithError(err).Error("Session lookup failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, api.ErrorResponse{
				Error:   api.CodeInternal,
				Message: "Internal server error",
			})
			return
		}

		c.Set(UserContextKey, UserContext{User: identity.User, SessionID: identity.SessionID})
		c.Next()
	}
}

// RequireCapability rejects callers whose role lacks the capability. It must run after AuthMiddleware.
func RequireCapability(capability models.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		userCtx, exists := GetUserContext(c)
		if !exists {
			abortUnauthorized(c, "Authentication required")
			return
		}

		if !userCtx.User.Role.Can(capability) {
			c.AbortWithStatusJSON(http.StatusForbidden, api.ErrorResponse{
				Error:   api.CodeForbidden,
				Message: "You don't have permission to access this resource",
			})
			return
		}

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{
		Error:   api.CodeUnauthorized,
		Message: message,
	})
}

// GetUserContext retrieves the user context from Gin context
func GetUserContext(c *gin.Context) (UserContext, bool) {
	value, exists := c.Get(UserContextKey)
	if !exists {
		return UserContext{}, false
	}

	userCtx, ok := value.(UserContext)
	if !ok || userCtx.User == nil {
		return UserContext{}, false
	}

	return userCtx, true
}

// MustGetUserContext retrieves the user context or panics (use only after AuthMiddleware)
func MustGetUserContext(c *gin.Context) UserContext {
	userCtx, exists := GetUserContext(c)
	if !exists {
		panic("user context not found - ensure AuthMiddleware is applied")
	}
	return userCtx
}
