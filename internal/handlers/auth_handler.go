package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/servinear/marketplace-backend/internal/api"
	"github.com/servinear/marketplace-backend/internal/middleware"
	"github.com/servinear/marketplace-backend/internal/services"
	"github.com/servinear/marketplace-backend/internal/utils"
	"github.com/sirupsen/logrus"
)

// CookieConfig controls the session cookie
type CookieConfig struct {
	Name   string
	Domain string
	Secure bool
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	auth   *services.AuthService
	cookie CookieConfig
	audit  auditor
	logger logrus.FieldLogger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	auth *services.AuthService,
	auditService *services.AuditService,
	cookie CookieConfig,
	logger logrus.FieldLogger,
) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		cookie: cookie,
		audit:  auditor{svc: auditService, logger: logger},
		logger: logger,
	}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req api.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.auth.Register(c.Request.Context(), req, clientInfo(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.setSessionCookie(c, result)
	h.audit.safeLogRegister(c, result.User)

	c.JSON(http.StatusCreated, result.User)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req api.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Username, req.Password, clientInfo(c))
	if err != nil {
		if services.IsKind(err, services.KindUnauthorized) {
			h.audit.safeLogLogin(c, nil, req.Username, false)
		}
		respondError(c, h.logger, err)
		return
	}

	h.setSessionCookie(c, result)
	h.audit.safeLogLogin(c, &result.User.ID, result.User.Username, true)

	c.JSON(http.StatusOK, result.User)
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	if err := h.auth.Logout(c.Request.Context(), userCtx.SessionID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.clearSessionCookie(c)
	h.audit.safeLogLogout(c, userCtx.User.ID, userCtx.SessionID.String())

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Logged out successfully"})
}

// Me handles GET /api/user
func (h *AuthHandler) Me(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)
	c.JSON(http.StatusOK, userCtx.User)
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, result *services.SessionResult) {
	maxAge := int(time.Until(result.ExpiresAt).Seconds())
	if maxAge <= 0 {
		maxAge = 1
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, result.Token, maxAge, "/", h.cookie.Domain, h.cookie.Secure, true)
}

func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, "", -1, "/", h.cookie.Domain, h.cookie.Secure, true)
}

func clientInfo(c *gin.Context) services.ClientInfo {
	return services.ClientInfo{
		IPAddress: utils.GetRealIP(c),
		UserAgent: utils.GetUserAgent(c),
	}
}
