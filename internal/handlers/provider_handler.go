package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/servinear/marketplace-backend/internal/api"
	"github.com/servinear/marketplace-backend/internal/middleware"
	"github.com/servinear/marketplace-backend/internal/models"
	"github.com/servinear/marketplace-backend/internal/services"
	"github.com/sirupsen/logrus"
)

// ProviderHandler covers provider discovery and the provider-service approval workflow
type ProviderHandler struct {
	discovery  *services.DiscoveryService
	moderation *services.ModerationService
	audit      auditor
	logger     logrus.FieldLogger
}

// NewProviderHandler creates a new provider handler
func NewProviderHandler(
	discovery *services.DiscoveryService,
	moderation *services.ModerationService,
	auditService *services.AuditService,
	logger logrus.FieldLogger,
) *ProviderHandler {
	return &ProviderHandler{
		discovery:  discovery,
		moderation: moderation,
		audit:      auditor{svc: auditService, logger: logger},
		logger:     logger,
	}
}

// ListProviders handles GET /api/providers?cityId=&serviceId=
func (h *ProviderHandler) ListProviders(c *gin.Context) {
	var query api.ProviderQuery
	if !bindQuery(c, &query) {
		return
	}

	providers, err := h.discovery.ListProviders(c.Request.Context(), models.ProviderFilter{
		CityID:    query.CityID,
		ServiceID: query.ServiceID,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, providers)
}

// GetProvider handles GET /api/providers/:id
func (h *ProviderHandler) GetProvider(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	provider, err := h.discovery.GetProvider(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, provider)
}

// RegisterService handles POST /api/providers/services
func (h *ProviderHandler) RegisterService(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	var req api.RegisterServiceRequest
	if !bindJSON(c, &req) {
		return
	}

	ps, err := h.moderation.RegisterService(c.Request.Context(), userCtx.User, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, ps)
}

// ListPending handles GET /api/admin/provider-services/pending
func (h *ProviderHandler) ListPending(c *gin.Context) {
	pending, err := h.moderation.ListPending(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, pending)
}

// SetApproval handles PATCH /api/admin/provider-services/:id/approval
func (h *ProviderHandler) SetApproval(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req api.ApprovalRequest
	if !bindJSON(c, &req) {
		return
	}

	ps, err := h.moderation.SetApproval(c.Request.Context(), id, models.ApprovalStatus(req.Status), userCtx.User.ID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.audit.safeLogApprovalDecision(c, userCtx.User.ID, ps)
	c.JSON(http.StatusOK, ps)
}
