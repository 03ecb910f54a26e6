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

// BookingHandler handles booking creation, listing and status changes
type BookingHandler struct {
	bookings *services.BookingService
	audit    auditor
	logger   logrus.FieldLogger
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookings *services.BookingService, auditService *services.AuditService, logger logrus.FieldLogger) *BookingHandler {
	return &BookingHandler{
		bookings: bookings,
		audit:    auditor{svc: auditService, logger: logger},
		logger:   logger,
	}
}

// Create handles POST /api/bookings. The caller is always the client.
func (h *BookingHandler) Create(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	var req api.CreateBookingRequest
	if !bindJSON(c, &req) {
		return
	}

	booking, err := h.bookings.Create(c.Request.Context(), userCtx.User, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.audit.safeLogBookingCreated(c, booking)
	c.JSON(http.StatusCreated, booking)
}

// List handles GET /api/bookings, scoped by the caller's role
func (h *BookingHandler) List(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	bookings, err := h.bookings.List(c.Request.Context(), userCtx.User)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// UpdateStatus handles PATCH /api/bookings/:id/status
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req api.UpdateBookingStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	booking, err := h.bookings.UpdateStatus(c.Request.Context(), userCtx.User, id, models.BookingStatus(req.Status))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.audit.safeLogBookingStatusChange(c, userCtx.User.ID, booking)
	c.JSON(http.StatusOK, booking)
}
