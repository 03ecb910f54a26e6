package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/servinear/marketplace-backend/internal/models"
	"github.com/servinear/marketplace-backend/internal/services"
	"github.com/servinear/marketplace-backend/internal/utils"
	"github.com/sirupsen/logrus"
)

// auditor wraps the audit service so that audit failures are logged and never fail the request
type auditor struct {
	svc    *services.AuditService
	logger logrus.FieldLogger
}

// logAuditError is a helper to log audit service errors without failing the request
func (a auditor) logAuditError(operation string, err error) {
	if err != nil {
		a.logger.WithError(err).WithField("operation", operation).Error("AUDIT ERROR")
	}
}

func (a auditor) safeLogRegister(c *gin.Context, user *models.User) {
	if a.svc == nil {
		return
	}
	err := a.svc.LogRegister(c.Request.Context(), user, utils.GetRealIP(c), utils.GetUserAgent(c))
	a.logAuditError("LogRegister", err)
}

func (a auditor) safeLogLogin(c *gin.Context, userID *int64, username string, success bool) {
	if a.svc == nil {
		return
	}
	err := a.svc.LogLogin(c.Request.Context(), userID, username, utils.GetRealIP(c), utils.GetUserAgent(c), success)
	a.logAuditError("LogLogin", err)
}

func (a auditor) safeLogLogout(c *gin.Context, userID int64, sessionID string) {
	if a.svc == nil {
		return
	}
	err := a.svc.LogLogout(c.Request.Context(), userID, sessionID, utils.GetRealIP(c), utils.GetUserAgent(c))
	a.logAuditError("LogLogout", err)
}

func (a auditor) safeLogApprovalDecision(c *gin.Context, adminID int64, ps *models.ProviderService) {
	if a.svc == nil {
		return
	}
	err := a.svc.LogApprovalDecision(c.Request.Context(), adminID, ps, utils.GetRealIP(c), utils.GetUserAgent(c))
	a.logAuditError("LogApprovalDecision", err)
}

func (a auditor) safeLogBookingCreated(c *gin.Context, booking *models.Booking) {
	if a.svc == nil {
		return
	}
	err := a.svc.LogBookingCreated(c.Request.Context(), booking, utils.GetRealIP(c), utils.GetUserAgent(c))
	a.logAuditError("LogBookingCreated", err)
}

func (a auditor) safeLogBookingStatusChange(c *gin.Context, userID int64, booking *models.Booking) {
	if a.svc == nil {
		return
	}
	err := a.svc.LogBookingStatusChange(c.Request.Context(), userID, booking, utils.GetRealIP(c), utils.GetUserAgent(c))
	a.logAuditError("LogBookingStatusChange", err)
}
