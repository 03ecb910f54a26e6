package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/servinear/marketplace-backend/internal/models"
	"github.com/servinear/marketplace-backend/internal/utils"
)

// AuditService handles audit logging for security events
type AuditService struct {
	store   AuditStore
	enabled bool
	now     func() time.Time
}

// NewAuditService creates a new audit service. A disabled service records nothing.
func NewAuditService(store AuditStore, enabled bool) *AuditService {
	return &AuditService{
		store:   store,
		enabled: enabled,
		now:     time.Now,
	}
}

// AuditEvent represents a security event to be logged
type AuditEvent struct {
	UserID     *int64                 // nil for pre-authentication events
	Action     string                 // e.g. "register", "login_success", "approval_decision"
	EntityType string                 // e.g. "user", "provider_service", "booking"
	EntityID   *int64                 // ID of the affected entity (can be nil)
	IPAddress  string                 // Client IP address
	UserAgent  string                 // Client user agent
	Details    map[string]interface{} // Additional details as JSONB
}

// LogRegister logs an account creation
func (s *AuditService) LogRegister(ctx context.Context, user *models.User, ipAddress, userAgent string) error {
	return s.logEvent(ctx, AuditEvent{
		UserID:     &user.ID,
		Action:     "register",
		EntityType: "user",
		EntityID:   &user.ID,
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Details: map[string]interface{}{
			"username":    user.Username,
			"role":        user.Role,
			"device_info": utils.ParseUserAgent(userAgent),
		},
	})
}

// LogLogin logs a login attempt. userID is nil when the username was unknown.
func (s *AuditService) LogLogin(ctx context.Context, userID *int64, username, ipAddress, userAgent string, success bool) error {
	action := "login_failed"
	if success {
		action = "login_success"
	}

	return s.logEvent(ctx, AuditEvent{
		UserID:     userID,
		Action:     action,
		EntityType: "user",
		EntityID:   userID,
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Details: map[string]interface{}{
			"username":    username,
			"success":     success,
			"device_info": utils.ParseUserAgent(userAgent),
		},
	})
}

// LogLogout logs a logout event
func (s *AuditService) LogLogout(ctx context.Context, userID int64, sessionID, ipAddress, userAgent string) error {
	return s.logEvent(ctx, AuditEvent{
		UserID:     &userID,
		Action:     "logout",
		EntityType: "user",
		EntityID:   &userID,
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Details: map[string]interface{}{
			"session_id":  sessionID,
			"device_info": utils.ParseUserAgent(userAgent),
		},
	})
}

// LogApprovalDecision logs an admin moderation decision
func (s *AuditService) LogApprovalDecision(ctx context.Context, adminID int64, ps *models.ProviderService, ipAddress, userAgent string) error {
	return s.logEvent(ctx, AuditEvent{
		UserID:     &adminID,
		Action:     "approval_decision",
		EntityType: "provider_service",
		EntityID:   &ps.ID,
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Details: map[string]interface{}{
			"provider_id": ps.UserID,
			"service_id":  ps.ServiceID,
			"status":      ps.Status,
			"device_info": utils.ParseUserAgent(userAgent),
		},
	})
}

// LogBookingCreated logs a new booking
func (s *AuditService) LogBookingCreated(ctx context.Context, booking *models.Booking, ipAddress, userAgent string) error {
	return s.logEvent(ctx, AuditEvent{
		UserID:     &booking.ClientID,
		Action:     "booking_created",
		EntityType: "booking",
		EntityID:   &booking.ID,
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Details: map[string]interface{}{
			"provider_id": booking.ProviderID,
			"service_id":  booking.ServiceID,
			"device_info": utils.ParseUserAgent(userAgent),
		},
	})
}

// LogBookingStatusChange logs a booking lifecycle move made by userID
func (s *AuditService) LogBookingStatusChange(ctx context.Context, userID int64, booking *models.Booking, ipAddress, userAgent string) error {
	return s.logEvent(ctx, AuditEvent{
		UserID:     &userID,
		Action:     "booking_status_change",
		EntityType: "booking",
		EntityID:   &booking.ID,
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Details: map[string]interface{}{
			"status":      booking.Status,
			"device_info": utils.ParseUserAgent(userAgent),
		},
	})
}

// logEvent writes one entry to the audit_logs table
func (s *AuditService) logEvent(ctx context.Context, event AuditEvent) error {
	if !s.enabled {
		return nil
	}

	details, err := json.Marshal(event.Details)
	if err != nil {
		return fmt.Errorf("failed to encode audit details: %w", err)
	}

	entry := models.AuditLog{
		UserID:     models.NewNullInt64(event.UserID),
		Action:     event.Action,
		EntityType: models.NewNullString(event.EntityType),
		EntityID:   models.NewNullInt64(event.EntityID),
		IPAddress:  models.NewNullString(event.IPAddress),
		UserAgent:  models.NewNullString(event.UserAgent),
		Details:    models.NewNullString(string(details)),
		CreatedAt:  s.now(),
	}

	if err := s.store.InsertAuditLog(ctx, entry); err != nil {
		return fmt.Errorf("failed to log audit event: %w", err)
	}

	return nil
}

// CleanupOldAuditLogs removes audit logs older than the specified duration
func (s *AuditService) CleanupOldAuditLogs(ctx context.Context, olderThan time.Duration) (int64, error) {
	return s.store.DeleteAuditLogsBefore(ctx, s.now().Add(-olderThan))
}
