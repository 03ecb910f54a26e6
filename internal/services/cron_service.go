package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// auditCleanupSchedule runs daily at 4 AM
const auditCleanupSchedule = "0 0 4 * * *"

const jobTimeout = 5 * time.Minute

// CronService manages scheduled background jobs
type CronService struct {
	cron            *cron.Cron
	authSvc         *AuthService
	auditSvc        *AuditService
	sessionSchedule string
	auditRetention  time.Duration
	logger          logrus.FieldLogger
}

// NewCronService creates a new CronService. sessionSchedule uses the six-field
// cron format (seconds first).
func NewCronService(
	authSvc *AuthService,
	auditSvc *AuditService,
	sessionSchedule string,
	auditRetention time.Duration,
	logger logrus.FieldLogger,
) *CronService {
	return &CronService{
		cron:            cron.New(cron.WithSeconds()),
		authSvc:         authSvc,
		auditSvc:        auditSvc,
		sessionSchedule: sessionSchedule,
		auditRetention:  auditRetention,
		logger:          logger,
	}
}

// Start starts all cron jobs
func (s *CronService) Start() error {
	s.logger.Info("Starting cron service...")

	if _, err := s.cron.AddFunc(s.sessionSchedule, s.cleanupSessionsJob); err != nil {
		return fmt.Errorf("failed to schedule session cleanup job: %w", err)
	}
	s.logger.WithField("schedule", s.sessionSchedule).Info("Scheduled: session cleanup")

	if s.auditRetention > 0 {
		if _, err := s.cron.AddFunc(auditCleanupSchedule, s.cleanupAuditLogsJob); err != nil {
			return fmt.Errorf("failed to schedule audit cleanup job: %w", err)
		}
		s.logger.WithField("schedule", auditCleanupSchedule).Info("Scheduled: audit log cleanup")
	}

	s.cron.Start()
	s.logger.Info("Cron service started")

	return nil
}

// Stop stops all cron jobs and waits for running ones to finish
func (s *CronService) Stop() {
	s.logger.Info("Stopping cron service...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Cron service stopped")
}

// cleanupSessionsJob deletes expired and revoked sessions
func (s *CronService) cleanupSessionsJob() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	startTime := time.Now()
	deleted, err := s.authSvc.CleanupSessions(ctx)
	if err != nil {
		s.logger.WithError(err).Error("[CRON] Failed to clean up sessions")
		return
	}

	s.logger.WithFields(logrus.Fields{
		"deleted":     deleted,
		"duration_ms": time.Since(startTime).Milliseconds(),
	}).Info("[CRON] Cleaned up sessions")
}

// cleanupAuditLogsJob deletes audit logs past the retention window
func (s *CronService) cleanupAuditLogsJob() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	startTime := time.Now()
	deleted, err := s.auditSvc.CleanupOldAuditLogs(ctx, s.auditRetention)
	if err != nil {
		s.logger.WithError(err).Error("[CRON] Failed to clean up audit logs")
		return
	}

	s.logger.WithFields(logrus.Fields{
		"deleted":     deleted,
		"duration_ms": time.Since(startTime).Milliseconds(),
	}).Info("[CRON] Cleaned up audit logs")
}

// RunSessionCleanupNow runs the session cleanup job immediately
func (s *CronService) RunSessionCleanupNow() {
	s.logger.Info("[MANUAL] Running session cleanup now...")
	s.cleanupSessionsJob()
}
