package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	"go.uber.org/zap"
)

const (
	CleanupQueueName = "cleanup_audit_events"

	// DefaultAuditRetentionDays applies when a task carries no retention.
	DefaultAuditRetentionDays = 30
)

// AuditEventCleaner deletes audit events older than a retention window.
type AuditEventCleaner interface {
	DeleteOldEvents(retention time.Duration) (int64, error)
}

// CleanupAuditEventsTask enforces the audit retention window.
type CleanupAuditEventsTask struct {
	RetentionDays int `json:"retention_days"`
}

// Retention returns the window the task enforces.
func (t CleanupAuditEventsTask) Retention() time.Duration {
	days := t.RetentionDays
	if days <= 0 {
		days = DefaultAuditRetentionDays
	}
	return time.Duration(days) * 24 * time.Hour
}

// Config allows a few retries: the content database may be locked by an
// import running at the same time.
func (t CleanupAuditEventsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        CleanupQueueName,
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration: 24 * time.Hour,
			Data:     &backlite.RetainData{OnlyFailed: true},
		},
	}
}

var errNoCleaner = errors.New("audit event cleaner not configured")

func CleanupAuditEventsProcessor(cleaner AuditEventCleaner, logger *zap.Logger) backlite.QueueProcessor[CleanupAuditEventsTask] {
	return func(_ context.Context, task CleanupAuditEventsTask) error {
		if cleaner == nil {
			return errNoCleaner
		}

		retention := task.Retention()
		deleted, err := cleaner.DeleteOldEvents(retention)
		if err != nil {
			return fmt.Errorf("cleanup audit events: %w", err)
		}

		logger.Info("audit events purged", zap.Int64("deleted", deleted), zap.Duration("retention", retention))
		return nil
	}
}

func NewCleanupAuditEventsQueue(cleaner AuditEventCleaner, logger *zap.Logger) backlite.Queue {
	if logger == nil {
		logger = zap.NewNop()
	}
	return backlite.NewQueue(CleanupAuditEventsProcessor(cleaner, logger))
}
