package audit

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mrlokans/contentmigrate/internal/database/audit"
	"github.com/mrlokans/contentmigrate/internal/entities"
	"github.com/mrlokans/contentmigrate/internal/importers"
)

const maxTextLength = 500

// Service keeps the migration trail in the database. Writes triggered by
// imports and conversions happen in the background; call Wait before
// closing the database.
type Service struct {
	repo   *audit.Repository
	logger *zap.Logger
	wg     sync.WaitGroup
	now    func() time.Time
}

func NewService(repo *audit.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// Log stores an event synchronously.
func (s *Service) Log(event *entities.AuditEvent) error {
	return s.repo.Save(event)
}

// LogAsync stores an event without blocking the caller.
func (s *Service) LogAsync(event *entities.AuditEvent) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.repo.Save(event); err != nil {
			s.logger.Warn("failed to store audit event", zap.String("action", event.Action), zap.Error(err))
		}
	}()
}

func (s *Service) Wait() {
	s.wg.Wait()
}

// LogImport records a finished run and every post it replaced. runErr is a
// run-level failure such as an unreadable export.
func (s *Service) LogImport(trigger, source string, report importers.Report, runErr error) {
	event := &entities.AuditEvent{
		EventType: entities.AuditEventImport,
		Action:    trigger + "_import",
		Summary: fmt.Sprintf("Imported %d posts from %s (%d replaced, %d failed)",
			report.Imported(), source, report.ReplacedCount(), report.FailedCount()),
		Source: source,
		Details: details(map[string]any{
			"total":    report.Total,
			"imported": report.Imported(),
			"replaced": report.ReplacedCount(),
			"failed":   report.FailedCount(),
			"dry_run":  report.DryRun,
			"canceled": report.Canceled,
		}),
	}
	setOutcome(event, runErr)
	s.LogAsync(event)

	for _, entry := range report.Replaced {
		s.LogReplace(source, entry)
	}
}

// LogReplace records that a stored post was deleted and recreated.
func (s *Service) LogReplace(source string, entry importers.Entry) {
	s.LogAsync(&entities.AuditEvent{
		EventType:  entities.AuditEventReplace,
		Action:     "post_replace",
		Summary:    truncate("Replaced post: "+entry.Title, maxTextLength),
		Source:     source,
		DocumentID: entry.DocumentID,
		Details:    details(map[string]string{"previous_id": entry.ReplacedID, "slug": entry.Slug}),
		Status:     entities.AuditStatusSuccess,
	})
}

// LogConvert records an ad-hoc conversion through the API.
func (s *Service) LogConvert(mode string, blocks int) {
	s.LogAsync(&entities.AuditEvent{
		EventType: entities.AuditEventConvert,
		Action:    "api_convert",
		Summary:   fmt.Sprintf("Converted content into %d blocks (%s)", blocks, mode),
		Details:   details(map[string]any{"mode": mode, "blocks": blocks}),
		Status:    entities.AuditStatusSuccess,
	})
}

func (s *Service) GetEvents(filter audit.Filter, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.List(filter, limit, offset)
}

// DeleteOldEvents purges events older than retention and records the
// cleanup itself, even when the purge failed.
func (s *Service) DeleteOldEvents(retention time.Duration) (int64, error) {
	cutoff := s.now().Add(-retention)
	deleted, err := s.repo.Purge(cutoff)

	event := &entities.AuditEvent{
		EventType: entities.AuditEventCleanup,
		Action:    "audit_cleanup",
		Summary:   fmt.Sprintf("Deleted %d audit events older than %s", deleted, cutoff.Format(time.DateOnly)),
	}
	setOutcome(event, err)
	if logErr := s.repo.Save(event); logErr != nil {
		s.logger.Warn("failed to store cleanup event", zap.Error(logErr))
	}

	return deleted, err
}

func setOutcome(event *entities.AuditEvent, err error) {
	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.Error = truncate(err.Error(), maxTextLength)
		return
	}
	event.Status = entities.AuditStatusSuccess
}

func details(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
