package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mrlokans/contentmigrate/internal/importers"
	"github.com/mrlokans/contentmigrate/internal/tasks"
)

// DefaultCleanupSchedule runs audit retention daily at 04:00.
const DefaultCleanupSchedule = "0 4 * * *"

// Importer runs one import of an export file.
type Importer interface {
	Import(ctx context.Context, req importers.Request) (importers.Result, error)
}

// TaskEnqueuer hands work to the background queue.
type TaskEnqueuer interface {
	Enqueue(task backlite.Task) (string, error)
}

// Config controls what runs and when. An empty Schedule disables scheduled
// imports; a nil enqueuer disables audit cleanup.
type Config struct {
	Schedule        string
	SourcePath      string
	CleanupSchedule string
	RetentionDays   int
}

// ImportScheduler re-imports a fixed export file on a cron schedule.
type ImportScheduler struct {
	importer Importer
	enqueuer TaskEnqueuer
	cfg      Config
	logger   *zap.Logger

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	isSyncing  bool
	cancelFunc context.CancelFunc
	runCtx     context.Context
}

func NewImportScheduler(importer Importer, enqueuer TaskEnqueuer, cfg Config, logger *zap.Logger) *ImportScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CleanupSchedule == "" {
		cfg.CleanupSchedule = DefaultCleanupSchedule
	}
	return &ImportScheduler{
		importer: importer,
		enqueuer: enqueuer,
		cfg:      cfg,
		logger:   logger.Named("scheduler"),
		cron:     cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor))),
	}
}

// Start registers the configured jobs and starts the cron loop. It is a
// no-op when nothing is configured.
func (s *ImportScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	jobs := 0
	if s.cfg.Schedule != "" {
		if s.cfg.SourcePath == "" {
			return fmt.Errorf("import schedule %q has no source path", s.cfg.Schedule)
		}
		entryID, err := s.cron.AddFunc(s.cfg.Schedule, s.runImport)
		if err != nil {
			return fmt.Errorf("invalid cron schedule '%s': %w", s.cfg.Schedule, err)
		}
		s.entryID = entryID
		jobs++
	}

	if s.enqueuer != nil {
		if _, err := s.cron.AddFunc(s.cfg.CleanupSchedule, s.enqueueCleanup); err != nil {
			return fmt.Errorf("invalid cleanup schedule '%s': %w", s.cfg.CleanupSchedule, err)
		}
		jobs++
	}

	if jobs == 0 {
		s.logger.Info("no scheduled jobs configured")
		return nil
	}

	s.runCtx, s.cancelFunc = context.WithCancel(ctx)
	s.cron.Start()
	s.isRunning = true

	fields := []zap.Field{zap.String("schedule", s.cfg.Schedule), zap.String("source", s.cfg.SourcePath)}
	if next := s.nextRunLocked(); next != nil {
		fields = append(fields, zap.Time("next_run", *next))
	}
	s.logger.Info("scheduler started", fields...)

	go func(done <-chan struct{}) {
		<-done
		s.Stop()
	}(s.runCtx.Done())

	return nil
}

// Stop waits for a running job to finish and stops the cron loop.
func (s *ImportScheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	cancel := s.cancelFunc
	s.cancelFunc = nil
	s.mu.Unlock()

	// Running jobs take s.mu when they finish, so wait without holding it.
	ctx := s.cron.Stop()
	<-ctx.Done()

	if cancel != nil {
		cancel()
	}
	s.logger.Info("scheduler stopped")
}

// RunNow triggers an immediate import in the background.
func (s *ImportScheduler) RunNow() {
	go s.runImport()
}

func (s *ImportScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// IsSyncing returns whether a scheduled import is in progress.
func (s *ImportScheduler) IsSyncing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isSyncing
}

// NextRunTime returns when the next scheduled import will occur.
func (s *ImportScheduler) NextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nextRunLocked()
}

func (s *ImportScheduler) nextRunLocked() *time.Time {
	if s.entryID == 0 {
		return nil
	}
	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

func (s *ImportScheduler) runImport() {
	s.mu.Lock()
	if s.isSyncing {
		s.mu.Unlock()
		s.logger.Info("import skipped, previous run still active")
		return
	}
	s.isSyncing = true
	ctx := s.runCtx
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isSyncing = false
		s.mu.Unlock()
	}()

	if ctx == nil {
		ctx = context.Background()
	}

	result, err := s.importer.Import(ctx, importers.Request{
		Path:      s.cfg.SourcePath,
		Trigger:   importers.TriggerSchedule,
		Exclusive: true,
	})
	switch {
	case errors.Is(err, importers.ErrRunInProgress):
		s.logger.Info("import skipped, another run is in progress")
	case err != nil:
		s.logger.Error("scheduled import failed", zap.Error(err))
	default:
		s.logger.Info("scheduled import finished",
			zap.Int("imported", result.Report.Imported()),
			zap.Int("replaced", result.Report.ReplacedCount()),
			zap.Int("failed", result.Report.FailedCount()),
		)
	}
}

func (s *ImportScheduler) enqueueCleanup() {
	id, err := s.enqueuer.Enqueue(tasks.CleanupAuditEventsTask{RetentionDays: s.cfg.RetentionDays})
	if err != nil {
		s.logger.Error("could not enqueue audit cleanup", zap.Error(err))
		return
	}
	s.logger.Debug("audit cleanup enqueued", zap.String("task_id", id))
}
