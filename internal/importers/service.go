package importers

import (
	"context"
	"errors"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/mrlokans/contentmigrate/internal/entities"
)

// Import triggers, recorded on each run.
const (
	TriggerCLI      = "cli"
	TriggerUpload   = "upload"
	TriggerSchedule = "schedule"
)

// ErrRunInProgress is returned when an exclusive run finds another one active.
var ErrRunInProgress = errors.New("an import is already running")

// RunRecorder persists run history.
type RunRecorder interface {
	Start(ctx context.Context, run *entities.ImportRun) error
	Finish(ctx context.Context, run *entities.ImportRun, runErr error) error
	IsRunning(ctx context.Context) (bool, error)
}

// EventLogger records audit events for finished runs.
type EventLogger interface {
	LogImport(trigger, source string, report Report, err error)
}

// Request describes one import of an export file.
type Request struct {
	Path    string
	Trigger string
	TaskID  string
	// Exclusive refuses to start while another run is in progress.
	Exclusive bool
}

// Result is what a finished import produced.
type Result struct {
	RunID    uint     `json:"run_id,omitempty"`
	Report   Report   `json:"report"`
	LogFiles []string `json:"log_files,omitempty"`
}

// Service runs Jobs and keeps the run history and audit trail. runs and
// events are optional.
type Service struct {
	job       *Job
	runs      RunRecorder
	events    EventLogger
	storeName string
	logger    *zap.Logger
}

func NewService(job *Job, runs RunRecorder, events EventLogger, storeName string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{job: job, runs: runs, events: events, storeName: storeName, logger: logger}
}

// Import runs the job for req.Path. The returned error is a run-level
// failure; per-item failures are in the report.
func (s *Service) Import(ctx context.Context, req Request) (Result, error) {
	log := s.logger.With(zap.String("path", req.Path), zap.String("trigger", req.Trigger))

	if req.Exclusive && s.runs != nil {
		running, err := s.runs.IsRunning(ctx)
		if err != nil {
			log.Warn("could not check for active runs", zap.Error(err))
		} else if running {
			return Result{}, ErrRunInProgress
		}
	}

	run := &entities.ImportRun{
		TaskID:     req.TaskID,
		SourceFile: req.Path,
		Store:      s.storeName,
		Trigger:    req.Trigger,
	}
	if s.runs != nil {
		if err := s.runs.Start(ctx, run); err != nil {
			log.Warn("could not record run start", zap.Error(err))
		}
	}

	report, files, err := s.job.Run(ctx, req.Path)
	if err != nil {
		log.Error("import failed", zap.Error(err))
	}

	run.Imported = report.Imported()
	run.Replaced = report.ReplacedCount()
	run.Failed = report.FailedCount()
	if s.runs != nil && run.ID != 0 {
		// The run row is updated even when ctx was canceled mid-import.
		if ferr := s.runs.Finish(context.WithoutCancel(ctx), run, err); ferr != nil {
			log.Warn("could not record run result", zap.Error(ferr))
		}
	}
	if s.events != nil {
		s.events.LogImport(req.Trigger, filepath.Base(req.Path), report, err)
	}

	return Result{RunID: run.ID, Report: report, LogFiles: files}, err
}
