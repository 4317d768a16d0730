package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	"go.uber.org/zap"

	"github.com/mrlokans/contentmigrate/internal/importers"
)

// ImportQueueName is the queue uploaded exports are processed on.
const ImportQueueName = "import_export"

// Importer runs one import of an export file.
type Importer interface {
	Import(ctx context.Context, req importers.Request) (importers.Result, error)
}

// ImportExportTask imports an export file that was saved to disk.
type ImportExportTask struct {
	// ImportID correlates the task with its recorded run.
	ImportID string `json:"import_id"`
	Path     string `json:"path"`
	Trigger  string `json:"trigger"`
}

// Config returns the queue configuration for import tasks. Imports replace
// posts, so a failed run is never retried automatically.
func (t ImportExportTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        ImportQueueName,
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     ImportTimeout,
		Retention: &backlite.Retention{
			Duration:   7 * 24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// ImportExportProcessor creates a processor function for ImportExportTask.
func ImportExportProcessor(importer Importer, logger *zap.Logger) backlite.QueueProcessor[ImportExportTask] {
	return func(ctx context.Context, task ImportExportTask) error {
		if importer == nil {
			return fmt.Errorf("importer not configured")
		}

		trigger := task.Trigger
		if trigger == "" {
			trigger = importers.TriggerUpload
		}

		result, err := importer.Import(ctx, importers.Request{
			Path:      task.Path,
			Trigger:   trigger,
			TaskID:    task.ImportID,
			Exclusive: true,
		})
		if err != nil {
			return fmt.Errorf("import %s: %w", task.Path, err)
		}

		logger.Info("import task finished",
			zap.String("import_id", task.ImportID),
			zap.Int("imported", result.Report.Imported()),
			zap.Int("replaced", result.Report.ReplacedCount()),
			zap.Int("failed", result.Report.FailedCount()),
		)
		return nil
	}
}

// NewImportExportQueue creates a backlite queue for import tasks.
func NewImportExportQueue(importer Importer, logger *zap.Logger) backlite.Queue {
	if logger == nil {
		logger = zap.NewNop()
	}
	return backlite.NewQueue(ImportExportProcessor(importer, logger))
}
