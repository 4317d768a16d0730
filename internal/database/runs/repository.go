// Package runs records the history of import runs.
package runs

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/contentmigrate/internal/database"
	"github.com/mrlokans/contentmigrate/internal/entities"
)

// DefaultStaleAfter is how long a run may stay "running" before it no longer
// blocks exclusive imports. It covers runs whose process was killed.
const DefaultStaleAfter = 2 * time.Hour

// interruptedError is stored on runs closed by FailInterrupted.
const interruptedError = "import interrupted before completion"

type Repository struct {
	db         *gorm.DB
	staleAfter time.Duration
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db, staleAfter: DefaultStaleAfter}
}

// WithStaleAfter overrides DefaultStaleAfter.
func (r *Repository) WithStaleAfter(d time.Duration) *Repository {
	r.staleAfter = d
	return r
}

// Start records a new running import.
func (r *Repository) Start(ctx context.Context, run *entities.ImportRun) error {
	run.Status = entities.ImportStatusRunning
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	return r.db.WithContext(ctx).Create(run).Error
}

// Finish stores the final counts and status of a run.
func (r *Repository) Finish(ctx context.Context, run *entities.ImportRun, runErr error) error {
	now := time.Now()
	run.CompletedAt = &now
	run.Status = entities.ImportStatusCompleted
	if runErr != nil {
		run.Status = entities.ImportStatusFailed
		run.Error = runErr.Error()
	}
	return r.db.WithContext(ctx).Save(run).Error
}

// IsRunning reports whether a run is in progress. Runs started more than
// staleAfter ago are ignored.
func (r *Repository) IsRunning(ctx context.Context) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.ImportRun{}).
		Where("status = ? AND started_at > ?", entities.ImportStatusRunning, time.Now().Add(-r.staleAfter)).
		Count(&count).Error
	return count > 0, err
}

// FailInterrupted marks runs still recorded as running that started before
// the given time as failed, and returns how many it closed.
func (r *Repository) FailInterrupted(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&entities.ImportRun{}).
		Where("status = ? AND started_at < ?", entities.ImportStatusRunning, before).
		Updates(map[string]any{
			"status":       entities.ImportStatusFailed,
			"error":        interruptedError,
			"completed_at": time.Now(),
		})
	return res.RowsAffected, res.Error
}

// List returns runs, most recent first.
func (r *Repository) List(ctx context.Context, limit int) ([]entities.ImportRun, error) {
	if limit <= 0 {
		limit = 20
	}
	var list []entities.ImportRun
	err := r.db.WithContext(ctx).Order("started_at DESC").Limit(limit).Find(&list).Error
	return list, err
}

// GetByTaskID returns the run started by a background task.
func (r *Repository) GetByTaskID(ctx context.Context, taskID string) (*entities.ImportRun, error) {
	var run entities.ImportRun
	err := r.db.WithContext(ctx).Where("task_id = ?", taskID).First(&run).Error
	if err != nil {
		return nil, database.NotFound(err)
	}
	return &run, nil
}
