package http

import (
	"context"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/contentmigrate/internal/database/audit"
	"github.com/mrlokans/contentmigrate/internal/entities"
	"github.com/mrlokans/contentmigrate/internal/services"
)

// Each controller depends on the narrowest interface it needs.

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PostReader provides read access to imported posts.
type PostReader = services.PostReader

// TaskQueue enqueues background work and reports its status.
type TaskQueue interface {
	Enqueue(task backlite.Task) (string, error)
	Status(ctx context.Context, taskID string) (backlite.TaskStatus, error)
}

// RunStore lists recorded import runs.
type RunStore interface {
	List(ctx context.Context, limit int) ([]entities.ImportRun, error)
	GetByTaskID(ctx context.Context, taskID string) (*entities.ImportRun, error)
}

// AuditLog reads audit events and records API conversions.
type AuditLog interface {
	GetEvents(filter audit.Filter, limit, offset int) ([]entities.AuditEvent, int64, error)
	LogConvert(mode string, blocks int)
}
