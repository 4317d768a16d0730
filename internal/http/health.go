package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/contentmigrate/internal/entities"
)

const healthCheckTimeout = 2 * time.Second

type HealthResponse struct {
	Status     string            `json:"status"`
	Time       string            `json:"time"`
	Version    string            `json:"version,omitempty"`
	Checks     map[string]string `json:"checks"`
	LastImport *LastImport       `json:"last_import,omitempty"`
}

// LastImport summarises the most recent recorded run.
type LastImport struct {
	Status      entities.ImportStatus `json:"status"`
	Trigger     string                `json:"trigger"`
	StartedAt   time.Time             `json:"started_at"`
	CompletedAt *time.Time            `json:"completed_at,omitempty"`
	Failed      int                   `json:"failed"`
}

// HealthController reports database reachability and, when run history is
// available, the outcome of the last import. A failed import does not make
// the service unhealthy.
type HealthController struct {
	db      Pinger
	runs    RunStore
	version string
}

func NewHealthController(db Pinger, runs RunStore, version string) *HealthController {
	return &HealthController{db: db, runs: runs, version: version}
}

func (h *HealthController) Status(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	resp := HealthResponse{
		Status:  "healthy",
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  map[string]string{"database": "not configured"},
	}

	if h.db != nil {
		if err := h.db.Ping(ctx); err != nil {
			resp.Checks["database"] = "error: " + err.Error()
			resp.Status = "unhealthy"
		} else {
			resp.Checks["database"] = "ok"
		}
	}

	if h.runs != nil && resp.Status == "healthy" {
		runs, err := h.runs.List(ctx, 1)
		switch {
		case err != nil:
			resp.Checks["import_history"] = "error: " + err.Error()
		case len(runs) == 0:
			resp.Checks["import_history"] = "empty"
		default:
			resp.Checks["import_history"] = "ok"
			run := runs[0]
			resp.LastImport = &LastImport{
				Status:      run.Status,
				Trigger:     run.Trigger,
				StartedAt:   run.StartedAt,
				CompletedAt: run.CompletedAt,
				Failed:      run.Failed,
			}
		}
	}

	statusCode := http.StatusOK
	if resp.Status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, resp)
}
