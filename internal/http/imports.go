package http

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mikestefanello/backlite"
	"go.uber.org/zap"

	"github.com/mrlokans/contentmigrate/internal/database"
	"github.com/mrlokans/contentmigrate/internal/importers"
	"github.com/mrlokans/contentmigrate/internal/tasks"
	"github.com/mrlokans/contentmigrate/internal/utils"
)

// MaxUploadSize caps uploaded export files.
const MaxUploadSize = 256 << 20

// ImportsController accepts export uploads and reports on queued imports.
type ImportsController struct {
	tasks     TaskQueue
	runs      RunStore
	uploadDir string
}

func NewImportsController(queue TaskQueue, runs RunStore, uploadDir string) *ImportsController {
	return &ImportsController{tasks: queue, runs: runs, uploadDir: uploadDir}
}

// ImportAccepted is returned when an upload was queued.
type ImportAccepted struct {
	TaskID   string `json:"task_id"`
	ImportID string `json:"import_id"`
	Filename string `json:"filename"`
}

// Upload handles POST /api/imports
// Expects multipart form data with an "export_file" field holding a
// WordPress WXR export.
func (ic *ImportsController) Upload(c *gin.Context) {
	if ic.tasks == nil {
		respondError(c, http.StatusServiceUnavailable, "task queue is disabled")
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadSize)
	file, err := c.FormFile("export_file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(c, http.StatusRequestEntityTooLarge, "export file is too large")
			return
		}
		respondBadRequest(c, "export_file is required")
		return
	}
	if !strings.EqualFold(filepath.Ext(file.Filename), ".xml") {
		respondBadRequest(c, "export_file must be an .xml export")
		return
	}

	if err := os.MkdirAll(ic.uploadDir, 0755); err != nil {
		respondInternalError(c, err, "create upload dir")
		return
	}

	importID := uuid.NewString()
	dest := filepath.Join(ic.uploadDir, importID+".xml")
	if err := c.SaveUploadedFile(file, dest); err != nil {
		respondInternalError(c, err, "save upload")
		return
	}

	taskID, err := ic.tasks.Enqueue(tasks.ImportExportTask{
		ImportID: importID,
		Path:     dest,
		Trigger:  importers.TriggerUpload,
	})
	if err != nil {
		_ = os.Remove(dest)
		respondInternalError(c, err, "enqueue import")
		return
	}

	filename := utils.SanitizeFilename(file.Filename)

	requestLogger(c).Info("import queued",
		zap.String("task_id", taskID),
		zap.String("import_id", importID),
		zap.String("filename", filename),
		zap.Int64("size", file.Size),
	)

	respondAccepted(c, "import queued", ImportAccepted{
		TaskID:   taskID,
		ImportID: importID,
		Filename: filename,
	})
}

// Status handles GET /api/imports/:id
// Returns the queue status of an import task.
func (ic *ImportsController) Status(c *gin.Context) {
	if ic.tasks == nil {
		respondError(c, http.StatusServiceUnavailable, "task queue is disabled")
		return
	}

	taskID := c.Param("id")
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status, err := ic.tasks.Status(ctx, taskID)
	if err != nil {
		respondInternalError(c, err, "task status")
		return
	}
	if status == backlite.TaskStatusNotFound {
		respondNotFound(c, "import task")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     taskID,
		"status": taskStatusToString(status),
	})
}

// ListRuns handles GET /api/runs
func (ic *ImportsController) ListRuns(c *gin.Context) {
	limit, _ := parsePagination(c, 20, 100)

	runs, err := ic.runs.List(c.Request.Context(), limit)
	if err != nil {
		respondInternalError(c, err, "list runs")
		return
	}

	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

// GetRun handles GET /api/runs/:import_id
func (ic *ImportsController) GetRun(c *gin.Context) {
	run, err := ic.runs.GetByTaskID(c.Request.Context(), c.Param("import_id"))
	if errors.Is(err, database.ErrNotFound) {
		respondNotFound(c, "run")
		return
	}
	if err != nil {
		respondInternalError(c, err, "get run")
		return
	}

	c.JSON(http.StatusOK, run)
}

func taskStatusToString(status backlite.TaskStatus) string {
	switch status {
	case backlite.TaskStatusPending:
		return "pending"
	case backlite.TaskStatusRunning:
		return "running"
	case backlite.TaskStatusSuccess:
		return "success"
	case backlite.TaskStatusFailure:
		return "failure"
	case backlite.TaskStatusNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}
