package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/contentmigrate/internal/entities"
	"github.com/mrlokans/contentmigrate/internal/richtext"
	"github.com/mrlokans/contentmigrate/internal/services"
	"github.com/mrlokans/contentmigrate/internal/tasks"
)

func doRequest(router *gin.Engine, method, path string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func multipartBody(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestHealth(t *testing.T) {
	t.Run("healthy when database pings", func(t *testing.T) {
		router := NewRouter(RouterConfig{Database: fakePinger{}, Version: "1.2.3"})

		w := doRequest(router, "GET", "/health", nil, "")
		assert.Equal(t, http.StatusOK, w.Code)

		var resp HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "healthy", resp.Status)
		assert.Equal(t, "1.2.3", resp.Version)
		assert.Equal(t, "ok", resp.Checks["database"])
	})

	t.Run("unhealthy when ping fails", func(t *testing.T) {
		router := NewRouter(RouterConfig{Database: fakePinger{err: errors.New("closed")}})

		w := doRequest(router, "GET", "/health", nil, "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "error: closed")
	})

	t.Run("reports the last import", func(t *testing.T) {
		started := time.Date(2024, 3, 10, 4, 0, 0, 0, time.UTC)
		runs := &fakeRuns{runs: []entities.ImportRun{
			{ID: 2, Trigger: "schedule", Status: entities.ImportStatusFailed, StartedAt: started, Failed: 3},
		}}
		router := NewRouter(RouterConfig{Database: fakePinger{}, Runs: runs})

		w := doRequest(router, "GET", "/health", nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		var resp HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.LastImport)
		assert.Equal(t, entities.ImportStatusFailed, resp.LastImport.Status)
		assert.Equal(t, "schedule", resp.LastImport.Trigger)
		assert.Equal(t, 3, resp.LastImport.Failed)
		assert.True(t, started.Equal(resp.LastImport.StartedAt))
	})

	t.Run("history errors do not fail the check", func(t *testing.T) {
		router := NewRouter(RouterConfig{Database: fakePinger{}, Runs: &fakeRuns{err: errors.New("locked")}})

		w := doRequest(router, "GET", "/health", nil, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "error: locked")
		assert.NotContains(t, w.Body.String(), "last_import")
	})

	t.Run("database not configured", func(t *testing.T) {
		router := NewRouter(RouterConfig{})

		w := doRequest(router, "GET", "/health", nil, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "not configured")
	})
}

func TestConvert(t *testing.T) {
	audit := &fakeAudit{}
	router := NewRouter(RouterConfig{Audit: audit})

	body := bytes.NewBufferString(`{"html": "<h2>Hello</h2><p>A <strong>bold</strong> move.</p>"}`)
	w := doRequest(router, "POST", "/api/convert", body, "application/json")
	require.Equal(t, http.StatusOK, w.Code)

	var resp ConvertResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, richtext.ModeStructured, resp.Mode)
	require.Len(t, resp.Blocks, 2)
	assert.Equal(t, richtext.StyleH2, resp.Blocks[0].Style)
	assert.Equal(t, []string{"structured"}, audit.converts)
}

func TestConvert_EmptyAndInvalid(t *testing.T) {
	router := NewRouter(RouterConfig{})

	w := doRequest(router, "POST", "/api/convert", bytes.NewBufferString(`{"html": "  "}`), "application/json")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"mode":"empty","blocks":[]}`, w.Body.String())

	w = doRequest(router, "POST", "/api/convert", bytes.NewBufferString(`not json`), "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPosts(t *testing.T) {
	posts := &fakePosts{posts: []services.PostDocument{
		{ID: "p1", Title: "GT3", Slug: "gt3"},
		{ID: "p2", Title: "Winter tires", Slug: "winter-tires"},
	}}
	router := NewRouter(RouterConfig{Posts: posts})

	t.Run("list", func(t *testing.T) {
		w := doRequest(router, "GET", "/api/posts?limit=1", nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data    []services.PostDocument `json:"data"`
			Total   int64                   `json:"total"`
			HasMore bool                    `json:"has_more"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Data, 1)
		assert.Equal(t, int64(2), resp.Total)
		assert.True(t, resp.HasMore)
	})

	t.Run("get by slug", func(t *testing.T) {
		w := doRequest(router, "GET", "/api/posts/winter-tires", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"title":"Winter tires"`)
	})

	t.Run("missing slug", func(t *testing.T) {
		w := doRequest(router, "GET", "/api/posts/nope", nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("store error", func(t *testing.T) {
		router := NewRouter(RouterConfig{Posts: &fakePosts{err: errors.New("boom")}})
		w := doRequest(router, "GET", "/api/posts", nil, "")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "boom")
	})
}

func TestPosts_NotRegisteredWithoutStore(t *testing.T) {
	router := NewRouter(RouterConfig{})

	w := doRequest(router, "GET", "/api/posts", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestImportUpload(t *testing.T) {
	uploadDir := filepath.Join(t.TempDir(), "uploads")

	t.Run("queues the export", func(t *testing.T) {
		queue := &fakeQueue{}
		router := NewRouter(RouterConfig{Tasks: queue, UploadDir: uploadDir})

		body, contentType := multipartBody(t, "export_file", "site.xml", "<rss></rss>")
		w := doRequest(router, "POST", "/api/imports", body, contentType)
		require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())

		var resp struct {
			Data ImportAccepted `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "task-42", resp.Data.TaskID)
		assert.Equal(t, "site.xml", resp.Data.Filename)

		require.Len(t, queue.enqueued, 1)
		task, ok := queue.enqueued[0].(tasks.ImportExportTask)
		require.True(t, ok)
		assert.Equal(t, resp.Data.ImportID, task.ImportID)

		saved, err := os.ReadFile(task.Path)
		require.NoError(t, err)
		assert.Equal(t, "<rss></rss>", string(saved))
	})

	t.Run("missing file", func(t *testing.T) {
		router := NewRouter(RouterConfig{Tasks: &fakeQueue{}, UploadDir: uploadDir})

		body, contentType := multipartBody(t, "other", "site.xml", "x")
		w := doRequest(router, "POST", "/api/imports", body, contentType)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("wrong extension", func(t *testing.T) {
		router := NewRouter(RouterConfig{Tasks: &fakeQueue{}, UploadDir: uploadDir})

		body, contentType := multipartBody(t, "export_file", "site.csv", "x")
		w := doRequest(router, "POST", "/api/imports", body, contentType)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("enqueue failure removes the upload", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "uploads")
		router := NewRouter(RouterConfig{Tasks: &fakeQueue{err: errors.New("queue down")}, UploadDir: dir})

		body, contentType := multipartBody(t, "export_file", "site.xml", "x")
		w := doRequest(router, "POST", "/api/imports", body, contentType)
		assert.Equal(t, http.StatusInternalServerError, w.Code)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("queue disabled", func(t *testing.T) {
		router := NewRouter(RouterConfig{UploadDir: uploadDir})

		body, contentType := multipartBody(t, "export_file", "site.xml", "x")
		w := doRequest(router, "POST", "/api/imports", body, contentType)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestImportStatus(t *testing.T) {
	queue := &fakeQueue{status: backlite.TaskStatusRunning}
	router := NewRouter(RouterConfig{Tasks: queue})

	w := doRequest(router, "GET", "/api/imports/task-42", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"task-42","status":"running"}`, w.Body.String())

	queue.status = backlite.TaskStatusNotFound
	w = doRequest(router, "GET", "/api/imports/unknown", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRuns(t *testing.T) {
	runs := &fakeRuns{runs: []entities.ImportRun{
		{ID: 2, TaskID: "imp-2", Status: entities.ImportStatusRunning, StartedAt: time.Now()},
		{ID: 1, TaskID: "imp-1", Status: entities.ImportStatusCompleted, Imported: 12},
	}}
	router := NewRouter(RouterConfig{Runs: runs})

	w := doRequest(router, "GET", "/api/runs", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Runs []entities.ImportRun `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list.Runs, 2)

	w = doRequest(router, "GET", "/api/runs/imp-1", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"imported":12`)

	w = doRequest(router, "GET", "/api/runs/missing", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuditEvents(t *testing.T) {
	audit := &fakeAudit{events: []entities.AuditEvent{
		{ID: 1, EventType: entities.AuditEventImport, Action: "cli_import"},
	}}
	router := NewRouter(RouterConfig{Audit: audit})

	t.Run("filters are passed through", func(t *testing.T) {
		w := doRequest(router, "GET", "/api/audit?type=replace&status=failed&document_id=post-1&since=2024-03-01", nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		assert.Equal(t, entities.AuditEventReplace, audit.lastFilter.Type)
		assert.Equal(t, entities.AuditStatusFailed, audit.lastFilter.Status)
		assert.Equal(t, "post-1", audit.lastFilter.DocumentID)
		assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), audit.lastFilter.Since)

		var resp PaginatedResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, int64(1), resp.Total)
		assert.Equal(t, 25, resp.Limit)
	})

	t.Run("RFC3339 since", func(t *testing.T) {
		w := doRequest(router, "GET", "/api/audit?since=2024-03-01T10:00:00Z", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), audit.lastFilter.Since)
	})

	badRequests := []string{
		"/api/audit?type=login",
		"/api/audit?status=pending",
		"/api/audit?since=yesterday",
	}
	for _, path := range badRequests {
		t.Run("rejects "+path, func(t *testing.T) {
			w := doRequest(router, "GET", path, nil, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}

	t.Run("store failure", func(t *testing.T) {
		audit.failReads = true
		defer func() { audit.failReads = false }()

		w := doRequest(router, "GET", "/api/audit", nil, "")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestMediaServing(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "images"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "images", "a.jpg"), []byte("jpeg"), 0644))

	router := NewRouter(RouterConfig{MediaDir: dir, MediaURL: "/media"})

	w := doRequest(router, "GET", "/media/images/a.jpg", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "jpeg", w.Body.String())
}
