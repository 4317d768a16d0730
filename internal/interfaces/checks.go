package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/contentmigrate/internal/assets"
	"github.com/mrlokans/contentmigrate/internal/audit"
	"github.com/mrlokans/contentmigrate/internal/database"
	"github.com/mrlokans/contentmigrate/internal/database/posts"
	"github.com/mrlokans/contentmigrate/internal/database/runs"
	"github.com/mrlokans/contentmigrate/internal/http"
	"github.com/mrlokans/contentmigrate/internal/images"
	"github.com/mrlokans/contentmigrate/internal/importers"
	"github.com/mrlokans/contentmigrate/internal/sanity"
	"github.com/mrlokans/contentmigrate/internal/scheduler"
	"github.com/mrlokans/contentmigrate/internal/services"
	"github.com/mrlokans/contentmigrate/internal/storage"
	"github.com/mrlokans/contentmigrate/internal/storage/providers/local"
	"github.com/mrlokans/contentmigrate/internal/storage/providers/s3"
	"github.com/mrlokans/contentmigrate/internal/tasks"
)

// =============================================================================
// Content Stores
// =============================================================================

// PostStore implementations
var _ services.PostStore = (*posts.Repository)(nil)
var _ services.PostStore = (*sanity.Store)(nil)

// PostReader implementations
var _ services.PostReader = (*posts.Repository)(nil)

// =============================================================================
// Assets
// =============================================================================

// AssetUploader implementations
var _ services.AssetUploader = (*sanity.Store)(nil)
var _ services.AssetUploader = (*assets.Uploader)(nil)

// ImageFetcher implementations
var _ services.ImageFetcher = (*images.Fetcher)(nil)

// Storage providers
var _ storage.Client = (*local.Client)(nil)
var _ storage.Client = (*s3.Client)(nil)

// =============================================================================
// Import Pipeline
// =============================================================================

var _ importers.RunLogger = (*audit.Auditor)(nil)
var _ importers.RunRecorder = (*runs.Repository)(nil)
var _ importers.EventLogger = (*audit.Service)(nil)

var _ tasks.Importer = (*importers.Service)(nil)
var _ scheduler.Importer = (*importers.Service)(nil)

// =============================================================================
// Background Tasks
// =============================================================================

var _ http.TaskQueue = (*tasks.Client)(nil)
var _ scheduler.TaskEnqueuer = (*tasks.Client)(nil)
var _ tasks.AuditEventCleaner = (*audit.Service)(nil)

// =============================================================================
// HTTP Stores
// =============================================================================

var _ http.PostReader = (*posts.Repository)(nil)
var _ http.RunStore = (*runs.Repository)(nil)
var _ http.AuditLog = (*audit.Service)(nil)
var _ http.Pinger = (*database.Database)(nil)
