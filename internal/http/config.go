package http

import (
	"go.uber.org/zap"

	"github.com/mrlokans/contentmigrate/internal/richtext"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router. Optional dependencies disable their routes
// when nil.
type RouterConfig struct {
	// Core dependencies
	Database  Pinger
	Converter *richtext.Converter
	Logger    *zap.Logger

	// Posts is only available for the database content store.
	Posts PostReader

	// Imports
	Tasks     TaskQueue
	Runs      RunStore
	UploadDir string

	Audit AuditLog

	// MediaDir is served under MediaURL when assets are stored locally.
	MediaDir string
	MediaURL string

	// Application info
	Version string
}
