package http

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Routes whose dependency is missing from cfg are not registered.
func NewRouter(cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(RequestLogger(logger))
	router.Use(gin.Recovery())
	router.MaxMultipartMemory = 32 << 20

	health := NewHealthController(cfg.Database, cfg.Runs, cfg.Version)
	router.GET("/health", health.Status)

	api := router.Group("/api")

	converter := NewConvertController(cfg.Converter, cfg.Audit)
	api.POST("/convert", converter.Convert)

	if cfg.Posts != nil {
		posts := NewPostsController(cfg.Posts)
		api.GET("/posts", posts.ListPosts)
		api.GET("/posts/:slug", posts.GetPost)
	}

	imports := NewImportsController(cfg.Tasks, cfg.Runs, cfg.UploadDir)
	api.POST("/imports", imports.Upload)
	api.GET("/imports/:id", imports.Status)
	if cfg.Runs != nil {
		api.GET("/runs", imports.ListRuns)
		api.GET("/runs/:import_id", imports.GetRun)
	}

	if cfg.Audit != nil {
		audit := NewAuditController(cfg.Audit)
		api.GET("/audit", audit.GetAuditEvents)
	}

	if cfg.MediaDir != "" && strings.HasPrefix(cfg.MediaURL, "/") {
		router.Static(cfg.MediaURL, cfg.MediaDir)
	}

	return router
}
