package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/contentmigrate/internal/audit"
	"github.com/mrlokans/contentmigrate/internal/backends"
	"github.com/mrlokans/contentmigrate/internal/config"
	auditRepo "github.com/mrlokans/contentmigrate/internal/database/audit"
	"github.com/mrlokans/contentmigrate/internal/database/runs"
	http_controllers "github.com/mrlokans/contentmigrate/internal/http"
	"github.com/mrlokans/contentmigrate/internal/importers"
	"github.com/mrlokans/contentmigrate/internal/logging"
	"github.com/mrlokans/contentmigrate/internal/richtext"
	"github.com/mrlokans/contentmigrate/internal/scheduler"
	"github.com/mrlokans/contentmigrate/internal/tasks"
	"github.com/mrlokans/contentmigrate/internal/wxr"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT or SIGTERM, then shuts it down
// within the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, logger *zap.Logger, onShutdown ShutdownFunc) error {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// kill (no param) default sends syscall.SIGTERM, kill -2 is syscall.SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-quit:
	}
	logger.Info("shutting down server", zap.Duration("timeout", timeout))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop task queue)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("server exiting")
	return nil
}

// Run wires every component from cfg and serves the admin API.
func Run(cfg *config.Config, version string) error {
	logger, err := logging.New(cfg.Logging.Level)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logger.Info("starting contentmigrate", zap.String("version", version), zap.String("store", string(cfg.Content.Store)))

	b, err := backends.Open(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize backends: %w", err)
	}
	defer func() {
		if err := b.Close(); err != nil {
			logger.Warn("error closing database", zap.Error(err))
		}
	}()

	runStore := runs.NewRepository(b.Database.DB)
	// Nothing is importing yet, so rows still marked running belong to a
	// process that died mid-run.
	if n, err := runStore.FailInterrupted(context.Background(), time.Now()); err != nil {
		logger.Warn("could not close interrupted import runs", zap.Error(err))
	} else if n > 0 {
		logger.Info("closed interrupted import runs", zap.Int64("count", n))
	}
	auditService := audit.NewService(auditRepo.NewRepository(b.Database.DB), logger)
	defer auditService.Wait()

	filter := wxr.DefaultFilter()
	if cfg.Import.IncludeDrafts {
		filter = filter.WithDrafts()
	}
	converter := richtext.NewConverter()
	importer := importers.NewImporter(importers.Config{
		Store:     b.Store,
		Uploader:  b.Uploader,
		Fetcher:   b.Fetcher,
		Converter: converter,
		Logger:    logger.Named("import"),
	})
	job := importers.NewJob(importer, filter, audit.NewAuditor(cfg.Audit.Dir), logger)
	importService := importers.NewService(job, runStore, auditService, string(cfg.Content.Store), logger)

	routerCfg := http_controllers.RouterConfig{
		Database:  b.Database,
		Converter: converter,
		Logger:    logger.Named("http"),
		Runs:      runStore,
		UploadDir: cfg.Import.UploadDir,
		Audit:     auditService,
		Version:   version,
	}
	if b.Posts != nil {
		routerCfg.Posts = b.Posts
	}
	if cfg.Content.Store == config.StoreDatabase && cfg.Assets.Storage == config.AssetStorageLocal {
		routerCfg.MediaDir = cfg.Assets.Dir
		routerCfg.MediaURL = cfg.Assets.BaseURL
	}

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	var enqueuer scheduler.TaskEnqueuer
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize task queue: %w", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				logger.Warn("error closing task client", zap.Error(err))
			}
		}()

		taskClient.Register(
			tasks.NewImportExportQueue(importService, logger),
			tasks.NewCleanupAuditEventsQueue(auditService, logger),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)

		routerCfg.Tasks = taskClient
		enqueuer = taskClient
	} else {
		logger.Warn("task queue disabled, uploads through the API are unavailable")
	}

	importScheduler := scheduler.NewImportScheduler(importService, enqueuer, scheduler.Config{
		Schedule:      cfg.Import.Schedule,
		SourcePath:    cfg.Import.SourcePath,
		RetentionDays: cfg.Audit.RetentionDays,
	}, logger)
	schedCtx, schedCancel := context.WithCancel(context.Background())
	defer schedCancel()
	if err := importScheduler.Start(schedCtx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	gin.SetMode(gin.ReleaseMode)
	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		importScheduler.Stop()
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	return Serve(router, cfg, logger, onShutdown)
}
