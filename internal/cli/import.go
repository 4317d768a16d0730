package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/mrlokans/contentmigrate/internal/audit"
	"github.com/mrlokans/contentmigrate/internal/backends"
	"github.com/mrlokans/contentmigrate/internal/config"
	"github.com/mrlokans/contentmigrate/internal/console"
	auditRepo "github.com/mrlokans/contentmigrate/internal/database/audit"
	"github.com/mrlokans/contentmigrate/internal/database/runs"
	"github.com/mrlokans/contentmigrate/internal/importers"
	"github.com/mrlokans/contentmigrate/internal/logging"
	"github.com/mrlokans/contentmigrate/internal/wxr"
)

// ImportCommand imports a WordPress export into the configured content store.
type ImportCommand struct {
	ExportPath    string
	Store         string
	DatabasePath  string
	LogDir        string
	DryRun        bool
	Verbose       bool
	IncludeDrafts bool

	cfg *config.Config
	// Out receives progress and the summary.
	Out io.Writer
	// Err receives usage text.
	Err io.Writer
}

func NewImportCommand(cfg *config.Config) *ImportCommand {
	return &ImportCommand{cfg: cfg, Out: os.Stdout, Err: os.Stderr}
}

func (cmd *ImportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	fs.SetOutput(cmd.Err)

	fs.StringVar(&cmd.ExportPath, "file", "", "Path to the WordPress WXR export file (required)")
	fs.StringVar(&cmd.Store, "store", string(cmd.cfg.Content.Store), "Content store: database or sanity")
	fs.StringVar(&cmd.DatabasePath, "db", cmd.cfg.Database.Path, "Path to the local database file")
	fs.StringVar(&cmd.LogDir, "logs", cmd.cfg.Audit.Dir, "Directory for the per-run JSON logs")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Convert and report without writing to the store")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&cmd.IncludeDrafts, "include-drafts", cmd.cfg.Import.IncludeDrafts, "Also import draft posts")

	fs.Usage = func() {
		w := fs.Output()
		fmt.Fprintf(w, "Usage: %s import -file <export.xml> [options]\n\n", os.Args[0])
		fmt.Fprintf(w, "Import published WordPress posts into the content store. Posts that\n")
		fmt.Fprintf(w, "already exist with the same title or slug are replaced.\n\n")
		fmt.Fprintf(w, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(w, "\nExamples:\n")
		fmt.Fprintf(w, "  %s import -file export.xml\n", os.Args[0])
		fmt.Fprintf(w, "  %s import -file export.xml -store sanity -verbose\n", os.Args[0])
		fmt.Fprintf(w, "  %s import -file export.xml -dry-run\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.ExportPath == "" && fs.NArg() > 0 {
		cmd.ExportPath = fs.Arg(0)
	}
	if cmd.ExportPath == "" {
		fs.Usage()
		return fmt.Errorf("required flag -file not provided")
	}

	return nil
}

// Run performs the import. It returns an error only when the run could not
// happen at all; failed items are reported, not returned.
func (cmd *ImportCommand) Run(ctx context.Context) error {
	if _, err := os.Stat(cmd.ExportPath); err != nil {
		return fmt.Errorf("export file not found: %s", cmd.ExportPath)
	}

	cfg := *cmd.cfg
	cfg.Content.Store = config.ContentStore(cmd.Store)
	cfg.Database.Path = cmd.DatabasePath
	cfg.Audit.Dir = cmd.LogDir
	cfg.Import.IncludeDrafts = cmd.IncludeDrafts
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	level := cfg.Logging.Level
	if cmd.Verbose {
		level = "debug"
	}
	logger, err := logging.New(level)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	filter := wxr.DefaultFilter()
	if cmd.IncludeDrafts {
		filter = filter.WithDrafts()
	}

	if cmd.DryRun {
		fmt.Fprintln(cmd.Out, "DRY RUN MODE - No changes will be made")
	}
	fmt.Fprintf(cmd.Out, "Importing %s into the %s store\n", cmd.ExportPath, cfg.Content.Store)

	importerCfg := importers.Config{
		Progress: console.NewProgress(cmd.Out),
		Logger:   logger.Named("import"),
		DryRun:   cmd.DryRun,
	}
	auditor := audit.NewAuditor(cfg.Audit.Dir)

	var service *importers.Service
	if cmd.DryRun {
		job := importers.NewJob(importers.NewImporter(importerCfg), filter, auditor, logger)
		service = importers.NewService(job, nil, nil, string(cfg.Content.Store), logger)
	} else {
		absDBPath, err := filepath.Abs(cfg.Database.Path)
		if err != nil {
			return fmt.Errorf("failed to get absolute path for database: %w", err)
		}
		cfg.Database.Path = absDBPath

		b, err := backends.Open(&cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize store: %w", err)
		}
		defer b.Close()

		importerCfg.Store = b.Store
		importerCfg.Uploader = b.Uploader
		importerCfg.Fetcher = b.Fetcher

		auditService := audit.NewService(auditRepo.NewRepository(b.Database.DB), logger)
		defer auditService.Wait()

		job := importers.NewJob(importers.NewImporter(importerCfg), filter, auditor, logger)
		service = importers.NewService(job, runs.NewRepository(b.Database.DB), auditService, string(cfg.Content.Store), logger)
	}

	result, err := service.Import(ctx, importers.Request{Path: cmd.ExportPath, Trigger: importers.TriggerCLI})
	if err != nil {
		return err
	}

	cmd.printReport(result, logger)
	return nil
}

func (cmd *ImportCommand) printReport(result importers.Result, logger *zap.Logger) {
	report := result.Report

	if cmd.Verbose {
		for _, e := range report.Successful {
			fmt.Fprintf(cmd.Out, "  [OK] %s (%s, %d blocks)\n", e.Title, e.Mode, e.Blocks)
		}
	}
	for _, e := range report.Failed {
		console.Failure(cmd.Out, e.Title, e.Message)
	}
	if report.Canceled {
		logger.Warn("import interrupted before all items were processed")
	}

	fmt.Fprintln(cmd.Out)
	console.PrintSummary(cmd.Out, report.Imported(), report.ReplacedCount(), report.FailedCount())
	console.PrintLogFiles(cmd.Out, result.LogFiles)
}
