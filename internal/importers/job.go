package importers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mrlokans/contentmigrate/internal/wxr"
)

// RunLogger persists the outcome of a run and returns the files written.
type RunLogger interface {
	SaveRun(report Report) ([]string, error)
}

// Job imports a whole export file.
type Job struct {
	importer *Importer
	filter   wxr.Filter
	runLogs  RunLogger
	logger   *zap.Logger
}

func NewJob(importer *Importer, filter wxr.Filter, runLogs RunLogger, logger *zap.Logger) *Job {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Job{importer: importer, filter: filter, runLogs: runLogs, logger: logger}
}

// Run parses the export at path and imports the accepted items. The error
// is non-nil only for failures that prevent the run from happening at all;
// per-item failures are in the report.
func (j *Job) Run(ctx context.Context, path string) (Report, []string, error) {
	if err := j.importer.Validate(); err != nil {
		return Report{}, nil, err
	}

	export, err := wxr.ParseFile(path)
	if err != nil {
		return Report{}, nil, err
	}

	posts := export.Posts(j.filter)
	j.logger.Info("export loaded",
		zap.String("path", path),
		zap.String("site", export.Title),
		zap.Int("items", len(export.Items)),
		zap.Int("accepted", len(posts)),
	)

	report := j.importer.Run(ctx, posts)

	if j.runLogs == nil {
		return report, nil, nil
	}
	files, err := j.runLogs.SaveRun(report)
	if err != nil {
		return report, files, fmt.Errorf("write run logs: %w", err)
	}
	return report, files, nil
}
