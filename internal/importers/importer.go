package importers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mrlokans/contentmigrate/internal/richtext"
	"github.com/mrlokans/contentmigrate/internal/services"
	"github.com/mrlokans/contentmigrate/internal/wxr"
)

// Progress is notified as items are processed.
type Progress interface {
	Start(total int)
	Increment()
	Finish()
}

type nopProgress struct{}

func (nopProgress) Start(int)  {}
func (nopProgress) Increment() {}
func (nopProgress) Finish()    {}

// Config wires an Importer. Store is required unless DryRun is set; Uploader
// and Fetcher are optional and featured images are skipped without them.
type Config struct {
	Store     services.PostStore
	Uploader  services.AssetUploader
	Fetcher   services.ImageFetcher
	Converter *richtext.Converter
	Progress  Progress
	Logger    *zap.Logger
	DryRun    bool
	// Now defaults to time.Now.
	Now func() time.Time
}

// ErrNoStore is returned by Validate when a live run has no store.
var ErrNoStore = errors.New("importer has no content store")

type Importer struct {
	cfg Config
}

func NewImporter(cfg Config) *Importer {
	if cfg.Converter == nil {
		cfg.Converter = richtext.NewConverter()
	}
	if cfg.Progress == nil {
		cfg.Progress = nopProgress{}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Importer{cfg: cfg}
}

func (im *Importer) Validate() error {
	if im.cfg.Store == nil && !im.cfg.DryRun {
		return ErrNoStore
	}
	return nil
}

// Run imports posts sequentially. Per-item failures are recorded in the
// report and never stop the run.
func (im *Importer) Run(ctx context.Context, posts []wxr.Post) Report {
	report := Report{
		StartedAt:  im.cfg.Now(),
		Total:      len(posts),
		DryRun:     im.cfg.DryRun,
		Successful: []Entry{},
		Failed:     []Entry{},
		Replaced:   []Entry{},
	}

	im.cfg.Progress.Start(len(posts))
	defer im.cfg.Progress.Finish()

	for _, post := range posts {
		if ctx.Err() != nil {
			report.Canceled = true
			im.cfg.Logger.Warn("import canceled", zap.Error(ctx.Err()))
			break
		}

		im.importOne(ctx, post, &report)
		im.cfg.Progress.Increment()
	}

	report.FinishedAt = im.cfg.Now()
	im.cfg.Logger.Info("import finished",
		zap.Int("imported", report.Imported()),
		zap.Int("replaced", report.ReplacedCount()),
		zap.Int("failed", report.FailedCount()),
		zap.Duration("elapsed", report.FinishedAt.Sub(report.StartedAt)),
	)
	return report
}

func (im *Importer) importOne(ctx context.Context, post wxr.Post, report *Report) {
	entry := Entry{Title: post.DisplayTitle(), Slug: post.Slug()}
	log := im.cfg.Logger.With(zap.String("title", entry.Title), zap.String("slug", entry.Slug))

	fail := func(err error) {
		entry.Message = err.Error()
		entry.Timestamp = im.cfg.Now()
		report.Failed = append(report.Failed, entry)
		log.Warn("item failed", zap.Error(err))
	}

	content, err := post.Content()
	if err != nil {
		fail(err)
		return
	}

	conv := im.cfg.Converter.ConvertDetailed(content)
	entry.Mode = conv.Mode
	entry.Blocks = len(conv.Blocks)
	if conv.Mode == richtext.ModeFallback {
		log.Warn("content converted through plain-text fallback", zap.Error(conv.Err))
	}

	publishedAt, ok := post.PublishedAt()
	if !ok {
		publishedAt = im.cfg.Now().UTC()
		log.Debug("no parseable publish date, using import time")
	}

	doc := services.PostDocument{
		Title:       entry.Title,
		Slug:        entry.Slug,
		PublishedAt: publishedAt,
		Body:        conv.Blocks,
		Excerpt:     post.Excerpt(),
		AuthorName:  post.AuthorName,
	}

	if im.cfg.DryRun {
		entry.Message = "dry run"
		entry.Timestamp = im.cfg.Now()
		report.Successful = append(report.Successful, entry)
		log.Info("converted", zap.String("mode", string(conv.Mode)), zap.Int("blocks", len(conv.Blocks)))
		return
	}

	existing, err := im.cfg.Store.FindExisting(ctx, doc.Title, doc.Slug)
	if err != nil {
		log.Warn("existence check failed, treating as new", zap.Error(err))
		existing = nil
	}

	if existing != nil {
		if err := im.cfg.Store.DeletePost(ctx, existing.ID); err != nil {
			fail(fmt.Errorf("delete existing post %s: %w", existing.ID, err))
			return
		}
		entry.ReplacedID = existing.ID
		log.Info("replacing existing post", zap.String("previous_id", existing.ID))
	}

	authorID, err := im.cfg.Store.EnsureAuthor(ctx, post.AuthorName)
	if err != nil {
		fail(fmt.Errorf("author %q: %w", post.AuthorName, err))
		return
	}
	doc.AuthorID = authorID

	doc.MainImage = im.uploadFeaturedImage(ctx, post.FeaturedImageURL, log)

	id, err := im.cfg.Store.CreatePost(ctx, doc)
	if err != nil {
		fail(fmt.Errorf("create post: %w", err))
		return
	}

	entry.DocumentID = id
	entry.Timestamp = im.cfg.Now()
	report.Successful = append(report.Successful, entry)
	if entry.ReplacedID != "" {
		report.Replaced = append(report.Replaced, entry)
	}
	log.Info("imported", zap.String("id", id), zap.String("mode", string(conv.Mode)))
}

// uploadFeaturedImage returns nil on any failure; a missing image never
// fails the post.
func (im *Importer) uploadFeaturedImage(ctx context.Context, url string, log *zap.Logger) *services.AssetRef {
	if url == "" || im.cfg.Fetcher == nil || im.cfg.Uploader == nil {
		return nil
	}

	file, err := im.cfg.Fetcher.Fetch(ctx, url)
	if err != nil {
		log.Warn("featured image fetch failed", zap.String("url", url), zap.Error(err))
		return nil
	}

	ref, err := im.cfg.Uploader.UploadImage(ctx, file.Data, file.Filename, file.ContentType)
	if err != nil {
		log.Warn("featured image upload failed", zap.String("url", url), zap.Error(err))
		return nil
	}
	return ref
}
