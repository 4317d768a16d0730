// Package backends builds the content store, asset uploader and image
// fetcher selected by configuration.
package backends

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mrlokans/contentmigrate/internal/assets"
	"github.com/mrlokans/contentmigrate/internal/config"
	"github.com/mrlokans/contentmigrate/internal/database"
	assetsRepo "github.com/mrlokans/contentmigrate/internal/database/assets"
	"github.com/mrlokans/contentmigrate/internal/database/posts"
	"github.com/mrlokans/contentmigrate/internal/images"
	"github.com/mrlokans/contentmigrate/internal/sanity"
	"github.com/mrlokans/contentmigrate/internal/services"
	"github.com/mrlokans/contentmigrate/internal/storage"
	"github.com/mrlokans/contentmigrate/internal/storage/providers/local"
	"github.com/mrlokans/contentmigrate/internal/storage/providers/s3"
)

// Backends holds the live adapters for one process. The local database is
// always opened; it holds run history and the audit trail even when posts go
// to Sanity.
type Backends struct {
	Database *database.Database
	Store    services.PostStore
	Uploader services.AssetUploader
	Fetcher  services.ImageFetcher
	// Posts is set only for the database store.
	Posts *posts.Repository
	// Storage is nil when images go to Sanity.
	Storage storage.Client
}

// Open wires the backends. On error nothing is left open.
func Open(cfg *config.Config, logger *zap.Logger) (*Backends, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	b := &Backends{Database: db}

	var fetcherOpts []images.Option
	if cfg.Images.CacheDir != "" {
		fetcherOpts = append(fetcherOpts, images.WithCacheDir(cfg.Images.CacheDir))
	}
	fetcher, err := images.NewFetcher(fetcherOpts...)
	if err != nil {
		return nil, errors.Join(err, db.Close())
	}
	b.Fetcher = fetcher

	switch cfg.Content.Store {
	case config.StoreSanity:
		store := sanity.NewStore(sanity.NewClient(sanity.Config{
			ProjectID:  cfg.Sanity.ProjectID,
			Dataset:    cfg.Sanity.Dataset,
			APIVersion: cfg.Sanity.APIVersion,
			Token:      cfg.Sanity.Token,
			APIHost:    cfg.Sanity.APIHost,
		}))
		b.Store = store
		b.Uploader = store
		logger.Info("using sanity content store",
			zap.String("project", cfg.Sanity.ProjectID),
			zap.String("dataset", cfg.Sanity.Dataset))

	case config.StoreDatabase, "":
		client, err := NewStorage(cfg)
		if err != nil {
			return nil, errors.Join(err, db.Close())
		}
		b.Posts = posts.NewRepository(db.DB)
		b.Storage = client
		b.Store = b.Posts
		b.Uploader = assets.NewUploader(client, assetsRepo.NewRepository(db.DB), logger)
		logger.Info("using database content store",
			zap.String("path", cfg.Database.Path),
			zap.String("assets", string(cfg.Assets.Storage)))

	default:
		return nil, errors.Join(fmt.Errorf("unknown content store %q", cfg.Content.Store), db.Close())
	}

	return b, nil
}

// NewStorage builds the asset storage provider.
func NewStorage(cfg *config.Config) (storage.Client, error) {
	switch cfg.Assets.Storage {
	case config.AssetStorageS3:
		client, err := s3.NewClient(s3.Config{
			Endpoint:  cfg.S3.Endpoint,
			Bucket:    cfg.S3.Bucket,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Region:    cfg.S3.Region,
			UseSSL:    cfg.S3.UseSSL,
			PublicURL: cfg.S3.PublicURL,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.AssetStorageLocal, "":
		client, err := local.NewClient(cfg.Assets.Dir, cfg.Assets.BaseURL)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown asset storage %q", cfg.Assets.Storage)
	}
}

func (b *Backends) Close() error {
	if b.Database == nil {
		return nil
	}
	return b.Database.Close()
}
