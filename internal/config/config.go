package config

import (
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

type ContentStore string

const (
	StoreDatabase ContentStore = "database" // local gorm/sqlite store (default)
	StoreSanity   ContentStore = "sanity"   // hosted headless CMS
)

type AssetStorage string

const (
	AssetStorageLocal AssetStorage = "local"
	AssetStorageS3    AssetStorage = "s3"
)

type (
	Config struct {
		HTTP
		Global
		Logging
		Database
		Content
		Sanity
		Assets
		S3
		Images
		Import
		Audit
		Tasks
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Logging struct {
		Level string
	}
	Database struct {
		Path string
	}
	Content struct {
		Store ContentStore
	}
	Sanity struct {
		ProjectID  string
		Dataset    string
		APIVersion string
		Token      string
		APIHost    string // Overrides https://<project>.api.sanity.io
	}
	Assets struct {
		Storage AssetStorage
		Dir     string // Root for the local provider
		BaseURL string // Public prefix for local asset URLs
	}
	S3 struct {
		Endpoint  string
		Bucket    string
		AccessKey string
		SecretKey string
		Region    string
		UseSSL    bool
		PublicURL string
	}
	Images struct {
		CacheDir string // Empty disables the download cache
	}
	Import struct {
		Schedule      string // Cron format; empty disables scheduled imports
		SourcePath    string // Export re-imported on schedule
		UploadDir     string // Where API uploads are stored before import
		IncludeDrafts bool
	}
	Audit struct {
		Dir           string // Run logs
		RetentionDays int    // Days to keep audit events (default: 30)
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration // Must exceed the import timeout
		CleanupInterval time.Duration
	}
)

// Load reads a local .env file, if any, into the environment and builds the
// configuration from it.
func Load() *Config {
	_ = godotenv.Load()
	return NewConfig()
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("log_level", "info")
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("content_store", string(StoreDatabase))

	v.SetDefault("sanity_dataset", DefaultSanityData)
	v.SetDefault("sanity_api_version", DefaultSanityAPI)

	v.SetDefault("asset_storage", string(AssetStorageLocal))
	v.SetDefault("asset_dir", DefaultAssetDir)
	v.SetDefault("asset_base_url", "/media")
	v.SetDefault("s3_region", "us-east-1")
	v.SetDefault("s3_use_ssl", true)

	v.SetDefault("image_cache_dir", "")
	v.SetDefault("import_schedule", "")
	v.SetDefault("import_source_path", "")
	v.SetDefault("upload_dir", DefaultUploadDir)
	v.SetDefault("include_drafts", false)

	v.SetDefault("log_dir", DefaultLogDir)
	v.SetDefault("audit_retention_days", 30)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 1)
	v.SetDefault("task_release_after", "45m")
	v.SetDefault("task_cleanup_interval", "1h")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Logging: Logging{
			Level: v.GetString("LOG_LEVEL"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Content: Content{
			Store: ContentStore(v.GetString("CONTENT_STORE")),
		},
		Sanity: Sanity{
			ProjectID:  v.GetString("SANITY_PROJECT_ID"),
			Dataset:    v.GetString("SANITY_DATASET"),
			APIVersion: v.GetString("SANITY_API_VERSION"),
			Token:      v.GetString("SANITY_TOKEN"),
			APIHost:    v.GetString("SANITY_API_HOST"),
		},
		Assets: Assets{
			Storage: AssetStorage(v.GetString("ASSET_STORAGE")),
			Dir:     v.GetString("ASSET_DIR"),
			BaseURL: v.GetString("ASSET_BASE_URL"),
		},
		S3: S3{
			Endpoint:  v.GetString("S3_ENDPOINT"),
			Bucket:    v.GetString("S3_BUCKET"),
			AccessKey: v.GetString("S3_ACCESS_KEY"),
			SecretKey: v.GetString("S3_SECRET_KEY"),
			Region:    v.GetString("S3_REGION"),
			UseSSL:    v.GetBool("S3_USE_SSL"),
			PublicURL: v.GetString("S3_PUBLIC_URL"),
		},
		Images: Images{
			CacheDir: v.GetString("IMAGE_CACHE_DIR"),
		},
		Import: Import{
			Schedule:      v.GetString("IMPORT_SCHEDULE"),
			SourcePath:    v.GetString("IMPORT_SOURCE_PATH"),
			UploadDir:     v.GetString("UPLOAD_DIR"),
			IncludeDrafts: v.GetBool("INCLUDE_DRAFTS"),
		},
		Audit: Audit{
			Dir:           v.GetString("LOG_DIR"),
			RetentionDays: v.GetInt("AUDIT_RETENTION_DAYS"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
	}
}

type section struct {
	name string
	rule validation.Validatable
}

// Validate checks each section and returns the first failure, prefixed with
// the section name.
func (c *Config) Validate() error {
	sections := []section{
		{"content", &c.Content},
		{"assets", &c.Assets},
		{"import", &c.Import},
		{"tasks", &c.Tasks},
	}
	if c.Content.Store == StoreSanity {
		sections = append(sections, section{"sanity", &c.Sanity})
	}
	if c.Assets.Storage == AssetStorageS3 {
		sections = append(sections, section{"s3", &c.S3})
	}

	for _, s := range sections {
		if err := s.rule.Validate(); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}

func (c *Content) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Store, validation.Required, validation.In(StoreDatabase, StoreSanity)),
	)
}

// Validate applies when the sanity store is selected.
func (s *Sanity) Validate() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.ProjectID, validation.Required),
		validation.Field(&s.Token, validation.Required),
		validation.Field(&s.Dataset, validation.Required),
		validation.Field(&s.APIVersion, validation.Required),
	)
}

func (a *Assets) Validate() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.Storage, validation.Required, validation.In(AssetStorageLocal, AssetStorageS3)),
		validation.Field(&a.Dir, validation.When(a.Storage == AssetStorageLocal, validation.Required)),
	)
}

// Validate applies when S3 is the asset storage.
func (s *S3) Validate() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.Endpoint, validation.Required),
		validation.Field(&s.Bucket, validation.Required),
		validation.Field(&s.AccessKey, validation.Required),
		validation.Field(&s.SecretKey, validation.Required),
	)
}

func (i *Import) Validate() error {
	return validation.ValidateStruct(i,
		validation.Field(&i.Schedule, validation.By(cronSpec)),
		validation.Field(&i.SourcePath, validation.When(i.Schedule != "", validation.Required)),
	)
}

func (t *Tasks) Validate() error {
	return validation.ValidateStruct(t,
		validation.Field(&t.Workers, validation.When(t.Enabled, validation.Min(1))),
		validation.Field(&t.ReleaseAfter, validation.When(t.Enabled, validation.Required)),
		validation.Field(&t.CleanupInterval, validation.When(t.Enabled, validation.Required)),
	)
}

func cronSpec(value any) error {
	spec, _ := value.(string)
	if spec == "" {
		return nil
	}
	if _, err := cron.ParseStandard(spec); err != nil {
		return errors.New("must be a valid cron expression")
	}
	return nil
}
