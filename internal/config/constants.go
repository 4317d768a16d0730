package config

// Default paths
const (
	// DefaultDatabasePath is the default path for the local content database
	DefaultDatabasePath = "./contentmigrate.db"

	// DefaultLogDir receives the per-run JSON logs
	DefaultLogDir = "./logs"

	DefaultAssetDir   = "./media"
	DefaultUploadDir  = "./uploads"
	DefaultSanityAPI  = "2023-05-03"
	DefaultSanityData = "production"
)
