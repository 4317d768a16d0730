// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, migrations
//	├── posts/           # Posts and authors (the local content store)
//	├── assets/          # Uploaded asset records
//	├── runs/            # Import run history
//	└── audit/           # Audit events
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	db, err := database.NewDatabase("./contentmigrate.db")
//
//	postsRepo := posts.NewRepository(db.DB)
//	ref, err := postsRepo.FindExisting(ctx, "2019 GT3 RS", "gt3-rs")
//
// # Interface Implementations
//
//   - posts.Repository: implements services.PostStore and services.PostReader
//   - assets.Repository: implements assets.Records
//   - runs.Repository: implements http.RunStore
//
// Lookups that match nothing return database.ErrNotFound.
package database
