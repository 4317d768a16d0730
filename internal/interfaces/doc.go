// Package interfaces documents the core abstractions used throughout the application.
//
// This package consolidates interface documentation to help code agents understand
// extension points and how to implement new functionality.
//
// # Interface Categories
//
// ## Content Store Interfaces
//
//   - PostStore: Find, delete and create migrated posts (internal/services/interfaces.go)
//   - PostReader: Read-only access to imported posts (internal/services/interfaces.go)
//   - AssetUploader: Store featured images (internal/services/interfaces.go)
//   - ImageFetcher: Download images referenced by the export (internal/services/interfaces.go)
//   - storage.Client: Binary object storage behind the local store (internal/storage/client.go)
//
// ## Import Pipeline Interfaces
//
//   - RunLogger: Per-run JSON log files (internal/importers/job.go)
//   - RunRecorder: Import run history (internal/importers/service.go)
//   - EventLogger: Audit trail for finished runs (internal/importers/service.go)
//
// ## Background Work Interfaces
//
//   - tasks.Importer / scheduler.Importer: Run an import from a queued task or cron job
//   - TaskQueue / TaskEnqueuer: Hand work to the backlite queue (internal/http/stores.go)
//   - AuditEventCleaner: Audit retention (internal/tasks/cleanup_audit.go)
//
// # Adding a New Content Store
//
// To migrate into another CMS:
//
//  1. Create a client package under internal/ that implements PostStore
//
//     type Store struct {
//     client *Client
//     }
//
//     func (s *Store) FindExisting(ctx context.Context, title, slug string) (*services.DocumentRef, error)
//     func (s *Store) DeletePost(ctx context.Context, id string) error
//     func (s *Store) EnsureAuthor(ctx context.Context, name string) (string, error)
//     func (s *Store) CreatePost(ctx context.Context, doc services.PostDocument) (string, error)
//
//  2. Implement AssetUploader if the CMS hosts images itself
//
//  3. Add a ContentStore value in internal/config and select it in internal/backends
//
//  4. Add compile-time checks to checks.go
//
// # Adding a New Storage Provider
//
//  1. Create internal/storage/providers/<name>/ implementing storage.Client
//
//  2. Add an AssetStorage value in internal/config and build it in backends.NewStorage
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// This pattern is used throughout the codebase. See checks.go for examples.
package interfaces
