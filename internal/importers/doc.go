// Package importers migrates WordPress export items into a content store.
//
// # Architecture
//
// An import run follows a simple flow:
//
//	export.xml → wxr.Parse → []wxr.Post → Importer.Run → PostStore
//	                                          │
//	                                          └→ ImageFetcher → AssetUploader
//
// Items are processed strictly in export order, one at a time. Every item
// ends up in exactly one of the report's Successful or Failed lists; items
// that overwrote an earlier document are additionally listed in Replaced.
//
// # Failure Semantics
//
//   - no usable content field: the item fails, the run continues
//   - HTML that cannot be parsed: converted through the plain-text fallback
//   - existence check fails: logged and treated as "not found"
//   - delete, author or create fails: the item fails, the run continues
//   - image fetch or upload fails: logged, the post is created without image
//
// # Example Usage
//
//	importer := importers.NewImporter(importers.Config{
//		Store:    postsRepo,
//		Uploader: uploader,
//		Fetcher:  fetcher,
//		Logger:   logger,
//	})
//	job := importers.NewJob(importer, wxr.DefaultFilter(), auditor, logger)
//	report, logFiles, err := job.Run(ctx, "export.xml")
package importers
