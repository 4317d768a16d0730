package services

import (
	"context"
	"time"

	"github.com/mrlokans/contentmigrate/internal/richtext"
)

// PostStore persists migrated posts. Implemented by the local database and
// the hosted content store.
type PostStore interface {
	// FindExisting returns the stored post whose title or slug matches, or
	// nil when there is none.
	FindExisting(ctx context.Context, title, slug string) (*DocumentRef, error)
	DeletePost(ctx context.Context, id string) error
	// EnsureAuthor looks an author up by name and creates it when missing.
	EnsureAuthor(ctx context.Context, name string) (string, error)
	CreatePost(ctx context.Context, doc PostDocument) (string, error)
}

// PostReader provides read-only access to imported posts.
type PostReader interface {
	ListPosts(ctx context.Context, limit, offset int) ([]PostDocument, int64, error)
	GetPostBySlug(ctx context.Context, slug string) (*PostDocument, error)
}

// AssetUploader stores binary assets and returns a reference to them.
type AssetUploader interface {
	UploadImage(ctx context.Context, data []byte, filename, contentType string) (*AssetRef, error)
}

// ImageFetcher retrieves remote images referenced by the export.
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) (*RemoteFile, error)
}

// PostDocument is a post ready to be written to a store.
type PostDocument struct {
	ID          string           `json:"id,omitempty"`
	Title       string           `json:"title"`
	Slug        string           `json:"slug"`
	PublishedAt time.Time        `json:"publishedAt"`
	Body        []richtext.Block `json:"body"`
	Excerpt     string           `json:"excerpt"`
	AuthorID    string           `json:"authorId,omitempty"`
	AuthorName  string           `json:"authorName,omitempty"`
	MainImage   *AssetRef        `json:"mainImage,omitempty"`
}

// DocumentRef identifies a stored post.
type DocumentRef struct {
	ID    string
	Title string
	Slug  string
}

// AssetRef identifies an uploaded asset.
type AssetRef struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// RemoteFile is a downloaded file.
type RemoteFile struct {
	Data        []byte
	ContentType string
	Filename    string
}
