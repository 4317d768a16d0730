package sanity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gosimple/slug"

	"github.com/mrlokans/contentmigrate/internal/richtext"
	"github.com/mrlokans/contentmigrate/internal/services"
)

const (
	findPostQuery   = `*[_type == "post" && (title == $title || slug.current == $slug)][0]{_id, title, "slug": slug.current}`
	findAuthorQuery = `*[_type == "author" && name == $name][0]{_id}`
)

// ErrNoDocumentID is returned when a create mutation reports no id.
var ErrNoDocumentID = errors.New("mutation returned no document id")

// Store maps posts, authors and images onto Sanity documents.
type Store struct {
	client *Client
}

func NewStore(client *Client) *Store {
	return &Store{client: client}
}

type documentRef struct {
	ID    string `json:"_id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

func (s *Store) FindExisting(ctx context.Context, title, slug string) (*services.DocumentRef, error) {
	var ref *documentRef
	err := s.client.Query(ctx, findPostQuery, map[string]any{"title": title, "slug": slug}, &ref)
	if err != nil {
		return nil, err
	}
	if ref == nil || ref.ID == "" {
		return nil, nil
	}
	return &services.DocumentRef{ID: ref.ID, Title: ref.Title, Slug: ref.Slug}, nil
}

func (s *Store) DeletePost(ctx context.Context, id string) error {
	_, err := s.client.Mutate(ctx, Mutation{Delete: &DeleteByID{ID: id}})
	return err
}

func (s *Store) EnsureAuthor(ctx context.Context, name string) (string, error) {
	var ref *documentRef
	if err := s.client.Query(ctx, findAuthorQuery, map[string]any{"name": name}, &ref); err != nil {
		return "", fmt.Errorf("find author %q: %w", name, err)
	}
	if ref != nil && ref.ID != "" {
		return ref.ID, nil
	}

	return s.create(ctx, map[string]any{
		"_type": "author",
		"name":  name,
		"slug":  slugField(slug.Make(name)),
	})
}

func (s *Store) CreatePost(ctx context.Context, doc services.PostDocument) (string, error) {
	return s.create(ctx, PostDocument(doc))
}

// UploadImage implements services.AssetUploader.
func (s *Store) UploadImage(ctx context.Context, data []byte, filename, contentType string) (*services.AssetRef, error) {
	asset, err := s.client.UploadAsset(ctx, data, filename, contentType)
	if err != nil {
		return nil, err
	}
	return &services.AssetRef{ID: asset.ID, URL: asset.URL}, nil
}

func (s *Store) create(ctx context.Context, doc map[string]any) (string, error) {
	resp, err := s.client.Mutate(ctx, Mutation{Create: doc})
	if err != nil {
		return "", err
	}
	if len(resp.Results) == 0 || resp.Results[0].ID == "" {
		return "", ErrNoDocumentID
	}
	return resp.Results[0].ID, nil
}

// PostDocument builds the Sanity "post" document for doc.
func PostDocument(doc services.PostDocument) map[string]any {
	body := doc.Body
	if body == nil {
		body = []richtext.Block{}
	}
	out := map[string]any{
		"_type":       "post",
		"title":       doc.Title,
		"slug":        slugField(doc.Slug),
		"publishedAt": doc.PublishedAt.UTC().Format(time.RFC3339),
		"body":        body,
		"excerpt":     doc.Excerpt,
	}
	if doc.AuthorID != "" {
		out["author"] = reference(doc.AuthorID)
	}
	if doc.MainImage != nil && doc.MainImage.ID != "" {
		out["mainImage"] = map[string]any{
			"_type": "image",
			"asset": reference(doc.MainImage.ID),
		}
	}
	return out
}

func slugField(current string) map[string]any {
	return map[string]any{"_type": "slug", "current": current}
}

func reference(id string) map[string]any {
	return map[string]any{"_type": "reference", "_ref": id}
}
