// Package posts stores migrated posts and their authors in the local
// database. It is the default content store for imports.
//
//	var _ services.PostStore = (*Repository)(nil)
//	var _ services.PostReader = (*Repository)(nil)
package posts

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mrlokans/contentmigrate/internal/database"
	"github.com/mrlokans/contentmigrate/internal/entities"
	"github.com/mrlokans/contentmigrate/internal/services"
)

// Repository handles post and author database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new posts repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindExisting returns the earliest post matching title or slug, or nil.
func (r *Repository) FindExisting(ctx context.Context, title, slug string) (*services.DocumentRef, error) {
	var post entities.Post
	err := r.db.WithContext(ctx).
		Where("title = ? OR slug = ?", title, slug).
		Order("id ASC").
		First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &services.DocumentRef{ID: post.DocumentID, Title: post.Title, Slug: post.Slug}, nil
}

// DeletePost removes a post by document id.
func (r *Repository) DeletePost(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("document_id = ?", id).Delete(&entities.Post{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("delete post %s: %w", id, database.ErrNotFound)
	}
	return nil
}

// EnsureAuthor returns the id of the author with the given name, creating it
// when missing.
func (r *Repository) EnsureAuthor(ctx context.Context, name string) (string, error) {
	var author entities.Author
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&author).Error
	if err == nil {
		return author.DocumentID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	author = entities.Author{DocumentID: uuid.NewString(), Name: name}
	if err := r.db.WithContext(ctx).Create(&author).Error; err != nil {
		return "", fmt.Errorf("create author %q: %w", name, err)
	}
	return author.DocumentID, nil
}

// CreatePost stores doc and returns its new document id.
func (r *Repository) CreatePost(ctx context.Context, doc services.PostDocument) (string, error) {
	post := entities.Post{
		DocumentID:  uuid.NewString(),
		Title:       doc.Title,
		Slug:        doc.Slug,
		PublishedAt: doc.PublishedAt,
		Body:        doc.Body,
		Excerpt:     doc.Excerpt,
		AuthorID:    doc.AuthorID,
		AuthorName:  doc.AuthorName,
	}
	if doc.MainImage != nil {
		post.MainImageID = doc.MainImage.ID
		post.MainImageURL = doc.MainImage.URL
	}

	if err := r.db.WithContext(ctx).Create(&post).Error; err != nil {
		return "", err
	}
	return post.DocumentID, nil
}

// ListPosts returns a page of posts, newest first, with the total count.
func (r *Repository) ListPosts(ctx context.Context, limit, offset int) ([]services.PostDocument, int64, error) {
	var total int64
	query := r.db.WithContext(ctx).Model(&entities.Post{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var rows []entities.Post
	err := query.Order("published_at DESC").Limit(limit).Offset(offset).Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	docs := make([]services.PostDocument, 0, len(rows))
	for _, p := range rows {
		docs = append(docs, toDocument(p))
	}
	return docs, total, nil
}

// GetPostBySlug returns the post stored under slug.
func (r *Repository) GetPostBySlug(ctx context.Context, slug string) (*services.PostDocument, error) {
	var post entities.Post
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&post).Error
	if err != nil {
		return nil, database.NotFound(err)
	}
	doc := toDocument(post)
	return &doc, nil
}

func toDocument(p entities.Post) services.PostDocument {
	doc := services.PostDocument{
		ID:          p.DocumentID,
		Title:       p.Title,
		Slug:        p.Slug,
		PublishedAt: p.PublishedAt,
		Body:        p.Body,
		Excerpt:     p.Excerpt,
		AuthorID:    p.AuthorID,
		AuthorName:  p.AuthorName,
	}
	if p.MainImageID != "" {
		doc.MainImage = &services.AssetRef{ID: p.MainImageID, URL: p.MainImageURL}
	}
	return doc
}
