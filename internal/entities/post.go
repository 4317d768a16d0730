package entities

import (
	"time"

	"github.com/mrlokans/contentmigrate/internal/richtext"
)

type Post struct {
	ID           uint             `gorm:"primaryKey" json:"-"`
	DocumentID   string           `gorm:"uniqueIndex;size:36" json:"id"`
	Title        string           `gorm:"index;size:512" json:"title"`
	Slug         string           `gorm:"index;size:255" json:"slug"`
	PublishedAt  time.Time        `gorm:"index" json:"published_at"`
	Body         []richtext.Block `gorm:"serializer:json;type:text" json:"body"`
	Excerpt      string           `gorm:"type:text" json:"excerpt"`
	AuthorID     string           `gorm:"index;size:36" json:"author_id,omitempty"`
	AuthorName   string           `gorm:"size:256" json:"author_name,omitempty"`
	MainImageID  string           `gorm:"size:64" json:"main_image_id,omitempty"`
	MainImageURL string           `gorm:"size:2048" json:"main_image_url,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

type Author struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	DocumentID string    `gorm:"uniqueIndex;size:36" json:"id"`
	Name       string    `gorm:"uniqueIndex;size:256" json:"name"`
	CreatedAt  time.Time `json:"created_at"`
}

// Asset is an uploaded binary, deduplicated by content hash.
type Asset struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	DocumentID  string    `gorm:"uniqueIndex;size:64" json:"id"`
	Filename    string    `gorm:"size:512" json:"filename"`
	ContentType string    `gorm:"size:100" json:"content_type"`
	StorageKey  string    `gorm:"size:1024" json:"storage_key"`
	URL         string    `gorm:"size:2048" json:"url"`
	Size        int64     `json:"size"`
	SHA1        string    `gorm:"uniqueIndex;size:40" json:"sha1"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Post) TableName() string {
	return "posts"
}

func (Author) TableName() string {
	return "authors"
}

func (Asset) TableName() string {
	return "assets"
}
