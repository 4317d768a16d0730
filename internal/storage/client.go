package storage

import (
	"context"
	"errors"
	"io"
	"strings"
)

// ErrObjectNotExist is returned when a key has no stored object.
var ErrObjectNotExist = errors.New("object does not exist")

// Client defines the interface for binary object storage
type Client interface {
	// Upload writes content under key. size may be -1 when unknown.
	Upload(ctx context.Context, key string, content io.Reader, size int64, contentType string) error

	// Delete removes the object stored under key
	Delete(ctx context.Context, key string) error

	// Exists checks if an object is stored under key
	Exists(ctx context.Context, key string) (bool, error)

	// URL returns the public address of key
	URL(key string) string
}

// JoinURL joins a base URL and an object key with exactly one slash.
func JoinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
