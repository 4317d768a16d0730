package s3

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/mrlokans/contentmigrate/internal/storage"
)

// Config holds the connection settings for an S3-compatible endpoint.
type Config struct {
	Endpoint  string // host[:port], no scheme
	Bucket    string
	AccessKey string
	SecretKey string
	Region    string
	UseSSL    bool
	// PublicURL overrides the address objects are served from.
	PublicURL string
}

// Client implements storage.Client for S3-compatible object stores
type Client struct {
	cfg   Config
	minio *minio.Client
}

func NewClient(cfg Config) (*Client, error) {
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client: %w", err)
	}
	return &Client{cfg: cfg, minio: mc}, nil
}

func (c *Client) Upload(ctx context.Context, key string, content io.Reader, size int64, contentType string) error {
	_, err := c.minio.PutObject(ctx, c.cfg.Bucket, key, content, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

func (c *Client) Delete(ctx context.Context, key string) error {
	return c.minio.RemoveObject(ctx, c.cfg.Bucket, key, minio.RemoveObjectOptions{})
}

func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
	_, err := c.minio.StatObject(ctx, c.cfg.Bucket, key, minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return false, nil
	}
	return false, err
}

func (c *Client) URL(key string) string {
	if c.cfg.PublicURL != "" {
		return storage.JoinURL(c.cfg.PublicURL, key)
	}
	scheme := "http"
	if c.cfg.UseSSL {
		scheme = "https"
	}
	return storage.JoinURL(fmt.Sprintf("%s://%s/%s", scheme, c.cfg.Endpoint, c.cfg.Bucket), key)
}
