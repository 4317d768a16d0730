// Package images downloads images referenced by an export, optionally
// keeping a local copy so repeated imports do not hit the old site again.
package images

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mrlokans/contentmigrate/internal/services"
	"github.com/mrlokans/contentmigrate/internal/utils"
)

// DefaultMaxBytes caps a single download.
const DefaultMaxBytes = 20 << 20

// ErrTooLarge is returned when a download exceeds the size cap.
var ErrTooLarge = errors.New("image exceeds size limit")

// Fetcher implements services.ImageFetcher over HTTP.
type Fetcher struct {
	cacheDir   string
	maxBytes   int64
	httpClient *http.Client
}

type Option func(*Fetcher)

// WithCacheDir keeps downloaded files in dir.
func WithCacheDir(dir string) Option {
	return func(f *Fetcher) {
		f.cacheDir = dir
	}
}

func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.httpClient = c
	}
}

func WithMaxBytes(n int64) Option {
	return func(f *Fetcher) {
		f.maxBytes = n
	}
}

func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		maxBytes: DefaultMaxBytes,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(f)
	}

	if f.cacheDir != "" {
		if err := os.MkdirAll(f.cacheDir, 0755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}
	return f, nil
}

// Fetch returns the bytes behind rawURL, from the cache when present.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*services.RemoteFile, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("invalid image url %q", rawURL)
	}

	filename := utils.SanitizeFilename(u.Path)
	if filename == "" {
		filename = "image"
	}

	if f.cacheDir != "" {
		if data, err := os.ReadFile(f.cachePath(u.String())); err == nil {
			return &services.RemoteFile{
				Data:        data,
				ContentType: http.DetectContentType(data),
				Filename:    filename,
			}, nil
		}
	}

	data, contentType, err := f.download(ctx, u.String())
	if err != nil {
		return nil, err
	}

	if f.cacheDir != "" {
		// The cache is best effort; a failed write still returns the data.
		_ = f.store(u.String(), data)
	}

	return &services.RemoteFile{Data: data, ContentType: contentType, Filename: filename}, nil
}

func (f *Fetcher) download(ctx context.Context, rawURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("User-Agent", "ContentMigrate/1.0")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("failed to fetch image: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, "", err
	}
	if int64(len(data)) > f.maxBytes {
		return nil, "", ErrTooLarge
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" || strings.HasPrefix(contentType, "application/octet-stream") {
		contentType = http.DetectContentType(data)
	}
	return data, contentType, nil
}

func (f *Fetcher) cachePath(rawURL string) string {
	hash := sha256.Sum256([]byte(rawURL))
	return filepath.Join(f.cacheDir, fmt.Sprintf("img_%x", hash[:12]))
}

// store writes through a temp file and renames it into place.
func (f *Fetcher) store(rawURL string, data []byte) error {
	tmpFile, err := os.CreateTemp(f.cacheDir, "img_tmp_")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()
	defer func() {
		tmpFile.Close()
		os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return err
	}
	tmpFile.Close()

	return os.Rename(tmpPath, f.cachePath(rawURL))
}
