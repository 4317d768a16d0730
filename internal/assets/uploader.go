// Package assets stores imported images through a storage.Client and keeps
// a database record per unique file.
package assets

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/mrlokans/contentmigrate/internal/database"
	"github.com/mrlokans/contentmigrate/internal/entities"
	"github.com/mrlokans/contentmigrate/internal/services"
	"github.com/mrlokans/contentmigrate/internal/storage"
)

// Records persists asset metadata.
type Records interface {
	FindBySHA1(ctx context.Context, sum string) (*entities.Asset, error)
	Create(ctx context.Context, asset *entities.Asset) error
}

// ErrEmptyAsset is returned when asked to upload zero bytes.
var ErrEmptyAsset = errors.New("asset is empty")

// Uploader implements services.AssetUploader.
type Uploader struct {
	storage storage.Client
	records Records
	logger  *zap.Logger
}

func NewUploader(client storage.Client, records Records, logger *zap.Logger) *Uploader {
	return &Uploader{storage: client, records: records, logger: logger}
}

// UploadImage stores data under images/<sha1>.<ext>. Identical content is
// stored once and the existing reference is returned.
func (u *Uploader) UploadImage(ctx context.Context, data []byte, filename, contentType string) (*services.AssetRef, error) {
	if len(data) == 0 {
		return nil, ErrEmptyAsset
	}

	sum := sha1.Sum(data)
	hash := hex.EncodeToString(sum[:])

	existing, err := u.records.FindBySHA1(ctx, hash)
	if err == nil {
		u.logger.Debug("asset already stored", zap.String("sha1", hash), zap.String("filename", filename))
		return &services.AssetRef{ID: existing.DocumentID, URL: existing.URL}, nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("lookup asset: %w", err)
	}

	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	key := "images/" + hash + extension(filename, contentType)

	stored, err := u.storage.Exists(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("check asset %s: %w", key, err)
	}
	if !stored {
		if err := u.storage.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
			return nil, err
		}
	}

	asset := &entities.Asset{
		DocumentID:  "image-" + hash,
		Filename:    filename,
		ContentType: contentType,
		StorageKey:  key,
		URL:         u.storage.URL(key),
		Size:        int64(len(data)),
		SHA1:        hash,
	}
	if err := u.records.Create(ctx, asset); err != nil {
		if !stored {
			if delErr := u.storage.Delete(ctx, key); delErr != nil {
				u.logger.Warn("failed to remove orphaned asset", zap.String("key", key), zap.Error(delErr))
			}
		}
		return nil, fmt.Errorf("record asset: %w", err)
	}

	u.logger.Info("asset uploaded", zap.String("key", key), zap.Int("bytes", len(data)))
	return &services.AssetRef{ID: asset.DocumentID, URL: asset.URL}, nil
}

func extension(filename, contentType string) string {
	if ext := strings.ToLower(path.Ext(filename)); ext != "" && len(ext) <= 5 {
		return ext
	}
	mediaType, _, _ := mime.ParseMediaType(contentType)
	switch mediaType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	}
	if exts, _ := mime.ExtensionsByType(mediaType); len(exts) > 0 {
		return exts[0]
	}
	return ""
}
