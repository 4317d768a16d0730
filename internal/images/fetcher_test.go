package images

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFetcher_CreatesCacheDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "images")

	_, err := NewFetcher(WithCacheDir(dir))
	require.NoError(t, err)

	_, err = os.Stat(dir)
	assert.NoError(t, err)
}

func TestFetcher_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ContentMigrate/1.0", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte("fake image data"))
	}))
	defer server.Close()

	fetcher, err := NewFetcher()
	require.NoError(t, err)

	file, err := fetcher.Fetch(context.Background(), server.URL+"/uploads/2019/03/gt3-front.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte("fake image data"), file.Data)
	assert.Equal(t, "image/jpeg", file.ContentType)
	assert.Equal(t, "gt3-front.jpg", file.Filename)
}

func TestFetcher_DetectsContentType(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write(png)
	}))
	defer server.Close()

	fetcher, err := NewFetcher()
	require.NoError(t, err)

	file, err := fetcher.Fetch(context.Background(), server.URL+"/logo")
	require.NoError(t, err)
	assert.Equal(t, "image/png", file.ContentType)
}

func TestFetcher_UsesCache(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("GIF89a cached"))
	}))
	defer server.Close()

	fetcher, err := NewFetcher(WithCacheDir(t.TempDir()))
	require.NoError(t, err)

	first, err := fetcher.Fetch(context.Background(), server.URL+"/a.gif")
	require.NoError(t, err)
	second, err := fetcher.Fetch(context.Background(), server.URL+"/a.gif")
	require.NoError(t, err)

	assert.Equal(t, first.Data, second.Data)
	assert.Equal(t, "image/gif", second.ContentType)
	assert.Equal(t, int32(1), hits.Load())
}

func TestFetcher_Errors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/big.jpg" {
			_, _ = w.Write(make([]byte, 64))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	fetcher, err := NewFetcher(WithMaxBytes(32))
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("status", func(t *testing.T) {
		_, err := fetcher.Fetch(ctx, server.URL+"/missing.jpg")
		assert.ErrorContains(t, err, "status 404")
	})

	t.Run("too large", func(t *testing.T) {
		_, err := fetcher.Fetch(ctx, server.URL+"/big.jpg")
		assert.ErrorIs(t, err, ErrTooLarge)
	})

	t.Run("bad scheme", func(t *testing.T) {
		_, err := fetcher.Fetch(ctx, "ftp://example.com/a.jpg")
		assert.Error(t, err)
	})
}
