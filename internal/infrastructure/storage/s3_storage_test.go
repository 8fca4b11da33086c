package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/phonestore/backend/internal/domain/shared"
	"github.com/phonestore/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeS3 answers the path-style requests the storage issues
type fakeS3 struct {
	mu      sync.Mutex
	buckets map[string]bool
	objects map[string][]byte
	types   map[string]string
}

func newFakeS3() *fakeS3 {
	return &fakeS3{buckets: map[string]bool{}, objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, "/")
	bucket, key, hasKey := strings.Cut(path, "/")

	if !hasKey || key == "" {
		switch r.Method {
		case http.MethodHead:
			if !f.buckets[bucket] {
				w.WriteHeader(http.StatusNotFound)
				return
			}
		case http.MethodPut:
			f.buckets[bucket] = true
		}
		w.WriteHeader(http.StatusOK)
		return
	}

	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[path] = body
		f.types[path] = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		body, ok := f.objects[path]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`)
			return
		}
		w.Header().Set("Content-Type", f.types[path])
		_, _ = w.Write(body)
	case http.MethodDelete:
		delete(f.objects, path)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (f *fakeS3) hasBucket(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.buckets[name]
}

func (f *fakeS3) contentType(path string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.types[path]
}

func newTestS3Storage(t *testing.T) (*S3ImageStorage, *fakeS3) {
	t.Helper()
	fake := newFakeS3()
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	s, err := NewS3ImageStorage(context.Background(), &config.StorageConfig{
		Driver:          "s3",
		Bucket:          "product-images",
		Endpoint:        server.URL,
		AccessKeyID:     "test-key",
		SecretAccessKey: "test-secret",
		UsePathStyle:    true,
	}, zap.NewNop())
	require.NoError(t, err)
	return s, fake
}

func TestNewS3ImageStorage_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.StorageConfig
		wantErr string
	}{
		{name: "nil config", cfg: nil, wantErr: "configuration is required"},
		{name: "missing bucket", cfg: &config.StorageConfig{AccessKeyID: "k", SecretAccessKey: "s"}, wantErr: "bucket is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewS3ImageStorage(context.Background(), tt.cfg, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("valid config", func(t *testing.T) {
		s, err := NewS3ImageStorage(context.Background(), &config.StorageConfig{Bucket: "product-images", Endpoint: "minio:9000"}, nil)
		require.NoError(t, err)
		assert.Equal(t, "product-images", s.Bucket())
	})
}

func TestNormalizeEndpoint(t *testing.T) {
	assert.Equal(t, "", normalizeEndpoint(""))
	assert.Equal(t, "http://localhost:9000", normalizeEndpoint("http://localhost:9000"))
	assert.Equal(t, "https://s3.example.com", normalizeEndpoint("s3.example.com"))
}

func TestS3ImageStorage_Lifecycle(t *testing.T) {
	ctx := context.Background()
	s, fake := newTestS3Storage(t)

	require.NoError(t, s.EnsureBucket(ctx))
	assert.True(t, fake.hasBucket("product-images"))
	require.NoError(t, s.EnsureBucket(ctx), "existing bucket is fine")

	key := "products/abc/1.jpg"
	require.NoError(t, s.Upload(ctx, key, []byte("jpeg-bytes"), "image/jpeg"))
	assert.Equal(t, "image/jpeg", fake.contentType("product-images/"+key))

	data, err := s.Download(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), data)

	require.NoError(t, s.DeleteObject(ctx, key))
	_, err = s.Download(ctx, key)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestS3ImageStorage_EmptyKey(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestS3Storage(t)

	assert.ErrorIs(t, s.Upload(ctx, "", nil, "image/png"), ErrKeyRequired)
	_, err := s.Download(ctx, "")
	assert.ErrorIs(t, err, ErrKeyRequired)
	assert.ErrorIs(t, s.DeleteObject(ctx, ""), ErrKeyRequired)
}
