package storage

import (
	"context"
	"fmt"
	"sync"

	catalogapp "github.com/phonestore/backend/internal/application/catalog"
	"github.com/phonestore/backend/internal/domain/shared"
	"github.com/phonestore/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Ensure MemoryImageStorage implements ImageStorage
var _ catalogapp.ImageStorage = (*MemoryImageStorage)(nil)

// MemoryImageStorage keeps images in a map. Contents are lost on restart,
// so it serves development and tests.
type MemoryImageStorage struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMemoryImageStorage creates an empty store
func NewMemoryImageStorage() *MemoryImageStorage {
	return &MemoryImageStorage{objects: make(map[string][]byte)}
}

// Upload stores a copy of data
func (m *MemoryImageStorage) Upload(ctx context.Context, storageKey string, data []byte, contentType string) error {
	if storageKey == "" {
		return ErrKeyRequired
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[storageKey] = append([]byte(nil), data...)
	return nil
}

// Download returns a copy of the stored bytes
func (m *MemoryImageStorage) Download(ctx context.Context, storageKey string) ([]byte, error) {
	if storageKey == "" {
		return nil, ErrKeyRequired
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.objects[storageKey]
	if !ok {
		return nil, fmt.Errorf("object %s: %w", storageKey, shared.ErrNotFound)
	}
	return append([]byte(nil), data...), nil
}

// DeleteObject removes the key if present
func (m *MemoryImageStorage) DeleteObject(ctx context.Context, storageKey string) error {
	if storageKey == "" {
		return ErrKeyRequired
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, storageKey)
	return nil
}

// Len counts stored objects
func (m *MemoryImageStorage) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}

// New picks the backend named by cfg.Driver. S3 buckets are created on
// first start.
func New(ctx context.Context, cfg *config.StorageConfig, logger *zap.Logger) (catalogapp.ImageStorage, error) {
	switch cfg.Driver {
	case "", "memory":
		return NewMemoryImageStorage(), nil
	case "s3":
		s, err := NewS3ImageStorage(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		if err := s.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}
}
