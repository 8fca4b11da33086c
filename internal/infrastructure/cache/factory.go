package cache

import (
	"context"
	"fmt"

	"github.com/phonestore/backend/internal/domain/session"
	"github.com/phonestore/backend/internal/domain/shared"
	"github.com/phonestore/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Stores bundles the Redis-or-memory backed stores
type Stores struct {
	// Client is nil when the in-memory stores are in use
	Client      *redis.Client
	Sessions    session.Store
	Idempotency shared.IdempotencyStore
}

// Close releases the stores and the Redis client
func (s *Stores) Close() error {
	if err := s.Idempotency.Close(); err != nil {
		return err
	}
	if s.Client != nil {
		return s.Client.Close()
	}
	return nil
}

// StoreFactoryOption is a functional option for configuring the factory
type StoreFactoryOption func(*StoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) StoreFactoryOption {
	return func(f *StoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis falls back to
// in-memory stores. Default is true.
func WithInMemoryFallback(allow bool) StoreFactoryOption {
	return func(f *StoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// StoreFactory creates session and idempotency stores from configuration
type StoreFactory struct {
	redisConfig           config.RedisConfig
	sessionConfig         config.SessionConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// NewStoreFactory creates a new factory
func NewStoreFactory(redisCfg config.RedisConfig, sessionCfg config.SessionConfig, opts ...StoreFactoryOption) *StoreFactory {
	f := &StoreFactory{
		redisConfig:           redisCfg,
		sessionConfig:         sessionCfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create builds Redis stores when Redis is configured and reachable, and
// in-memory stores otherwise
func (f *StoreFactory) Create(ctx context.Context) (*Stores, error) {
	if f.redisConfig.Enabled() {
		client, err := NewRedisClient(ctx, f.redisConfig)
		if err == nil {
			f.logger.Info("Using Redis session and idempotency stores", zap.String("addr", f.redisConfig.Addr()))
			return &Stores{
				Client:      client,
				Sessions:    NewRedisSessionStore(client, f.sessionConfig.TTL),
				Idempotency: NewRedisIdempotencyStore(client, ""),
			}, nil
		}
		if !f.allowInMemoryFallback {
			return nil, fmt.Errorf("redis required but unavailable: %w", err)
		}
		f.logger.Warn("Redis unavailable, falling back to in-memory stores. "+
			"Sessions will not be shared between instances.",
			zap.Error(err))
	}
	return f.CreateInMemory(), nil
}

// CreateInMemory builds process-local stores for development and tests
func (f *StoreFactory) CreateInMemory() *Stores {
	return &Stores{
		Sessions:    NewInMemorySessionStore(f.sessionConfig.TTL),
		Idempotency: NewInMemoryIdempotencyStore(),
	}
}
