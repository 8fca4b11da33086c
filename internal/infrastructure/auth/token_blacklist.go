package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklist invalidates admin credentials before they expire
type TokenBlacklist interface {
	// AddToBlacklist revokes one credential by its id until ttl elapses
	AddToBlacklist(ctx context.Context, jti string, ttl time.Duration) error

	// IsBlacklisted checks whether a credential id was revoked
	IsBlacklisted(ctx context.Context, jti string) (bool, error)

	// InvalidateAdmin revokes every credential issued to an admin so far
	InvalidateAdmin(ctx context.Context, adminID string, ttl time.Duration) error

	// IsAdminTokenInvalidated reports whether a credential issued at
	// issuedAt predates the admin's last invalidation
	IsAdminTokenInvalidated(ctx context.Context, adminID string, issuedAt time.Time) (bool, error)
}

// RedisTokenBlacklist implements TokenBlacklist using Redis
type RedisTokenBlacklist struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisTokenBlacklist creates a blacklist on a shared Redis client
func NewRedisTokenBlacklist(client *redis.Client) *RedisTokenBlacklist {
	return &RedisTokenBlacklist{
		client:    client,
		keyPrefix: "token:blacklist:",
	}
}

func (b *RedisTokenBlacklist) jtiKey(jti string) string {
	return b.keyPrefix + "jti:" + jti
}

func (b *RedisTokenBlacklist) adminKey(adminID string) string {
	return b.keyPrefix + "admin:" + adminID
}

// AddToBlacklist revokes one credential
func (b *RedisTokenBlacklist) AddToBlacklist(ctx context.Context, jti string, ttl time.Duration) error {
	if err := b.client.Set(ctx, b.jtiKey(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to add token to blacklist: %w", err)
	}
	return nil
}

// IsBlacklisted checks whether a credential was revoked
func (b *RedisTokenBlacklist) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	n, err := b.client.Exists(ctx, b.jtiKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	return n > 0, nil
}

// InvalidateAdmin stores the current time as the admin's cut-off
func (b *RedisTokenBlacklist) InvalidateAdmin(ctx context.Context, adminID string, ttl time.Duration) error {
	if err := b.client.Set(ctx, b.adminKey(adminID), time.Now().Unix(), ttl).Err(); err != nil {
		return fmt.Errorf("failed to invalidate admin tokens: %w", err)
	}
	return nil
}

// IsAdminTokenInvalidated compares issuedAt with the stored cut-off
func (b *RedisTokenBlacklist) IsAdminTokenInvalidated(ctx context.Context, adminID string, issuedAt time.Time) (bool, error) {
	raw, err := b.client.Get(ctx, b.adminKey(adminID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check admin token invalidation: %w", err)
	}
	cutoff, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false, fmt.Errorf("failed to parse invalidation timestamp: %w", err)
	}
	return issuedAt.Unix() <= cutoff, nil
}

var _ TokenBlacklist = (*RedisTokenBlacklist)(nil)

// InMemoryTokenBlacklist is a process-local blacklist for single-instance
// deployments and tests
type InMemoryTokenBlacklist struct {
	mu         sync.Mutex
	revoked    map[string]time.Time
	adminStamp map[string]time.Time
	now        func() time.Time
}

// NewInMemoryTokenBlacklist creates a new in-memory token blacklist
func NewInMemoryTokenBlacklist() *InMemoryTokenBlacklist {
	return &InMemoryTokenBlacklist{
		revoked:    make(map[string]time.Time),
		adminStamp: make(map[string]time.Time),
		now:        time.Now,
	}
}

// AddToBlacklist revokes one credential
func (b *InMemoryTokenBlacklist) AddToBlacklist(_ context.Context, jti string, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revoked[jti] = b.now().Add(ttl)
	return nil
}

// IsBlacklisted checks whether a credential was revoked and the entry is live
func (b *InMemoryTokenBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	exp, ok := b.revoked[jti]
	if !ok {
		return false, nil
	}
	if b.now().After(exp) {
		delete(b.revoked, jti)
		return false, nil
	}
	return true, nil
}

// InvalidateAdmin records the current time as the admin's cut-off
func (b *InMemoryTokenBlacklist) InvalidateAdmin(_ context.Context, adminID string, _ time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.adminStamp[adminID] = b.now()
	return nil
}

// IsAdminTokenInvalidated compares issuedAt with the recorded cut-off
func (b *InMemoryTokenBlacklist) IsAdminTokenInvalidated(_ context.Context, adminID string, issuedAt time.Time) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	cutoff, ok := b.adminStamp[adminID]
	if !ok {
		return false, nil
	}
	return !issuedAt.After(cutoff), nil
}

var _ TokenBlacklist = (*InMemoryTokenBlacklist)(nil)
