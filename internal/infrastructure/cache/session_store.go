package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/phonestore/backend/internal/domain/session"
	"github.com/phonestore/backend/internal/domain/shared"
	"github.com/redis/go-redis/v9"
)

const defaultSessionPrefix = "session:"

// RedisSessionStore keeps sessions as JSON values. Every save slides the TTL.
type RedisSessionStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisSessionStore creates a session store on a shared Redis client
func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{
		client:    client,
		keyPrefix: defaultSessionPrefix,
		ttl:       ttl,
	}
}

// Load reads a session, returning shared.ErrNotFound when it is unknown or expired
func (s *RedisSessionStore) Load(ctx context.Context, id string) (*session.Session, error) {
	raw, err := s.client.Get(ctx, s.keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var sess session.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	sess.EnsureCart()
	return &sess, nil
}

// Save writes the session and refreshes its TTL
func (s *RedisSessionStore) Save(ctx context.Context, sess *session.Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.client.Set(ctx, s.keyPrefix+sess.ID, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	sess.Saved()
	return nil
}

// Delete removes the session
func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

var _ session.Store = (*RedisSessionStore)(nil)

// InMemorySessionStore keeps JSON-encoded sessions in process memory, so a
// loaded session never aliases the stored one
type InMemorySessionStore struct {
	mu      sync.Mutex
	entries map[string]sessionEntry
	ttl     time.Duration
	now     func() time.Time
}

type sessionEntry struct {
	data      []byte
	expiresAt time.Time
}

// NewInMemorySessionStore creates an in-memory session store
func NewInMemorySessionStore(ttl time.Duration) *InMemorySessionStore {
	return &InMemorySessionStore{
		entries: make(map[string]sessionEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Load reads a session, returning shared.ErrNotFound when it is unknown or expired
func (s *InMemorySessionStore) Load(_ context.Context, id string) (*session.Session, error) {
	s.mu.Lock()
	e, ok := s.entries[id]
	if ok && !s.now().Before(e.expiresAt) {
		delete(s.entries, id)
		ok = false
	}
	s.mu.Unlock()
	if !ok {
		return nil, shared.ErrNotFound
	}

	var sess session.Session
	if err := json.Unmarshal(e.data, &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	sess.EnsureCart()
	return &sess, nil
}

// Save stores the session and refreshes its TTL
func (s *InMemorySessionStore) Save(_ context.Context, sess *session.Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	s.mu.Lock()
	s.entries[sess.ID] = sessionEntry{data: raw, expiresAt: s.now().Add(s.ttl)}
	s.mu.Unlock()
	sess.Saved()
	return nil
}

// Delete removes the session
func (s *InMemorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
	return nil
}

var _ session.Store = (*InMemorySessionStore)(nil)
