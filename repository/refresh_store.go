// file: repository/refresh_store.go

package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrStoreUnavailable signals that the backing store could not be reached.
// It is a retryable infrastructure failure and must never be conflated with
// "token not found".
var ErrStoreUnavailable = errors.New("refresh store unavailable")

// RefreshEntry is the metadata recorded alongside an issued refresh token.
type RefreshEntry struct {
	IssuedAt   time.Time `json:"issued_at"`
	DeviceHint string    `json:"device_hint,omitempty"`
}

// IRefreshStore is the single source of truth for refresh token revocation.
// A token is usable for refresh iff it is present here; Remove must be
// visible to every subsequent Contains, including ones racing on other
// connections.
type IRefreshStore interface {
	Add(ctx context.Context, token string, entry RefreshEntry, ttl time.Duration) error
	Contains(ctx context.Context, token string) (bool, error)
	Remove(ctx context.Context, token string) error
}

const refreshKeyPrefix = "refresh:"

// RedisRefreshStore keeps refresh tokens in Redis, keyed by the token string.
// The key TTL mirrors the token's own lifetime, so stale entries expire on
// their own. Redis evaluates each command atomically per key, which is all
// the serialization the contains/remove races require.
type RedisRefreshStore struct {
	client *redis.Client
}

func NewRedisRefreshStore(client *redis.Client) *RedisRefreshStore {
	return &RedisRefreshStore{client: client}
}

func (s *RedisRefreshStore) key(token string) string {
	return refreshKeyPrefix + token
}

func (s *RedisRefreshStore) Add(ctx context.Context, token string, entry RefreshEntry, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("refresh entry ttl must be positive")
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal refresh entry: %w", err)
	}
	if err := s.client.Set(ctx, s.key(token), data, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (s *RedisRefreshStore) Contains(ctx context.Context, token string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(token)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return n > 0, nil
}

func (s *RedisRefreshStore) Remove(ctx context.Context, token string) error {
	// DEL of a missing key is a no-op, which makes logout idempotent.
	if err := s.client.Del(ctx, s.key(token)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// MemoryRefreshStore is a process-local implementation for single-process
// deployments and tests. It is NOT suitable for clustered setups: revocation
// is only visible inside the owning process.
type MemoryRefreshStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	entry     RefreshEntry
	expiresAt time.Time
}

func NewMemoryRefreshStore() *MemoryRefreshStore {
	return &MemoryRefreshStore{entries: make(map[string]memoryEntry)}
}

func (s *MemoryRefreshStore) Add(ctx context.Context, token string, entry RefreshEntry, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("refresh entry ttl must be positive")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[token] = memoryEntry{entry: entry, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *MemoryRefreshStore) Contains(ctx context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[token]
	if !ok {
		return false, nil
	}
	if time.Now().After(e.expiresAt) {
		delete(s.entries, token)
		return false, nil
	}
	return true, nil
}

func (s *MemoryRefreshStore) Remove(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, token)
	return nil
}
