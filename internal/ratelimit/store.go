// Package ratelimit provides the keyed counter store behind the advisory
// submission rate limit. The capability is two operations: read the current
// count for a key and write an incremented count with a fresh expiry.
//
// The read-then-write sequence is deliberately not atomic. Concurrent
// requests from one client may both observe a stale count and both increment,
// over- or under-counting by a little. That is accepted: the limit is an
// abuse brake, not a security boundary, and callers must treat any store
// error as "unknown, assume under limit".
package ratelimit

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is the counter capability consumed by the rate-limit middleware.
type Store interface {
	// Count returns the current value for key, or 0 when the key is absent
	// or its window has expired.
	Count(ctx context.Context, key string) (int, error)
	// Incr stores count+1 for key with an expiry of window from now.
	Incr(ctx context.Context, key string, window time.Duration) error
}

// RedisStore keeps counters in Redis so multiple instances share one limit.
// Counters live under "<prefix><key>" as plain integers with a TTL.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisStore wraps rdb. prefix defaults to "rate_limit:" when empty.
func NewRedisStore(rdb *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "rate_limit:"
	}
	return &RedisStore{rdb: rdb, prefix: prefix}
}

// Count implements Store.
func (s *RedisStore) Count(ctx context.Context, key string) (int, error) {
	v, err := s.rdb.Get(ctx, s.prefix+key).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		// A mangled counter value counts as absent; the window will rewrite it.
		return 0, nil
	}
	return n, nil
}

// Incr implements Store. The expiry is refreshed on every write, matching the
// put-with-TTL semantics of the counter contract.
func (s *RedisStore) Incr(ctx context.Context, key string, window time.Duration) error {
	n, err := s.Count(ctx, key)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, s.prefix+key, strconv.Itoa(n+1), window).Err()
}

// MemoryStore is a process-local Store used in development, tests, and
// deployments without Redis. Entries expire lazily on read.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	count   int
	expires time.Time
}

// MemoryOption customizes a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithClock injects a time source (used by tests to simulate window expiry).
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) { s.now = now }
}

// NewMemoryStore builds an empty in-process counter store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Count implements Store.
func (s *MemoryStore) Count(_ context.Context, key string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ent, ok := s.entries[key]
	if !ok {
		return 0, nil
	}
	if !s.now().Before(ent.expires) {
		delete(s.entries, key)
		return 0, nil
	}
	return ent.count, nil
}

// Incr implements Store.
func (s *MemoryStore) Incr(_ context.Context, key string, window time.Duration) error {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	ent, ok := s.entries[key]
	if !ok || !now.Before(ent.expires) {
		s.entries[key] = memoryEntry{count: 1, expires: now.Add(window)}
		return nil
	}
	s.entries[key] = memoryEntry{count: ent.count + 1, expires: now.Add(window)}
	return nil
}
