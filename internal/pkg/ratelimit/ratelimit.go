// Package ratelimit provides the best-effort abuse controls in front of the
// event sink and the subscribe endpoint: reset-at window counters and a
// set-if-absent dedupe primitive.
//
// A Redis store is used when the cache is configured. The in-process
// fallback does not survive restarts and does not span instances, so its
// guarantees are best-effort only; it is an abuse deterrent, not a
// correctness mechanism.
package ratelimit

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Window is one limit applied to a hit. A request must pass every window it
// is checked against.
type Window struct {
	Name  string
	Limit int64
	Per   time.Duration
}

// Result reports a limiter decision. RetryAfter is the whole seconds until
// the denying window resets.
type Result struct {
	Allowed    bool
	RetryAfter int
}

// Store is the counter backend: a window counter keyed by (identity,
// purpose) and a set-if-absent-with-expiry primitive.
type Store interface {
	Hit(ctx context.Context, key string, window time.Duration) (count int64, resetAt time.Time, err error)
	SetNX(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// Limiter evaluates windows against a store.
type Limiter struct {
	store Store
}

// New builds a limiter on Redis when a client is supplied, otherwise on the
// in-process fallback store.
func New(rdb *redis.Client) *Limiter {
	if rdb != nil {
		return &Limiter{store: &redisStore{rdb: rdb}}
	}
	return &Limiter{store: NewMemoryStore(10000)}
}

// NewWithStore builds a limiter on an explicit store.
func NewWithStore(store Store) *Limiter {
	return &Limiter{store: store}
}

// Allow applies every window to the identity and returns the first denial.
// Store failures fail open: a broken counter backend must not take the
// public endpoints down with it.
func (l *Limiter) Allow(ctx context.Context, identity string, windows ...Window) Result {
	now := time.Now()
	for _, w := range windows {
		key := fmt.Sprintf("ratelimit:%s:%s", w.Name, identity)
		count, resetAt, err := l.store.Hit(ctx, key, w.Per)
		if err != nil {
			log.Printf("ratelimit: store failure for %s, failing open: %v", key, err)
			continue
		}
		if count > w.Limit {
			retry := int(resetAt.Sub(now).Seconds())
			if retry < 1 {
				retry = 1
			}
			return Result{Allowed: false, RetryAfter: retry}
		}
	}
	return Result{Allowed: true}
}

// DedupeOnce reports whether this is the first hit for the key within ttl.
// Redundant hits return false and the caller acknowledges them without
// persisting. Store failures fail open as a first hit.
func (l *Limiter) DedupeOnce(ctx context.Context, key string, ttl time.Duration) bool {
	first, err := l.store.SetNX(ctx, "dedupe:"+key, ttl)
	if err != nil {
		log.Printf("ratelimit: dedupe store failure for %s, failing open: %v", key, err)
		return true
	}
	return first
}

// redisStore backs the limiter with Redis.
type redisStore struct {
	rdb *redis.Client
}

func (s *redisStore) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Time, error) {
	pipe := s.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	ttl := pipe.TTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, time.Time{}, err
	}
	remaining := ttl.Val()
	if remaining < 0 {
		remaining = window
	}
	return incr.Val(), time.Now().Add(remaining), nil
}

func (s *redisStore) SetNX(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return s.rdb.SetNX(ctx, key, "1", ttl).Result()
}

// memoryEntry is one {count, resetAt} counter of the fallback store.
type memoryEntry struct {
	count   int64
	resetAt time.Time
}

// MemoryStore is the in-process fallback. Stale entries are evicted
// opportunistically once the map grows past maxEntries.
type MemoryStore struct {
	mu         sync.Mutex
	entries    map[string]*memoryEntry
	maxEntries int
}

// NewMemoryStore builds an in-process store capped around maxEntries.
func NewMemoryStore(maxEntries int) *MemoryStore {
	if maxEntries <= 0 {
		maxEntries = 10000
	}
	return &MemoryStore{
		entries:    make(map[string]*memoryEntry),
		maxEntries: maxEntries,
	}
}

func (s *MemoryStore) Hit(_ context.Context, key string, window time.Duration) (int64, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.evictLocked(now)

	e, ok := s.entries[key]
	if !ok || now.After(e.resetAt) {
		e = &memoryEntry{resetAt: now.Add(window)}
		s.entries[key] = e
	}
	e.count++
	return e.count, e.resetAt, nil
}

func (s *MemoryStore) SetNX(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.evictLocked(now)

	if e, ok := s.entries[key]; ok && now.Before(e.resetAt) {
		return false, nil
	}
	s.entries[key] = &memoryEntry{count: 1, resetAt: now.Add(ttl)}
	return true, nil
}

// evictLocked drops expired entries once the map has grown past the
// threshold. Called with the lock held.
func (s *MemoryStore) evictLocked(now time.Time) {
	if len(s.entries) <= s.maxEntries {
		return
	}
	for key, e := range s.entries {
		if now.After(e.resetAt) {
			delete(s.entries, key)
		}
	}
}
