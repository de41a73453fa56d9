// Package cache implements the Cache: deterministic keyed reuse of
// whole response bundles across a memory/Redis/Postgres tier chain
// (spec §4.7), generalized from the teacher's FSAPCache hybrid-vault
// pattern (DB primary, in-process fallback) into three ordered tiers.
package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"okapiq/pkg/okapiq/model"
)

// Entry is one cached response plus its creation timestamp (spec §4.7
// "Value = the full response bundle plus its creation timestamp").
type Entry struct {
	Response  model.Response `json:"response"`
	CreatedAt time.Time      `json:"created_at"`
}

// Cache reads through memory, then Redis, then Postgres, in that
// order, and writes to every configured tier. Any tier may be nil; the
// remaining tiers still work (spec §6.2 graceful credential absence).
type Cache struct {
	ttl time.Duration
	log zerolog.Logger

	mu      sync.RWMutex
	memory  map[string]Entry
	maxSize int

	redis *redis.Client
	pool  *pgxpool.Pool
}

// New builds a Cache. redisClient and pool may be nil.
func New(ttlSeconds, maxEntries int, redisClient *redis.Client, pool *pgxpool.Pool, log zerolog.Logger) *Cache {
	return &Cache{
		ttl:     time.Duration(ttlSeconds) * time.Second,
		log:     log,
		memory:  make(map[string]Entry),
		maxSize: maxEntries,
		redis:   redisClient,
		pool:    pool,
	}
}

// Get reads through memory -> Redis -> Postgres, in TTL order. A hit
// in a slower tier is back-filled into the faster tiers.
func (c *Cache) Get(ctx context.Context, key string) (Entry, bool) {
	if entry, ok := c.getMemory(key); ok {
		return entry, true
	}
	if entry, ok := c.getRedis(ctx, key); ok {
		c.setMemory(key, entry)
		return entry, true
	}
	if entry, ok := c.getPostgres(ctx, key); ok {
		c.setMemory(key, entry)
		c.setRedis(ctx, key, entry)
		return entry, true
	}
	return Entry{}, false
}

// Set atomically replaces the entry in every configured tier (spec §5
// "writers must atomically replace entries").
func (c *Cache) Set(ctx context.Context, key string, resp model.Response) {
	entry := Entry{Response: resp, CreatedAt: time.Now()}
	c.setMemory(key, entry)
	c.setRedis(ctx, key, entry)
	c.setPostgres(ctx, key, entry)
}

func (c *Cache) getMemory(key string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.memory[key]
	if !ok {
		return Entry{}, false
	}
	if time.Since(entry.CreatedAt) > c.ttl {
		return Entry{}, false
	}
	return entry, true
}

func (c *Cache) setMemory(key string, entry Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.maxSize > 0 && len(c.memory) >= c.maxSize {
		c.evictOldestLocked()
	}
	c.memory[key] = entry
}

// evictOldestLocked drops the single oldest entry; callers hold mu.
func (c *Cache) evictOldestLocked() {
	var oldestKey string
	var oldestTime time.Time
	first := true
	for k, e := range c.memory {
		if first || e.CreatedAt.Before(oldestTime) {
			oldestKey = k
			oldestTime = e.CreatedAt
			first = false
		}
	}
	if oldestKey != "" {
		delete(c.memory, oldestKey)
	}
}

func (c *Cache) getRedis(ctx context.Context, key string) (Entry, bool) {
	if c.redis == nil {
		return Entry{}, false
	}
	raw, err := c.redis.Get(ctx, redisKey(key)).Bytes()
	if err != nil {
		return Entry{}, false
	}
	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		c.log.Warn().Str("component", "cache").Err(err).Msg("redis entry unmarshal failed")
		return Entry{}, false
	}
	return entry, true
}

func (c *Cache) setRedis(ctx context.Context, key string, entry Entry) {
	if c.redis == nil {
		return
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, redisKey(key), raw, c.ttl).Err(); err != nil {
		c.log.Warn().Str("component", "cache").Err(err).Msg("redis write failed")
	}
}

func (c *Cache) getPostgres(ctx context.Context, key string) (Entry, bool) {
	if c.pool == nil {
		return Entry{}, false
	}
	var raw []byte
	var createdAt time.Time
	err := c.pool.QueryRow(ctx,
		`SELECT response, created_at FROM okapiq_response_cache WHERE cache_key = $1`, key,
	).Scan(&raw, &createdAt)
	if err != nil {
		return Entry{}, false
	}
	if time.Since(createdAt) > c.ttl {
		return Entry{}, false
	}
	var resp model.Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		c.log.Warn().Str("component", "cache").Err(err).Msg("postgres entry unmarshal failed")
		return Entry{}, false
	}
	return Entry{Response: resp, CreatedAt: createdAt}, true
}

func (c *Cache) setPostgres(ctx context.Context, key string, entry Entry) {
	if c.pool == nil {
		return
	}
	raw, err := json.Marshal(entry.Response)
	if err != nil {
		return
	}
	_, err = c.pool.Exec(ctx, `
		INSERT INTO okapiq_response_cache (cache_key, response, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (cache_key) DO UPDATE SET response = EXCLUDED.response, created_at = EXCLUDED.created_at
	`, key, raw, entry.CreatedAt)
	if err != nil {
		c.log.Warn().Str("component", "cache").Err(err).Msg("postgres write failed")
	}
}

func redisKey(key string) string {
	return "okapiq:response:" + key
}

// SweepExpired drops expired entries from the in-memory tier. Intended
// to be invoked periodically by a cron job (spec §4.7 "periodic TTL
// sweep"); Redis/Postgres expiry is handled by their own TTL/query path.
func (c *Cache) SweepExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for k, e := range c.memory {
		if time.Since(e.CreatedAt) > c.ttl {
			delete(c.memory, k)
			removed++
		}
	}
	return removed
}

// Size returns the current in-memory entry count, for metrics.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.memory)
}

// EnsureSchema creates the Postgres cache table if it does not already
// exist. A no-op when the Postgres tier is not configured.
func (c *Cache) EnsureSchema(ctx context.Context) error {
	if c.pool == nil {
		return nil
	}
	_, err := c.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS okapiq_response_cache (
			cache_key  TEXT PRIMARY KEY,
			response   JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)
	`)
	return err
}
