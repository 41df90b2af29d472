package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Entry represents a cached generation response
type Entry struct {
	Key       string    `json:"key"`
	Response  string    `json:"response"`
	ModelName string    `json:"model_name"`
	CachedAt  time.Time `json:"cached_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Hits      int64     `json:"hits"`
}

// Config defines cache configuration
type Config struct {
	Enabled       bool          `json:"enabled"`
	DefaultTTL    time.Duration `json:"default_ttl"`
	MaxSize       int           `json:"max_size"`
	CleanupPeriod time.Duration `json:"cleanup_period"`
}

// DefaultConfig returns sensible defaults for caching
func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		DefaultTTL:    1 * time.Hour,
		MaxSize:       10000,
		CleanupPeriod: 5 * time.Minute,
	}
}

// Backend is the interface for cache storage backends
type Backend interface {
	Get(ctx context.Context, key string) (*Entry, bool)
	Set(ctx context.Context, key, response, modelName string, ttl time.Duration) error
	Delete(ctx context.Context, key string)
	Clear(ctx context.Context)
	GetStats(ctx context.Context) *Stats
}

// Stats tracks cache performance
type Stats struct {
	Hits         int64   `json:"hits"`
	Misses       int64   `json:"misses"`
	Evictions    int64   `json:"evictions"`
	TotalEntries int64   `json:"total_entries"`
	HitRate      float64 `json:"hit_rate"`
}

// Cache provides response caching for LLM generations. Identical prompts
// against the same model reuse the stored completion until it expires.
type Cache struct {
	backend Backend
	config  *Config
	entries map[string]*Entry
	mu      sync.RWMutex
	stats   *Stats
}

// New creates a new in-memory cache instance
func New(config *Config) *Cache {
	if config == nil {
		config = DefaultConfig()
	}

	c := &Cache{
		config:  config,
		entries: make(map[string]*Entry),
		stats:   &Stats{},
	}

	// Start background cleanup goroutine
	if config.Enabled && config.CleanupPeriod > 0 {
		go c.cleanupLoop()
	}

	return c
}

// NewFromRedis creates a cache instance backed by Redis
func NewFromRedis(redisCache *RedisCache) *Cache {
	return &Cache{
		backend: redisCache,
		config:  redisCache.config,
		stats:   redisCache.stats,
	}
}

// GenerateKey creates a cache key from a model and request payload
func GenerateKey(model string, request interface{}) (string, error) {
	// Serialize request to JSON for consistent hashing
	reqBytes, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	hasher := sha256.New()
	hasher.Write([]byte(model))
	hasher.Write([]byte(":"))
	hasher.Write(reqBytes)

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// Get retrieves a cached response if available and not expired
func (c *Cache) Get(ctx context.Context, key string) (*Entry, bool) {
	if !c.config.Enabled {
		return nil, false
	}

	if c.backend != nil {
		return c.backend.Get(ctx, key)
	}

	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists {
		c.updateStats(false)
		return nil, false
	}

	// Check expiration
	if time.Now().After(entry.ExpiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		c.updateStats(false)
		return nil, false
	}

	c.mu.Lock()
	entry.Hits++
	c.mu.Unlock()

	c.updateStats(true)
	return entry, true
}

// Set stores a response in the cache
func (c *Cache) Set(ctx context.Context, key, response, modelName string, ttl time.Duration) error {
	if !c.config.Enabled {
		return nil
	}

	if c.backend != nil {
		return c.backend.Set(ctx, key, response, modelName, ttl)
	}

	if ttl == 0 {
		ttl = c.config.DefaultTTL
	}

	entry := &Entry{
		Key:       key,
		Response:  response,
		ModelName: modelName,
		CachedAt:  time.Now(),
		ExpiresAt: time.Now().Add(ttl),
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.config.MaxSize {
		c.evictOldest()
	}

	c.entries[key] = entry
	return nil
}

// Delete removes an entry from the cache
func (c *Cache) Delete(ctx context.Context, key string) {
	if !c.config.Enabled {
		return
	}

	if c.backend != nil {
		c.backend.Delete(ctx, key)
		return
	}

	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Clear removes all entries from the cache
func (c *Cache) Clear(ctx context.Context) {
	if !c.config.Enabled {
		return
	}

	if c.backend != nil {
		c.backend.Clear(ctx)
		return
	}

	c.mu.Lock()
	c.entries = make(map[string]*Entry)
	c.mu.Unlock()
}

// GetStats returns current cache statistics
func (c *Cache) GetStats(ctx context.Context) *Stats {
	if c.backend != nil {
		return c.backend.GetStats(ctx)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := *c.stats
	stats.TotalEntries = int64(len(c.entries))

	total := stats.Hits + stats.Misses
	if total > 0 {
		stats.HitRate = float64(stats.Hits) / float64(total)
	}

	return &stats
}

// cleanupLoop periodically removes expired entries
func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(c.config.CleanupPeriod)
	defer ticker.Stop()

	for range ticker.C {
		c.cleanup()
	}
}

func (c *Cache) cleanup() {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	for key, entry := range c.entries {
		if now.After(entry.ExpiresAt) {
			delete(c.entries, key)
		}
	}
}

// evictOldest removes the oldest entry by CachedAt timestamp
func (c *Cache) evictOldest() {
	var oldestKey string
	var oldestTime time.Time
	first := true

	for key, entry := range c.entries {
		if first || entry.CachedAt.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.CachedAt
			first = false
		}
	}

	if oldestKey != "" {
		delete(c.entries, oldestKey)
		c.stats.Evictions++
	}
}

func (c *Cache) updateStats(hit bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if hit {
		c.stats.Hits++
	} else {
		c.stats.Misses++
	}
}
