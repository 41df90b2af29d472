package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "nichenav:cache:"

// RedisCache implements Backend on a Redis server, so cached generations
// survive restarts and are shared between replicas.
type RedisCache struct {
	client *redis.Client
	config *Config
	stats  *Stats
	mu     sync.Mutex
}

// NewRedisCache connects to Redis and verifies the connection
func NewRedisCache(url string, config *Config) (*RedisCache, error) {
	if config == nil {
		config = DefaultConfig()
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		// Accept bare host:port addresses as well as redis:// URLs.
		opts = &redis.Options{Addr: url}
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisCache{
		client: client,
		config: config,
		stats:  &Stats{},
	}, nil
}

// Get retrieves a cached entry from Redis
func (r *RedisCache) Get(ctx context.Context, key string) (*Entry, bool) {
	data, err := r.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		r.count(false)
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		r.count(false)
		return nil, false
	}

	r.count(true)
	return &entry, true
}

// Set stores an entry in Redis with the given TTL
func (r *RedisCache) Set(ctx context.Context, key, response, modelName string, ttl time.Duration) error {
	if ttl == 0 {
		ttl = r.config.DefaultTTL
	}

	entry := Entry{
		Key:       key,
		Response:  response,
		ModelName: modelName,
		CachedAt:  time.Now(),
		ExpiresAt: time.Now().Add(ttl),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	if err := r.client.Set(ctx, redisKeyPrefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// Delete removes an entry from Redis
func (r *RedisCache) Delete(ctx context.Context, key string) {
	r.client.Del(ctx, redisKeyPrefix+key)
}

// Clear removes all cache entries under the nichenav prefix
func (r *RedisCache) Clear(ctx context.Context) {
	iter := r.client.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		r.client.Del(ctx, iter.Val())
	}
}

// GetStats returns hit/miss counters for this process
func (r *RedisCache) GetStats(ctx context.Context) *Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := *r.stats
	total := stats.Hits + stats.Misses
	if total > 0 {
		stats.HitRate = float64(stats.Hits) / float64(total)
	}
	return &stats
}

// Close releases the Redis connection
func (r *RedisCache) Close() error {
	return r.client.Close()
}

func (r *RedisCache) count(hit bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if hit {
		r.stats.Hits++
	} else {
		r.stats.Misses++
	}
}
