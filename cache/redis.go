package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// DefaultKeyPrefix namespaces hop results in a shared Redis.
const DefaultKeyPrefix = "pivotlai:"

// scanBatch is the COUNT hint for SCAN during export.
const scanBatch = 500

// RedisCache is a Redis-backed hop result cache.
type RedisCache struct {
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string
	timeout   time.Duration
	logger    log.FieldLogger
}

// RedisConfig holds configuration for the Redis cache.
type RedisConfig struct {
	URL       string        // Redis connection URL (e.g., "redis://localhost:6379")
	TTL       int           // TTL in seconds (0 = no expiration)
	KeyPrefix string        // Prefix for all keys (default: "pivotlai:")
	Timeout   time.Duration // Per-operation timeout (default: 2s)
}

// NewRedisCache creates a new Redis cache and checks the connection.
func NewRedisCache(ctx context.Context, cfg RedisConfig) (*RedisCache, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	c := NewRedisCacheFromClient(client, cfg.TTL, cfg.KeyPrefix)
	if cfg.Timeout > 0 {
		c.timeout = cfg.Timeout
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return c, nil
}

// NewRedisCacheFromClient creates a RedisCache from an existing Redis client.
func NewRedisCacheFromClient(client *redis.Client, ttlSeconds int, keyPrefix string) *RedisCache {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}

	var ttl time.Duration
	if ttlSeconds > 0 {
		ttl = time.Duration(ttlSeconds) * time.Second
	}

	return &RedisCache{
		client:    client,
		ttl:       ttl,
		keyPrefix: keyPrefix,
		timeout:   2 * time.Second,
		logger:    log.StandardLogger(),
	}
}

// WithLogger sets the logger used for swallowed read errors.
func (c *RedisCache) WithLogger(logger log.FieldLogger) *RedisCache {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// Get retrieves a hop result. Redis errors are logged and reported as misses.
func (c *RedisCache) Get(key string) (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	val, err := c.client.Get(ctx, c.keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false
	}
	if err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("redis cache read failed")
		return "", false
	}
	return val, true
}

// Set stores a hop result. A zero TTL stores without expiration.
func (c *RedisCache) Set(key string, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	return c.client.Set(ctx, c.keyPrefix+key, value, c.ttl).Err()
}

// Entries returns all entries under the key prefix, with the prefix stripped.
// Keys that vanish between SCAN and GET are skipped.
func (c *RedisCache) Entries(ctx context.Context) (map[string]string, error) {
	result := make(map[string]string)

	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, c.keyPrefix+"*", scanBatch).Result()
		if err != nil {
			return nil, err
		}

		for _, full := range keys {
			val, err := c.client.Get(ctx, full).Result()
			if errors.Is(err, redis.Nil) {
				continue
			}
			if err != nil {
				return nil, err
			}
			result[strings.TrimPrefix(full, c.keyPrefix)] = val
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	return result, nil
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Ping tests the Redis connection.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

var _ Enumerable = (*RedisCache)(nil)
