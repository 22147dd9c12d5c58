package taxonomy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jonesrussell/pulse-analytics/internal/domain"
	"github.com/jonesrussell/pulse-analytics/internal/logger"
)

const connectionTimeout = 2 * time.Second

// Cache is a TTL-bounded Redis cache for per-topic taxonomy lookups.
// Topic configuration changes rarely, so a short TTL bounds staleness while
// keeping the hot path off Postgres. Redis failures degrade to cache misses;
// the cache is never a correctness dependency.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	log    logger.Logger
}

// NewRedisClient creates a Redis client and verifies connectivity.
func NewRedisClient(addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	pingCtx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
	defer cancel()

	if pingErr := client.Ping(pingCtx).Err(); pingErr != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", pingErr)
	}
	return client, nil
}

// NewCache creates a taxonomy cache. A nil client disables caching entirely.
func NewCache(client *redis.Client, ttl time.Duration, log logger.Logger) *Cache {
	return &Cache{client: client, ttl: ttl, log: log}
}

func taxonomyKey(topicID int64) string {
	return fmt.Sprintf("taxonomy:topic:%d", topicID)
}

// Get returns the cached taxonomy for a topic, or nil on miss.
func (c *Cache) Get(ctx context.Context, topicID int64) domain.Taxonomy {
	if c == nil || c.client == nil {
		return nil
	}

	data, err := c.client.Get(ctx, taxonomyKey(topicID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("taxonomy cache read failed",
				logger.Int64("topic_id", topicID),
				logger.Error(err),
			)
		}
		return nil
	}

	var taxonomy domain.Taxonomy
	if unmarshalErr := json.Unmarshal(data, &taxonomy); unmarshalErr != nil {
		c.log.Warn("taxonomy cache entry corrupt, dropping",
			logger.Int64("topic_id", topicID),
			logger.Error(unmarshalErr),
		)
		_ = c.client.Del(ctx, taxonomyKey(topicID)).Err()
		return nil
	}
	return taxonomy
}

// Set stores a taxonomy with the configured TTL. Failures are logged only.
func (c *Cache) Set(ctx context.Context, topicID int64, taxonomy domain.Taxonomy) {
	if c == nil || c.client == nil {
		return
	}

	data, err := json.Marshal(taxonomy)
	if err != nil {
		c.log.Warn("taxonomy cache encode failed",
			logger.Int64("topic_id", topicID),
			logger.Error(err),
		)
		return
	}

	if setErr := c.client.Set(ctx, taxonomyKey(topicID), data, c.ttl).Err(); setErr != nil {
		c.log.Warn("taxonomy cache write failed",
			logger.Int64("topic_id", topicID),
			logger.Error(setErr),
		)
	}
}
