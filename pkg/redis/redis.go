package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/guialocal/guialocal-backend/config"
	"github.com/guialocal/guialocal-backend/pkg/logger"
	"github.com/guialocal/guialocal-backend/pkg/places"
	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// Init connects to Redis and verifies the connection with a ping.
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"addr": cfg.Addr,
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"addr": cfg.Addr,
		})
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully")
	return nil
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection")
		return client.Close()
	}
	return nil
}

// PlacesCache keeps first-page text search responses so repeated hybrid
// searches for the same term do not spend provider quota.
type PlacesCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewPlacesCache(rdb redis.Cmdable, ttl time.Duration) *PlacesCache {
	return &PlacesCache{rdb: rdb, ttl: ttl}
}

// GetTextSearch returns a cached response. Redis errors count as a miss.
func (c *PlacesCache) GetTextSearch(ctx context.Context, key string) (*places.TextSearchResponse, bool) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		logger.Warn("Places cache read failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return nil, false
	}

	var resp places.TextSearchResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		logger.Warn("Discarding corrupt places cache entry", map[string]interface{}{
			"key": key,
		})
		return nil, false
	}
	logger.Debug("Places cache hit", map[string]interface{}{
		"key":     key,
		"results": len(resp.Results),
	})
	return &resp, true
}

// SetTextSearch stores resp. Failures are logged and otherwise ignored.
func (c *PlacesCache) SetTextSearch(ctx context.Context, key string, resp *places.TextSearchResponse) {
	raw, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		logger.Warn("Places cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}
