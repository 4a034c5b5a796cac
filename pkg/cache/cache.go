// Package cache provides a small redis-backed cache for immutable
// reference data. Ledger state never goes through here: entries carry a
// bounded TTL and writers invalidate explicitly on update.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"homestay-booking/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// KeyActiveBankAccount holds the platform's receiving account shown in
// payment instructions. Writers invalidate it on account replacement.
const KeyActiveBankAccount = "bank_account:active"

type ReferenceCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func InitRedis(config utils.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}

func NewReferenceCache(client *redis.Client, ttl time.Duration, log *zap.Logger) *ReferenceCache {
	return &ReferenceCache{
		client: client,
		ttl:    ttl,
		log:    log.With(zap.String("component", "cache")),
	}
}

// Get unmarshals the cached value into dest. Returns false on a miss.
// Redis being down or absent degrades to a miss, never to a request
// failure.
func (c *ReferenceCache) Get(ctx context.Context, key string, dest any) bool {
	if c.client == nil {
		return false
	}

	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		c.log.Warn("Cache read failed", zap.Error(err), zap.String("key", key))
		return false
	}

	if err := json.Unmarshal([]byte(val), dest); err != nil {
		c.log.Warn("Cache entry corrupt", zap.Error(err), zap.String("key", key))
		return false
	}

	return true
}

func (c *ReferenceCache) Set(ctx context.Context, key string, value any) {
	if c.client == nil {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		c.log.Warn("Cache marshal failed", zap.Error(err), zap.String("key", key))
		return
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.log.Warn("Cache write failed", zap.Error(err), zap.String("key", key))
	}
}

// Invalidate drops a key after its source of truth changed.
func (c *ReferenceCache) Invalidate(ctx context.Context, key string) {
	if c.client == nil {
		return
	}

	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.log.Warn("Cache invalidation failed", zap.Error(err), zap.String("key", key))
	}
}
