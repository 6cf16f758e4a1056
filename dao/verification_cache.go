package dao

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"carrier-engagement/model"
)

// RedisVerificationCache keeps carrier verification snapshots for a fixed TTL.
type RedisVerificationCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisVerificationCache(addr, password string, db int, ttl time.Duration) *RedisVerificationCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisVerificationCache{client: rdb, ttl: ttl}
}

func verificationKey(mc string) string {
	return fmt.Sprintf("carrier:verification:%s", mc)
}

// Get returns nil, nil on a cache miss.
func (c *RedisVerificationCache) Get(ctx context.Context, mc string) (*model.CarrierVerification, error) {
	raw, err := c.client.Get(ctx, verificationKey(mc)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var v model.CarrierVerification
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode cached verification: %w", err)
	}
	return &v, nil
}

func (c *RedisVerificationCache) Set(ctx context.Context, v *model.CarrierVerification) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, verificationKey(v.MCNumber), raw, c.ttl).Err()
}

func (c *RedisVerificationCache) Close() error {
	return c.client.Close()
}
