package database

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"go-jewel-backoffice/internal/config"

	"github.com/go-redis/redis/v8"
)

// Cache is nil when REDIS_ADDR is not set; every helper below is a no-op then.
var Cache *redis.Client

var ErrCacheMiss = errors.New("cache miss")

// ConnectCache opens the Redis client used for hot lookups such as the
// current gold rate. A failed ping leaves caching disabled.
func ConnectCache(cfg config.RedisConfig) {
	if cfg.Addr == "" {
		log.Println("Redis cache disabled (REDIS_ADDR not set)")
		return
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("⚠️ Redis unreachable at %s, cache disabled: %v", cfg.Addr, err)
		return
	}
	Cache = rdb
	log.Printf("✅ Redis cache connected at %s", cfg.Addr)
}

// CacheGet decodes a cached JSON value into dst.
func CacheGet(ctx context.Context, key string, dst interface{}) error {
	if Cache == nil {
		return ErrCacheMiss
	}
	val, err := Cache.Get(ctx, key).Result()
	if err == redis.Nil {
		return ErrCacheMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(val), dst)
}

// CacheSet stores v as JSON for ttl.
func CacheSet(ctx context.Context, key string, v interface{}, ttl time.Duration) {
	if Cache == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("cache: marshal %s: %v", key, err)
		return
	}
	if err := Cache.Set(ctx, key, data, ttl).Err(); err != nil {
		log.Printf("cache: set %s: %v", key, err)
	}
}

// CacheDel drops keys after a write.
func CacheDel(ctx context.Context, keys ...string) {
	if Cache == nil {
		return
	}
	if err := Cache.Del(ctx, keys...).Err(); err != nil {
		log.Printf("cache: del %v: %v", keys, err)
	}
}
