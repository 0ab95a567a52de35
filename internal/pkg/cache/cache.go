package cache

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/launch6/linkinbio-sub000/internal/pkg/env"
)

var (
	client    *redis.Client
	setupOnce sync.Once
	ctx       = context.Background()
)

// SetupCache initializes the Redis connection once. With no CACHE_HOST
// configured the client stays nil and callers fall back to their in-process
// stores.
func SetupCache() {
	setupOnce.Do(func() {
		host := env.GetEnv("CACHE_HOST", "")
		if host == "" {
			log.Print("cache: CACHE_HOST not set, running without Redis")
			return
		}
		port := env.GetEnv("CACHE_PORT", "6379")

		client = redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%s", host, port),
			Password: env.GetEnv("CACHE_PASSWORD", ""),
			DB:       0, // use default DB
		})

		// Test the connection
		pong, err := client.Ping(ctx).Result()
		if err != nil {
			log.Printf("Warning: Could not connect to Redis cache: %v", err)
		} else {
			log.Printf("Successfully connected to Redis cache: %s", pong)
		}
	})
}

// GetClient returns the Redis client instance; nil when the cache is not
// configured.
func GetClient() *redis.Client {
	SetupCache()
	return client
}

// Set stores a value in the cache with the given key and expiration time
func Set(key string, value interface{}, expiration time.Duration) error {
	c := GetClient()
	if c == nil {
		return fmt.Errorf("cache is not configured")
	}
	return c.Set(ctx, key, value, expiration).Err()
}

// Get retrieves a value from the cache by key
func Get(key string) (string, error) {
	c := GetClient()
	if c == nil {
		return "", fmt.Errorf("cache is not configured")
	}
	return c.Get(ctx, key).Result()
}
