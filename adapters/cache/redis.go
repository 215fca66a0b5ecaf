// Package cache предоставляет кеш результатов запросов чтения
// поверх Redis.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig конфигурация Redis-кеша
type RedisConfig struct {
	Addr       string
	Password   string
	DB         int
	PoolSize   int
	MaxRetries int
	KeyPrefix  string
	TTL        time.Duration
}

// Validate проверяет корректность конфигурации
func (c RedisConfig) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr cannot be empty")
	}
	if c.TTL <= 0 {
		return fmt.Errorf("TTL must be greater than 0")
	}
	return nil
}

// DefaultRedisConfig возвращает конфигурацию Redis-кеша по умолчанию
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Addr:       "localhost:6379",
		Password:   "",
		DB:         0,
		PoolSize:   10,
		MaxRetries: 3,
		KeyPrefix:  "margherita",
		TTL:        time.Minute,
	}
}

// RedisCache кеш результатов запросов на Redis. Значения хранятся
// как готовые сериализованные ответы с TTL.
type RedisCache struct {
	config RedisConfig
	client *redis.Client
}

// NewRedisCache создает новый Redis-кеш
func NewRedisCache(ctx context.Context, config RedisConfig) (*RedisCache, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid redis config: %w", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr:       config.Addr,
		Password:   config.Password,
		DB:         config.DB,
		PoolSize:   config.PoolSize,
		MaxRetries: config.MaxRetries,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCache{
		config: config,
		client: client,
	}, nil
}

func (c *RedisCache) key(key string) string {
	if c.config.KeyPrefix == "" {
		return key
	}
	return c.config.KeyPrefix + ":" + key
}

// Get возвращает закешированное значение по ключу
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get cached value: %w", err)
	}
	return data, true, nil
}

// Set сохраняет значение в кеш с TTL из конфигурации
func (c *RedisCache) Set(ctx context.Context, key string, value []byte) error {
	if err := c.client.Set(ctx, c.key(key), value, c.config.TTL).Err(); err != nil {
		return fmt.Errorf("failed to cache value: %w", err)
	}
	return nil
}

// Invalidate удаляет значение из кеша
func (c *RedisCache) Invalidate(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached value: %w", err)
	}
	return nil
}

// Close закрывает подключение к Redis
func (c *RedisCache) Close() error {
	return c.client.Close()
}
