// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/danielhkuo/feedbackform/logger"
	"github.com/danielhkuo/feedbackform/models"
)

const (
	// KeyPrefix namespaces public form views in Redis
	KeyPrefix = "feedbackform:public:"
	// DefaultTTL bounds how long a public view may be served stale
	DefaultTTL = 10 * time.Minute
)

// FormCache stores rendered public form views by slug.
type FormCache interface {
	Get(ctx context.Context, slug string) (*models.FormDetail, bool)
	Set(ctx context.Context, slug string, detail *models.FormDetail)
	Invalidate(ctx context.Context, slug string)
}

// Noop never caches anything.
type Noop struct{}

func (Noop) Get(context.Context, string) (*models.FormDetail, bool) { return nil, false }
func (Noop) Set(context.Context, string, *models.FormDetail)        {}
func (Noop) Invalidate(context.Context, string)                     {}

// Redis caches public views as JSON. Failures are logged and treated as
// misses so the database stays the source of truth.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Redis{client: client, ttl: ttl}
}

// Connect parses a redis:// URL, applies pool and timeout settings and
// pings the server.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	opt.PoolSize = 10
	opt.MinIdleConns = 2
	opt.MaxRetries = 3
	opt.DialTimeout = 5 * time.Second
	opt.ReadTimeout = 3 * time.Second
	opt.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}

func key(slug string) string {
	return KeyPrefix + slug
}

func (c *Redis) Get(ctx context.Context, slug string) (*models.FormDetail, bool) {
	raw, err := c.client.Get(ctx, key(slug)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		logger.Log.Warn("cache get failed", zap.String("slug", slug), zap.Error(err))
		return nil, false
	}

	var detail models.FormDetail
	if err := json.Unmarshal(raw, &detail); err != nil {
		logger.Log.Warn("cache entry corrupt", zap.String("slug", slug), zap.Error(err))
		c.Invalidate(ctx, slug)
		return nil, false
	}
	return &detail, true
}

func (c *Redis) Set(ctx context.Context, slug string, detail *models.FormDetail) {
	raw, err := json.Marshal(detail)
	if err != nil {
		logger.Log.Warn("cache encode failed", zap.String("slug", slug), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, key(slug), raw, c.ttl).Err(); err != nil {
		logger.Log.Warn("cache set failed", zap.String("slug", slug), zap.Error(err))
	}
}

func (c *Redis) Invalidate(ctx context.Context, slug string) {
	if err := c.client.Del(ctx, key(slug)).Err(); err != nil {
		logger.Log.Warn("cache invalidate failed", zap.String("slug", slug), zap.Error(err))
	}
}
