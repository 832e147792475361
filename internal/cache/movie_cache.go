// Package cache keeps rendered movie list pages in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"moviehub/internal/microservices/http-api/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const pageKeyPattern = "movies:page:*"

// MovieCache is read-through storage for movies(page, limit) results.
// Redis failures are logged and treated as misses. A nil *MovieCache is a
// disabled cache.
type MovieCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewMovieCache connects to the Redis instance at url and verifies it.
func NewMovieCache(url, password string, ttl time.Duration, log *zap.Logger) (*MovieCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if password != "" {
		opt.Password = password
	}
	opt.DialTimeout = 5 * time.Second
	opt.ReadTimeout = 3 * time.Second
	opt.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewMovieCacheWithClient(client, ttl, log), nil
}

// NewMovieCacheWithClient wraps an existing client.
func NewMovieCacheWithClient(client *redis.Client, ttl time.Duration, log *zap.Logger) *MovieCache {
	if log == nil {
		log = zap.NewNop()
	}
	return &MovieCache{client: client, ttl: ttl, log: log}
}

func pageKey(page, limit int) string {
	return fmt.Sprintf("movies:page:%d:%d", page, limit)
}

// GetPage returns the cached page and whether it was a hit.
func (c *MovieCache) GetPage(ctx context.Context, page, limit int) ([]models.Movie, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	val, err := c.client.Get(ctx, pageKey(page, limit)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("movie cache read failed", zap.Int("page", page), zap.Int("limit", limit), zap.Error(err))
		}
		return nil, false
	}

	var movies []models.Movie
	if err := json.Unmarshal(val, &movies); err != nil {
		c.log.Warn("movie cache entry corrupt", zap.Int("page", page), zap.Error(err))
		return nil, false
	}
	return movies, true
}

func (c *MovieCache) SetPage(ctx context.Context, page, limit int, movies []models.Movie) {
	if c == nil || c.client == nil || c.ttl <= 0 {
		return
	}

	data, err := json.Marshal(movies)
	if err != nil {
		c.log.Warn("movie cache encode failed", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, pageKey(page, limit), data, c.ttl).Err(); err != nil {
		c.log.Warn("movie cache write failed", zap.Int("page", page), zap.Error(err))
	}
}

// Invalidate drops every cached page. Used after catalog writes.
func (c *MovieCache) Invalidate(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}

	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pageKeyPattern, 100).Result()
		if err != nil {
			return fmt.Errorf("scan movie cache: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("delete movie cache keys: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

func (c *MovieCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
