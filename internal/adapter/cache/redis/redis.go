// Package redis caches links by short code in Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shawnmcmahon/shawn-mcmahons-link-shortening-service/internal/entity"
)

const keyPrefix = "link:code:"

const defaultTTL = time.Hour

type linkJSON struct {
	ID          string    `json:"id"`
	ShortCode   string    `json:"short_code"`
	OriginalURL string    `json:"original_url"`
	OwnerID     string    `json:"owner_id"`
	CustomAlias string    `json:"custom_alias,omitempty"`
	ClickCount  int64     `json:"click_count"`
	CreatedAt   time.Time `json:"created_at"`
}

func toJSON(link *entity.Link) linkJSON {
	return linkJSON{
		ID:          link.ID,
		ShortCode:   link.ShortCode,
		OriginalURL: link.OriginalURL,
		OwnerID:     link.OwnerID,
		CustomAlias: link.CustomAlias,
		ClickCount:  link.ClickCount,
		CreatedAt:   link.CreatedAt,
	}
}

func (l *linkJSON) toEntity() *entity.Link {
	return &entity.Link{
		ID:          l.ID,
		ShortCode:   l.ShortCode,
		OriginalURL: l.OriginalURL,
		OwnerID:     l.OwnerID,
		CustomAlias: l.CustomAlias,
		ClickCount:  l.ClickCount,
		CreatedAt:   l.CreatedAt,
	}
}

// LinkCache stores links as JSON with a fixed TTL. Redis failures are logged
// and treated as misses, so the store stays the source of truth.
type LinkCache struct {
	client redis.Cmdable
	ttl    time.Duration
	logger *slog.Logger
}

func NewLinkCache(client redis.Cmdable, ttl time.Duration, logger *slog.Logger) *LinkCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &LinkCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func key(shortCode string) string {
	return keyPrefix + shortCode
}

func (c *LinkCache) Get(ctx context.Context, shortCode string) (*entity.Link, bool) {
	data, err := c.client.Get(ctx, key(shortCode)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.WarnContext(ctx, "failed to get link from cache", slog.String("short_code", shortCode), slog.Any("err", err))
		}
		return nil, false
	}

	var link linkJSON
	if err := json.Unmarshal([]byte(data), &link); err != nil {
		c.logger.WarnContext(ctx, "failed to decode cached link", slog.String("short_code", shortCode), slog.Any("err", err))
		return nil, false
	}

	return link.toEntity(), true
}

func (c *LinkCache) Set(ctx context.Context, link *entity.Link) {
	data, err := json.Marshal(toJSON(link))
	if err != nil {
		c.logger.WarnContext(ctx, "failed to encode link", slog.String("short_code", link.ShortCode), slog.Any("err", err))
		return
	}

	if err := c.client.Set(ctx, key(link.ShortCode), string(data), c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "failed to put link into cache", slog.String("short_code", link.ShortCode), slog.Any("err", err))
	}
}

func (c *LinkCache) Delete(ctx context.Context, shortCode string) {
	if err := c.client.Del(ctx, key(shortCode)).Err(); err != nil {
		c.logger.WarnContext(ctx, "failed to evict link from cache", slog.String("short_code", shortCode), slog.Any("err", err))
	}
}

// NewClient connects to Redis and verifies the connection with a PING.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return client, nil
}
