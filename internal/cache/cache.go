package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	"flood-watch/internal/models"
)

const (
	refreshStatsKey = "floodwatch:refresh:last"
	refreshStatsTTL = 24 * time.Hour
)

type Cache struct {
	Client *redis.Client
}

func New(redisURL string) (*Cache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Cache{Client: client}, nil
}

func (c *Cache) Close() error {
	return c.Client.Close()
}

// SetRefreshStats stores the statistics of the latest refresh.
func (c *Cache) SetRefreshStats(ctx context.Context, s models.RefreshStats) error {
	raw, err := sonic.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode refresh stats: %w", err)
	}
	return c.Client.Set(ctx, refreshStatsKey, raw, refreshStatsTTL).Err()
}

// GetRefreshStats returns the latest refresh statistics. ok is false when none are stored.
func (c *Cache) GetRefreshStats(ctx context.Context) (s models.RefreshStats, ok bool, err error) {
	raw, err := c.Client.Get(ctx, refreshStatsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.RefreshStats{}, false, nil
	}
	if err != nil {
		return models.RefreshStats{}, false, err
	}
	if err := sonic.Unmarshal(raw, &s); err != nil {
		return models.RefreshStats{}, false, fmt.Errorf("decode refresh stats: %w", err)
	}
	return s, true, nil
}
