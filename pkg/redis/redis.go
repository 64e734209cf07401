package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"nodex/backend/config"
)

// Client wraps the Redis connection used for realtime notification
// push. Dashboards subscribe to their user channel; the store remains
// the authority on state, so a lost publish only delays the UI until
// the next poll.
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient connects to Redis and pings it.
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connect: %w", err)
	}

	logger.Info("redis connected", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// userChannel is the per-user pub/sub channel for live notifications.
func userChannel(userID string) string {
	return "notify:user:" + userID
}

// PublishNotification pushes a notification payload to the user's
// channel. Best effort: persistence has already happened by the time
// this is called.
func (c *Client) PublishNotification(ctx context.Context, userID string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal notification payload: %w", err)
	}
	return c.rdb.Publish(ctx, userChannel(userID), data).Err()
}

// Subscribe opens a subscription on the user's notification channel.
// The caller owns the returned PubSub and must Close it.
func (c *Client) Subscribe(ctx context.Context, userID string) *goredis.PubSub {
	return c.rdb.Subscribe(ctx, userChannel(userID))
}

// CheckRateLimit counts requests under key within a fixed window and
// reports whether the caller is still under limit. The first hit in a
// window sets the key's expiry.
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	pipe := c.rdb.TxPipeline()
	count := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return count.Val() <= int64(limit), nil
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}
