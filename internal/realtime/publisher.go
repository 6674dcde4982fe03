// Package realtime delivers activity events over Redis pub/sub. Each
// recipient has their own channel; delivery is best-effort and the feed is
// re-seedable from the database, so a dropped message is never fatal.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"shelfmate/internal/models"
)

func channelFor(userID string) string {
	return "activity:user:" + userID
}

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(redisURL, password string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if password != "" {
		opts.Password = password
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return rdb, nil
}

type Publisher struct {
	client *redis.Client
}

func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// Publish pushes one activity event to the recipient's channel.
func (p *Publisher) Publish(ctx context.Context, activity *models.Activity) error {
	data, err := json.Marshal(activity)
	if err != nil {
		return fmt.Errorf("marshal activity: %w", err)
	}
	if err := p.client.Publish(ctx, channelFor(activity.UserID), data).Err(); err != nil {
		return fmt.Errorf("publish activity: %w", err)
	}
	return nil
}
