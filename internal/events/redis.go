// Package events publishes application events on Redis pub/sub channels.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/dtroode/jobboard/internal/model"
)

// NewRedisClient parses redisURL and verifies connectivity.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return rdb, nil
}

// publisher is the part of *redis.Client the events use.
type publisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

var _ model.EventPublisher = (*RedisPublisher)(nil)

// RedisPublisher sends each event as JSON on the channel named by its type.
type RedisPublisher struct {
	rdb publisher
}

func NewRedisPublisher(rdb publisher) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

func (p *RedisPublisher) Publish(ctx context.Context, event model.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := p.rdb.Publish(ctx, event.Type, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}
	return nil
}

// Noop drops every event. It is used when no Redis URL is configured.
type Noop struct{}

func (Noop) Publish(context.Context, model.Event) error { return nil }
