package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"guarded-chat-be/pkg/events"
)

// ClusterEventsChannel is the Redis pub/sub channel shared by all instances.
const ClusterEventsChannel = "cluster_events"

type RedisForwarder struct {
	rdb     *redis.Client
	channel string
}

var _ events.Publisher = &RedisForwarder{}

func NewRedisForwarder(rdb *redis.Client) *RedisForwarder {
	return &RedisForwarder{rdb: rdb, channel: ClusterEventsChannel}
}

func (f *RedisForwarder) Publish(ctx context.Context, event events.Event) error {
	if f.rdb == nil {
		return nil
	}

	payload, err := json.Marshal(map[string]interface{}{
		"type":        event.EventType(),
		"payload":     event.Payload(),
		"occurred_at": event.Timestamp(),
	})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := f.rdb.Publish(ctx, f.channel, payload).Err(); err != nil {
		return fmt.Errorf("redis publish to %s: %w", f.channel, err)
	}
	return nil
}
