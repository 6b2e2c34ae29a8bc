package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/aqarmatch/api/internal/config"
)

// Pusher delivers best-effort realtime events to a user's live sessions.
// Delivery is not guaranteed: a user with no live connection simply
// misses the event (the notification row is the durable record).
type Pusher interface {
	PushToUser(ctx context.Context, userID, event string, payload interface{}) error
}

const (
	onlineUsersKey = "realtime:online"
	userChannelFmt = "realtime:user:%s"
)

// redisPusher publishes events on a per-user pub/sub channel. The
// websocket gateway subscribes to its connected users' channels and
// registers presence in the realtime:online set.
type redisPusher struct {
	client *redis.Client
}

// NewPusher connects to Redis and verifies the connection. Returns an
// error when Redis is unreachable; callers are expected to fall back to
// a nil Pusher and keep running without the realtime layer.
func NewPusher(ctx context.Context, cfg *config.Config) (Pusher, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &redisPusher{client: client}, nil
}

func (p *redisPusher) PushToUser(ctx context.Context, userID, event string, payload interface{}) error {
	online, err := p.client.SIsMember(ctx, onlineUsersKey, userID).Result()
	if err != nil {
		return fmt.Errorf("presence check: %w", err)
	}
	if !online {
		return nil
	}
	msg, err := json.Marshal(map[string]interface{}{
		"event":   event,
		"payload": payload,
	})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return p.client.Publish(ctx, fmt.Sprintf(userChannelFmt, userID), msg).Err()
}
