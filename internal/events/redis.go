package events

import (
	"context"
	"encoding/json"
	"time"

	"casino_loyalty/internal/logger"

	"github.com/redis/go-redis/v9"
)

type redisPublisher struct {
	cli     *redis.Client
	channel string
}

// NewRedis publishes JSON events on a pub/sub channel. The client is owned by the caller.
func NewRedis(cli *redis.Client, channel string) Publisher {
	if cli == nil {
		return NewNoop()
	}
	if channel == "" {
		channel = "loyalty:events"
	}
	return &redisPublisher{cli: cli, channel: channel}
}

func (p *redisPublisher) Publish(ctx context.Context, evt Event) error {
	b, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return p.cli.Publish(ctx, p.channel, b).Err()
}

func (p *redisPublisher) Close() error { return nil }

// Subscribe delivers events from channel to handle until ctx is cancelled.
// Malformed messages are logged and skipped.
func Subscribe(ctx context.Context, cli *redis.Client, channel string, handle func(Event)) error {
	sub := cli.Subscribe(ctx, channel)
	defer sub.Close()

	// ждём подтверждения подписки
	if _, err := sub.Receive(ctx); err != nil {
		return err
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var evt Event
			if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
				logger.Warn("bad event payload", "channel", channel, "error", err)
				continue
			}
			handle(evt)
		}
	}
}
