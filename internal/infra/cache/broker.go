package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"paayo-backend/internal/domain"
)

const (
	notifyChannelPrefix = "notify:user:"
	countChannelPrefix  = "notify:count:"
)

// RedisBroker fans dashboard notifications out over Redis pub/sub. Each
// SSE subscriber gets its own pub/sub connection.
type RedisBroker struct {
	client *redis.Client
	log    zerolog.Logger
}

// NewRedisBroker creates the broker.
func NewRedisBroker(client *redis.Client, logger zerolog.Logger) *RedisBroker {
	return &RedisBroker{client: client, log: logger}
}

var _ domain.NotificationBroker = (*RedisBroker)(nil)

// PublishNotification pushes a notification to the recipient's channel.
func (b *RedisBroker) PublishNotification(ctx context.Context, recipient string, n domain.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	if err := b.client.Publish(ctx, notifyChannelPrefix+recipient, payload).Err(); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}

// PublishUnreadCount pushes the recipient's fresh unread count.
func (b *RedisBroker) PublishUnreadCount(ctx context.Context, recipient string, count int64) error {
	if err := b.client.Publish(ctx, countChannelPrefix+recipient, strconv.FormatInt(count, 10)).Err(); err != nil {
		return fmt.Errorf("publish unread count: %w", err)
	}
	return nil
}

// Subscribe opens a dedicated pub/sub connection for one dashboard client.
func (b *RedisBroker) Subscribe(ctx context.Context, recipient string) (domain.NotificationStream, error) {
	sub := b.client.Subscribe(ctx, notifyChannelPrefix+recipient, countChannelPrefix+recipient)
	// Force the subscription onto the wire before the caller relies on it.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe: %w", err)
	}

	stream := &redisStream{sub: sub, events: make(chan domain.StreamEvent, 16)}
	go stream.pump(ctx, recipient, b.log)
	return stream, nil
}

type redisStream struct {
	sub    *redis.PubSub
	events chan domain.StreamEvent
}

func (s *redisStream) Events() <-chan domain.StreamEvent { return s.events }

func (s *redisStream) Close() error { return s.sub.Close() }

func (s *redisStream) pump(ctx context.Context, recipient string, logger zerolog.Logger) {
	defer close(s.events)
	ch := s.sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			name := "notification"
			if msg.Channel == countChannelPrefix+recipient {
				name = "unread_count"
			}
			select {
			case s.events <- domain.StreamEvent{Name: name, Data: []byte(msg.Payload)}:
			default:
				logger.Warn().Str("recipient", recipient).Msg("broker: subscriber too slow, dropping event")
			}
		}
	}
}
