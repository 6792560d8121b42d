package fanout

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"ecotrack-backend/internal/models"
)

// RedisRelay spreads broadcasts across server instances. Broadcast
// publishes to a Redis channel and every instance feeds what it receives
// into its local Hub. Redis pub/sub is fire-and-forget as well, so the
// no-replay guarantee of the Hub is preserved.
type RedisRelay struct {
	client  *redis.Client
	channel string
	hub     *Hub
	log     *zap.Logger

	pubsub *redis.PubSub
	done   chan struct{}
}

func NewRedisRelay(client *redis.Client, channel string, hub *Hub, log *zap.Logger) *RedisRelay {
	return &RedisRelay{
		client:  client,
		channel: channel,
		hub:     hub,
		log:     log,
	}
}

// Start subscribes to the relay channel and returns once Redis has
// confirmed the subscription.
func (r *RedisRelay) Start(ctx context.Context) error {
	const op = "fanout.RedisRelay.Start"

	pubsub := r.client.Subscribe(ctx, r.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return fmt.Errorf("%s: %w", op, err)
	}

	r.pubsub = pubsub
	r.done = make(chan struct{})
	go r.loop(pubsub.Channel())

	r.log.Info("fan-out relay subscribed", zap.String("channel", r.channel))
	return nil
}

func (r *RedisRelay) loop(messages <-chan *redis.Message) {
	defer close(r.done)
	for msg := range messages {
		var event models.Event
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			r.log.Warn("discarding malformed relay message", zap.Error(err))
			continue
		}
		r.hub.Publish(context.Background(), event)
	}
}

// Broadcast publishes event through Redis. If Redis is unreachable the
// event is delivered to local subscribers only.
func (r *RedisRelay) Broadcast(ctx context.Context, event models.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		r.log.Error("encode relay message", zap.Error(err))
		return
	}
	if err := r.client.Publish(ctx, r.channel, data).Err(); err != nil {
		r.log.Warn("relay publish failed, delivering locally", zap.Error(err))
		r.hub.Publish(ctx, event)
	}
}

// Close stops the subscription loop.
func (r *RedisRelay) Close() error {
	if r.pubsub == nil {
		return nil
	}
	err := r.pubsub.Close()
	<-r.done
	r.pubsub = nil
	return err
}
