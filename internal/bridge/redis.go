package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"chat-relay/internal/models"
)

// RedisBridge fans relayed envelopes out across relay instances over a
// redis pub/sub channel. Each instance tags what it publishes with its
// own id and ignores those payloads on the way back in, so local peers
// never see an event twice.
type RedisBridge struct {
	client     *redis.Client
	channel    string
	instanceID string
}

// New connects to redis and returns a bridge publishing on channel.
func New(ctx context.Context, addr, channel string) (*RedisBridge, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return &RedisBridge{
		client:     client,
		channel:    channel,
		instanceID: uuid.NewString(),
	}, nil
}

// Publish sends an envelope to the other instances.
func (b *RedisBridge) Publish(ctx context.Context, env models.Envelope) error {
	env.Origin = b.instanceID
	payload, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, b.channel, payload).Err()
}

// Run subscribes to the channel and forwards remote envelopes to handle
// until ctx is cancelled.
func (b *RedisBridge) Run(ctx context.Context, handle func(models.Envelope)) {
	pubsub := b.client.Subscribe(ctx, b.channel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			env, deliver := Decode([]byte(msg.Payload), b.instanceID)
			if deliver {
				handle(env)
			}
		}
	}
}

// Close releases the redis connection.
func (b *RedisBridge) Close() error {
	return b.client.Close()
}

// Decode parses a bridge payload and reports whether it should be
// delivered locally. Own-origin and malformed payloads are skipped.
func Decode(payload []byte, instanceID string) (models.Envelope, bool) {
	var env models.Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		log.Printf("bridge decode failed: %v", err)
		return models.Envelope{}, false
	}
	if env.Origin == instanceID {
		return models.Envelope{}, false
	}
	return env, true
}
