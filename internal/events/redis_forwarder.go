package events

import (
	"context"
	"encoding/json"
	"fmt"
)

// Publisher is the subset of a pub/sub client used by RedisForwarder.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// RedisForwarder republishes every dispatched event as JSON on one channel.
type RedisForwarder struct {
	publisher Publisher
	channel   string
}

// NewRedisForwarder builds a forwarder for channel.
func NewRedisForwarder(publisher Publisher, channel string) *RedisForwarder {
	return &RedisForwarder{publisher: publisher, channel: channel}
}

// Register subscribes the forwarder to all event types.
func (f *RedisForwarder) Register(dispatcher Dispatcher) {
	if f == nil || f.publisher == nil || dispatcher == nil || f.channel == "" {
		return
	}
	for _, eventType := range AllEventTypes {
		dispatcher.Subscribe(eventType, f.forward)
	}
}

func (f *RedisForwarder) forward(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", event.Type, err)
	}
	if err := f.publisher.Publish(ctx, f.channel, payload); err != nil {
		return fmt.Errorf("publish event %s: %w", event.Type, err)
	}
	return nil
}
