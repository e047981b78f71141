package events

import (
	"context"
	"encoding/json"
	"fmt"
)

// Topic is a named channel carrying payloads of type T as JSON.
type Topic[T any] struct {
	name string
}

// NewTopic declares a typed topic.
func NewTopic[T any](name string) Topic[T] {
	return Topic[T]{name: name}
}

// Name returns the topic name.
func (t Topic[T]) Name() string { return t.name }

// Publish sends payload on topic. The compiler ensures payload matches T.
func Publish[T any](ctx context.Context, p Publisher, topic Topic[T], visitorID string, payload T) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", topic.name, err)
	}
	return p.Publish(ctx, Message{
		Topic:     topic.name,
		VisitorID: visitorID,
		Payload:   data,
	})
}

// Subscribe registers a handler that receives decoded payloads.
func Subscribe[T any](ctx context.Context, s Subscriber, topic Topic[T], handle func(ctx context.Context, visitorID string, payload T) error) error {
	return s.Subscribe(ctx, topic.name, func(ctx context.Context, msg Message) error {
		var payload T
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return fmt.Errorf("failed to decode %s event: %w", topic.name, err)
		}
		return handle(ctx, msg.VisitorID, payload)
	})
}
