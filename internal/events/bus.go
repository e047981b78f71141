// Package events is the in-process event bus. Auth flow outcomes and
// newsletter sign-ups are published here and consumed by the audit log.
package events

import (
	"context"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Message is the structure passed between components on the bus.
type Message struct {
	// Topic identifies the channel the message belongs to (e.g. "auth.events").
	Topic string
	// VisitorID identifies the browser session that caused the message.
	VisitorID string
	Payload   []byte
	Metadata  map[string]string
}

// Handler processes a received message.
type Handler func(ctx context.Context, msg Message) error

// Publisher sends messages to the bus.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

// Subscriber receives messages from the bus.
type Subscriber interface {
	// Subscribe starts handling messages on topic in the background until ctx
	// is canceled or the bus is closed.
	Subscribe(ctx context.Context, topic string, handler Handler) error
	Close() error
}

// Bus is both ends of the event bus.
type Bus interface {
	Publisher
	Subscriber
}

const (
	metaKeyVisitorID = "visitor_id"
	metaKeyTopic     = "topic"
)

// WatermillBridge implements Bus on watermill's in-memory GoChannel.
type WatermillBridge struct {
	pub        message.Publisher
	sub        message.Subscriber
	logger     watermill.LoggerAdapter
	tracer     trace.Tracer
	propagator propagation.TextMapPropagator
}

// BridgeOption configures a WatermillBridge.
type BridgeOption func(*WatermillBridge)

// WithTracer records a span for every publish and every handled message.
func WithTracer(tracer trace.Tracer) BridgeOption {
	return func(wb *WatermillBridge) { wb.tracer = tracer }
}

// NewWatermillBridge creates an in-memory bus.
func NewWatermillBridge(opts ...BridgeOption) *WatermillBridge {
	logger := watermill.NewStdLogger(false, false)
	goChannel := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		logger,
	)

	wb := &WatermillBridge{
		pub:        goChannel,
		sub:        goChannel,
		logger:     logger,
		tracer:     noop.NewTracerProvider().Tracer(tracerName),
		propagator: propagation.TraceContext{},
	}
	for _, opt := range opts {
		opt(wb)
	}
	return wb
}

func toWatermill(msg Message) *message.Message {
	wmMsg := message.NewMessage(watermill.NewUUID(), msg.Payload)
	wmMsg.Metadata.Set(metaKeyVisitorID, msg.VisitorID)
	wmMsg.Metadata.Set(metaKeyTopic, msg.Topic)
	for k, v := range msg.Metadata {
		wmMsg.Metadata.Set(k, v)
	}
	return wmMsg
}

func (wb *WatermillBridge) fromWatermill(wmMsg *message.Message) Message {
	skip := map[string]bool{metaKeyVisitorID: true, metaKeyTopic: true}
	for _, field := range wb.propagator.Fields() {
		skip[field] = true
	}

	metadata := make(map[string]string)
	for k, v := range wmMsg.Metadata {
		if !skip[k] {
			metadata[k] = v
		}
	}
	return Message{
		Topic:     wmMsg.Metadata.Get(metaKeyTopic),
		VisitorID: wmMsg.Metadata.Get(metaKeyVisitorID),
		Payload:   wmMsg.Payload,
		Metadata:  metadata,
	}
}

// Publish implements Publisher. The span context travels in the message
// metadata, since GoChannel hands subscribers a copy without the context.
func (wb *WatermillBridge) Publish(ctx context.Context, msg Message) error {
	ctx, span := wb.tracer.Start(ctx, "events.publish."+msg.Topic,
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(messageAttributes("publish", msg)...),
	)
	defer span.End()

	wmMsg := toWatermill(msg)
	wb.propagator.Inject(ctx, propagation.MapCarrier(wmMsg.Metadata))

	if err := wb.pub.Publish(msg.Topic, wmMsg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// Subscribe implements Subscriber. It returns once the subscription is
// active; messages are handled on a background goroutine.
func (wb *WatermillBridge) Subscribe(ctx context.Context, topic string, handler Handler) error {
	messages, err := wb.sub.Subscribe(ctx, topic)
	if err != nil {
		return err
	}

	go func() {
		for wmMsg := range messages {
			wb.handle(ctx, topic, wmMsg, handler)
			// GoChannel redelivers nacked messages immediately, so a failing
			// handler would spin; failures are logged and acked.
			wmMsg.Ack()
		}
		slog.Debug("Event subscription ended", "topic", topic)
	}()
	return nil
}

func (wb *WatermillBridge) handle(ctx context.Context, topic string, wmMsg *message.Message, handler Handler) {
	msg := wb.fromWatermill(wmMsg)

	ctx = wb.propagator.Extract(ctx, propagation.MapCarrier(wmMsg.Metadata))
	ctx, span := wb.tracer.Start(ctx, "events.process."+topic,
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(messageAttributes("process", msg)...),
	)
	defer span.End()

	if err := handler(ctx, msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.Error("Failed to handle event", "topic", topic, "msg_id", wmMsg.UUID, "error", err)
	}
}

// Close shuts the bus down and ends every subscription.
func (wb *WatermillBridge) Close() error {
	return wb.sub.Close()
}

// Shutdown closes the bus when the app container shuts down.
func (wb *WatermillBridge) Shutdown() error {
	return wb.Close()
}
