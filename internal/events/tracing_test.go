package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func TestWatermillBridge_TracesAcrossTheBus(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	bus := NewWatermillBridge(WithTracer(tp.Tracer("test")))
	t.Cleanup(func() { _ = bus.Close() })
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan Message, 1)
	require.NoError(t, bus.Subscribe(ctx, "test.topic", func(ctx context.Context, msg Message) error {
		received <- msg
		return errors.New("handler failed")
	}))

	require.NoError(t, bus.Publish(ctx, Message{Topic: "test.topic", VisitorID: "v-1", Payload: []byte("hi")}))

	select {
	case msg := <-received:
		assert.Empty(t, msg.Metadata, "trace headers stay out of the message metadata")
	case <-time.After(time.Second):
		t.Fatal("message not delivered")
	}

	require.Eventually(t, func() bool { return len(recorder.Ended()) == 2 }, time.Second, 10*time.Millisecond)

	spans := map[string]sdktrace.ReadOnlySpan{}
	for _, s := range recorder.Ended() {
		spans[s.Name()] = s
	}
	publish, process := spans["events.publish.test.topic"], spans["events.process.test.topic"]
	require.NotNil(t, publish)
	require.NotNil(t, process)

	assert.Equal(t, trace.SpanKindProducer, publish.SpanKind())
	assert.Equal(t, trace.SpanKindConsumer, process.SpanKind())
	assert.Equal(t, publish.SpanContext().TraceID(), process.SpanContext().TraceID())
	assert.Equal(t, publish.SpanContext().SpanID(), process.Parent().SpanID())
	assert.Equal(t, codes.Error, process.Status().Code)
}

func TestSetupTracing(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled tracing", func(t *testing.T) {
		tracing, err := SetupTracing(ctx, TracingConfig{Enabled: false})
		require.NoError(t, err)

		_, span := tracing.Tracer.Start(ctx, "test")
		assert.False(t, span.SpanContext().IsValid(), "no-op spans carry no ids")
		span.End()

		assert.NoError(t, tracing.Shutdown(ctx))
	})

	t.Run("enabled tracing", func(t *testing.T) {
		tracing, err := SetupTracing(ctx, TracingConfig{
			Enabled:     true,
			ServiceName: "learnova-test",
			ZipkinURL:   "http://localhost:9411/api/v2/spans",
		})
		require.NoError(t, err)

		_, span := tracing.Tracer.Start(ctx, "test")
		assert.True(t, span.SpanContext().IsValid())

		assert.NoError(t, tracing.Shutdown(ctx))
	})

	t.Run("bad zipkin url", func(t *testing.T) {
		_, err := SetupTracing(ctx, TracingConfig{Enabled: true, ZipkinURL: "://nope"})
		assert.Error(t, err)
	})
}
