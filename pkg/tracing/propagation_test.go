package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

const sampleTraceparent = "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01"

func TestTraceparentRoundTrip(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})

	ctx := WithTraceparent(context.Background(), sampleTraceparent)
	assert.Equal(t, sampleTraceparent, Traceparent(ctx))
}

func TestTraceparentEmpty(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})

	ctx := WithTraceparent(context.Background(), "")
	assert.Empty(t, Traceparent(ctx))
}

func TestInjectKafkaHeaders(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})

	ctx := WithTraceparent(context.Background(), sampleTraceparent)
	headers := InjectKafkaHeaders(ctx, nil)
	require.Len(t, headers, 1)
	assert.Equal(t, TraceparentHeader, headers[0].Key)
	assert.Equal(t, sampleTraceparent, string(headers[0].Value))
}
