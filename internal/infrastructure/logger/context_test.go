package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

func TestFromContextWithoutLogger(t *testing.T) {
	log := FromContext(context.Background())

	require.NotNil(t, log)
	assert.NotPanics(t, func() { log.Info("goes nowhere") })
}

func TestWithContextRoundTrip(t *testing.T) {
	log, _ := observedLogger()
	ctx := WithContext(context.Background(), log)

	assert.Same(t, log, FromContext(ctx))
}

func TestWithRequestID(t *testing.T) {
	log, logs := observedLogger()

	ctx, tagged := WithRequestID(context.Background(), log, "req-123")
	tagged.Info("inventory reconciled")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "req-123", entries[0].ContextMap()["request_id"])

	assert.Equal(t, "req-123", GetRequestID(ctx))

	// The enriched logger is also the one stowed in the context
	FromContext(ctx).Info("second entry")
	entries = logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "req-123", entries[1].ContextMap()["request_id"])
}

func TestWithUserID(t *testing.T) {
	log, logs := observedLogger()

	ctx, tagged := WithUserID(context.Background(), log, "user-42")
	tagged.Warn("password attempt limit reached")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "user-42", entries[0].ContextMap()["user_id"])
	assert.Equal(t, "user-42", GetUserID(ctx))
}

func TestContextAccessorsOnBareContext(t *testing.T) {
	ctx := context.Background()

	assert.Empty(t, GetRequestID(ctx))
	assert.Empty(t, GetUserID(ctx))
}

func TestWithTraceContextNoSpan(t *testing.T) {
	log, _ := observedLogger()

	assert.Same(t, log, WithTraceContext(context.Background(), log))
}

func TestWithTraceContext(t *testing.T) {
	log, logs := observedLogger()

	traceID, err := trace.TraceIDFromHex("0123456789abcdef0123456789abcdef")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("0123456789abcdef")
	require.NoError(t, err)

	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  spanID,
	}))

	WithTraceContext(ctx, log).Info("correlated entry")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, traceID.String(), entries[0].ContextMap()["trace_id"])
	assert.Equal(t, spanID.String(), entries[0].ContextMap()["span_id"])
}
