package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestWithTracingAddsSpanIDs(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "info")

	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	logger.InfoWithTracing(ctx, "hello", logrus.Fields{"endpoint": "contact"})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["message"])
	assert.Equal(t, "contact", entry["endpoint"])
	assert.Equal(t, span.SpanContext().TraceID().String(), entry["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), entry["span_id"])
}

func TestUnknownLevelFallsBackToInfo(t *testing.T) {
	logger := newLogger(&bytes.Buffer{}, "loud")
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())

	assert.Equal(t, logrus.WarnLevel, newLogger(&bytes.Buffer{}, "warn").GetLevel())
}
