package telemetry

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
)

// TestSpanRecorder is a span exporter that keeps everything in memory so
// tests can assert on instrumentation.
type TestSpanRecorder struct {
	mu    sync.RWMutex
	spans []trace.ReadOnlySpan
}

func NewTestSpanRecorder() *TestSpanRecorder {
	return &TestSpanRecorder{}
}

func (r *TestSpanRecorder) ExportSpans(_ context.Context, spans []trace.ReadOnlySpan) error {
	r.mu.Lock()
	r.spans = append(r.spans, spans...)
	r.mu.Unlock()
	return nil
}

func (r *TestSpanRecorder) Shutdown(context.Context) error { return nil }

func (r *TestSpanRecorder) filter(keep func(trace.ReadOnlySpan) bool) []trace.ReadOnlySpan {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []trace.ReadOnlySpan
	for _, s := range r.spans {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out
}

func (r *TestSpanRecorder) GetSpans() []trace.ReadOnlySpan {
	return r.filter(func(trace.ReadOnlySpan) bool { return true })
}

func (r *TestSpanRecorder) GetSpansByName(name string) []trace.ReadOnlySpan {
	return r.filter(func(s trace.ReadOnlySpan) bool { return s.Name() == name })
}

// GetSpansByAttribute returns spans carrying key with the given string value.
func (r *TestSpanRecorder) GetSpansByAttribute(key, value string) []trace.ReadOnlySpan {
	want := attribute.Key(key)
	return r.filter(func(s trace.ReadOnlySpan) bool {
		for _, kv := range s.Attributes() {
			if kv.Key == want && kv.Value.Type() == attribute.STRING && kv.Value.AsString() == value {
				return true
			}
		}
		return false
	})
}

// GetSpansByOperation matches the "operation" attribute set by the storage,
// cache and notify layers (storage.append, cache.read, notify.send, ...).
func (r *TestSpanRecorder) GetSpansByOperation(operation string) []trace.ReadOnlySpan {
	return r.GetSpansByAttribute("operation", operation)
}

func (r *TestSpanRecorder) Clear() {
	r.mu.Lock()
	r.spans = nil
	r.mu.Unlock()
}

func (r *TestSpanRecorder) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.spans)
}

// InitTestTracing exports synchronously so spans are visible as soon as they end,
// and installs the provider globally because every layer uses otel.Tracer.
func InitTestTracing(recorder *TestSpanRecorder) *trace.TracerProvider {
	tp := trace.NewTracerProvider(
		trace.WithSyncer(recorder),
		trace.WithResource(resource.Default()),
	)
	otel.SetTracerProvider(tp)
	return tp
}
