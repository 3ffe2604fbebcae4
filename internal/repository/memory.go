package repository

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"theatre-forms/internal/models"
)

// InMemoryRecordLog keeps serialized lines in memory. Err, when set, is
// returned from every Append to simulate an unavailable store.
type InMemoryRecordLog struct {
	mu     sync.RWMutex
	lines  []string
	Err    error
	tracer trace.Tracer
}

func NewInMemoryRecordLog() *InMemoryRecordLog {
	return &InMemoryRecordLog{tracer: otel.Tracer("record-log")}
}

func (l *InMemoryRecordLog) Append(ctx context.Context, record models.Record) error {
	_, span := l.tracer.Start(ctx, "record_log.memory.append",
		trace.WithAttributes(
			attribute.String("record.kind", record.Kind()),
			attribute.String("operation", "storage.append"),
		))
	defer span.End()

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.Err != nil {
		span.RecordError(l.Err)
		return l.Err
	}

	l.lines = append(l.lines, FormatLine(record))
	span.SetAttributes(attribute.Bool("success", true))
	return nil
}

func (l *InMemoryRecordLog) Lines() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

type InMemorySubscriberRepository struct {
	mu     sync.Mutex
	set    *models.SubscriberSet
	tracer trace.Tracer
}

func NewInMemorySubscriberRepository() *InMemorySubscriberRepository {
	return &InMemorySubscriberRepository{
		set:    models.NewSubscriberSet(),
		tracer: otel.Tracer("subscriber-repository"),
	}
}

func (r *InMemorySubscriberRepository) Exists(ctx context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.set.Contains(email), nil
}

func (r *InMemorySubscriberRepository) InsertIfAbsent(ctx context.Context, email string) error {
	_, span := r.tracer.Start(ctx, "subscriber.repository.insert",
		trace.WithAttributes(
			attribute.String("operation", "storage.append"),
		))
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.set.Add(email) {
		span.SetAttributes(attribute.Bool("duplicate", true))
		return models.ErrAlreadySubscribed
	}

	span.SetAttributes(attribute.Bool("success", true))
	return nil
}

func (r *InMemorySubscriberRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.set.Len()
}
