package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	dapr "github.com/dapr/go-sdk/client"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"theatre-forms/internal/models"
)

// StateClient is the part of the Dapr client the state-store backends use.
type StateClient interface {
	GetState(ctx context.Context, storeName, key string, meta map[string]string) (*dapr.StateItem, error)
	SaveState(ctx context.Context, storeName, key string, data []byte, meta map[string]string, so ...dapr.StateOption) error
}

type storedRecord struct {
	Kind       string    `json:"kind"`
	Fields     []string  `json:"fields"`
	Line       string    `json:"line"`
	RecordedAt time.Time `json:"recorded_at"`
}

// DaprRecordLog saves each record under its own key, "<kind>:<uuid>".
type DaprRecordLog struct {
	client    StateClient
	storeName string
	tracer    trace.Tracer
}

func NewDaprRecordLog(client StateClient, storeName string) *DaprRecordLog {
	return &DaprRecordLog{
		client:    client,
		storeName: storeName,
		tracer:    otel.Tracer("dapr.repository"),
	}
}

func (l *DaprRecordLog) Append(ctx context.Context, record models.Record) error {
	key := fmt.Sprintf("%s:%s", record.Kind(), uuid.NewString())
	ctx, span := l.tracer.Start(ctx, "record_log.dapr.append",
		trace.WithAttributes(
			attribute.String("record.kind", record.Kind()),
			attribute.String("record.key", key),
			attribute.String("operation", "storage.append"),
			attribute.String("dapr.store", l.storeName),
		))
	defer span.End()

	data, err := json.Marshal(storedRecord{
		Kind:       record.Kind(),
		Fields:     record.LogFields(),
		Line:       FormatLine(record),
		RecordedAt: time.Now().UTC(),
	})
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to marshal %s record: %w", record.Kind(), err)
	}

	if err := l.client.SaveState(ctx, l.storeName, key, data, nil); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to save %s record to dapr state store: %w", record.Kind(), err)
	}

	span.SetAttributes(attribute.Bool("success", true))
	return nil
}

// DaprSubscriberRepository keys subscribers by normalized address. The
// existence check and the save are two calls, so concurrent duplicates of the
// same address can both be admitted.
type DaprSubscriberRepository struct {
	client    StateClient
	storeName string
	tracer    trace.Tracer
}

func NewDaprSubscriberRepository(client StateClient, storeName string) *DaprSubscriberRepository {
	return &DaprSubscriberRepository{
		client:    client,
		storeName: storeName,
		tracer:    otel.Tracer("dapr.repository"),
	}
}

func subscriberKey(email string) string {
	return "subscriber:" + models.NormalizeEmail(email)
}

func (r *DaprSubscriberRepository) Exists(ctx context.Context, email string) (bool, error) {
	ctx, span := r.tracer.Start(ctx, "subscriber.repository.exists",
		trace.WithAttributes(
			attribute.String("operation", "storage.read"),
			attribute.String("dapr.store", r.storeName),
		))
	defer span.End()

	item, err := r.client.GetState(ctx, r.storeName, subscriberKey(email), nil)
	if err != nil {
		span.RecordError(err)
		return false, fmt.Errorf("failed to get subscriber from dapr state store: %w", err)
	}

	found := item != nil && len(item.Value) > 0
	span.SetAttributes(attribute.Bool("found", found))
	return found, nil
}

func (r *DaprSubscriberRepository) InsertIfAbsent(ctx context.Context, email string) error {
	ctx, span := r.tracer.Start(ctx, "subscriber.repository.insert",
		trace.WithAttributes(
			attribute.String("operation", "storage.append"),
			attribute.String("dapr.store", r.storeName),
		))
	defer span.End()

	exists, err := r.Exists(ctx, email)
	if err != nil {
		span.RecordError(err)
		return err
	}
	if exists {
		span.SetAttributes(attribute.Bool("duplicate", true))
		return models.ErrAlreadySubscribed
	}

	data, err := json.Marshal(map[string]any{
		"email":         models.NormalizeEmail(email),
		"subscribed_at": time.Now().UTC(),
	})
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to marshal subscriber: %w", err)
	}

	if err := r.client.SaveState(ctx, r.storeName, subscriberKey(email), data, nil); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to save subscriber to dapr state store: %w", err)
	}

	span.SetAttributes(attribute.Bool("success", true))
	return nil
}
