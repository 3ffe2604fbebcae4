package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"theatre-forms/internal/models"
)

// RedisRecordLog pushes serialized lines onto a list per record kind.
type RedisRecordLog struct {
	client redis.Cmdable
	prefix string
	tracer trace.Tracer
}

func NewRedisRecordLog(client redis.Cmdable, prefix string) *RedisRecordLog {
	return &RedisRecordLog{
		client: client,
		prefix: prefix,
		tracer: otel.Tracer("redis.repository"),
	}
}

func (l *RedisRecordLog) key(kind string) string {
	return l.prefix + "log:" + kind
}

func (l *RedisRecordLog) Append(ctx context.Context, record models.Record) error {
	key := l.key(record.Kind())
	ctx, span := l.tracer.Start(ctx, "record_log.redis.append",
		trace.WithAttributes(
			attribute.String("record.kind", record.Kind()),
			attribute.String("redis.key", key),
			attribute.String("operation", "storage.append"),
		))
	defer span.End()

	if err := l.client.RPush(ctx, key, FormatLine(record)).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to push %s record to redis: %w", record.Kind(), err)
	}

	span.SetAttributes(attribute.Bool("success", true))
	return nil
}

// RedisSubscriberRepository uses a set, so SADD makes insert-if-absent atomic.
type RedisSubscriberRepository struct {
	client redis.Cmdable
	key    string
	tracer trace.Tracer
}

func NewRedisSubscriberRepository(client redis.Cmdable, prefix string) *RedisSubscriberRepository {
	return &RedisSubscriberRepository{
		client: client,
		key:    prefix + "subscribers",
		tracer: otel.Tracer("redis.repository"),
	}
}

func (r *RedisSubscriberRepository) Exists(ctx context.Context, email string) (bool, error) {
	ctx, span := r.tracer.Start(ctx, "subscriber.repository.exists",
		trace.WithAttributes(
			attribute.String("redis.key", r.key),
			attribute.String("operation", "storage.read"),
		))
	defer span.End()

	found, err := r.client.SIsMember(ctx, r.key, models.NormalizeEmail(email)).Result()
	if err != nil {
		span.RecordError(err)
		return false, fmt.Errorf("failed to check subscriber in redis: %w", err)
	}

	span.SetAttributes(attribute.Bool("found", found))
	return found, nil
}

func (r *RedisSubscriberRepository) InsertIfAbsent(ctx context.Context, email string) error {
	ctx, span := r.tracer.Start(ctx, "subscriber.repository.insert",
		trace.WithAttributes(
			attribute.String("redis.key", r.key),
			attribute.String("operation", "storage.append"),
		))
	defer span.End()

	added, err := r.client.SAdd(ctx, r.key, models.NormalizeEmail(email)).Result()
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to add subscriber to redis: %w", err)
	}
	if added == 0 {
		span.SetAttributes(attribute.Bool("duplicate", true))
		return models.ErrAlreadySubscribed
	}

	span.SetAttributes(attribute.Bool("success", true))
	return nil
}
