package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"theatre-forms/internal/models"
)

var ErrMiss = errors.New("cache miss")

// SubscriberCache keeps parsed subscriber sets together with the version of
// the backing store they were read from.
type SubscriberCache interface {
	Get(ctx context.Context, key string) (*models.SubscriberSet, string, error)
	Set(ctx context.Context, key string, set *models.SubscriberSet, version string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

type cacheItem struct {
	set      *models.SubscriberSet
	version  string
	expireAt time.Time
}

type InMemoryCache struct {
	mu     sync.RWMutex
	items  map[string]*cacheItem
	tracer trace.Tracer
	stop   chan struct{}
	once   sync.Once
}

func NewInMemoryCache() *InMemoryCache {
	cache := &InMemoryCache{
		items:  make(map[string]*cacheItem),
		tracer: otel.Tracer("cache"),
		stop:   make(chan struct{}),
	}

	go cache.cleanup(time.Minute)
	return cache
}

// Get returns a copy of the cached set and its version.
func (c *InMemoryCache) Get(ctx context.Context, key string) (*models.SubscriberSet, string, error) {
	_, span := c.tracer.Start(ctx, "cache.get",
		trace.WithAttributes(
			attribute.String("cache.key", key),
			attribute.String("operation", "cache.read"),
		))
	defer span.End()

	c.mu.RLock()
	defer c.mu.RUnlock()

	item, exists := c.items[key]
	if !exists {
		span.SetAttributes(
			attribute.Bool("cache.hit", false),
			attribute.String("cache.result", "miss"),
		)
		return nil, "", ErrMiss
	}

	if time.Now().After(item.expireAt) {
		span.SetAttributes(
			attribute.Bool("cache.hit", false),
			attribute.String("cache.result", "expired"),
		)
		return nil, "", ErrMiss
	}

	span.SetAttributes(
		attribute.Bool("cache.hit", true),
		attribute.String("cache.result", "hit"),
		attribute.Int("subscriber.count", item.set.Len()),
	)
	return item.set.Clone(), item.version, nil
}

func (c *InMemoryCache) Set(ctx context.Context, key string, set *models.SubscriberSet, version string, ttl time.Duration) error {
	_, span := c.tracer.Start(ctx, "cache.set",
		trace.WithAttributes(
			attribute.String("cache.key", key),
			attribute.String("cache.version", version),
			attribute.String("operation", "cache.write"),
			attribute.String("ttl", ttl.String()),
		))
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = &cacheItem{
		set:      set.Clone(),
		version:  version,
		expireAt: time.Now().Add(ttl),
	}

	span.SetAttributes(attribute.Bool("success", true))
	return nil
}

func (c *InMemoryCache) Delete(ctx context.Context, key string) error {
	_, span := c.tracer.Start(ctx, "cache.delete",
		trace.WithAttributes(
			attribute.String("cache.key", key),
			attribute.String("operation", "cache.write"),
		))
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()

	_, exists := c.items[key]
	delete(c.items, key)

	span.SetAttributes(
		attribute.Bool("key.existed", exists),
		attribute.Bool("success", true),
	)
	return nil
}

func (c *InMemoryCache) Clear(ctx context.Context) error {
	_, span := c.tracer.Start(ctx, "cache.clear",
		trace.WithAttributes(
			attribute.String("operation", "cache.write"),
		))
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()

	itemCount := len(c.items)
	c.items = make(map[string]*cacheItem)

	span.SetAttributes(
		attribute.Int("items.cleared", itemCount),
		attribute.Bool("success", true),
	)
	return nil
}

// Close stops the expiry sweep.
func (c *InMemoryCache) Close() {
	c.once.Do(func() { close(c.stop) })
}

func (c *InMemoryCache) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.mu.Lock()
			now := time.Now()
			for key, item := range c.items {
				if now.After(item.expireAt) {
					delete(c.items, key)
				}
			}
			c.mu.Unlock()
		}
	}
}
