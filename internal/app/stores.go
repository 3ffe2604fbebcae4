package app

import (
	"context"
	"fmt"
	"os"

	dapr "github.com/dapr/go-sdk/client"
	"github.com/redis/go-redis/v9"

	"theatre-forms/internal/cache"
	"theatre-forms/internal/config"
	"theatre-forms/internal/repository"
)

// Stores groups the persistence resources of the three endpoints.
type Stores struct {
	Contact            repository.RecordLog
	Booking            repository.RecordLog
	NewsletterActivity repository.RecordLog
	Subscribers        repository.SubscriberRepository
}

// openStores builds the configured backend. The returned func releases any
// client connections it opened.
func openStores(ctx context.Context, settings *config.Config, subscriberCache cache.SubscriberCache) (*Stores, func(), error) {
	storage := settings.Storage

	switch storage.Backend {
	case config.StorageFile, "":
		if err := os.MkdirAll(storage.DataDir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		return &Stores{
			Contact:            repository.NewFileRecordLog(storage.Path(storage.ContactLog)),
			Booking:            repository.NewFileRecordLog(storage.Path(storage.BookingLog)),
			NewsletterActivity: repository.NewFileRecordLog(storage.Path(storage.NewsletterLog)),
			Subscribers:        repository.NewFileSubscriberRepository(storage.Path(storage.SubscribersFile), subscriberCache),
		}, func() {}, nil

	case config.StorageDapr:
		client, err := dapr.NewClient()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create dapr client: %w", err)
		}
		records := repository.NewDaprRecordLog(client, storage.DaprStateStore)
		return &Stores{
			Contact:            records,
			Booking:            records,
			NewsletterActivity: records,
			Subscribers:        repository.NewDaprSubscriberRepository(client, storage.DaprStateStore),
		}, client.Close, nil

	case config.StorageRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     settings.Redis.Addr,
			Password: settings.Redis.Password,
			DB:       settings.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("failed to reach redis at %s: %w", settings.Redis.Addr, err)
		}
		records := repository.NewRedisRecordLog(client, settings.Redis.KeyPrefix)
		return &Stores{
			Contact:            records,
			Booking:            records,
			NewsletterActivity: records,
			Subscribers:        repository.NewRedisSubscriberRepository(client, settings.Redis.KeyPrefix),
		}, func() { _ = client.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", storage.Backend)
	}
}
