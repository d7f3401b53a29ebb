package app

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.opentelemetry.io/contrib/instrumentation/go.mongodb.org/mongo-driver/mongo/otelmongo"

	"pathportal/internal/domain/ports"
	mongorepo "pathportal/internal/repository/mongo"
	"pathportal/internal/storage/badger"
	"pathportal/internal/storage/memory"
	redisstore "pathportal/internal/storage/redis"
)

// OpenBackend opens the key-value store selected by cfg.StoreBackend.
// The caller owns the returned store and must Close it.
func OpenBackend(ctx context.Context, cfg Config, logger *slog.Logger) (ports.KeyValueStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch cfg.StoreBackend {
	case BackendMemory:
		opts := []memory.ProviderOption{memory.WithMaxBytes(cfg.StoreQuotaBytes)}
		if cfg.StoreSpillDir != "" {
			opts = append(opts, memory.WithSpillDir(cfg.StoreSpillDir))
		}
		return memory.NewProvider(opts...), nil

	case BackendRedis:
		client, err := redisstore.Dial(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("redis connect: %w", err)
		}
		return redisstore.NewStore(client, ""), nil

	case BackendMongo:
		client, err := mongorepo.Connect(ctx, cfg.MongoURI, options.Client().SetMonitor(otelmongo.NewMonitor()))
		if err != nil {
			return nil, fmt.Errorf("mongo connect: %w", err)
		}
		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, fmt.Errorf("mongo ping: %w", err)
		}
		return mongorepo.NewKVRepository(client, cfg.MongoDatabase, cfg.MongoCollection), nil

	case BackendBadger, "":
		store, err := badger.Open(cfg.StorePath, logger)
		if err != nil {
			return nil, fmt.Errorf("badger open: %w", err)
		}
		return store, nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}
