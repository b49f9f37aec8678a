package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	mongooptions "go.mongodb.org/mongo-driver/mongo/options"

	"github.com/felixgeelhaar/bucketlist/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/bucketlist/internal/shared/infrastructure/database/postgres" // Register PostgreSQL driver
	_ "github.com/felixgeelhaar/bucketlist/internal/shared/infrastructure/database/sqlite"   // Register SQLite driver
	"github.com/felixgeelhaar/bucketlist/internal/shared/infrastructure/kv"
	"github.com/felixgeelhaar/bucketlist/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/bucketlist/pkg/config"
	"github.com/felixgeelhaar/bucketlist/pkg/observability"
)

// redisKeyPrefix namespaces every key the app writes to Redis.
const redisKeyPrefix = "bucketlist"

// storage is an opened key-value backend plus what is needed to check and
// release it.
type storage struct {
	store  kv.Store
	health observability.HealthChecker
	redis  *redis.Client
	close  func(context.Context) error
}

// openStorage opens the backend selected by cfg.StorageBackend.
func openStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*storage, error) {
	switch cfg.StorageBackend {
	case config.StorageSQL, "":
		return openSQLStorage(ctx, cfg, logger)
	case config.StorageRedis:
		return openRedisStorage(ctx, cfg)
	case config.StorageMongo:
		return openMongoStorage(ctx, cfg)
	case config.StorageMemory:
		return &storage{
			store:  kv.NewMemoryStore(),
			health: observability.DisabledChecker("in-memory storage"),
			close:  func(context.Context) error { return nil },
		}, nil
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.StorageBackend)
	}
}

func openSQLStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*storage, error) {
	dbCfg := database.Config{
		URL:      cfg.DatabaseURL,
		MaxConns: cfg.DatabaseMaxConns,
	}
	if database.DetectDriver(cfg.DatabaseURL) == database.DriverSQLite {
		dbCfg.SQLitePath = database.SQLitePathFromURL(cfg.DatabaseURL)
		if err := database.EnsureDirectory(dbCfg.SQLitePath); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	conn, err := database.NewConnection(ctx, dbCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if cfg.AutoMigrate {
		if err := migrations.Run(ctx, conn); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}
	logger.Debug("sql storage ready", "driver", conn.Driver())

	return &storage{
		store:  kv.NewSQLStore(conn, logger),
		health: observability.PingChecker("database", true, conn.Ping),
		close:  func(context.Context) error { return conn.Close() },
	}, nil
}

func openRedisStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	client, err := newRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	return &storage{
		store:  kv.NewRedisStore(client, redisKeyPrefix),
		health: redisChecker(client, true),
		redis:  client,
		close:  func(context.Context) error { return client.Close() },
	}, nil
}

func openMongoStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	client, err := mongo.Connect(ctx, mongooptions.Client().ApplyURI(cfg.MongoURL))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	return &storage{
		store: kv.NewMongoStore(client.Database(cfg.MongoDatabase)),
		health: observability.PingChecker("mongo", true, func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		}),
		close: client.Disconnect,
	}, nil
}

func newRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

func redisChecker(client *redis.Client, critical bool) observability.HealthChecker {
	return observability.PingChecker("redis", critical, func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	})
}
