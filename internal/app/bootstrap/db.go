// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	prefstore "github.com/dalemusser/strataleads/internal/app/store/preferences"
	"github.com/dalemusser/strataleads/internal/app/system/automation"
	"github.com/dalemusser/strataleads/internal/app/system/indexes"
	"github.com/dalemusser/strataleads/internal/app/system/remote"
	"github.com/dalemusser/strataleads/internal/app/system/validators"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ConnectDB connects MongoDB, the optional Redis preferences backend and
// image storage, and builds the webhook client.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	poolCfg := wafflemongo.DefaultPoolConfig()
	if appCfg.MongoMaxPoolSize > 0 {
		poolCfg.MaxPoolSize = appCfg.MongoMaxPoolSize
	}
	if appCfg.MongoMinPoolSize > 0 {
		poolCfg.MinPoolSize = appCfg.MongoMinPoolSize
	}

	client, err := wafflemongo.ConnectWithPool(ctx, appCfg.MongoURI, appCfg.MongoDatabase, poolCfg)
	if err != nil {
		return DBDeps{}, err
	}
	db := client.Database(appCfg.MongoDatabase)
	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase),
		zap.Uint64("max_pool_size", poolCfg.MaxPoolSize),
		zap.Uint64("min_pool_size", poolCfg.MinPoolSize),
	)

	deps := DBDeps{
		MongoClient:   client,
		MongoDatabase: db,
		Accessor:      remote.New(db),
		Automation: automation.New(automation.Config{
			CompetitorURL: appCfg.CompetitorWebhookURL,
			ContentURL:    appCfg.ContentWebhookURL,
			Timeout:       appCfg.RelayTimeout,
		}, logger),
	}

	var backend prefstore.Backend = prefstore.NewMongoBackend(db)
	if appCfg.RedisURL != "" {
		rdb, err := connectRedis(ctx, appCfg.RedisURL)
		if err != nil {
			return DBDeps{}, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		deps.Redis = rdb
		backend = prefstore.NewRedisBackend(rdb)
		logger.Info("preferences stored in Redis", zap.String("addr", rdb.Options().Addr))
	} else {
		logger.Info("preferences stored in MongoDB")
	}
	deps.Preferences = prefstore.New(backend, logger)

	deps.FileStorage, err = newStorage(ctx, appCfg, logger)
	if err != nil {
		return DBDeps{}, err
	}
	return deps, nil
}

func connectRedis(ctx context.Context, rawURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}

func newStorage(ctx context.Context, appCfg AppConfig, logger *zap.Logger) (storage.Store, error) {
	switch appCfg.StorageType {
	case "s3":
		store, err := storage.NewS3(ctx, storage.S3Config{
			Region:                   appCfg.StorageS3Region,
			Bucket:                   appCfg.StorageS3Bucket,
			Prefix:                   appCfg.StorageS3Prefix,
			CloudFrontURL:            appCfg.StorageCFURL,
			CloudFrontKeyPairID:      appCfg.StorageCFKeyPairID,
			CloudFrontPrivateKeyPath: appCfg.StorageCFKeyPath,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 storage: %w", err)
		}
		logger.Info("initialized S3/CloudFront image storage",
			zap.String("bucket", appCfg.StorageS3Bucket),
			zap.String("prefix", appCfg.StorageS3Prefix))
		return store, nil
	case "local", "":
		store, err := storage.NewLocal(storage.LocalConfig{
			BasePath: appCfg.StorageLocalPath,
			BaseURL:  appCfg.StorageLocalURL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize local storage: %w", err)
		}
		logger.Info("initialized local image storage",
			zap.String("path", appCfg.StorageLocalPath),
			zap.String("url", appCfg.StorageLocalURL))
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", appCfg.StorageType)
	}
}

// EnsureSchema creates collections with their validators, then indexes.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.MongoDatabase

	logger.Info("ensuring collections and validators")
	if err := validators.EnsureAll(ctx, db); err != nil {
		logger.Error("failed to ensure validators", zap.Error(err))
		return err
	}

	logger.Info("ensuring database indexes")
	if err := indexes.EnsureAll(ctx, db); err != nil {
		logger.Error("failed to ensure indexes", zap.Error(err))
		return err
	}

	logger.Info("database schema ensured")
	return nil
}
