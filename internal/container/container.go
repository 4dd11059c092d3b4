// Package container builds every long-lived component from the config and
// owns their teardown. Nothing here is global; main and the tools hold the
// Container they built.
package container

import (
	"context"
	"fmt"

	gcs "cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/oksasatya/chessup-server/config"
	"github.com/oksasatya/chessup-server/internal/application"
	"github.com/oksasatya/chessup-server/internal/domain/repository"
	"github.com/oksasatya/chessup-server/internal/infrastructure/cache"
	"github.com/oksasatya/chessup-server/internal/infrastructure/memory"
	"github.com/oksasatya/chessup-server/internal/infrastructure/mongodb"
	"github.com/oksasatya/chessup-server/internal/infrastructure/notify"
	"github.com/oksasatya/chessup-server/internal/infrastructure/search"
	"github.com/oksasatya/chessup-server/internal/infrastructure/storage"
	"github.com/oksasatya/chessup-server/pkg/helpers"
)

type Container struct {
	Cfg    *config.Config
	Logger *logrus.Logger

	Mongo     *mongo.Client
	Redis     *redis.Client
	GCS       *gcs.Client
	ES        *elasticsearch.Client
	RabbitPub *helpers.RabbitPublisher

	Users   repository.UserRepository
	Tokens  *helpers.TokenManager
	Service *application.Service

	closers []func()
}

// Build connects the configured backends. The store is required; optional
// backends with an empty address stay nil and their features are disabled.
func Build(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	c := &Container{Cfg: cfg, Logger: logger}
	if err := c.build(ctx); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Container) build(ctx context.Context) error {
	cfg := c.Cfg

	switch cfg.StoreDriver {
	case "memory":
		c.Logger.Warn("using in-memory store; data is lost on exit")
		c.Users = memory.NewUserRepository()
	default:
		client, err := mongodb.NewClient(ctx, cfg.MongoURI, cfg.MongoTimeout)
		if err != nil {
			return fmt.Errorf("connect mongo: %w", err)
		}
		c.Mongo = client
		c.onClose(func() { _ = client.Disconnect(context.Background()) })
		c.Users = mongodb.NewUserRepository(client.Database(cfg.MongoDB), cfg.MongoCollection)
	}

	var opts []application.Option

	if cfg.RedisAddr != "" {
		rdb, err := helpers.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		c.Redis = rdb
		c.onClose(func() { _ = rdb.Close() })
		opts = append(opts,
			application.WithProfileCache(cache.NewProfileCache(rdb, cfg.ProfileCacheTTL)),
			application.WithCacheRepairDelay(cfg.ProfileCacheRepairDelay),
		)
	}

	if cfg.GCSBucket != "" {
		client, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			return fmt.Errorf("init gcs: %w", err)
		}
		c.GCS = client
		c.onClose(func() { _ = client.Close() })
		opts = append(opts, application.WithObjectStore(storage.NewPDFStore(client, cfg.GCSBucket)))
	}

	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			return fmt.Errorf("init elasticsearch: %w", err)
		}
		idx, err := search.NewUserIndex(ctx, es, cfg.ESUsersIndex)
		if err != nil {
			return fmt.Errorf("ensure users index: %w", err)
		}
		c.ES = es
		opts = append(opts, application.WithUserIndex(idx))
	}

	if cfg.RabbitMQURL != "" {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			return fmt.Errorf("connect rabbitmq: %w", err)
		}
		c.RabbitPub = pub
		c.onClose(pub.Close)
		opts = append(opts, application.WithShareNotifier(notify.NewShareNotifier(pub, cfg.AppName, cfg.AppURL)))
	}

	c.Tokens = helpers.NewTokenManager(cfg.Secret)
	c.Service = application.NewService(
		c.Users,
		helpers.NewPasswordHasher(cfg.BcryptCost),
		helpers.PasswordStrength{},
		c.Tokens,
		c.Logger,
		opts...,
	)

	c.Logger.WithFields(logrus.Fields{
		"store":         cfg.StoreDriver,
		"profile_cache": c.Redis != nil,
		"pdf_storage":   c.GCS != nil,
		"user_search":   c.ES != nil,
		"share_emails":  c.RabbitPub != nil,
	}).Info("container ready")
	return nil
}

func (c *Container) onClose(fn func()) { c.closers = append(c.closers, fn) }

// Close releases backends in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}
