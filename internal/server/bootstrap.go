package server

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/railway-dispatch/modules"
	"github.com/iota-uz/railway-dispatch/pkg/application"
	"github.com/iota-uz/railway-dispatch/pkg/configuration"
	"github.com/iota-uz/railway-dispatch/pkg/eventbus"
)

// Stores holds both backing stores of the dispatch core.
type Stores struct {
	Pool  *pgxpool.Pool
	Redis redis.UniversalClient
}

func (s *Stores) Close() {
	if s.Redis != nil {
		_ = s.Redis.Close()
	}
	if s.Pool != nil {
		s.Pool.Close()
	}
}

// Connect opens the Postgres pool and the Redis client and pings both.
func Connect(ctx context.Context, conf *configuration.Configuration) (*Stores, error) {
	pool, err := pgxpool.New(ctx, conf.Database.Opts)
	if err != nil {
		return nil, errors.Wrap(err, "open postgres pool")
	}
	stores := &Stores{
		Pool: pool,
		Redis: redis.NewClient(&redis.Options{
			Addr: conf.Redis.URL,
			DB:   conf.Redis.DB,
		}),
	}
	if err := pool.Ping(ctx); err != nil {
		stores.Close()
		return nil, errors.Wrap(err, "ping postgres")
	}
	if err := stores.Redis.Ping(ctx).Err(); err != nil {
		stores.Close()
		return nil, errors.Wrap(err, "ping redis")
	}
	return stores, nil
}

// NewApplication builds the application and registers every built-in
// module against stores.
func NewApplication(logger *logrus.Logger, stores *Stores) (application.Application, error) {
	app := application.New(&application.ApplicationOptions{
		Pool:     stores.Pool,
		Redis:    stores.Redis,
		EventBus: eventbus.NewEventPublisher(logger),
		Logger:   logger,
	})
	if err := modules.Load(app, modules.BuiltInModules...); err != nil {
		return nil, errors.Wrap(err, "load modules")
	}
	return app, nil
}
