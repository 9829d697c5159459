package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/ulule/limiter/v3"

	"github.com/iota-uz/railway-dispatch/pkg/application"
	"github.com/iota-uz/railway-dispatch/pkg/configuration"
	"github.com/iota-uz/railway-dispatch/pkg/httpapi"
	"github.com/iota-uz/railway-dispatch/pkg/middleware"
	"github.com/iota-uz/railway-dispatch/pkg/server"
)

type DefaultOptions struct {
	Logger        *logrus.Logger
	Configuration *configuration.Configuration
	Application   application.Application
	Pool          *pgxpool.Pool
	Redis         redis.UniversalClient
}

func Default(options *DefaultOptions) (*server.HTTPServer, error) {
	app := options.Application

	conf := options.Configuration
	middlewares := []mux.MiddlewareFunc{
		middleware.WithLogger(options.Logger, conf.RequestIDHeader),
		middleware.WithPool(options.Pool),
		middleware.Cors(conf.Origins()...),
	}

	if conf.RateLimit.Enabled {
		var store limiter.Store
		if conf.RateLimit.Storage == configuration.RateLimitStorageRedis && options.Redis != nil {
			var err error
			store, err = middleware.NewRedisStore(options.Redis)
			if err != nil {
				options.Logger.WithError(err).Warn("Failed to create Redis store for rate limiting, falling back to memory")
				store = nil
			}
		}
		if store == nil {
			store = middleware.NewMemoryStore()
		}
		middlewares = append(middlewares, middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerPeriod: conf.RateLimit.GlobalRPS,
			Store:             store,
		}))
	}

	app.RegisterMiddleware(middlewares...)

	notFound := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = httpapi.WriteError(w, http.StatusNotFound, "ROUTE_NOT_FOUND", "route not found", map[string]string{"path": r.URL.Path})
	})
	notAllowed := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = httpapi.WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed", map[string]string{"method": r.Method})
	})
	return server.NewHTTPServer(app, notFound, notAllowed), nil
}

