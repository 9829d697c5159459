package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	mstdlib "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/iota-uz/railway-dispatch/pkg/composables"
	"github.com/iota-uz/railway-dispatch/pkg/httpapi"
)

const rateLimitPrefix = "dispatch:ratelimit"

type RateLimitConfig struct {
	RequestsPerPeriod int
	Period            time.Duration
	Store             limiter.Store
}

func NewMemoryStore() limiter.Store {
	return memory.NewStoreWithOptions(limiter.StoreOptions{
		Prefix:          rateLimitPrefix,
		CleanUpInterval: limiter.DefaultCleanUpInterval,
	})
}

// NewRedisStore shares counters between server instances through the
// identity Redis.
func NewRedisStore(client redis.UniversalClient) (limiter.Store, error) {
	return sredis.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix: rateLimitPrefix,
	})
}

// RateLimit limits requests per client IP. Exceeding the limit answers 429
// with the usual error envelope; a failing store lets the request through.
func RateLimit(cfg RateLimitConfig) mux.MiddlewareFunc {
	period := cfg.Period
	if period <= 0 {
		period = time.Second
	}
	rate := limiter.Rate{Period: period, Limit: int64(cfg.RequestsPerPeriod)}
	instance := limiter.New(cfg.Store, rate)

	return func(next http.Handler) http.Handler {
		m := mstdlib.NewMiddleware(instance,
			mstdlib.WithLimitReachedHandler(func(w http.ResponseWriter, r *http.Request) {
				_ = httpapi.WriteError(w, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests", nil)
			}),
			mstdlib.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
				composables.UseLogger(r.Context()).WithError(err).Warn("rate limiter store failed")
				next.ServeHTTP(w, r)
			}),
		)
		return m.Handler(next)
	}
}
