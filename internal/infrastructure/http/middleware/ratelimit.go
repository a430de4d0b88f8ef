package middleware

import (
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	stdlib "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/amirhosseinghanipour/warden/internal/infrastructure/http/envelope"
)

const rateLimitPrefix = "warden:ratelimit"

// NewIPRateLimiter returns middleware that limits by client IP. Counters live
// in Redis when a client is given so limits hold across instances, otherwise
// in memory. rateFormatted: "20-M", "1000-H", "5-S". Empty disables.
func NewIPRateLimiter(rateFormatted string, redisClient *redis.Client) (func(next http.Handler) http.Handler, error) {
	if rateFormatted == "" {
		return noopMiddleware, nil
	}
	rate, err := limiter.NewRateFromFormatted(rateFormatted)
	if err != nil {
		return nil, err
	}
	var store limiter.Store
	if redisClient != nil {
		store, err = sredis.NewStoreWithOptions(redisClient, limiter.StoreOptions{Prefix: rateLimitPrefix})
		if err != nil {
			return nil, err
		}
	} else {
		store = memory.NewStoreWithOptions(limiter.StoreOptions{Prefix: rateLimitPrefix})
	}
	instance := limiter.New(store, rate)
	return stdlib.NewMiddleware(instance, stdlib.WithLimitReachedHandler(limitReached)).Handler, nil
}

func limitReached(w http.ResponseWriter, r *http.Request) {
	envelope.Message(w, http.StatusTooManyRequests, "rate_limited", "Too many requests. Please try again later.")
}

func noopMiddleware(next http.Handler) http.Handler {
	return next
}
