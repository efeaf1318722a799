package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joy095/gowafly/logger"
	"github.com/joy095/gowafly/utils"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	ginmiddleware "github.com/ulule/limiter/v3/drivers/middleware/gin"
	memorystore "github.com/ulule/limiter/v3/drivers/store/memory"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"
)

// Usage:
//
//	r.POST("/api/auth/login", middleware.NewRateLimiter(rdb, "10-1m", "login"), handler)
//	r.POST("/api/bookings", middleware.CombinedRateLimiter(rdb, "createBooking", "5-1m", "50-1h"), handler)

// rateLimitKey identifies the caller: the authenticated user when known, the client IP otherwise.
func rateLimitKey(c *gin.Context) string {
	if raw, ok := c.Get(utils.ContextUserID); ok {
		if id := fmt.Sprint(raw); id != "" {
			return "user:" + id
		}
	}
	return "ip:" + c.ClientIP()
}

// createStore returns a Redis-backed store when a client is available and an in-process one otherwise.
func createStore(client *redis.Client, routeID string, period time.Duration) (limiter.Store, error) {
	opts := limiter.StoreOptions{
		Prefix:          fmt.Sprintf("rate_limiter:%s", routeID),
		MaxRetry:        3,
		CleanUpInterval: period,
	}
	if client == nil {
		return memorystore.NewStoreWithOptions(opts), nil
	}

	store, err := redisstore.NewStoreWithOptions(client, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create redis store for route %s: %w", routeID, err)
	}
	return store, nil
}

// ParseCustomRate allows formats like "10-2m", "30-20m", "5-1h", "20-10s", etc.
func ParseCustomRate(rateStr string) (limiter.Rate, error) {
	parts := strings.Split(rateStr, "-")
	if len(parts) != 2 {
		return limiter.Rate{}, fmt.Errorf("invalid rate format: %s", rateStr)
	}

	limit, err := strconv.Atoi(parts[0])
	if err != nil || limit <= 0 {
		return limiter.Rate{}, fmt.Errorf("invalid limit: %s", parts[0])
	}

	durationStr := parts[1]
	var unit time.Duration
	switch {
	case strings.HasSuffix(durationStr, "s"):
		unit = time.Second
	case strings.HasSuffix(durationStr, "m"):
		unit = time.Minute
	case strings.HasSuffix(durationStr, "h"):
		unit = time.Hour
	default:
		return limiter.Rate{}, fmt.Errorf("unsupported period: %s", durationStr)
	}

	n, err := strconv.Atoi(durationStr[:len(durationStr)-1])
	if err != nil || n <= 0 {
		return limiter.Rate{}, fmt.Errorf("invalid duration: %s", durationStr)
	}

	return limiter.Rate{
		Period: time.Duration(n) * unit,
		Limit:  int64(limit),
	}, nil
}

// newLimiter builds the limiter for one rate string on one route.
func newLimiter(client *redis.Client, rateStr, routeID string) (*limiter.Limiter, error) {
	rate, err := ParseCustomRate(rateStr)
	if err != nil {
		return nil, fmt.Errorf("error parsing rate for route %s: %w", routeID, err)
	}
	store, err := createStore(client, routeID, rate.Period)
	if err != nil {
		return nil, err
	}
	return limiter.New(store, rate), nil
}

func limitReached(c *gin.Context, routeID string) {
	logger.WarnLogger.Warnf("Rate limit reached on %s for %s", routeID, rateLimitKey(c))
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"success": false, "error": "Too many requests. Please try again later."})
}

// NewRateLimiter creates middleware with custom periods like "10-2m" for a specific route.
// A bad rate or store falls back to a pass-through handler.
func NewRateLimiter(client *redis.Client, rateStr, routeID string) gin.HandlerFunc {
	lim, err := newLimiter(client, rateStr, routeID)
	if err != nil {
		logger.ErrorLogger.Errorf("Rate limiting disabled for route %s: %v", routeID, err)
		return func(c *gin.Context) { c.Next() }
	}

	return ginmiddleware.NewMiddleware(lim,
		ginmiddleware.WithKeyGetter(rateLimitKey),
		ginmiddleware.WithLimitReachedHandler(func(c *gin.Context) { limitReached(c, routeID) }),
	)
}

// CombinedRateLimiter applies several rates to one route. Every rate is counted before the
// handler runs, and the handler runs at most once; the first rate exceeded aborts the request.
// A store error skips that rate rather than failing the request.
func CombinedRateLimiter(client *redis.Client, routeID string, rateStrings ...string) gin.HandlerFunc {
	limiters := make([]*limiter.Limiter, 0, len(rateStrings))
	for i, rateStr := range rateStrings {
		lim, err := newLimiter(client, rateStr, fmt.Sprintf("%s_%d", routeID, i))
		if err != nil {
			logger.ErrorLogger.Errorf("Skipping rate %q for route %s: %v", rateStr, routeID, err)
			continue
		}
		limiters = append(limiters, lim)
	}

	return func(c *gin.Context) {
		key := rateLimitKey(c)
		var tightest *limiter.Context
		for _, lim := range limiters {
			lctx, err := lim.Get(c.Request.Context(), key)
			if err != nil {
				logger.ErrorLogger.Errorf("Rate limit store error on %s: %v", routeID, err)
				continue
			}
			if tightest == nil || lctx.Remaining < tightest.Remaining {
				tightest = &lctx
			}
			if lctx.Reached {
				setRateHeaders(c, lctx)
				limitReached(c, routeID)
				return
			}
		}
		if tightest != nil {
			setRateHeaders(c, *tightest)
		}
		c.Next()
	}
}

func setRateHeaders(c *gin.Context, lctx limiter.Context) {
	c.Header("X-RateLimit-Limit", strconv.FormatInt(lctx.Limit, 10))
	c.Header("X-RateLimit-Remaining", strconv.FormatInt(lctx.Remaining, 10))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(lctx.Reset, 10))
}
