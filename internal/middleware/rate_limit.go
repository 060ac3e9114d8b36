package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/deppfellow/travel-bucket/internal/errs"
	"github.com/deppfellow/travel-bucket/internal/server"
)

const (
	rateLimitKeyPrefix    = "travel-bucket:ratelimit:"
	rateLimitRedisTimeout = 200 * time.Millisecond
	memoryStoreExpiresIn  = 3 * time.Minute
)

// RateLimitMiddleware enforces server.rate_limit per client IP. With Redis
// configured the counters are shared across instances; otherwise each
// instance keeps its own token buckets.
type RateLimitMiddleware struct {
	server *server.Server
}

func NewRateLimitMiddleware(s *server.Server) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		server: s,
	}
}

// Limiter returns the enforcing middleware, or a pass-through when
// rate_limit.requests is 0. Health and metrics probes are never limited.
func (r *RateLimitMiddleware) Limiter() echo.MiddlewareFunc {
	cfg := r.server.Config.Server.RateLimit
	if cfg.Requests <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Skipper: func(c echo.Context) bool {
			switch c.Request().URL.Path {
			case "/status", "/metrics":
				return true
			}
			return false
		},
		Store: r.store(),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			r.server.Logger.Warn().
				Str("ip", identifier).
				Str("path", c.Request().URL.Path).
				Msg("rate limit exceeded")
			r.RecordRateLimitHit(c.Request().URL.Path)
			return errs.NewTooManyRequestsError(cfg.Window)
		},
	})
}

func (r *RateLimitMiddleware) store() middleware.RateLimiterStore {
	cfg := r.server.Config.Server.RateLimit

	if r.server.Redis != nil {
		return NewRedisRateLimiterStore(r.server.Redis, cfg.Requests, cfg.Window, r.server.Logger)
	}

	return middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(float64(cfg.Requests) / cfg.Window.Seconds()),
		Burst:     cfg.Requests,
		ExpiresIn: memoryStoreExpiresIn,
	})
}

// RecordRateLimitHit sends a RateLimitHit custom event to New Relic.
func (r *RateLimitMiddleware) RecordRateLimitHit(endpoint string) {
	if app := r.server.LoggerService.GetApplication(); app != nil {
		app.RecordCustomEvent("RateLimitHit", map[string]any{
			"endpoint": endpoint,
		})
	}
}

// redisCounter is the part of *redis.Client the store uses.
type redisCounter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// RedisRateLimiterStore is a fixed-window counter in Redis: one key per
// identifier and window, INCR per request, expiring with the window.
type RedisRateLimiterStore struct {
	client redisCounter
	limit  int64
	window time.Duration
	logger *zerolog.Logger
	now    func() time.Time
}

func NewRedisRateLimiterStore(client redisCounter, limit int, window time.Duration, logger *zerolog.Logger) *RedisRateLimiterStore {
	return &RedisRateLimiterStore{
		client: client,
		limit:  int64(limit),
		window: window,
		logger: logger,
		now:    time.Now,
	}
}

// Allow implements middleware.RateLimiterStore. Redis failures let the
// request through; an unavailable limiter must not take the API down.
func (s *RedisRateLimiterStore) Allow(identifier string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), rateLimitRedisTimeout)
	defer cancel()

	bucket := s.now().UnixNano() / s.window.Nanoseconds()
	key := rateLimitKeyPrefix + identifier + ":" + strconv.FormatInt(bucket, 10)

	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("rate limiter redis incr failed, allowing request")
		return true, nil
	}

	if count == 1 {
		if err := s.client.Expire(ctx, key, s.window).Err(); err != nil {
			s.logger.Error().Err(err).Str("key", key).Msg("rate limiter redis expire failed")
		}
	}

	return count <= s.limit, nil
}
