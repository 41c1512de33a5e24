package middleware

import (
	"context"
	"log/slog"
	"math"
	"strconv"
	"time"

	"quill/config"
	deliverycontext "quill/internal/delivery/context"
	"quill/internal/delivery/http/response"
	"quill/internal/infra/cache"
	"quill/internal/infra/metrics"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

const (
	headerRateLimitLimit     = "X-RateLimit-Limit"
	headerRateLimitRemaining = "X-RateLimit-Remaining"
	headerRetryAfter         = "Retry-After"
)

// RateLimiter counts hits per key. *cache.Limiter implements it.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*cache.RateLimitResult, error)
}

type RateLimitParams struct {
	fx.In

	Limiter *cache.Limiter `optional:"true"`
	Config  *config.Config
	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

// RateLimitMiddleware is a fixed-window limit per client IP and route.
// Without a limiter it lets everything through.
type RateLimitMiddleware struct {
	limiter  RateLimiter
	requests int
	window   time.Duration
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func NewRateLimitMiddleware(params RateLimitParams) *RateLimitMiddleware {
	cfg := params.Config.RateLimit

	m := &RateLimitMiddleware{
		requests: cfg.Requests,
		window:   cfg.Window,
		metrics:  params.Metrics,
		logger:   params.Logger,
	}
	if cfg.Enabled && params.Limiter != nil {
		m.limiter = params.Limiter
	}

	return m
}

// Limit fails open when the limiter itself errors.
func (m *RateLimitMiddleware) Limit(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if m.limiter == nil {
			return next(c)
		}

		ctx := c.Request().Context()
		route := c.Path()

		result, err := m.limiter.Allow(ctx, route+":"+c.RealIP(), m.requests, m.window)
		if err != nil {
			deliverycontext.GetLoggerOrDefault(ctx, m.logger).Warn("Rate limiter unavailable, allowing request",
				slog.String("route", route),
				slog.Any("error", err),
			)

			return next(c)
		}

		header := c.Response().Header()
		header.Set(headerRateLimitLimit, strconv.Itoa(result.Limit))
		header.Set(headerRateLimitRemaining, strconv.Itoa(result.Remaining))

		if !result.Allowed {
			header.Set(headerRetryAfter, strconv.Itoa(retryAfterSeconds(result.RetryAfter)))
			m.metrics.ObserveRateLimited(route)

			return response.TooManyRequests(c, "RATE_LIMITED", "Too many requests, retry later")
		}

		return next(c)
	}
}

func retryAfterSeconds(d time.Duration) int {
	return max(int(math.Ceil(d.Seconds())), 1)
}
