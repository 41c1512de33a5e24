package cache

import (
	"context"
	"time"

	"quill/internal/errors"

	"github.com/redis/go-redis/v9"
)

const rateLimitPrefix = "ratelimit:"

// fixedWindowScript counts hits in the current window. The first hit starts
// the window; the reply is {count, remaining window in ms}.
var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {current, redis.call("PTTL", KEYS[1])}
`)

// RateLimitResult contains the result of a rate limit check.
type RateLimitResult struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Limiter is a fixed-window request counter shared by every instance through Redis.
type Limiter struct {
	client redis.Scripter
}

// NewLimiter returns nil when client is nil so callers can treat a nil *Limiter as disabled.
func NewLimiter(client *redis.Client) *Limiter {
	if client == nil {
		return nil
	}

	return &Limiter{client: client}
}

// Allow records one hit for key and reports whether it fits in limit per window.
func (l *Limiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (*RateLimitResult, error) {
	reply, err := fixedWindowScript.Run(ctx, l.client, []string{rateLimitPrefix + key}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return nil, errors.Wrap(err, "failed to run rate limit script")
	}
	if len(reply) != 2 {
		return nil, errors.Errorf("unexpected rate limit reply length %d", len(reply))
	}

	count, ttl := int(reply[0]), time.Duration(reply[1])*time.Millisecond

	result := &RateLimitResult{
		Allowed:   count <= limit,
		Limit:     limit,
		Remaining: max(limit-count, 0),
	}
	if !result.Allowed {
		result.RetryAfter = max(ttl, 0)
	}

	return result, nil
}
