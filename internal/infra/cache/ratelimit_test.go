package cache

import (
	"context"
	"testing"
	"time"

	"quill/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T) (*Limiter, *miniredis.Miniredis) {
	t.Helper()

	mini := miniredis.RunT(t)
	client := newClient(&config.RedisConfig{Addr: mini.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewLimiter(client), mini
}

func TestLimiter_Allow(t *testing.T) {
	limiter, mini := newTestLimiter(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		res, err := limiter.Allow(ctx, "login:10.0.0.1", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, res.Allowed, "hit %d", i)
		assert.Equal(t, 3-i, res.Remaining)
	}

	res, err := limiter.Allow(ctx, "login:10.0.0.1", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)
	assert.Positive(t, res.RetryAfter)
	assert.LessOrEqual(t, res.RetryAfter, time.Minute)

	assert.True(t, mini.Exists(rateLimitPrefix+"login:10.0.0.1"))
}

func TestLimiter_KeysAreIndependent(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	ctx := context.Background()

	_, err := limiter.Allow(ctx, "login:10.0.0.1", 1, time.Minute)
	require.NoError(t, err)

	res, err := limiter.Allow(ctx, "login:10.0.0.2", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestLimiter_WindowResets(t *testing.T) {
	limiter, mini := newTestLimiter(t)
	ctx := context.Background()

	_, err := limiter.Allow(ctx, "register:10.0.0.1", 1, time.Second)
	require.NoError(t, err)

	res, err := limiter.Allow(ctx, "register:10.0.0.1", 1, time.Second)
	require.NoError(t, err)
	assert.False(t, res.Allowed)

	mini.FastForward(2 * time.Second)

	res, err = limiter.Allow(ctx, "register:10.0.0.1", 1, time.Second)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestLimiter_RedisDown(t *testing.T) {
	limiter, mini := newTestLimiter(t)
	mini.Close()

	_, err := limiter.Allow(context.Background(), "login:10.0.0.1", 1, time.Minute)

	assert.Error(t, err)
}

func TestNewLimiter_NilClient(t *testing.T) {
	assert.Nil(t, NewLimiter(nil))
}
