package ratelimiter_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/shopfront/pkg/ratelimiter"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newLimiter(t *testing.T, cfg ratelimiter.Config) (*ratelimiter.Limiter, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	lim, err := ratelimiter.New(cfg, ratelimiter.WithClock(clock.Now))
	require.NoError(t, err)
	return lim, clock
}

func TestNewValidatesConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  ratelimiter.Config
	}{
		{name: "zero rate", cfg: ratelimiter.Config{Burst: 1, TTL: time.Minute}},
		{name: "zero burst", cfg: ratelimiter.Config{PerSecond: 1, TTL: time.Minute}},
		{name: "zero ttl", cfg: ratelimiter.Config{PerSecond: 1, Burst: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ratelimiter.New(tt.cfg)
			assert.ErrorIs(t, err, ratelimiter.ErrInvalidConfig)
		})
	}
}

func TestAllow(t *testing.T) {
	t.Parallel()

	lim, clock := newLimiter(t, ratelimiter.Config{PerSecond: 1, Burst: 2, TTL: time.Minute})

	first := lim.Allow("10.0.0.1")
	assert.True(t, first.Allowed)
	assert.Equal(t, 2, first.Limit)
	assert.Equal(t, 1, first.Remaining)

	assert.True(t, lim.Allow("10.0.0.1").Allowed)

	denied := lim.Allow("10.0.0.1")
	assert.False(t, denied.Allowed)
	assert.Equal(t, 0, denied.Remaining)
	assert.Equal(t, time.Second, denied.RetryAfter)

	// Keys are independent.
	assert.True(t, lim.Allow("10.0.0.2").Allowed)

	clock.Advance(time.Second)
	assert.True(t, lim.Allow("10.0.0.1").Allowed)
}

func TestCleanup(t *testing.T) {
	t.Parallel()

	lim, clock := newLimiter(t, ratelimiter.Config{PerSecond: 1, Burst: 1, TTL: time.Minute})
	lim.Allow("a")
	clock.Advance(30 * time.Second)
	lim.Allow("b")
	require.Equal(t, 2, lim.Len())

	clock.Advance(45 * time.Second)
	assert.Equal(t, 1, lim.Cleanup())
	assert.Equal(t, 1, lim.Len())
}

func TestStart(t *testing.T) {
	t.Parallel()

	lim, err := ratelimiter.New(ratelimiter.Config{PerSecond: 1, Burst: 1, TTL: 20 * time.Millisecond})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- lim.Start(ctx) }()

	lim.Allow("a")
	assert.Eventually(t, func() bool { return lim.Len() == 0 }, time.Second, 5*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}
