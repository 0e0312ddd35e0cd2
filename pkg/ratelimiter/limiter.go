package ratelimiter

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// Config controls the token bucket each key gets.
type Config struct {
	// PerSecond is the refill rate.
	PerSecond float64 `env:"RATE_LIMIT_PER_SECOND" envDefault:"0.5"`
	// Burst is the bucket capacity.
	Burst int `env:"RATE_LIMIT_BURST" envDefault:"10"`
	// TTL is how long an idle key is kept before cleanup evicts it.
	TTL time.Duration `env:"RATE_LIMIT_TTL" envDefault:"10m"`
}

// Validate reports configuration errors.
func (c Config) Validate() error {
	if c.PerSecond <= 0 || c.Burst <= 0 {
		return fmt.Errorf("%w: per second %v, burst %d", ErrInvalidConfig, c.PerSecond, c.Burst)
	}
	if c.TTL <= 0 {
		return fmt.Errorf("%w: ttl %v", ErrInvalidConfig, c.TTL)
	}
	return nil
}

// Result describes a single Allow decision.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter keeps one golang.org/x/time/rate limiter per key. It is in-memory
// and not shared between instances.
type Limiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	cfg      Config
	logger   *slog.Logger
	running  atomic.Bool
	now      func() time.Time
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithLogger sets the logger used by the cleanup loop.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Limiter) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		if now != nil {
			l.now = now
		}
	}
}

// New creates a limiter. It returns ErrInvalidConfig for non-positive
// settings.
func New(cfg Config, opts ...Option) (*Limiter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	l := &Limiter{
		visitors: make(map[string]*visitor),
		cfg:      cfg,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Allow consumes one token for key.
func (l *Limiter) Allow(key string) Result {
	now := l.now()

	l.mu.Lock()
	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rate.Limit(l.cfg.PerSecond), l.cfg.Burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	allowed := v.limiter.AllowN(now, 1)
	tokens := v.limiter.TokensAt(now)
	l.mu.Unlock()

	res := Result{
		Allowed:   allowed,
		Limit:     l.cfg.Burst,
		Remaining: max(0, int(math.Floor(tokens))),
	}
	if !allowed {
		missing := 1 - tokens
		res.RetryAfter = time.Duration(math.Ceil(missing / l.cfg.PerSecond * float64(time.Second)))
	}
	return res
}

// Len returns the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}

// Cleanup evicts keys idle for longer than the TTL and returns how many
// were removed.
func (l *Limiter) Cleanup() int {
	cutoff := l.now().Add(-l.cfg.TTL)
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for key, v := range l.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(l.visitors, key)
			n++
		}
	}
	return n
}

// Start runs Cleanup every TTL/2 until ctx is canceled. Compatible with
// errgroup.Go.
func (l *Limiter) Start(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	defer l.running.Store(false)

	ticker := time.NewTicker(l.cfg.TTL / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := l.Cleanup(); n > 0 {
				l.logger.DebugContext(ctx, "rate limiter evicted idle keys", slog.Int("count", n))
			}
		}
	}
}
