// Package ratelimiter provides an in-memory per-key token bucket built on
// golang.org/x/time/rate.
//
// Each key (usually a client IP) gets its own limiter that refills at
// PerSecond up to Burst tokens. Keys idle for longer than TTL are evicted by
// the cleanup loop:
//
//	lim, err := ratelimiter.New(ratelimiter.Config{PerSecond: 0.5, Burst: 10, TTL: 10 * time.Minute})
//	if err != nil {
//		return err
//	}
//	g.Go(func() error { return lim.Start(ctx) })
//
//	if res := lim.Allow(ip); !res.Allowed {
//		w.Header().Set("Retry-After", strconv.Itoa(int(res.RetryAfter.Seconds())))
//	}
//
// State is not shared between processes, so the effective limit scales with
// the number of instances.
package ratelimiter
