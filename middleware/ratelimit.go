package middleware

import (
	"math"
	"net/http"
	"strconv"

	"github.com/dmitrymomot/shopfront/core/handler"
	"github.com/dmitrymomot/shopfront/core/response"
	"github.com/dmitrymomot/shopfront/pkg/clientip"
	"github.com/dmitrymomot/shopfront/pkg/ratelimiter"
)

// RateLimitConfig configures the RateLimit middleware.
type RateLimitConfig struct {
	// Limiter is required.
	Limiter *ratelimiter.Limiter
	// KeyFunc extracts the limiting key (default: client IP).
	KeyFunc func(r *http.Request) string
	// OnDenied is notified of every rejected request.
	OnDenied func(key string)
	// SetHeaders adds X-RateLimit-Limit and X-RateLimit-Remaining to responses.
	SetHeaders bool
}

// RateLimit rejects requests with 429 once their key runs out of tokens.
// Denied responses always carry Retry-After.
func RateLimit[C handler.Context](cfg RateLimitConfig) handler.Middleware[C] {
	if cfg.Limiter == nil {
		panic("ratelimit middleware: limiter is required")
	}
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = clientip.GetIP
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			key := cfg.KeyFunc(ctx.Request())
			result := cfg.Limiter.Allow(key)

			var resp handler.Response
			if result.Allowed {
				resp = next(ctx)
			} else {
				if cfg.OnDenied != nil {
					cfg.OnDenied(key)
				}
				resp = response.Error(response.ErrTooManyRequests)
			}
			return withRateLimitHeaders(resp, result, cfg.SetHeaders)
		}
	}
}

func withRateLimitHeaders(resp handler.Response, result ratelimiter.Result, full bool) handler.Response {
	if result.Allowed && !full {
		return resp
	}
	return func(w http.ResponseWriter, r *http.Request) error {
		if full {
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(0, result.Remaining)))
		}
		if !result.Allowed {
			secs := int(math.Ceil(result.RetryAfter.Seconds()))
			w.Header().Set("Retry-After", strconv.Itoa(max(1, secs)))
		}
		return resp(w, r)
	}
}
