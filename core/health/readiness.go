package health

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/shopfront/core/handler"
	"github.com/dmitrymomot/shopfront/core/logger"
	"github.com/dmitrymomot/shopfront/core/response"
)

// Check is a named dependency check.
type Check struct {
	Name string
	Fn   func(context.Context) error
}

// Readiness runs every check in order. Returns "READY" if all pass and
// 503 Service Unavailable on the first failure. Nil checks are skipped so
// optional backends can be passed unconditionally.
//
//	router.Get("/health/ready", health.Readiness[*shop.Context](log,
//		health.Check{Name: "mongo", Fn: mongo.Healthcheck(client)},
//	))
func Readiness[C handler.Context](log *slog.Logger, checks ...Check) handler.HandlerFunc[C] {
	return func(ctx C) handler.Response {
		for _, c := range checks {
			if c.Fn == nil {
				continue
			}
			if err := c.Fn(ctx); err != nil {
				log.ErrorContext(ctx, "readiness check failed",
					logger.Component(c.Name),
					logger.Error(err),
				)
				return response.Error(response.ErrServiceUnavailable)
			}
		}

		return response.String("READY")
	}
}
