// Package health provides liveness and readiness handlers.
//
//	r.Get("/health/live", health.Liveness[*shop.Context])
//	r.Get("/health/ready", health.Readiness[*shop.Context](log,
//		health.Check{Name: "mongo", Fn: mongo.Healthcheck(client)},
//		health.Check{Name: "redis", Fn: redisCheck},
//	))
package health
