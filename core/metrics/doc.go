// Package metrics exposes Prometheus metrics for the HTTP pipeline and its
// background jobs on a private registry.
//
//	m := metrics.New("shop")
//	r.Get("/metrics", metrics.Handler[*shop.Context](m))
package metrics
