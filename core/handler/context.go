package handler

import (
	"context"
	"net/http"
)

// Context is the request-scoped contract shared by the pipeline, the router
// and application handlers.
type Context interface {
	context.Context
	Request() *http.Request
	ResponseWriter() http.ResponseWriter
	Param(key string) string
	SetValue(key, val any)
}

// Value returns the value stored under key when it has type T.
func Value[T any](ctx context.Context, key any) (T, bool) {
	v, ok := ctx.Value(key).(T)
	return v, ok
}
