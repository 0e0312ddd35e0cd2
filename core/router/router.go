package router

import (
	"github.com/dmitrymomot/shopfront/core/handler"
)

// Router registers typed handlers and dispatches requests to them.
// Matching is delegated to chi; handlers and middleware stay typed on C.
type Router[C handler.Context] interface {
	Routes

	Get(pattern string, h handler.HandlerFunc[C])
	Post(pattern string, h handler.HandlerFunc[C])
	Put(pattern string, h handler.HandlerFunc[C])
	Patch(pattern string, h handler.HandlerFunc[C])
	Delete(pattern string, h handler.HandlerFunc[C])
	Head(pattern string, h handler.HandlerFunc[C])

	// Handle registers h for every method.
	Handle(pattern string, h handler.HandlerFunc[C])
	// Method registers h for the listed methods.
	Method(pattern string, h handler.HandlerFunc[C], methods ...string)

	Use(middlewares ...handler.Middleware[C])
	With(middlewares ...handler.Middleware[C]) Router[C]
	Group(fn func(r Router[C])) Router[C]
	Route(pattern string, fn func(r Router[C])) Router[C]

	// Dispatch runs the handler matching the request and reports whether one
	// matched. Unknown paths and known paths with another method both report
	// false, so the caller decides how to answer.
	Dispatch(ctx C) (handler.Response, bool)
}

// Routes provides route introspection.
type Routes interface {
	Routes() []Route
}

// Route describes a registered route.
type Route struct {
	Method  string
	Pattern string
}

// New creates an empty router.
func New[C handler.Context]() Router[C] {
	return newMux[C]()
}
