package router

import (
	"context"
	"net/http"
	"time"
)

// Context is a minimal handler.Context. Applications usually embed it in
// their own context type to add typed accessors.
type Context struct {
	w http.ResponseWriter
	r *http.Request
}

// NewContext wraps a request and its writer.
func NewContext(w http.ResponseWriter, r *http.Request) *Context {
	return &Context{w: w, r: r}
}

func (c *Context) Deadline() (time.Time, bool) { return c.r.Context().Deadline() }
func (c *Context) Done() <-chan struct{}       { return c.r.Context().Done() }
func (c *Context) Err() error                  { return c.r.Context().Err() }
func (c *Context) Value(key any) any           { return c.r.Context().Value(key) }

// Request returns the current request, including values added by SetValue.
func (c *Context) Request() *http.Request { return c.r }

func (c *Context) ResponseWriter() http.ResponseWriter { return c.w }

// Param returns a URL parameter of the dispatched route.
func (c *Context) Param(key string) string { return URLParam(c.r, key) }

// SetValue stores a request-scoped value on the request context.
func (c *Context) SetValue(key, val any) {
	c.r = c.r.WithContext(context.WithValue(c.r.Context(), key, val))
}
