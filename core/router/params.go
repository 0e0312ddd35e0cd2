package router

import (
	"net/http"
)

type paramsKey struct{}

// Params holds the URL parameters and pattern of the matched route.
type Params struct {
	pattern string
	values  map[string]string
}

// Get returns the named URL parameter or "".
func (p *Params) Get(key string) string {
	if p == nil {
		return ""
	}
	return p.values[key]
}

// Pattern returns the route pattern that matched, e.g. "/products/{productId}".
func (p *Params) Pattern() string {
	if p == nil {
		return ""
	}
	return p.pattern
}

// ParamsFromRequest returns the params of the dispatched route, or nil before dispatch.
func ParamsFromRequest(r *http.Request) *Params {
	p, _ := r.Context().Value(paramsKey{}).(*Params)
	return p
}

// URLParam returns a URL parameter of the dispatched route.
func URLParam(r *http.Request, key string) string {
	return ParamsFromRequest(r).Get(key)
}

// RoutePattern returns the matched route pattern, or "" when nothing matched.
func RoutePattern(r *http.Request) string {
	return ParamsFromRequest(r).Pattern()
}
