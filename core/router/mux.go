package router

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/shopfront/core/handler"
)

var supportedMethods = []string{
	http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
	http.MethodPatch, http.MethodDelete, http.MethodOptions,
}

type mux[C handler.Context] struct {
	top         *chi.Mux
	chi         chi.Router
	middlewares []handler.Middleware[C]
	hasRoutes   *bool
	inline      bool
}

func newMux[C handler.Context]() *mux[C] {
	top := chi.NewRouter()
	noop := func(http.ResponseWriter, *http.Request) {}
	top.NotFound(noop)
	top.MethodNotAllowed(noop)
	return &mux[C]{
		top:       top,
		chi:       top,
		hasRoutes: new(bool),
	}
}

func (m *mux[C]) Get(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodGet, pattern, h)
}

func (m *mux[C]) Post(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodPost, pattern, h)
}

func (m *mux[C]) Put(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodPut, pattern, h)
}

func (m *mux[C]) Patch(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodPatch, pattern, h)
}

func (m *mux[C]) Delete(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodDelete, pattern, h)
}

func (m *mux[C]) Head(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodHead, pattern, h)
}

func (m *mux[C]) Handle(pattern string, h handler.HandlerFunc[C]) {
	m.handle("", pattern, h)
}

func (m *mux[C]) Method(pattern string, h handler.HandlerFunc[C], methods ...string) {
	if len(methods) == 0 {
		panic(fmt.Errorf("%w: no methods provided", ErrInvalidMethod))
	}
	seen := make(map[string]bool, len(methods))
	for _, method := range methods {
		method = strings.ToUpper(method)
		if !slices.Contains(supportedMethods, method) {
			panic(fmt.Errorf("%w: %s", ErrInvalidMethod, method))
		}
		if seen[method] {
			continue
		}
		seen[method] = true
		m.handle(method, pattern, h)
	}
}

// Use appends middleware. Like chi, all middleware must be set before routes.
func (m *mux[C]) Use(middlewares ...handler.Middleware[C]) {
	if !m.inline && *m.hasRoutes {
		panic(ErrMiddlewareAfterRoutes)
	}
	m.middlewares = append(m.middlewares, middlewares...)
}

func (m *mux[C]) With(middlewares ...handler.Middleware[C]) Router[C] {
	stack := slices.Clone(m.middlewares)
	return &mux[C]{
		top:         m.top,
		chi:         m.chi,
		middlewares: append(stack, middlewares...),
		hasRoutes:   m.hasRoutes,
		inline:      true,
	}
}

func (m *mux[C]) Group(fn func(r Router[C])) Router[C] {
	im := m.With()
	if fn != nil {
		fn(im)
	}
	return im
}

func (m *mux[C]) Route(pattern string, fn func(r Router[C])) Router[C] {
	if fn == nil {
		panic(fmt.Errorf("%w on '%s'", ErrNilSubrouter, pattern))
	}
	var sub *mux[C]
	m.chi.Route(pattern, func(r chi.Router) {
		sub = &mux[C]{
			top:         m.top,
			chi:         r,
			middlewares: slices.Clone(m.middlewares),
			hasRoutes:   new(bool),
		}
		fn(sub)
	})
	*m.hasRoutes = true
	return sub
}

func (m *mux[C]) Routes() []Route {
	var routes []Route
	_ = chi.Walk(m.top, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, Route{Method: method, Pattern: route})
		return nil
	})
	return routes
}

func (m *mux[C]) Dispatch(ctx C) (handler.Response, bool) {
	req := ctx.Request()
	found := &match[C]{}
	m.top.ServeHTTP(discardWriter{}, req.WithContext(context.WithValue(req.Context(), matchKey{}, found)))
	if found.handler == nil {
		return nil, false
	}

	ctx.SetValue(paramsKey{}, &Params{pattern: found.pattern, values: found.params})
	return found.handler(ctx), true
}

func (m *mux[C]) handle(method, pattern string, h handler.HandlerFunc[C]) {
	if pattern == "" || pattern[0] != '/' {
		panic(fmt.Errorf("%w: '%s'", ErrInvalidPattern, pattern))
	}
	if h == nil {
		panic(fmt.Errorf("%w: '%s'", ErrNilHandler, pattern))
	}
	*m.hasRoutes = true

	ep := endpoint[C]{h: handler.Chain(h, m.middlewares...)}
	if method == "" {
		m.chi.Handle(pattern, ep)
		return
	}
	m.chi.Method(method, pattern, ep)
}

type matchKey struct{}

// match collects the outcome of a chi lookup.
type match[C handler.Context] struct {
	handler handler.HandlerFunc[C]
	pattern string
	params  map[string]string
}

// endpoint is what chi sees: it records the typed handler instead of serving.
type endpoint[C handler.Context] struct {
	h handler.HandlerFunc[C]
}

func (e endpoint[C]) ServeHTTP(_ http.ResponseWriter, r *http.Request) {
	found, ok := r.Context().Value(matchKey{}).(*match[C])
	if !ok {
		return
	}
	found.handler = e.h

	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return
	}
	found.pattern = rctx.RoutePattern()
	if n := len(rctx.URLParams.Keys); n > 0 {
		found.params = make(map[string]string, n)
		for i, key := range rctx.URLParams.Keys {
			if key == "*" || i >= len(rctx.URLParams.Values) {
				continue
			}
			found.params[key] = rctx.URLParams.Values[i]
		}
	}
}

// discardWriter swallows anything chi might write during matching.
type discardWriter struct{}

func (discardWriter) Header() http.Header         { return http.Header{} }
func (discardWriter) Write(b []byte) (int, error) { return len(b), nil }
func (discardWriter) WriteHeader(int)             {}
