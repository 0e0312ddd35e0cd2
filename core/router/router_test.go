package router_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/shopfront/core/handler"
	"github.com/dmitrymomot/shopfront/core/response"
	"github.com/dmitrymomot/shopfront/core/router"
)

type testContext struct {
	w http.ResponseWriter
	r *http.Request
}

func (c *testContext) Deadline() (time.Time, bool)        { return c.r.Context().Deadline() }
func (c *testContext) Done() <-chan struct{}              { return c.r.Context().Done() }
func (c *testContext) Err() error                         { return c.r.Context().Err() }
func (c *testContext) Value(key any) any                  { return c.r.Context().Value(key) }
func (c *testContext) Request() *http.Request             { return c.r }
func (c *testContext) ResponseWriter() http.ResponseWriter { return c.w }
func (c *testContext) Param(key string) string            { return router.URLParam(c.r, key) }
func (c *testContext) SetValue(key, val any) {
	c.r = c.r.WithContext(context.WithValue(c.r.Context(), key, val))
}

func dispatch(t *testing.T, r router.Router[*testContext], method, path string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	w := httptest.NewRecorder()
	ctx := &testContext{w: w, r: httptest.NewRequest(method, path, nil)}
	resp, ok := r.Dispatch(ctx)
	if ok {
		require.NotNil(t, resp)
		require.NoError(t, resp(w, ctx.Request()))
	}
	return w, ok
}

func text(s string) handler.HandlerFunc[*testContext] {
	return func(ctx *testContext) handler.Response { return response.String(s) }
}

func tag(name string) handler.Middleware[*testContext] {
	return func(next handler.HandlerFunc[*testContext]) handler.HandlerFunc[*testContext] {
		return func(ctx *testContext) handler.Response {
			resp := next(ctx)
			return func(w http.ResponseWriter, r *http.Request) error {
				w.Header().Add("X-Mw", name)
				return resp(w, r)
			}
		}
	}
}

func TestDispatchMatchesMethodAndPath(t *testing.T) {
	t.Parallel()

	r := router.New[*testContext]()
	r.Get("/", text("index"))
	r.Post("/cart", text("added"))
	r.Get("/products/{productId}", func(ctx *testContext) handler.Response {
		return response.String(ctx.Param("productId") + "@" + router.RoutePattern(ctx.Request()))
	})

	w, ok := dispatch(t, r, http.MethodGet, "/")
	require.True(t, ok)
	assert.Equal(t, "index", w.Body.String())

	w, ok = dispatch(t, r, http.MethodPost, "/cart")
	require.True(t, ok)
	assert.Equal(t, "added", w.Body.String())

	w, ok = dispatch(t, r, http.MethodGet, "/products/abc")
	require.True(t, ok)
	assert.Equal(t, "abc@/products/{productId}", w.Body.String())
}

func TestDispatchFallsThrough(t *testing.T) {
	t.Parallel()

	r := router.New[*testContext]()
	r.Get("/cart", text("cart"))

	tests := []struct {
		name   string
		method string
		path   string
	}{
		{"unknown path", http.MethodGet, "/nope"},
		{"wrong method", http.MethodDelete, "/cart"},
		{"unknown nested", http.MethodGet, "/admin/products"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w, ok := dispatch(t, r, tt.method, tt.path)
			assert.False(t, ok)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Empty(t, w.Body.String())
		})
	}
}

func TestMiddlewareScopes(t *testing.T) {
	t.Parallel()

	r := router.New[*testContext]()
	r.Use(tag("global"))
	r.Get("/", text("index"))
	r.With(tag("with")).Post("/login", text("login"))
	r.Group(func(g router.Router[*testContext]) {
		g.Use(tag("group"))
		g.Get("/orders", text("orders"))
	})
	r.Route("/admin", func(a router.Router[*testContext]) {
		a.Use(tag("admin"))
		a.Get("/products", text("admin products"))
	})

	tests := []struct {
		method string
		path   string
		tags   []string
	}{
		{http.MethodGet, "/", []string{"global"}},
		{http.MethodPost, "/login", []string{"global", "with"}},
		{http.MethodGet, "/orders", []string{"global", "group"}},
		{http.MethodGet, "/admin/products", []string{"global", "admin"}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			w, ok := dispatch(t, r, tt.method, tt.path)
			require.True(t, ok)
			assert.Equal(t, tt.tags, w.Header().Values("X-Mw"))
		})
	}
}

func TestRoutes(t *testing.T) {
	t.Parallel()

	r := router.New[*testContext]()
	r.Get("/", text("index"))
	r.Method("/cart-delete-item", text("x"), "post", "POST")
	r.Route("/admin", func(a router.Router[*testContext]) {
		a.Get("/add-product", text("form"))
	})

	var got []string
	for _, rt := range r.Routes() {
		got = append(got, rt.Method+" "+rt.Pattern)
	}
	assert.ElementsMatch(t, []string{"GET /", "POST /cart-delete-item", "GET /admin/add-product"}, got)
}

func TestRegistrationErrors(t *testing.T) {
	t.Parallel()

	r := router.New[*testContext]()
	assert.Panics(t, func() { r.Get("products", text("x")) })
	assert.Panics(t, func() { r.Get("/x", nil) })
	assert.Panics(t, func() { r.Method("/x", text("x")) })
	assert.Panics(t, func() { r.Method("/x", text("x"), "BREW") })
	assert.Panics(t, func() { r.Route("/x", nil) })

	r.Get("/", text("index"))
	assert.PanicsWithValue(t, router.ErrMiddlewareAfterRoutes, func() { r.Use(tag("late")) })
}

func TestParamsBeforeDispatch(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, router.ParamsFromRequest(req))
	assert.Empty(t, router.URLParam(req, "id"))
	assert.Empty(t, router.RoutePattern(req))
}
