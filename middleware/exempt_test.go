package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/shopfront/core/handler"
	"github.com/dmitrymomot/shopfront/core/response"
	"github.com/dmitrymomot/shopfront/core/router"
	"github.com/dmitrymomot/shopfront/middleware"
)

func TestExemptRunsBeforeCSRF(t *testing.T) {
	t.Parallel()

	fx := newSessionFixture(t)
	orders := 0
	createOrder := func(ctx *router.Context) handler.Response {
		orders++
		return response.Redirect("/orders")
	}

	r := sessionRoutes()
	r.Get("/token", func(ctx *router.Context) handler.Response {
		return response.String(middleware.CSRFToken(ctx))
	})

	p := newPipeline(
		middleware.BodyParser[*router.Context](middleware.BodyParserConfig{}),
		middleware.Session[*router.Context](middleware.SessionConfig[testData]{Transport: fx.transport}),
		middleware.Exempt(http.MethodPost, "/create-order", createOrder,
			middleware.RequireAuth[*router.Context, testData]("/login")),
		middleware.CSRF[*router.Context](middleware.CSRFConfig[testData]{Secret: csrfSecret}),
		middleware.Routes(r),
	)
	assert.Equal(t, []string{"body-parser", "session", "create-order", "csrf", "routes"}, p.Names())

	c := newClient(p)

	w := c.postForm("/create-order", "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.Equal(t, 0, orders)

	token := c.get("/token").Body.String()
	require.NotEmpty(t, token)
	w = c.postForm("/login", url.Values{"id": {uuid.NewString()}, "_csrf": {token}}.Encode())
	require.Equal(t, http.StatusFound, w.Code)

	w = c.postForm("/create-order", "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, 1, orders)

	w = c.do(httptest.NewRequest(http.MethodGet, "/create-order", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
