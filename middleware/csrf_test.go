package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/shopfront/core/handler"
	"github.com/dmitrymomot/shopfront/core/response"
	"github.com/dmitrymomot/shopfront/core/router"
	"github.com/dmitrymomot/shopfront/middleware"
)

func TestCSRF(t *testing.T) {
	t.Parallel()

	fx := newSessionFixture(t)
	changes := 0
	rejected := 0
	r := router.New[*router.Context]()
	r.Get("/form", func(ctx *router.Context) handler.Response {
		return response.String(middleware.CSRFToken(ctx))
	})
	r.Post("/change", func(ctx *router.Context) handler.Response {
		changes++
		return response.String("changed")
	})

	p := newPipeline(
		middleware.BodyParser[*router.Context](middleware.BodyParserConfig{}),
		middleware.Session[*router.Context](middleware.SessionConfig[testData]{Transport: fx.transport}),
		middleware.CSRF[*router.Context](middleware.CSRFConfig[testData]{
			Secret:   csrfSecret,
			OnReject: func(*http.Request) { rejected++ },
		}),
		middleware.Routes(r),
	)
	c := newClient(p)

	w := c.postForm("/change", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_csrf_token")

	w = c.get("/form")
	require.Equal(t, http.StatusOK, w.Code)
	token := w.Body.String()
	require.NotEmpty(t, token)

	t.Run("every render gets a fresh valid token", func(t *testing.T) {
		second := c.get("/form").Body.String()
		assert.NotEqual(t, token, second)
		w := c.postForm("/change", url.Values{"_csrf": {second}}.Encode())
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("form field", func(t *testing.T) {
		w := c.postForm("/change", url.Values{"_csrf": {token}}.Encode())
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("header", func(t *testing.T) {
		for _, h := range []string{"csrf-token", "xsrf-token", "x-csrf-token", "x-xsrf-token"} {
			req := httptest.NewRequest(http.MethodPost, "/change", strings.NewReader(""))
			req.Header.Set(h, token)
			w := c.do(req)
			assert.Equal(t, http.StatusOK, w.Code, h)
		}
	})

	t.Run("forged token", func(t *testing.T) {
		w := c.postForm("/change", url.Values{"_csrf": {"abc-def"}}.Encode())
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	assert.Equal(t, 6, changes)
	assert.Equal(t, 2, rejected)
}

func TestCSRFSafeMethodsPass(t *testing.T) {
	t.Parallel()

	fx := newSessionFixture(t)
	r := router.New[*router.Context]()
	r.Head("/", func(ctx *router.Context) handler.Response { return response.NoContent() })

	p := newPipeline(
		middleware.Session[*router.Context](middleware.SessionConfig[testData]{Transport: fx.transport}),
		middleware.CSRF[*router.Context](middleware.CSRFConfig[testData]{Secret: csrfSecret}),
		middleware.Routes(r),
	)

	w := newClient(p).do(httptest.NewRequest(http.MethodHead, "/", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}
