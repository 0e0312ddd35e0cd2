package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/shopfront/core/handler"
	"github.com/dmitrymomot/shopfront/core/pipeline"
	"github.com/dmitrymomot/shopfront/core/response"
	"github.com/dmitrymomot/shopfront/core/router"
	"github.com/dmitrymomot/shopfront/core/session"
	"github.com/dmitrymomot/shopfront/middleware"
)

func sessionRoutes() router.Router[*router.Context] {
	r := router.New[*router.Context]()
	r.Get("/", func(ctx *router.Context) handler.Response {
		return response.String("home")
	})
	r.Get("/whoami", func(ctx *router.Context) handler.Response {
		sess := middleware.MustSession[testData](ctx)
		return response.String(sess.UserID.String())
	})
	r.Post("/login", func(ctx *router.Context) handler.Response {
		sess := middleware.MustSession[testData](ctx)
		if err := sess.Authenticate(uuid.MustParse(ctx.Request().FormValue("id"))); err != nil {
			return response.Error(err)
		}
		return response.Redirect("/")
	})
	r.Post("/login-then-crash", func(ctx *router.Context) handler.Response {
		sess := middleware.MustSession[testData](ctx)
		if err := sess.Authenticate(uuid.MustParse(ctx.Request().FormValue("id"))); err != nil {
			return response.Error(err)
		}
		panic("after login")
	})
	r.Post("/logout", func(ctx *router.Context) handler.Response {
		middleware.MustSession[testData](ctx).Logout()
		return response.Redirect("/")
	})
	return r
}

func TestSessionAnonymousIsNotPersisted(t *testing.T) {
	t.Parallel()

	fx := newSessionFixture(t)
	p := newPipeline(
		middleware.BodyParser[*router.Context](middleware.BodyParserConfig{}),
		middleware.Session[*router.Context](middleware.SessionConfig[testData]{Transport: fx.transport}),
		middleware.Routes(sessionRoutes()),
	)

	w := newClient(p).get("/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Result().Cookies())
	assert.Equal(t, 0, fx.store.Len())
}

func TestSessionLoginLogout(t *testing.T) {
	t.Parallel()

	fx := newSessionFixture(t)
	p := newPipeline(
		middleware.BodyParser[*router.Context](middleware.BodyParserConfig{}),
		middleware.Session[*router.Context](middleware.SessionConfig[testData]{Transport: fx.transport}),
		middleware.Routes(sessionRoutes()),
	)
	c := newClient(p)
	id := uuid.New()

	w := c.postForm("/login", "id="+id.String())
	require.Equal(t, http.StatusFound, w.Code)
	require.Contains(t, c.cookies, "sid")
	assert.Equal(t, 1, fx.store.Len())

	w = c.get("/whoami")
	assert.Equal(t, id.String(), w.Body.String())

	c.postForm("/logout", "")
	assert.NotContains(t, c.cookies, "sid")
	assert.Equal(t, 0, fx.store.Len())

	w = c.get("/whoami")
	assert.Equal(t, uuid.Nil.String(), w.Body.String())
}

func TestSessionSavedWhenHandlerPanics(t *testing.T) {
	t.Parallel()

	fx := newSessionFixture(t)
	p := newPipeline(
		middleware.BodyParser[*router.Context](middleware.BodyParserConfig{}),
		middleware.Session[*router.Context](middleware.SessionConfig[testData]{Transport: fx.transport}),
		middleware.Routes(sessionRoutes()),
	)
	c := newClient(p)
	id := uuid.New()

	w := c.postForm("/login-then-crash", "id="+id.String())
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	require.Contains(t, c.cookies, "sid")
	assert.Equal(t, 1, fx.store.Len())

	w = c.get("/whoami")
	assert.Equal(t, id.String(), w.Body.String())
}

type failingTransport struct {
	loadErr error
	saveErr error
}

func (f failingTransport) Load(*http.Request) (session.Session[testData], error) {
	if f.loadErr != nil {
		return session.Session[testData]{}, f.loadErr
	}
	return session.New[testData](session.NewSessionParams{}, 0)
}

func (f failingTransport) Save(context.Context, http.ResponseWriter, session.Session[testData]) error {
	return f.saveErr
}

func TestSessionStoreFailures(t *testing.T) {
	t.Parallel()

	boom := errors.New("store unavailable")
	tests := []struct {
		name      string
		transport failingTransport
		handled   bool
	}{
		{name: "load", transport: failingTransport{loadErr: boom}, handled: false},
		{name: "save", transport: failingTransport{saveErr: boom}, handled: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handled := false
			p := newPipeline(
				middleware.Session[*router.Context](middleware.SessionConfig[testData]{Transport: tt.transport}),
				pipeline.Stage[*router.Context]{
					Name: "handler",
					Enter: func(ctx *router.Context) pipeline.Outcome {
						handled = true
						return pipeline.Respond(response.String("ok"))
					},
				},
			)

			w := httptest.NewRecorder()
			p.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.NotContains(t, w.Body.String(), "ok")
			assert.Equal(t, tt.handled, handled)
		})
	}
}

func TestRequireAuth(t *testing.T) {
	t.Parallel()

	fx := newSessionFixture(t)
	r := sessionRoutes()
	r.With(middleware.RequireAuth[*router.Context, testData]("/login")).Get("/admin", func(ctx *router.Context) handler.Response {
		return response.String("admin")
	})
	p := newPipeline(
		middleware.BodyParser[*router.Context](middleware.BodyParserConfig{}),
		middleware.Session[*router.Context](middleware.SessionConfig[testData]{Transport: fx.transport}),
		middleware.Routes(r),
	)
	c := newClient(p)

	w := c.get("/admin")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	c.postForm("/login", "id="+uuid.NewString())
	w = c.get("/admin")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin", w.Body.String())
}
