package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/shopfront/core/cookie"
	"github.com/dmitrymomot/shopfront/core/flash"
	"github.com/dmitrymomot/shopfront/core/handler"
	"github.com/dmitrymomot/shopfront/core/pipeline"
	"github.com/dmitrymomot/shopfront/core/response"
	"github.com/dmitrymomot/shopfront/core/router"
	"github.com/dmitrymomot/shopfront/core/session"
	"github.com/dmitrymomot/shopfront/core/sessiontransport"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type testData struct {
	CSRFSecret string         `json:"csrf_secret"`
	Flash      flash.Messages `json:"flash"`
}

func csrfSecret(d *testData) *string { return &d.CSRFSecret }
func flashMessages(d *testData) *flash.Messages { return &d.Flash }

type sessionFixture struct {
	store     *session.MemoryStore[testData]
	transport *sessiontransport.Cookie[testData]
}

func newSessionFixture(t *testing.T) sessionFixture {
	t.Helper()
	cookies, err := cookie.New([]string{testSecret})
	require.NoError(t, err)
	store := session.NewMemoryStore[testData]()
	mgr := session.NewManager[testData](store)
	return sessionFixture{
		store:     store,
		transport: sessiontransport.NewCookie(mgr, cookies, "sid"),
	}
}

func newPipeline(stages ...pipeline.Stage[*router.Context]) *pipeline.Pipeline[*router.Context] {
	p := pipeline.New(
		pipeline.WithContextFactory(router.NewContext),
		pipeline.WithFailureHandler(func(_ *router.Context, err error) handler.Response {
			httpErr := response.AsHTTPError(err)
			return response.StringWithStatus("failed: "+httpErr.Code, httpErr.Status)
		}),
	)
	p.Use(stages...)
	return p
}

// client replays cookies between requests like a browser.
type client struct {
	h       http.Handler
	cookies map[string]*http.Cookie
}

func newClient(h http.Handler) *client {
	return &client{h: h, cookies: map[string]*http.Cookie{}}
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	c.h.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(c.cookies, ck.Name)
			continue
		}
		c.cookies[ck.Name] = ck
	}
	return w
}

func (c *client) get(path string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (c *client) postForm(path, form string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func newRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}
