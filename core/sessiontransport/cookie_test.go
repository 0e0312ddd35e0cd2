package sessiontransport_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/shopfront/core/cookie"
	"github.com/dmitrymomot/shopfront/core/session"
	"github.com/dmitrymomot/shopfront/core/sessiontransport"
)

type data struct {
	Note string
}

const secret = "0123456789abcdef0123456789abcdef"

func setup(t *testing.T) (*sessiontransport.Cookie[data], *session.MemoryStore[data]) {
	t.Helper()
	store := session.NewMemoryStore[data]()
	mgr := session.NewManager[data](store)
	cookies, err := cookie.New([]string{secret})
	require.NoError(t, err)
	return sessiontransport.NewCookie(mgr, cookies, "sid"), store
}

func withCookies(w *httptest.ResponseRecorder) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		r.AddCookie(c)
	}
	return r
}

func TestCookieClientIP(t *testing.T) {
	t.Parallel()
	cookies, err := cookie.New([]string{secret})
	require.NoError(t, err)
	transport := sessiontransport.NewCookie(session.NewManager[data](session.NewMemoryStore[data]()), cookies, "sid",
		sessiontransport.WithClientIP(func(r *http.Request) string { return r.Header.Get("X-Test-Client") }),
	)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Test-Client", "203.0.113.9")
	r.Header.Set("X-Forwarded-For", "198.51.100.1")

	sess, err := transport.Load(r)
	require.NoError(t, err)
	assert.Equal(t, "203.0.113.9", sess.IP)
}

func TestCookieLoadFresh(t *testing.T) {
	t.Parallel()
	transport, store := setup(t)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("User-Agent", "test-agent")
	r.RemoteAddr = "192.0.2.1:1234"

	sess, err := transport.Load(r)
	require.NoError(t, err)
	assert.False(t, sess.IsAuthenticated())
	assert.Equal(t, "192.0.2.1", sess.IP)
	assert.Equal(t, "test-agent", sess.UserAgent)

	w := httptest.NewRecorder()
	require.NoError(t, transport.Save(context.Background(), w, sess))
	assert.Empty(t, w.Result().Cookies(), "unmodified session must not set a cookie")
	assert.Equal(t, 0, store.Len())
}

func TestCookieRoundTrip(t *testing.T) {
	t.Parallel()
	transport, store := setup(t)
	ctx := context.Background()

	sess, err := transport.Load(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	sess.SetData(data{Note: "hello"})

	w := httptest.NewRecorder()
	require.NoError(t, transport.Save(ctx, w, sess))
	require.Len(t, w.Result().Cookies(), 1)
	c := w.Result().Cookies()[0]
	assert.Equal(t, "sid", c.Name)
	assert.True(t, c.HttpOnly)
	assert.Positive(t, c.MaxAge)
	assert.Equal(t, 1, store.Len())

	loaded, err := transport.Load(withCookies(w))
	require.NoError(t, err)
	assert.Equal(t, sess.ID, loaded.ID)
	assert.Equal(t, "hello", loaded.Data.Note)
}

func TestCookieAuthenticateRotatesCookie(t *testing.T) {
	t.Parallel()
	transport, _ := setup(t)
	ctx := context.Background()

	sess, err := transport.Load(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	sess.MarkModified()
	first := httptest.NewRecorder()
	require.NoError(t, transport.Save(ctx, first, sess))

	loaded, err := transport.Load(withCookies(first))
	require.NoError(t, err)
	require.NoError(t, loaded.Authenticate(uuid.New()))
	second := httptest.NewRecorder()
	require.NoError(t, transport.Save(ctx, second, loaded))

	require.Len(t, second.Result().Cookies(), 1)
	assert.NotEqual(t, first.Result().Cookies()[0].Value, second.Result().Cookies()[0].Value)

	_, err = transport.Load(withCookies(first))
	require.NoError(t, err)
	again, err := transport.Load(withCookies(second))
	require.NoError(t, err)
	assert.True(t, again.IsAuthenticated())
}

func TestCookieLogoutClearsCookie(t *testing.T) {
	t.Parallel()
	transport, store := setup(t)
	ctx := context.Background()

	sess, err := transport.Load(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	require.NoError(t, sess.Authenticate(uuid.New()))
	require.NoError(t, transport.Save(ctx, httptest.NewRecorder(), sess))
	require.Equal(t, 1, store.Len())

	sess.Logout()
	w := httptest.NewRecorder()
	require.NoError(t, transport.Save(ctx, w, sess))

	assert.Equal(t, 0, store.Len())
	require.Len(t, w.Result().Cookies(), 1)
	assert.Negative(t, w.Result().Cookies()[0].MaxAge)
}

func TestCookieTamperedTokenGivesFreshSession(t *testing.T) {
	t.Parallel()
	transport, _ := setup(t)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "sid", Value: "forged.value"})

	sess, err := transport.Load(r)
	require.NoError(t, err)
	assert.False(t, sess.IsAuthenticated())
}

func TestCookieExpiredSessionGivesFreshSession(t *testing.T) {
	t.Parallel()
	store := session.NewMemoryStore[data]()
	cookies, err := cookie.New([]string{secret})
	require.NoError(t, err)
	transport := sessiontransport.NewCookie(session.NewManager[data](store), cookies, "sid")

	old, err := session.New[data](session.NewSessionParams{}, -time.Minute)
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), &old))

	w := httptest.NewRecorder()
	require.NoError(t, cookies.SetSigned(w, "sid", old.Token))

	sess, err := transport.Load(withCookies(w))
	require.NoError(t, err)
	assert.NotEqual(t, old.ID, sess.ID)
}

type failingStore struct {
	*session.MemoryStore[data]
}

func (failingStore) GetByToken(context.Context, string) (*session.Session[data], error) {
	return nil, errors.New("connection refused")
}

func TestCookieStoreFailure(t *testing.T) {
	t.Parallel()
	cookies, err := cookie.New([]string{secret})
	require.NoError(t, err)
	store := failingStore{session.NewMemoryStore[data]()}
	transport := sessiontransport.NewCookie(session.NewManager[data](store), cookies, "sid")

	w := httptest.NewRecorder()
	require.NoError(t, cookies.SetSigned(w, "sid", "whatever"))

	_, err = transport.Load(withCookies(w))
	assert.ErrorIs(t, err, sessiontransport.ErrLoadSession)
}
