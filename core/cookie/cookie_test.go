package cookie_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/shopfront/core/cookie"
)

const (
	secretA = "0123456789abcdef0123456789abcdef"
	secretB = "fedcba9876543210fedcba9876543210"
)

// roundTrip copies Set-Cookie headers from a recorder into a new request.
func roundTrip(w *httptest.ResponseRecorder) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		r.AddCookie(c)
	}
	return r
}

func TestNew(t *testing.T) {
	t.Parallel()

	_, err := cookie.New(nil)
	assert.ErrorIs(t, err, cookie.ErrNoSecret)

	_, err = cookie.New([]string{"", ""})
	assert.ErrorIs(t, err, cookie.ErrNoSecret)

	_, err = cookie.New([]string{"short"})
	assert.ErrorIs(t, err, cookie.ErrSecretTooShort)

	m, err := cookie.New([]string{secretA})
	require.NoError(t, err)
	require.NotNil(t, m)
}

func TestSignedRoundTrip(t *testing.T) {
	t.Parallel()

	m, err := cookie.New([]string{secretA})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	require.NoError(t, m.SetSigned(w, "sid", "token-123", cookie.WithMaxAge(60)))

	set := w.Result().Cookies()
	require.Len(t, set, 1)
	assert.True(t, set[0].HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, set[0].SameSite)
	assert.Equal(t, "/", set[0].Path)
	assert.Equal(t, 60, set[0].MaxAge)
	assert.NotContains(t, set[0].Value, "token-123")

	got, err := m.GetSigned(roundTrip(w), "sid")
	require.NoError(t, err)
	assert.Equal(t, "token-123", got)
}

func TestSignedRejectsTampering(t *testing.T) {
	t.Parallel()

	m, err := cookie.New([]string{secretA})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	require.NoError(t, m.SetSigned(w, "sid", "token-123"))
	value := w.Result().Cookies()[0].Value
	encoded, sig, _ := strings.Cut(value, ".")

	tests := []struct {
		name  string
		value string
		err   error
	}{
		{"no separator", "abc", cookie.ErrInvalidFormat},
		{"bad encoding", "!!!." + sig, cookie.ErrInvalidFormat},
		{"wrong signature", encoded + ".AAAA", cookie.ErrInvalidSignature},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.AddCookie(&http.Cookie{Name: "sid", Value: tt.value})
			_, err := m.GetSigned(r, "sid")
			assert.ErrorIs(t, err, tt.err)
		})
	}

	_, err = m.GetSigned(httptest.NewRequest(http.MethodGet, "/", nil), "sid")
	assert.ErrorIs(t, err, cookie.ErrCookieNotFound)
}

func TestKeyRotation(t *testing.T) {
	t.Parallel()

	old, err := cookie.New([]string{secretA})
	require.NoError(t, err)
	rotated, err := cookie.New([]string{secretB, secretA})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	require.NoError(t, old.SetSigned(w, "sid", "v"))

	got, err := rotated.GetSigned(roundTrip(w), "sid")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestSizeLimit(t *testing.T) {
	t.Parallel()

	m, err := cookie.New([]string{secretA})
	require.NoError(t, err)

	err = m.Set(httptest.NewRecorder(), "big", strings.Repeat("x", cookie.MaxCookieSize))
	var tooLarge cookie.ErrCookieTooLarge
	require.ErrorAs(t, err, &tooLarge)
	assert.Equal(t, "big", tooLarge.Name)
}

func TestDelete(t *testing.T) {
	t.Parallel()

	m, err := cookie.New([]string{secretA})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	m.Delete(w, "sid")
	set := w.Result().Cookies()
	require.Len(t, set, 1)
	assert.Equal(t, -1, set[0].MaxAge)
	assert.Empty(t, set[0].Value)
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	m, err := cookie.NewFromConfig(cookie.Config{
		Secrets:  " " + secretA + " , ," + secretB,
		Path:     "/",
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	require.NoError(t, m.Set(w, "k", "v"))
	c := w.Result().Cookies()[0]
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)

	_, err = cookie.NewFromConfig(cookie.Config{})
	assert.ErrorIs(t, err, cookie.ErrNoSecret)
}
