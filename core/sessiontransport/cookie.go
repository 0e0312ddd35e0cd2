package sessiontransport

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrymomot/shopfront/core/cookie"
	"github.com/dmitrymomot/shopfront/core/session"
	"github.com/dmitrymomot/shopfront/pkg/clientip"
)

// Cookie provides HTTP cookie-based session transport.
// It stores Session.Token as the cookie value (signed via cookie.Manager).
type Cookie[Data any] struct {
	manager  *session.Manager[Data]
	cookies  *cookie.Manager
	name     string
	clientIP func(*http.Request) string
}

// CookieOption configures a Cookie transport.
type CookieOption func(*cookieOptions)

type cookieOptions struct {
	clientIP func(*http.Request) string
}

// WithClientIP sets how new sessions record the client address
// (default: clientip.GetIP, the peer address).
func WithClientIP(f func(*http.Request) string) CookieOption {
	return func(o *cookieOptions) {
		if f != nil {
			o.clientIP = f
		}
	}
}

// NewCookie creates a new cookie-based session transport.
func NewCookie[Data any](mgr *session.Manager[Data], cookies *cookie.Manager, name string, opts ...CookieOption) *Cookie[Data] {
	if name == "" {
		name = DefaultCookieConfig().CookieName
	}
	o := cookieOptions{clientIP: clientip.GetIP}
	for _, opt := range opts {
		opt(&o)
	}
	return &Cookie[Data]{
		manager:  mgr,
		cookies:  cookies,
		name:     name,
		clientIP: o.clientIP,
	}
}

// Name returns the cookie name.
func (c *Cookie[Data]) Name() string {
	return c.name
}

// Load returns the session referenced by the request cookie, or a new
// anonymous session when the cookie is missing or no longer valid.
func (c *Cookie[Data]) Load(r *http.Request) (session.Session[Data], error) {
	token, err := c.cookies.GetSigned(r, c.name)
	if err != nil {
		return c.fresh(r)
	}

	sess, err := c.manager.GetByToken(r.Context(), token)
	switch {
	case err == nil:
		return sess, nil
	case errors.Is(err, session.ErrNotFound), errors.Is(err, session.ErrExpired):
		return c.fresh(r)
	default:
		return session.Session[Data]{}, errors.Join(ErrLoadSession, err)
	}
}

// Save persists the session and keeps the cookie in sync with it.
func (c *Cookie[Data]) Save(ctx context.Context, w http.ResponseWriter, sess session.Session[Data]) error {
	stored, err := c.manager.Store(ctx, sess)
	if errors.Is(err, session.ErrNotAuthenticated) {
		c.cookies.Delete(w, c.name)
		return nil
	}
	if err != nil {
		return err
	}
	if !stored.IsModified() {
		return nil
	}

	maxAge := int(time.Until(stored.ExpiresAt).Seconds())
	if maxAge <= 0 {
		c.cookies.Delete(w, c.name)
		return nil
	}
	return c.cookies.SetSigned(w, c.name, stored.Token,
		cookie.WithHTTPOnly(true),
		cookie.WithSameSite(http.SameSiteLaxMode),
		cookie.WithMaxAge(maxAge),
	)
}

func (c *Cookie[Data]) fresh(r *http.Request) (session.Session[Data], error) {
	return c.manager.New(session.NewSessionParams{
		IP:        c.clientIP(r),
		UserAgent: r.UserAgent(),
	})
}
