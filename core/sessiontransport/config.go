package sessiontransport

import (
	"github.com/dmitrymomot/shopfront/core/cookie"
	"github.com/dmitrymomot/shopfront/core/session"
)

// CookieConfig provides environment-based configuration for the cookie transport.
type CookieConfig struct {
	CookieName string `env:"SESSION_COOKIE_NAME" envDefault:"sid"`
}

// DefaultCookieConfig returns a CookieConfig with defaults.
func DefaultCookieConfig() CookieConfig {
	return CookieConfig{CookieName: "sid"}
}

// NewCookieFromConfig creates a cookie transport from configuration.
func NewCookieFromConfig[Data any](cfg CookieConfig, mgr *session.Manager[Data], cookies *cookie.Manager, opts ...CookieOption) *Cookie[Data] {
	return NewCookie(mgr, cookies, cfg.CookieName, opts...)
}
