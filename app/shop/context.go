package shop

import (
	"net/http"

	"github.com/dmitrymomot/shopfront/app/shop/store"
	"github.com/dmitrymomot/shopfront/core/binder"
	"github.com/dmitrymomot/shopfront/core/router"
	"github.com/dmitrymomot/shopfront/core/session"
	"github.com/dmitrymomot/shopfront/middleware"
)

// Context is the request context of every stage and handler.
type Context struct {
	*router.Context
}

func newContext(w http.ResponseWriter, r *http.Request) *Context {
	return &Context{Context: router.NewContext(w, r)}
}

// Session returns the session attached by the session stage.
func (c *Context) Session() *session.Session[SessionData] {
	return middleware.MustSession[SessionData](c)
}

// Flash returns the read-once messages of the session.
func (c *Context) Flash() *middleware.Flashes {
	return middleware.FlashFrom(c)
}

// User returns the signed-in user, if any.
func (c *Context) User() (store.User, bool) {
	return middleware.UserFrom[store.User](c)
}

// IsAuthenticated reads the flag mirrored from the session.
func (c *Context) IsAuthenticated() bool {
	return middleware.IsAuthenticated(c)
}

// Bind decodes the already parsed form into v.
func (c *Context) Bind(v any) error {
	return binder.Form()(c.Request(), v)
}

// BindQuery decodes the query string into v using `query` tags.
func (c *Context) BindQuery(v any) error {
	return binder.Query()(c.Request(), v)
}

// BindPath decodes route params into v using `path` tags.
func (c *Context) BindPath(v any) error {
	return binder.Path(router.URLParam)(c.Request(), v)
}
