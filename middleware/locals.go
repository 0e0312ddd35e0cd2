package middleware

import (
	"maps"

	"github.com/dmitrymomot/shopfront/core/handler"
)

// Keys of the view locals set by the stages.
const (
	LocalIsAuthenticated = "isAuthenticated"
	LocalCSRFToken       = "csrfToken"
)

type localsKey struct{}

// Locals is the per-request data every rendered view receives.
type Locals map[string]any

func locals(ctx handler.Context) Locals {
	if l, ok := handler.Value[Locals](ctx, localsKey{}); ok {
		return l
	}
	l := Locals{}
	ctx.SetValue(localsKey{}, l)
	return l
}

// SetLocal stores a view local for the current request.
func SetLocal(ctx handler.Context, key string, val any) {
	locals(ctx)[key] = val
}

// GetLocals returns a copy of the view locals collected so far.
func GetLocals(ctx handler.Context) Locals {
	l, ok := handler.Value[Locals](ctx, localsKey{})
	if !ok {
		return Locals{}
	}
	return maps.Clone(l)
}

// IsAuthenticated reads the mirrored authentication flag.
func IsAuthenticated(ctx handler.Context) bool {
	l, _ := handler.Value[Locals](ctx, localsKey{})
	v, _ := l[LocalIsAuthenticated].(bool)
	return v
}

// CSRFToken returns the token generated for this request, if any.
func CSRFToken(ctx handler.Context) string {
	l, _ := handler.Value[Locals](ctx, localsKey{})
	v, _ := l[LocalCSRFToken].(string)
	return v
}
